// Copyright 2023 ecodeclub
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package repository

import (
	"context"

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/emall/internal/shipping/internal/domain"
	"github.com/ecodeclub/emall/internal/shipping/internal/repository/dao"
)

type ZoneRepository interface {
	Create(ctx context.Context, z domain.Zone) (int64, error)
	FindActiveBySN(ctx context.Context, sn string) (domain.Zone, error)
	List(ctx context.Context, offset, limit int) ([]domain.Zone, error)
	Total(ctx context.Context) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status domain.ZoneStatus) error
}

func NewZoneRepository(d dao.ZoneDAO) ZoneRepository {
	return &zoneRepository{d: d}
}

type zoneRepository struct {
	d dao.ZoneDAO
}

func (r *zoneRepository) Create(ctx context.Context, z domain.Zone) (int64, error) {
	return r.d.Create(ctx, r.toEntity(z))
}

func (r *zoneRepository) FindActiveBySN(ctx context.Context, sn string) (domain.Zone, error) {
	z, err := r.d.FindActiveBySN(ctx, sn)
	if err != nil {
		return domain.Zone{}, err
	}
	return r.toDomain(z), nil
}

func (r *zoneRepository) List(ctx context.Context, offset, limit int) ([]domain.Zone, error) {
	zs, err := r.d.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	return slice.Map(zs, func(idx int, src dao.Zone) domain.Zone {
		return r.toDomain(src)
	}), nil
}

func (r *zoneRepository) Total(ctx context.Context) (int64, error) {
	return r.d.Count(ctx)
}

func (r *zoneRepository) UpdateStatus(ctx context.Context, id int64, status domain.ZoneStatus) error {
	return r.d.UpdateStatus(ctx, id, status.ToUint8())
}

func (r *zoneRepository) toEntity(z domain.Zone) dao.Zone {
	return dao.Zone{
		Id:                    z.ID,
		SN:                    z.SN,
		Name:                  z.Name,
		Address:               z.Address,
		ContactPhone:          z.ContactPhone,
		BusinessHours:         z.BusinessHours,
		BaseRate:              z.BaseRate,
		FreeShippingThreshold: z.FreeShippingThreshold,
		Status:                z.Status.ToUint8(),
	}
}

func (r *zoneRepository) toDomain(z dao.Zone) domain.Zone {
	return domain.Zone{
		ID:                    z.Id,
		SN:                    z.SN,
		Name:                  z.Name,
		Address:               z.Address,
		ContactPhone:          z.ContactPhone,
		BusinessHours:         z.BusinessHours,
		BaseRate:              z.BaseRate,
		FreeShippingThreshold: z.FreeShippingThreshold,
		Status:                domain.ZoneStatus(z.Status),
		Ctime:                 z.Ctime,
		Utime:                 z.Utime,
	}
}
