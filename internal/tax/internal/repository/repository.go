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
	"github.com/ecodeclub/emall/internal/tax/internal/domain"
	"github.com/ecodeclub/emall/internal/tax/internal/repository/dao"
)

type ConfigRepository interface {
	Create(ctx context.Context, c domain.Config) (int64, error)
	ListActive(ctx context.Context) ([]domain.Config, error)
	List(ctx context.Context, offset, limit int) ([]domain.Config, error)
	Total(ctx context.Context) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status domain.ConfigStatus) error
}

func NewConfigRepository(d dao.ConfigDAO) ConfigRepository {
	return &configRepository{d: d}
}

type configRepository struct {
	d dao.ConfigDAO
}

func (r *configRepository) Create(ctx context.Context, c domain.Config) (int64, error) {
	return r.d.Create(ctx, dao.Config{
		Id:        c.ID,
		Name:      c.Name,
		RateBps:   c.RateBps,
		Regions:   c.Regions,
		IsDefault: c.IsDefault,
		Status:    c.Status.ToUint8(),
	})
}

func (r *configRepository) ListActive(ctx context.Context) ([]domain.Config, error) {
	cs, err := r.d.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return slice.Map(cs, func(idx int, src dao.Config) domain.Config {
		return r.toDomain(src)
	}), nil
}

func (r *configRepository) List(ctx context.Context, offset, limit int) ([]domain.Config, error) {
	cs, err := r.d.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	return slice.Map(cs, func(idx int, src dao.Config) domain.Config {
		return r.toDomain(src)
	}), nil
}

func (r *configRepository) Total(ctx context.Context) (int64, error) {
	return r.d.Count(ctx)
}

func (r *configRepository) UpdateStatus(ctx context.Context, id int64, status domain.ConfigStatus) error {
	return r.d.UpdateStatus(ctx, id, status.ToUint8())
}

func (r *configRepository) toDomain(c dao.Config) domain.Config {
	return domain.Config{
		ID:        c.Id,
		Name:      c.Name,
		RateBps:   c.RateBps,
		Regions:   c.Regions,
		IsDefault: c.IsDefault,
		Status:    domain.ConfigStatus(c.Status),
		Ctime:     c.Ctime,
		Utime:     c.Utime,
	}
}
