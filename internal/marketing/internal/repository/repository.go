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
	"github.com/ecodeclub/emall/internal/marketing/internal/domain"
	"github.com/ecodeclub/emall/internal/marketing/internal/repository/dao"
)

type DiscountRepository interface {
	Create(ctx context.Context, d domain.Discount) (int64, error)
	FindByCode(ctx context.Context, code string) (domain.Discount, error)
	List(ctx context.Context, offset, limit int) ([]domain.Discount, error)
	Total(ctx context.Context) (int64, error)
	ConsumeUse(ctx context.Context, code string) error
	ReleaseUse(ctx context.Context, code string) error
	UpdateStatus(ctx context.Context, id int64, status domain.DiscountStatus) error
}

func NewDiscountRepository(d dao.DiscountDAO) DiscountRepository {
	return &discountRepository{d: d}
}

type discountRepository struct {
	d dao.DiscountDAO
}

func (r *discountRepository) Create(ctx context.Context, d domain.Discount) (int64, error) {
	return r.d.Create(ctx, r.toEntity(d))
}

func (r *discountRepository) FindByCode(ctx context.Context, code string) (domain.Discount, error) {
	d, err := r.d.FindByCode(ctx, code)
	if err != nil {
		return domain.Discount{}, err
	}
	return r.toDomain(d), nil
}

func (r *discountRepository) List(ctx context.Context, offset, limit int) ([]domain.Discount, error) {
	ds, err := r.d.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	return slice.Map(ds, func(idx int, src dao.Discount) domain.Discount {
		return r.toDomain(src)
	}), nil
}

func (r *discountRepository) Total(ctx context.Context) (int64, error) {
	return r.d.Count(ctx)
}

func (r *discountRepository) ConsumeUse(ctx context.Context, code string) error {
	return r.d.ConsumeUse(ctx, code)
}

func (r *discountRepository) ReleaseUse(ctx context.Context, code string) error {
	return r.d.ReleaseUse(ctx, code)
}

func (r *discountRepository) UpdateStatus(ctx context.Context, id int64, status domain.DiscountStatus) error {
	return r.d.UpdateStatus(ctx, id, status.ToUint8())
}

func (r *discountRepository) toEntity(d domain.Discount) dao.Discount {
	return dao.Discount{
		Id:          d.ID,
		Code:        d.Code,
		Type:        d.Type.ToUint8(),
		Value:       d.Value,
		MinPurchase: d.MinPurchase,
		MaxDiscount: d.MaxDiscount,
		UsageLimit:  d.UsageLimit,
		UsedCount:   d.UsedCount,
		StartAt:     d.StartAt,
		EndAt:       d.EndAt,
		Status:      d.Status.ToUint8(),
	}
}

func (r *discountRepository) toDomain(d dao.Discount) domain.Discount {
	return domain.Discount{
		ID:          d.Id,
		Code:        d.Code,
		Type:        domain.DiscountType(d.Type),
		Value:       d.Value,
		MinPurchase: d.MinPurchase,
		MaxDiscount: d.MaxDiscount,
		UsageLimit:  d.UsageLimit,
		UsedCount:   d.UsedCount,
		StartAt:     d.StartAt,
		EndAt:       d.EndAt,
		Status:      domain.DiscountStatus(d.Status),
		Ctime:       d.Ctime,
		Utime:       d.Utime,
	}
}
