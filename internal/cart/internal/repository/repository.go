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
	"github.com/ecodeclub/emall/internal/cart/internal/domain"
	"github.com/ecodeclub/emall/internal/cart/internal/repository/dao"
)

type CartRepository interface {
	AddItem(ctx context.Context, item domain.Item) error
	List(ctx context.Context, uid int64) ([]domain.Item, error)
	UpdateQuantity(ctx context.Context, uid, skuID, quantity int64) error
	RemoveItem(ctx context.Context, uid, skuID int64) error
	Clear(ctx context.Context, uid int64) error
}

type cartRepository struct {
	dao dao.CartDAO
}

func NewCartRepository(d dao.CartDAO) CartRepository {
	return &cartRepository{dao: d}
}

func (c *cartRepository) AddItem(ctx context.Context, item domain.Item) error {
	return c.dao.Upsert(ctx, dao.CartItem{
		UID:      item.UID,
		SKUID:    item.SKUID,
		SKUSN:    item.SKUSN,
		Name:     item.Name,
		Image:    item.Image,
		Price:    item.Price,
		Quantity: item.Quantity,
	})
}

func (c *cartRepository) List(ctx context.Context, uid int64) ([]domain.Item, error) {
	items, err := c.dao.FindByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	return slice.Map(items, func(idx int, src dao.CartItem) domain.Item {
		return domain.Item{
			ID:       src.ID,
			UID:      src.UID,
			SKUID:    src.SKUID,
			SKUSN:    src.SKUSN,
			Name:     src.Name,
			Image:    src.Image,
			Price:    src.Price,
			Quantity: src.Quantity,
			Utime:    src.Utime,
		}
	}), nil
}

func (c *cartRepository) UpdateQuantity(ctx context.Context, uid, skuID, quantity int64) error {
	return c.dao.UpdateQuantity(ctx, uid, skuID, quantity)
}

func (c *cartRepository) RemoveItem(ctx context.Context, uid, skuID int64) error {
	return c.dao.Delete(ctx, uid, skuID)
}

func (c *cartRepository) Clear(ctx context.Context, uid int64) error {
	return c.dao.DeleteByUID(ctx, uid)
}
