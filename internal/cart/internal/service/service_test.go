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

package service

import (
	"context"
	"testing"

	"github.com/ecodeclub/emall/internal/cart/internal/domain"
	"github.com/ecodeclub/emall/internal/cart/internal/repository/dao"
	"github.com/ecodeclub/emall/internal/product"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCartRepo struct {
	items map[int64][]domain.Item
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{items: make(map[int64][]domain.Item)}
}

func (f *fakeCartRepo) AddItem(_ context.Context, item domain.Item) error {
	items := f.items[item.UID]
	for i := range items {
		if items[i].SKUID == item.SKUID {
			items[i].Quantity += item.Quantity
			items[i].Price = item.Price
			return nil
		}
	}
	f.items[item.UID] = append(items, item)
	return nil
}

func (f *fakeCartRepo) List(_ context.Context, uid int64) ([]domain.Item, error) {
	return f.items[uid], nil
}

func (f *fakeCartRepo) UpdateQuantity(_ context.Context, uid, skuID, quantity int64) error {
	items := f.items[uid]
	for i := range items {
		if items[i].SKUID == skuID {
			items[i].Quantity = quantity
			return nil
		}
	}
	return dao.ErrItemNotFound
}

func (f *fakeCartRepo) RemoveItem(_ context.Context, uid, skuID int64) error {
	items := f.items[uid]
	for i := range items {
		if items[i].SKUID == skuID {
			f.items[uid] = append(items[:i], items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeCartRepo) Clear(_ context.Context, uid int64) error {
	delete(f.items, uid)
	return nil
}

type fakeProductService struct {
	skus map[string]product.SKU
}

func (f *fakeProductService) FindSPUByID(_ context.Context, _ int64) (product.SPU, error) {
	return product.SPU{}, product.ErrProductNotFound
}

func (f *fakeProductService) FindSKUByID(_ context.Context, _ int64) (product.SKU, error) {
	return product.SKU{}, product.ErrProductNotFound
}

func (f *fakeProductService) FindSKUBySN(_ context.Context, sn string) (product.SKU, error) {
	sku, ok := f.skus[sn]
	if !ok {
		return product.SKU{}, product.ErrProductNotFound
	}
	return sku, nil
}

func (f *fakeProductService) SaveProduct(_ context.Context, _ product.SPU) (int64, error) {
	return 0, nil
}

func (f *fakeProductService) DecrementStock(_ context.Context, _, _ int64) error {
	return nil
}

func (f *fakeProductService) RestoreStock(_ context.Context, _, _ int64) error {
	return nil
}

func newTestService() (Service, *fakeCartRepo) {
	repo := newFakeCartRepo()
	svc := NewService(repo, &fakeProductService{
		skus: map[string]product.SKU{
			"SKU001": {ID: 1, SN: "SKU001", Name: "会员月卡", Price: 990},
			"SKU002": {ID: 2, SN: "SKU002", Name: "会员年卡", Price: 9900},
		},
	})
	return svc, repo
}

func TestService_AddItem(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, 100, "SKU001", 2))
	// 重复加购同一 SKU,数量合并
	require.NoError(t, svc.AddItem(ctx, 100, "SKU001", 1))
	require.NoError(t, svc.AddItem(ctx, 100, "SKU002", 1))

	items, err := svc.List(ctx, 100)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(3), items[0].Quantity)
	assert.Equal(t, int64(2970), items[0].Amount())

	assert.ErrorIs(t, svc.AddItem(ctx, 100, "SKU001", 0), ErrInvalidQuantity)
	assert.ErrorIs(t, svc.AddItem(ctx, 100, "SKU404", 1), product.ErrProductNotFound)
}

func TestService_UpdateQuantity(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, 100, "SKU001", 2))
	require.NoError(t, svc.UpdateQuantity(ctx, 100, 1, 5))

	items, err := svc.List(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(5), items[0].Quantity)

	assert.ErrorIs(t, svc.UpdateQuantity(ctx, 100, 999, 1), ErrItemNotFound)
	assert.ErrorIs(t, svc.UpdateQuantity(ctx, 100, 1, 0), ErrInvalidQuantity)
}

func TestService_Clear(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, 100, "SKU001", 1))
	require.NoError(t, svc.Clear(ctx, 100))
	items, err := svc.List(ctx, 100)
	require.NoError(t, err)
	assert.Empty(t, items)

	// 清空空购物车同样成功
	require.NoError(t, svc.Clear(ctx, 100))
}

func TestService_RemoveItem(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, 100, "SKU001", 1))
	require.NoError(t, svc.RemoveItem(ctx, 100, 1))
	// 幂等,再删一次也成功
	require.NoError(t, svc.RemoveItem(ctx, 100, 1))

	items, err := svc.List(ctx, 100)
	require.NoError(t, err)
	assert.Empty(t, items)
}
