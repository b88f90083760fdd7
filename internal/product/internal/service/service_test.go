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
	"sync"
	"testing"

	"github.com/ecodeclub/emall/internal/product/internal/domain"
	"github.com/ecodeclub/emall/internal/product/internal/repository/dao"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProductRepo 模拟 DAO 的条件更新语义:
// 扣减与库存校验在同一临界区内完成
type fakeProductRepo struct {
	mu   sync.Mutex
	skus map[int64]domain.SKU
}

func newFakeProductRepo(skus ...domain.SKU) *fakeProductRepo {
	m := make(map[int64]domain.SKU, len(skus))
	for _, sku := range skus {
		m[sku.ID] = sku
	}
	return &fakeProductRepo{skus: m}
}

func (f *fakeProductRepo) FindSPUByID(_ context.Context, _ int64) (domain.SPU, error) {
	return domain.SPU{}, dao.ErrProductNotFound
}

func (f *fakeProductRepo) FindSKUByID(_ context.Context, id int64) (domain.SKU, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sku, ok := f.skus[id]
	if !ok || sku.Status != domain.StatusOnShelf {
		return domain.SKU{}, dao.ErrProductNotFound
	}
	return sku, nil
}

func (f *fakeProductRepo) FindSKUBySN(_ context.Context, sn string) (domain.SKU, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, sku := range f.skus {
		if sku.SN == sn && sku.Status == domain.StatusOnShelf {
			return sku, nil
		}
	}
	return domain.SKU{}, dao.ErrProductNotFound
}

func (f *fakeProductRepo) SaveProduct(_ context.Context, _ domain.SPU) (int64, error) {
	return 1, nil
}

func (f *fakeProductRepo) DecrementStock(_ context.Context, skuID, quantity int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	sku, ok := f.skus[skuID]
	if !ok || sku.Stock < quantity {
		return dao.ErrInsufficientStock
	}
	sku.Stock -= quantity
	f.skus[skuID] = sku
	return nil
}

func (f *fakeProductRepo) RestoreStock(_ context.Context, skuID, quantity int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	sku := f.skus[skuID]
	sku.Stock += quantity
	f.skus[skuID] = sku
	return nil
}

func (f *fakeProductRepo) stock(skuID int64) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.skus[skuID].Stock
}

func TestService_DecrementStock(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name      string
		stock     int64
		quantity  int64
		wantStock int64
		assertErr assert.ErrorAssertionFunc
	}{
		{
			name:      "库存充足",
			stock:     10,
			quantity:  3,
			wantStock: 7,
			assertErr: assert.NoError,
		},
		{
			name:      "恰好扣完",
			stock:     5,
			quantity:  5,
			wantStock: 0,
			assertErr: assert.NoError,
		},
		{
			name:      "库存不足",
			stock:     2,
			quantity:  3,
			wantStock: 2,
			assertErr: func(t assert.TestingT, err error, i ...interface{}) bool {
				return assert.ErrorIs(t, err, ErrInsufficientStock)
			},
		},
		{
			name:      "非法数量",
			stock:     10,
			quantity:  0,
			wantStock: 10,
			assertErr: assert.Error,
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			repo := newFakeProductRepo(domain.SKU{
				ID: 1, SN: "SKU001", Stock: tc.stock, Status: domain.StatusOnShelf,
			})
			svc := NewService(repo)
			err := svc.DecrementStock(context.Background(), 1, tc.quantity)
			tc.assertErr(t, err)
			assert.Equal(t, tc.wantStock, repo.stock(1))
		})
	}
}

func TestService_DecrementStock_并发不超卖(t *testing.T) {
	t.Parallel()
	repo := newFakeProductRepo(domain.SKU{
		ID: 1, SN: "SKU001", Stock: 10, Status: domain.StatusOnShelf,
	})
	svc := NewService(repo)

	const workers = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := svc.DecrementStock(context.Background(), 1, 1); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	assert.Equal(t, int64(0), repo.stock(1))
}

func TestService_RestoreStock(t *testing.T) {
	t.Parallel()
	repo := newFakeProductRepo(domain.SKU{
		ID: 1, SN: "SKU001", Stock: 3, Status: domain.StatusOnShelf,
	})
	svc := NewService(repo)

	require.NoError(t, svc.DecrementStock(context.Background(), 1, 3))
	require.NoError(t, svc.RestoreStock(context.Background(), 1, 3))
	assert.Equal(t, int64(3), repo.stock(1))

	assert.Error(t, svc.RestoreStock(context.Background(), 1, -1))
}

func TestService_FindSKUBySN(t *testing.T) {
	t.Parallel()
	repo := newFakeProductRepo(
		domain.SKU{ID: 1, SN: "SKU001", Price: 100, Stock: 5, Status: domain.StatusOnShelf},
		domain.SKU{ID: 2, SN: "SKU002", Price: 200, Stock: 5, Status: domain.StatusOffShelf},
	)
	svc := NewService(repo)

	sku, err := svc.FindSKUBySN(context.Background(), "SKU001")
	require.NoError(t, err)
	assert.Equal(t, int64(1), sku.ID)

	_, err = svc.FindSKUBySN(context.Background(), "SKU002")
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = svc.FindSKUBySN(context.Background(), "SKU404")
	assert.ErrorIs(t, err, ErrProductNotFound)
}
