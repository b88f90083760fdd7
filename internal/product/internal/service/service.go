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
	"errors"
	"fmt"

	"github.com/ecodeclub/emall/internal/product/internal/domain"
	"github.com/ecodeclub/emall/internal/product/internal/repository"
	"github.com/ecodeclub/emall/internal/product/internal/repository/dao"
)

var (
	ErrProductNotFound   = errors.New("商品不存在")
	ErrInsufficientStock = errors.New("商品库存不足")
)

//go:generate mockgen -source=service.go -destination=../../mocks/product.mock.go -package=productmocks -typed Service
type Service interface {
	FindSPUByID(ctx context.Context, id int64) (domain.SPU, error)
	FindSKUByID(ctx context.Context, id int64) (domain.SKU, error)
	FindSKUBySN(ctx context.Context, sn string) (domain.SKU, error)
	SaveProduct(ctx context.Context, spu domain.SPU) (int64, error)
	// DecrementStock 扣减库存,库存不足返回 ErrInsufficientStock
	DecrementStock(ctx context.Context, skuID, quantity int64) error
	// RestoreStock 回补库存,与扣减严格一一对应
	RestoreStock(ctx context.Context, skuID, quantity int64) error
}

type service struct {
	repo repository.ProductRepository
}

func NewService(repo repository.ProductRepository) Service {
	return &service{repo: repo}
}

func (s *service) FindSPUByID(ctx context.Context, id int64) (domain.SPU, error) {
	spu, err := s.repo.FindSPUByID(ctx, id)
	if errors.Is(err, dao.ErrProductNotFound) {
		return domain.SPU{}, fmt.Errorf("%w: spu id=%d", ErrProductNotFound, id)
	}
	return spu, err
}

func (s *service) FindSKUByID(ctx context.Context, id int64) (domain.SKU, error) {
	sku, err := s.repo.FindSKUByID(ctx, id)
	if errors.Is(err, dao.ErrProductNotFound) {
		return domain.SKU{}, fmt.Errorf("%w: sku id=%d", ErrProductNotFound, id)
	}
	return sku, err
}

func (s *service) FindSKUBySN(ctx context.Context, sn string) (domain.SKU, error) {
	sku, err := s.repo.FindSKUBySN(ctx, sn)
	if errors.Is(err, dao.ErrProductNotFound) {
		return domain.SKU{}, fmt.Errorf("%w: sku sn=%s", ErrProductNotFound, sn)
	}
	return sku, err
}

func (s *service) SaveProduct(ctx context.Context, spu domain.SPU) (int64, error) {
	return s.repo.SaveProduct(ctx, spu)
}

func (s *service) DecrementStock(ctx context.Context, skuID, quantity int64) error {
	if quantity <= 0 {
		return fmt.Errorf("非法扣减数量: %d", quantity)
	}
	err := s.repo.DecrementStock(ctx, skuID, quantity)
	if errors.Is(err, dao.ErrInsufficientStock) {
		return fmt.Errorf("%w: sku id=%d", ErrInsufficientStock, skuID)
	}
	return err
}

func (s *service) RestoreStock(ctx context.Context, skuID, quantity int64) error {
	if quantity <= 0 {
		return fmt.Errorf("非法回补数量: %d", quantity)
	}
	return s.repo.RestoreStock(ctx, skuID, quantity)
}
