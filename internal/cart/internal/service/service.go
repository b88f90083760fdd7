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

	"github.com/ecodeclub/emall/internal/cart/internal/domain"
	"github.com/ecodeclub/emall/internal/cart/internal/repository"
	"github.com/ecodeclub/emall/internal/cart/internal/repository/dao"
	"github.com/ecodeclub/emall/internal/product"
)

var (
	ErrItemNotFound    = errors.New("购物车条目不存在")
	ErrInvalidQuantity = errors.New("非法购买数量")
)

//go:generate mockgen -source=service.go -destination=../../mocks/cart.mock.go -package=cartmocks -typed Service
type Service interface {
	AddItem(ctx context.Context, uid int64, skuSN string, quantity int64) error
	List(ctx context.Context, uid int64) ([]domain.Item, error)
	UpdateQuantity(ctx context.Context, uid, skuID, quantity int64) error
	RemoveItem(ctx context.Context, uid, skuID int64) error
	// Clear 清空购物车,幂等,支付完成后由订单侧调用
	Clear(ctx context.Context, uid int64) error
}

type service struct {
	repo       repository.CartRepository
	productSvc product.Service
}

func NewService(repo repository.CartRepository, productSvc product.Service) Service {
	return &service{repo: repo, productSvc: productSvc}
}

func (s *service) AddItem(ctx context.Context, uid int64, skuSN string, quantity int64) error {
	if quantity < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}
	sku, err := s.productSvc.FindSKUBySN(ctx, skuSN)
	if err != nil {
		return fmt.Errorf("商品SKU序列号非法: %w", err)
	}
	return s.repo.AddItem(ctx, domain.Item{
		UID:      uid,
		SKUID:    sku.ID,
		SKUSN:    sku.SN,
		Name:     sku.Name,
		Image:    sku.Image,
		Price:    sku.Price,
		Quantity: quantity,
	})
}

func (s *service) List(ctx context.Context, uid int64) ([]domain.Item, error) {
	return s.repo.List(ctx, uid)
}

func (s *service) UpdateQuantity(ctx context.Context, uid, skuID, quantity int64) error {
	if quantity < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}
	err := s.repo.UpdateQuantity(ctx, uid, skuID, quantity)
	if errors.Is(err, dao.ErrItemNotFound) {
		return fmt.Errorf("%w: uid=%d, sku id=%d", ErrItemNotFound, uid, skuID)
	}
	return err
}

func (s *service) RemoveItem(ctx context.Context, uid, skuID int64) error {
	return s.repo.RemoveItem(ctx, uid, skuID)
}

func (s *service) Clear(ctx context.Context, uid int64) error {
	return s.repo.Clear(ctx, uid)
}
