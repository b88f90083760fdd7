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
	"github.com/ecodeclub/emall/internal/product/internal/domain"
	"github.com/ecodeclub/emall/internal/product/internal/repository/dao"
)

type ProductRepository interface {
	FindSPUByID(ctx context.Context, id int64) (domain.SPU, error)
	FindSKUByID(ctx context.Context, id int64) (domain.SKU, error)
	FindSKUBySN(ctx context.Context, sn string) (domain.SKU, error)
	SaveProduct(ctx context.Context, spu domain.SPU) (int64, error)
	DecrementStock(ctx context.Context, skuID, quantity int64) error
	RestoreStock(ctx context.Context, skuID, quantity int64) error
}

type productRepository struct {
	dao dao.ProductDAO
}

func NewProductRepository(d dao.ProductDAO) ProductRepository {
	return &productRepository{dao: d}
}

func (p *productRepository) FindSPUByID(ctx context.Context, id int64) (domain.SPU, error) {
	spu, err := p.dao.FindSPUByID(ctx, id)
	if err != nil {
		return domain.SPU{}, err
	}
	skus, err := p.dao.FindSKUsBySPUID(ctx, spu.ID)
	if err != nil {
		return domain.SPU{}, err
	}
	res := p.spuToDomain(spu)
	res.SKUs = slice.Map(skus, func(idx int, src dao.SKU) domain.SKU {
		return p.skuToDomain(src)
	})
	return res, nil
}

func (p *productRepository) FindSKUByID(ctx context.Context, id int64) (domain.SKU, error) {
	sku, err := p.dao.FindSKUByID(ctx, id)
	if err != nil {
		return domain.SKU{}, err
	}
	return p.skuToDomain(sku), nil
}

func (p *productRepository) FindSKUBySN(ctx context.Context, sn string) (domain.SKU, error) {
	sku, err := p.dao.FindSKUBySN(ctx, sn)
	if err != nil {
		return domain.SKU{}, err
	}
	return p.skuToDomain(sku), nil
}

func (p *productRepository) SaveProduct(ctx context.Context, spu domain.SPU) (int64, error) {
	skus := slice.Map(spu.SKUs, func(idx int, src domain.SKU) dao.SKU {
		return p.skuToEntity(src)
	})
	return p.dao.SaveProduct(ctx, p.spuToEntity(spu), skus)
}

func (p *productRepository) DecrementStock(ctx context.Context, skuID, quantity int64) error {
	return p.dao.DecrementStock(ctx, skuID, quantity)
}

func (p *productRepository) RestoreStock(ctx context.Context, skuID, quantity int64) error {
	return p.dao.RestoreStock(ctx, skuID, quantity)
}

func (p *productRepository) spuToDomain(spu dao.SPU) domain.SPU {
	return domain.SPU{
		ID:     spu.ID,
		SN:     spu.SN,
		Name:   spu.Name,
		Desc:   spu.Description,
		Status: domain.Status(spu.Status),
	}
}

func (p *productRepository) spuToEntity(spu domain.SPU) dao.SPU {
	return dao.SPU{
		ID:          spu.ID,
		SN:          spu.SN,
		Name:        spu.Name,
		Description: spu.Desc,
		Status:      spu.Status.ToUint8(),
	}
}

func (p *productRepository) skuToDomain(sku dao.SKU) domain.SKU {
	return domain.SKU{
		ID:          sku.ID,
		SPUID:       sku.SPUID,
		SN:          sku.SN,
		Name:        sku.Name,
		Desc:        sku.Description,
		Price:       sku.Price,
		BuyingPrice: sku.BuyingPrice,
		Stock:       sku.Stock,
		Image:       sku.Image,
		Status:      domain.Status(sku.Status),
	}
}

func (p *productRepository) skuToEntity(sku domain.SKU) dao.SKU {
	return dao.SKU{
		ID:          sku.ID,
		SPUID:       sku.SPUID,
		SN:          sku.SN,
		Name:        sku.Name,
		Description: sku.Desc,
		Price:       sku.Price,
		BuyingPrice: sku.BuyingPrice,
		Stock:       sku.Stock,
		Image:       sku.Image,
		Status:      sku.Status.ToUint8(),
	}
}
