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

package dao

import (
	"context"
	"errors"
	"time"

	"github.com/ego-component/egorm"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrProductNotFound   = gorm.ErrRecordNotFound
	ErrInsufficientStock = errors.New("库存不足")
)

type ProductDAO interface {
	FindSPUByID(ctx context.Context, id int64) (SPU, error)
	FindSKUByID(ctx context.Context, id int64) (SKU, error)
	FindSKUBySN(ctx context.Context, sn string) (SKU, error)
	FindSKUsBySPUID(ctx context.Context, spuID int64) ([]SKU, error)
	SaveProduct(ctx context.Context, spu SPU, skus []SKU) (int64, error)
	DecrementStock(ctx context.Context, skuID, quantity int64) error
	RestoreStock(ctx context.Context, skuID, quantity int64) error
}

type ProductGORMDAO struct {
	db *egorm.Component
}

func NewProductGORMDAO(db *egorm.Component) ProductDAO {
	return &ProductGORMDAO{db: db}
}

func (d *ProductGORMDAO) FindSPUByID(ctx context.Context, id int64) (SPU, error) {
	var res SPU
	err := d.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, 2).
		First(&res).Error
	return res, err
}

func (d *ProductGORMDAO) FindSKUByID(ctx context.Context, id int64) (SKU, error) {
	var res SKU
	err := d.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, 2).
		First(&res).Error
	return res, err
}

func (d *ProductGORMDAO) FindSKUBySN(ctx context.Context, sn string) (SKU, error) {
	var res SKU
	err := d.db.WithContext(ctx).
		Where("sn = ? AND status = ?", sn, 2).
		First(&res).Error
	return res, err
}

func (d *ProductGORMDAO) FindSKUsBySPUID(ctx context.Context, spuID int64) ([]SKU, error) {
	var res []SKU
	err := d.db.WithContext(ctx).
		Where("spu_id = ?", spuID).
		Find(&res).Error
	return res, err
}

// SaveProduct 同步上游目录事件,按 SN 幂等地插入或更新
func (d *ProductGORMDAO) SaveProduct(ctx context.Context, spu SPU, skus []SKU) (int64, error) {
	var id int64
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UnixMilli()
		spu.Ctime, spu.Utime = now, now
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "sn"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "description", "status", "utime"}),
		}).Create(&spu).Error
		if err != nil {
			return err
		}
		id = spu.ID
		for i := range skus {
			skus[i].SPUID = spu.ID
			skus[i].Ctime, skus[i].Utime = now, now
			err = tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "sn"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"name", "description", "price", "buying_price",
					"image", "status", "utime"}),
			}).Create(&skus[i]).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	return id, err
}

// DecrementStock 条件扣减,库存不足时一行都不会更新,
// 并发下同一 SKU 不会超卖。
func (d *ProductGORMDAO) DecrementStock(ctx context.Context, skuID, quantity int64) error {
	res := d.db.WithContext(ctx).Model(&SKU{}).
		Where("id = ? AND stock >= ?", skuID, quantity).
		Updates(map[string]any{
			"stock": gorm.Expr("`stock` - ?", quantity),
			"utime": time.Now().UnixMilli(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// RestoreStock 回补库存,用于下单失败补偿及取消订单
func (d *ProductGORMDAO) RestoreStock(ctx context.Context, skuID, quantity int64) error {
	return d.db.WithContext(ctx).Model(&SKU{}).
		Where("id = ?", skuID).
		Updates(map[string]any{
			"stock": gorm.Expr("`stock` + ?", quantity),
			"utime": time.Now().UnixMilli(),
		}).Error
}

type SPU struct {
	ID          int64  `gorm:"primaryKey,autoIncrement"`
	SN          string `gorm:"type:varchar(255);not null;uniqueIndex:uniq_product_spu_sn;comment:SPU序列号"`
	Name        string `gorm:"type:varchar(255);not null;comment:SPU名称"`
	Description string `gorm:"not null;comment:商品描述"`
	Status      uint8  `gorm:"type:tinyint unsigned;not null;default:1;comment:状态 1=下架 2=上架"`
	Ctime       int64
	Utime       int64
}

func (SPU) TableName() string {
	return "spus"
}

type SKU struct {
	ID          int64  `gorm:"primaryKey,autoIncrement"`
	SN          string `gorm:"type:varchar(255);not null;uniqueIndex:uniq_product_sku_sn;comment:SKU序列号"`
	SPUID       int64  `gorm:"not null;index:idx_spu_id;comment:SPU自增ID"`
	Name        string `gorm:"type:varchar(255);not null;comment:SKU名称"`
	Description string `gorm:"not null;comment:SKU描述"`
	Price       int64  `gorm:"not null;comment:销售单价,单位为分"`
	BuyingPrice int64  `gorm:"not null;comment:进货单价,单位为分"`
	Stock       int64  `gorm:"not null;comment:可售库存"`
	Image       string `gorm:"type:varchar(512);comment:商品图片"`
	Status      uint8  `gorm:"type:tinyint unsigned;not null;default:1;comment:状态 1=下架 2=上架"`
	Ctime       int64
	Utime       int64
}

func (SKU) TableName() string {
	return "skus"
}

func InitTables(db *egorm.Component) error {
	return db.AutoMigrate(&SPU{}, &SKU{})
}
