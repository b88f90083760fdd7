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
	"time"

	"github.com/ego-component/egorm"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrItemNotFound = gorm.ErrRecordNotFound

type CartDAO interface {
	Upsert(ctx context.Context, item CartItem) error
	FindByUID(ctx context.Context, uid int64) ([]CartItem, error)
	UpdateQuantity(ctx context.Context, uid, skuID, quantity int64) error
	Delete(ctx context.Context, uid, skuID int64) error
	DeleteByUID(ctx context.Context, uid int64) error
}

type CartGORMDAO struct {
	db *egorm.Component
}

func NewCartGORMDAO(db *egorm.Component) CartDAO {
	return &CartGORMDAO{db: db}
}

// Upsert 同一(uid, sku)重复加购时合并数量并刷新单价快照
func (d *CartGORMDAO) Upsert(ctx context.Context, item CartItem) error {
	now := time.Now().UnixMilli()
	item.Ctime, item.Utime = now, now
	return d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "uid"}, {Name: "sku_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity": gorm.Expr("`quantity` + ?", item.Quantity),
			"price":    item.Price,
			"utime":    now,
		}),
	}).Create(&item).Error
}

func (d *CartGORMDAO) FindByUID(ctx context.Context, uid int64) ([]CartItem, error) {
	var res []CartItem
	err := d.db.WithContext(ctx).
		Where("uid = ?", uid).
		Order("utime DESC").
		Find(&res).Error
	return res, err
}

func (d *CartGORMDAO) UpdateQuantity(ctx context.Context, uid, skuID, quantity int64) error {
	res := d.db.WithContext(ctx).Model(&CartItem{}).
		Where("uid = ? AND sku_id = ?", uid, skuID).
		Updates(map[string]any{
			"quantity": quantity,
			"utime":    time.Now().UnixMilli(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (d *CartGORMDAO) Delete(ctx context.Context, uid, skuID int64) error {
	return d.db.WithContext(ctx).
		Where("uid = ? AND sku_id = ?", uid, skuID).
		Delete(&CartItem{}).Error
}

// DeleteByUID 清空购物车,购物车本就为空时同样成功
func (d *CartGORMDAO) DeleteByUID(ctx context.Context, uid int64) error {
	return d.db.WithContext(ctx).
		Where("uid = ?", uid).
		Delete(&CartItem{}).Error
}

type CartItem struct {
	ID       int64  `gorm:"primaryKey,autoIncrement"`
	UID      int64  `gorm:"not null;uniqueIndex:uniq_uid_sku_id;comment:买家ID"`
	SKUID    int64  `gorm:"column:sku_id;not null;uniqueIndex:uniq_uid_sku_id;comment:SKU自增ID"`
	SKUSN    string `gorm:"column:sku_sn;type:varchar(255);not null;comment:SKU序列号"`
	Name     string `gorm:"type:varchar(255);not null;comment:SKU名称"`
	Image    string `gorm:"type:varchar(512);comment:商品图片"`
	Price    int64  `gorm:"not null;comment:加入时单价,单位为分"`
	Quantity int64  `gorm:"not null;comment:购买数量"`
	Ctime    int64
	Utime    int64
}

func (CartItem) TableName() string {
	return "cart_items"
}

func InitTables(db *egorm.Component) error {
	return db.AutoMigrate(&CartItem{})
}
