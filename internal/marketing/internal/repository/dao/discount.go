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

	"github.com/ecodeclub/emall/internal/marketing/internal/domain"
	"github.com/ego-component/egorm"
	"gorm.io/gorm"
)

var (
	ErrDiscountNotFound = gorm.ErrRecordNotFound
	// ErrUsageExhausted 条件更新未命中,次数上限已被并发核销占满
	ErrUsageExhausted = errors.New("优惠码使用次数已耗尽")
)

type DiscountDAO interface {
	Create(ctx context.Context, d Discount) (int64, error)
	FindByCode(ctx context.Context, code string) (Discount, error)
	List(ctx context.Context, offset, limit int) ([]Discount, error)
	Count(ctx context.Context) (int64, error)
	ConsumeUse(ctx context.Context, code string) error
	ReleaseUse(ctx context.Context, code string) error
	UpdateStatus(ctx context.Context, id int64, status uint8) error
}

type DiscountGORMDAO struct {
	db *egorm.Component
}

func NewDiscountGORMDAO(db *egorm.Component) DiscountDAO {
	return &DiscountGORMDAO{db: db}
}

func InitTables(db *egorm.Component) error {
	return db.AutoMigrate(&Discount{})
}

func (d *DiscountGORMDAO) Create(ctx context.Context, discount Discount) (int64, error) {
	now := time.Now().UnixMilli()
	discount.Ctime, discount.Utime = now, now
	err := d.db.WithContext(ctx).Create(&discount).Error
	return discount.Id, err
}

func (d *DiscountGORMDAO) FindByCode(ctx context.Context, code string) (Discount, error) {
	var res Discount
	err := d.db.WithContext(ctx).Where("code = ?", code).First(&res).Error
	return res, err
}

func (d *DiscountGORMDAO) List(ctx context.Context, offset, limit int) ([]Discount, error) {
	var res []Discount
	err := d.db.WithContext(ctx).Offset(offset).Limit(limit).
		Order("id DESC").Find(&res).Error
	return res, err
}

func (d *DiscountGORMDAO) Count(ctx context.Context) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&Discount{}).Count(&count).Error
	return count, err
}

// ConsumeUse 核销一次使用次数。
// 必须是单条条件更新: 两个并发结账同时核销上限为1的优惠码时,只允许一个成功,
// 未命中的一方拿到 ErrUsageExhausted。
func (d *DiscountGORMDAO) ConsumeUse(ctx context.Context, code string) error {
	res := d.db.WithContext(ctx).Model(&Discount{}).
		Where("code = ? AND status = ? AND (usage_limit = 0 OR used_count < usage_limit)",
			code, domain.DiscountStatusActive.ToUint8()).
		Updates(map[string]any{
			"used_count": gorm.Expr("`used_count` + 1"),
			"utime":      time.Now().UnixMilli(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUsageExhausted
	}
	return nil
}

// ReleaseUse 回补一次使用次数,用于结账后续步骤失败时的补偿
func (d *DiscountGORMDAO) ReleaseUse(ctx context.Context, code string) error {
	return d.db.WithContext(ctx).Model(&Discount{}).
		Where("code = ? AND used_count > 0", code).
		Updates(map[string]any{
			"used_count": gorm.Expr("`used_count` - 1"),
			"utime":      time.Now().UnixMilli(),
		}).Error
}

func (d *DiscountGORMDAO) UpdateStatus(ctx context.Context, id int64, status uint8) error {
	return d.db.WithContext(ctx).Model(&Discount{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status": status,
			"utime":  time.Now().UnixMilli(),
		}).Error
}

type Discount struct {
	Id   int64  `gorm:"primaryKey;autoIncrement;comment:优惠码自增ID"`
	Code string `gorm:"type:varchar(64);not null;uniqueIndex:uniq_discount_code;comment:优惠码,统一大写"`
	Type uint8  `gorm:"type:tinyint unsigned;not null;comment:优惠类型 1=百分比 2=固定金额"`
	// Value 百分比类型为整数百分比, 固定金额类型单位为分
	Value       int64 `gorm:"not null;comment:优惠值"`
	MinPurchase int64 `gorm:"not null;default:0;comment:最低消费门槛;单位为分"`
	MaxDiscount int64 `gorm:"not null;default:0;comment:优惠封顶;单位为分;0表示不封顶"`
	UsageLimit  int64 `gorm:"not null;default:0;comment:使用次数上限;0表示不限"`
	UsedCount   int64 `gorm:"not null;default:0;comment:已使用次数"`
	StartAt     int64 `gorm:"not null;comment:生效时间"`
	EndAt       int64 `gorm:"not null;comment:失效时间"`
	Status      uint8 `gorm:"type:tinyint unsigned;not null;default:2;comment:状态 1=禁用 2=生效"`
	Ctime       int64
	Utime       int64
}
