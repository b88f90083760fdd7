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

	"github.com/ecodeclub/emall/internal/shipping/internal/domain"
	"github.com/ego-component/egorm"
)

type ZoneDAO interface {
	Create(ctx context.Context, z Zone) (int64, error)
	FindActiveBySN(ctx context.Context, sn string) (Zone, error)
	List(ctx context.Context, offset, limit int) ([]Zone, error)
	Count(ctx context.Context) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status uint8) error
}

type ZoneGORMDAO struct {
	db *egorm.Component
}

func NewZoneGORMDAO(db *egorm.Component) ZoneDAO {
	return &ZoneGORMDAO{db: db}
}

func InitTables(db *egorm.Component) error {
	return db.AutoMigrate(&Zone{})
}

func (d *ZoneGORMDAO) Create(ctx context.Context, z Zone) (int64, error) {
	now := time.Now().UnixMilli()
	z.Ctime, z.Utime = now, now
	err := d.db.WithContext(ctx).Create(&z).Error
	return z.Id, err
}

func (d *ZoneGORMDAO) FindActiveBySN(ctx context.Context, sn string) (Zone, error) {
	var res Zone
	err := d.db.WithContext(ctx).
		Where("sn = ? AND status = ?", sn, domain.ZoneStatusActive.ToUint8()).
		First(&res).Error
	return res, err
}

func (d *ZoneGORMDAO) List(ctx context.Context, offset, limit int) ([]Zone, error) {
	var res []Zone
	err := d.db.WithContext(ctx).Offset(offset).Limit(limit).
		Order("id DESC").Find(&res).Error
	return res, err
}

func (d *ZoneGORMDAO) Count(ctx context.Context) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&Zone{}).Count(&count).Error
	return count, err
}

func (d *ZoneGORMDAO) UpdateStatus(ctx context.Context, id int64, status uint8) error {
	return d.db.WithContext(ctx).Model(&Zone{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status": status,
			"utime":  time.Now().UnixMilli(),
		}).Error
}

type Zone struct {
	Id            int64  `gorm:"primaryKey;autoIncrement;comment:配送点自增ID"`
	SN            string `gorm:"type:varchar(64);not null;uniqueIndex:uniq_zone_sn;comment:配送点序列号"`
	Name          string `gorm:"type:varchar(255);not null;comment:配送点名称"`
	Address       string `gorm:"type:varchar(512);not null;comment:配送点地址"`
	ContactPhone  string `gorm:"type:varchar(32);not null;comment:联系电话"`
	BusinessHours string `gorm:"type:varchar(255);not null;comment:营业时间"`
	BaseRate      int64  `gorm:"not null;comment:基础运费;单位为分"`
	// FreeShippingThreshold 为0表示该配送点没有免运费门槛
	FreeShippingThreshold int64 `gorm:"not null;default:0;comment:免运费门槛;单位为分;0表示无"`
	Status                uint8 `gorm:"type:tinyint unsigned;not null;default:2;comment:状态 1=停用 2=启用"`
	Ctime                 int64
	Utime                 int64
}
