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

	"github.com/ecodeclub/emall/internal/tax/internal/domain"
	"github.com/ego-component/egorm"
)

type ConfigDAO interface {
	Create(ctx context.Context, c Config) (int64, error)
	ListActive(ctx context.Context) ([]Config, error)
	List(ctx context.Context, offset, limit int) ([]Config, error)
	Count(ctx context.Context) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status uint8) error
}

type ConfigGORMDAO struct {
	db *egorm.Component
}

func NewConfigGORMDAO(db *egorm.Component) ConfigDAO {
	return &ConfigGORMDAO{db: db}
}

func InitTables(db *egorm.Component) error {
	return db.AutoMigrate(&Config{})
}

func (d *ConfigGORMDAO) Create(ctx context.Context, c Config) (int64, error) {
	now := time.Now().UnixMilli()
	c.Ctime, c.Utime = now, now
	err := d.db.WithContext(ctx).Create(&c).Error
	return c.Id, err
}

func (d *ConfigGORMDAO) ListActive(ctx context.Context) ([]Config, error) {
	var res []Config
	err := d.db.WithContext(ctx).
		Where("status = ?", domain.ConfigStatusActive.ToUint8()).
		Find(&res).Error
	return res, err
}

func (d *ConfigGORMDAO) List(ctx context.Context, offset, limit int) ([]Config, error) {
	var res []Config
	err := d.db.WithContext(ctx).Offset(offset).Limit(limit).
		Order("id DESC").Find(&res).Error
	return res, err
}

func (d *ConfigGORMDAO) Count(ctx context.Context) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&Config{}).Count(&count).Error
	return count, err
}

func (d *ConfigGORMDAO) UpdateStatus(ctx context.Context, id int64, status uint8) error {
	return d.db.WithContext(ctx).Model(&Config{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status": status,
			"utime":  time.Now().UnixMilli(),
		}).Error
}

type Config struct {
	Id        int64  `gorm:"primaryKey;autoIncrement;comment:税率配置自增ID"`
	Name      string `gorm:"type:varchar(255);not null;comment:配置名称"`
	RateBps   int64  `gorm:"not null;comment:税率基点,1600表示16%"`
	Regions   string `gorm:"type:varchar(1024);not null;default:'';comment:适用地区,逗号分隔"`
	IsDefault bool   `gorm:"not null;default:false;comment:是否兜底配置"`
	Status    uint8  `gorm:"type:tinyint unsigned;not null;default:2;comment:状态 1=禁用 2=生效"`
	Ctime     int64
	Utime     int64
}
