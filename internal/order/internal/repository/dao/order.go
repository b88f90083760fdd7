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
)

var (
	ErrOrderNotFound = gorm.ErrRecordNotFound
	// ErrStatusConflict 条件更新一行未中,订单状态已被并发修改
	ErrStatusConflict = errors.New("订单状态已变更")
	// ErrPaymentStatusConflict 支付终态已落库,重复通知在此被挡下
	ErrPaymentStatusConflict = errors.New("订单支付状态已是终态")
)

type OrderDAO interface {
	CreateOrder(ctx context.Context, order Order, items []OrderItem) (int64, error)
	FindOrderBySN(ctx context.Context, sn string) (Order, error)
	FindOrderBySNAndBuyerID(ctx context.Context, sn string, buyerID int64) (Order, error)
	FindOrderItemsByOrderID(ctx context.Context, oid int64) ([]OrderItem, error)
	FindStatusHistoriesByOrderID(ctx context.Context, oid int64) ([]OrderStatusHistory, error)
	List(ctx context.Context, offset, limit int, uid int64) ([]Order, error)
	Total(ctx context.Context, uid int64) (int64, error)
	ListAll(ctx context.Context, offset, limit int, status uint8) ([]Order, error)
	TotalAll(ctx context.Context, status uint8) (int64, error)
	UpdateOrderPaymentInfo(ctx context.Context, buyerID, oid, pid int64, psn string) error
	UpdateStatus(ctx context.Context, sn string, from, to uint8, actor, note string) error
	CompleteOrderPayment(ctx context.Context, sn string, paymentID int64) error
	FailOrderPayment(ctx context.Context, sn string) error
	FindExpiredOrders(ctx context.Context, offset, limit int, ctime int64) ([]Order, error)
}

type OrderGORMDAO struct {
	db *egorm.Component
}

func NewOrderGORMDAO(db *egorm.Component) OrderDAO {
	return &OrderGORMDAO{db: db}
}

func (d *OrderGORMDAO) CreateOrder(ctx context.Context, order Order, items []OrderItem) (int64, error) {
	var oid int64
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UnixMilli()
		order.Ctime, order.Utime = now, now
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		oid = order.Id
		for i := range items {
			items[i].OrderId = oid
			items[i].Ctime, items[i].Utime = now, now
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		return tx.Create(&OrderStatusHistory{
			OrderId:    oid,
			FromStatus: 0,
			ToStatus:   order.Status,
			Actor:      "buyer",
			Note:       "创建订单",
			Ctime:      now,
		}).Error
	})
	return oid, err
}

func (d *OrderGORMDAO) FindOrderBySN(ctx context.Context, sn string) (Order, error) {
	var res Order
	err := d.db.WithContext(ctx).Where("sn = ?", sn).First(&res).Error
	return res, err
}

func (d *OrderGORMDAO) FindOrderBySNAndBuyerID(ctx context.Context, sn string, buyerID int64) (Order, error) {
	var res Order
	err := d.db.WithContext(ctx).
		Where("sn = ? AND buyer_id = ?", sn, buyerID).
		First(&res).Error
	return res, err
}

func (d *OrderGORMDAO) FindOrderItemsByOrderID(ctx context.Context, oid int64) ([]OrderItem, error) {
	var res []OrderItem
	err := d.db.WithContext(ctx).Where("order_id = ?", oid).Find(&res).Error
	return res, err
}

func (d *OrderGORMDAO) FindStatusHistoriesByOrderID(ctx context.Context, oid int64) ([]OrderStatusHistory, error) {
	var res []OrderStatusHistory
	err := d.db.WithContext(ctx).
		Where("order_id = ?", oid).
		Order("ctime ASC, id ASC").
		Find(&res).Error
	return res, err
}

func (d *OrderGORMDAO) List(ctx context.Context, offset, limit int, uid int64) ([]Order, error) {
	var res []Order
	err := d.db.WithContext(ctx).
		Where("buyer_id = ?", uid).
		Order("ctime DESC").
		Offset(offset).Limit(limit).
		Find(&res).Error
	return res, err
}

func (d *OrderGORMDAO) Total(ctx context.Context, uid int64) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&Order{}).
		Where("buyer_id = ?", uid).
		Count(&count).Error
	return count, err
}

// ListAll 管理端列表, status 为 0 时不过滤状态
func (d *OrderGORMDAO) ListAll(ctx context.Context, offset, limit int, status uint8) ([]Order, error) {
	var res []Order
	query := d.db.WithContext(ctx).Order("ctime DESC").Offset(offset).Limit(limit)
	if status != 0 {
		query = query.Where("status = ?", status)
	}
	err := query.Find(&res).Error
	return res, err
}

func (d *OrderGORMDAO) TotalAll(ctx context.Context, status uint8) (int64, error) {
	var count int64
	query := d.db.WithContext(ctx).Model(&Order{})
	if status != 0 {
		query = query.Where("status = ?", status)
	}
	err := query.Count(&count).Error
	return count, err
}

func (d *OrderGORMDAO) UpdateOrderPaymentInfo(ctx context.Context, buyerID, oid, pid int64, psn string) error {
	res := d.db.WithContext(ctx).Model(&Order{}).
		Where("id = ? AND buyer_id = ?", oid, buyerID).
		Updates(map[string]any{
			"payment_id": pid,
			"payment_sn": psn,
			"utime":      time.Now().UnixMilli(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// UpdateStatus 条件流转,并发修改时只有一方能更新成功,
// 成功方在同一事务内追加流转记录。
func (d *OrderGORMDAO) UpdateStatus(ctx context.Context, sn string, from, to uint8, actor, note string) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order Order
		if err := tx.Where("sn = ?", sn).First(&order).Error; err != nil {
			return err
		}
		now := time.Now().UnixMilli()
		res := tx.Model(&Order{}).
			Where("sn = ? AND status = ?", sn, from).
			Updates(map[string]any{"status": to, "utime": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStatusConflict
		}
		return tx.Create(&OrderStatusHistory{
			OrderId:    order.Id,
			FromStatus: from,
			ToStatus:   to,
			Actor:      actor,
			Note:       note,
			Ctime:      now,
		}).Error
	})
}

// CompleteOrderPayment 将支付标记为成功并使订单进入备货状态。
// WHERE payment_status != 2 保证重复的成功通知只有第一条生效。
func (d *OrderGORMDAO) CompleteOrderPayment(ctx context.Context, sn string, paymentID int64) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order Order
		if err := tx.Where("sn = ?", sn).First(&order).Error; err != nil {
			return err
		}
		now := time.Now().UnixMilli()
		res := tx.Model(&Order{}).
			Where("sn = ? AND payment_status != ?", sn, 2).
			Updates(map[string]any{
				"payment_status": 2,
				"payment_id":     paymentID,
				"status":         2,
				"utime":          now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrPaymentStatusConflict
		}
		return tx.Create(&OrderStatusHistory{
			OrderId:    order.Id,
			FromStatus: order.Status,
			ToStatus:   2,
			Actor:      "system",
			Note:       "支付成功",
			Ctime:      now,
		}).Error
	})
}

// FailOrderPayment 仅在支付仍处于待定时落终态失败
func (d *OrderGORMDAO) FailOrderPayment(ctx context.Context, sn string) error {
	res := d.db.WithContext(ctx).Model(&Order{}).
		Where("sn = ? AND payment_status = ?", sn, 1).
		Updates(map[string]any{
			"payment_status": 3,
			"utime":          time.Now().UnixMilli(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPaymentStatusConflict
	}
	return nil
}

func (d *OrderGORMDAO) FindExpiredOrders(ctx context.Context, offset, limit int, ctime int64) ([]Order, error) {
	var res []Order
	err := d.db.WithContext(ctx).
		Where("status = ? AND ctime <= ?", 1, ctime).
		Order("ctime ASC").
		Offset(offset).Limit(limit).
		Find(&res).Error
	return res, err
}

type Order struct {
	Id             int64  `gorm:"primaryKey;autoIncrement;comment:订单自增ID"`
	SN             string `gorm:"type:varchar(255);not null;uniqueIndex:uniq_order_sn;comment:订单序列号"`
	BuyerId        int64  `gorm:"not null;index:idx_buyer_id;comment:购买者ID"`
	PaymentId      int64  `gorm:"comment:支付自增ID"`
	PaymentSn      string `gorm:"type:varchar(255);comment:支付序列号"`
	Subtotal       int64  `gorm:"not null;comment:商品小计;单位为分"`
	DiscountAmount int64  `gorm:"not null;comment:优惠金额;单位为分"`
	TaxRate        int64  `gorm:"not null;comment:税率;万分比"`
	TaxAmount      int64  `gorm:"not null;comment:税额;单位为分"`
	ShippingFee    int64  `gorm:"not null;comment:运费;单位为分"`
	TotalAmount    int64  `gorm:"not null;comment:应付总额;单位为分"`
	DiscountCode   string `gorm:"type:varchar(64);comment:使用的优惠码"`
	Region         string `gorm:"type:varchar(128);not null;comment:收货地区"`
	PaymentChannel int64  `gorm:"comment:支付渠道 1=微信 2=epay"`
	// 自提点快照,下单时刻从配送模块冗余过来
	DeliveryPointSn    string `gorm:"type:varchar(64);not null;comment:自提点序列号"`
	DeliveryPointName  string `gorm:"type:varchar(255);not null;comment:自提点名称"`
	DeliveryPointAddr  string `gorm:"type:varchar(512);not null;comment:自提点地址"`
	DeliveryPointPhone string `gorm:"type:varchar(32);comment:自提点联系电话"`
	DeliveryPointHours string `gorm:"type:varchar(255);comment:自提点营业时间"`
	Status             uint8  `gorm:"type:tinyint unsigned;not null;default:1;index:idx_status;comment:订单状态 1=待支付 2=备货中 3=运输中 4=已发货 5=清关中 6=派送中 7=已签收 8=已取消"`
	PaymentStatus      uint8  `gorm:"type:tinyint unsigned;not null;default:1;comment:支付状态 1=待支付 2=已支付 3=支付失败"`
	ClosedAt           int64  `gorm:"comment:订单关闭时间"`
	Ctime              int64
	Utime              int64
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	Id       int64  `gorm:"primaryKey;autoIncrement;comment:订单项自增ID"`
	OrderId  int64  `gorm:"not null;index:idx_order_id;comment:订单自增ID"`
	SPUId    int64  `gorm:"not null;comment:SPU自增ID"`
	SKUId    int64  `gorm:"not null;index:idx_sku_id;comment:SKU自增ID"`
	SKUSn    string `gorm:"type:varchar(255);not null;comment:SKU序列号"`
	SKUName  string `gorm:"type:varchar(255);not null;comment:SKU名称"`
	SKUDesc  string `gorm:"not null;comment:SKU描述"`
	SKUImage string `gorm:"type:varchar(512);comment:SKU图片"`
	Price    int64  `gorm:"not null;comment:成交单价;单位为分"`
	Quantity int64  `gorm:"not null;comment:购买数量"`
	Ctime    int64
	Utime    int64
}

func (OrderItem) TableName() string {
	return "order_items"
}

type OrderStatusHistory struct {
	Id         int64  `gorm:"primaryKey;autoIncrement"`
	OrderId    int64  `gorm:"not null;index:idx_order_id;comment:订单自增ID"`
	FromStatus uint8  `gorm:"type:tinyint unsigned;not null;comment:原状态,0表示新建"`
	ToStatus   uint8  `gorm:"type:tinyint unsigned;not null;comment:新状态"`
	Actor      string `gorm:"type:varchar(32);not null;comment:触发方 buyer/admin/system"`
	Note       string `gorm:"type:varchar(255);comment:流转说明"`
	Ctime      int64
}

func (OrderStatusHistory) TableName() string {
	return "order_status_histories"
}

func InitTables(db *egorm.Component) error {
	return db.AutoMigrate(&Order{}, &OrderItem{}, &OrderStatusHistory{})
}
