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
	ErrPaymentNotFound = gorm.ErrRecordNotFound
	// ErrPaymentStatusFinal 终态已落库,本次更新是重复通知
	ErrPaymentStatusFinal = errors.New("支付状态已是终态")
)

type PaymentDAO interface {
	FindOrCreate(ctx context.Context, pmt Payment) (Payment, error)
	FindPaymentBySN(ctx context.Context, sn string) (Payment, error)
	FindPaymentByOrderSN(ctx context.Context, orderSN string) (Payment, error)
	FindPaymentByTxnID(ctx context.Context, txnID string) (Payment, error)
	UpdatePrepayResult(ctx context.Context, sn, txnID, payURL string) error
	// UpdateFinalStatus 落支付终态,条件更新保证终态只写一次
	UpdateFinalStatus(ctx context.Context, sn string, status int64, txnID, rawResponse string, paidAt, verifiedAt int64) error
	FindTimeoutPayments(ctx context.Context, offset, limit int, utime int64) ([]Payment, error)
}

type PaymentGORMDAO struct {
	db *egorm.Component
}

func NewPaymentGORMDAO(db *egorm.Component) PaymentDAO {
	return &PaymentGORMDAO{db: db}
}

// FindOrCreate 同一订单同一渠道只有一条支付记录,重复创建返回已有记录
func (d *PaymentGORMDAO) FindOrCreate(ctx context.Context, pmt Payment) (Payment, error) {
	now := time.Now().UnixMilli()
	pmt.Ctime, pmt.Utime = now, now
	err := d.db.WithContext(ctx).
		FirstOrCreate(&pmt, "order_sn = ? AND channel = ?", pmt.OrderSn, pmt.Channel).Error
	return pmt, err
}

func (d *PaymentGORMDAO) FindPaymentBySN(ctx context.Context, sn string) (Payment, error) {
	var res Payment
	err := d.db.WithContext(ctx).Where("sn = ?", sn).First(&res).Error
	return res, err
}

func (d *PaymentGORMDAO) FindPaymentByOrderSN(ctx context.Context, orderSN string) (Payment, error) {
	var res Payment
	err := d.db.WithContext(ctx).Where("order_sn = ?", orderSN).First(&res).Error
	return res, err
}

func (d *PaymentGORMDAO) FindPaymentByTxnID(ctx context.Context, txnID string) (Payment, error) {
	var res Payment
	err := d.db.WithContext(ctx).Where("txn_id_3rd = ?", txnID).First(&res).Error
	return res, err
}

func (d *PaymentGORMDAO) UpdatePrepayResult(ctx context.Context, sn, txnID, payURL string) error {
	return d.db.WithContext(ctx).Model(&Payment{}).
		Where("sn = ?", sn).
		Updates(map[string]any{
			"txn_id_3rd": txnID,
			"pay_url":    payURL,
			"status":     2,
			"utime":      time.Now().UnixMilli(),
		}).Error
}

func (d *PaymentGORMDAO) UpdateFinalStatus(ctx context.Context, sn string, status int64, txnID, rawResponse string, paidAt, verifiedAt int64) error {
	res := d.db.WithContext(ctx).Model(&Payment{}).
		Where("sn = ? AND status NOT IN (?)", sn, []int64{3, 4}).
		Updates(map[string]any{
			"status":       status,
			"txn_id_3rd":   txnID,
			"raw_response": rawResponse,
			"paid_at":      paidAt,
			"verified_at":  verifiedAt,
			"utime":        time.Now().UnixMilli(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPaymentStatusFinal
	}
	return nil
}

func (d *PaymentGORMDAO) FindTimeoutPayments(ctx context.Context, offset, limit int, utime int64) ([]Payment, error) {
	var res []Payment
	err := d.db.WithContext(ctx).
		Where("status IN (?) AND utime <= ?", []int64{1, 2}, utime).
		Order("utime ASC").
		Offset(offset).Limit(limit).
		Find(&res).Error
	return res, err
}

type Payment struct {
	Id               int64  `gorm:"primaryKey;autoIncrement;comment:支付自增ID"`
	SN               string `gorm:"type:varchar(255);not null;uniqueIndex:uniq_payment_sn;comment:支付序列号"`
	OrderId          int64  `gorm:"not null;comment:订单自增ID"`
	OrderSn          string `gorm:"type:varchar(255);not null;uniqueIndex:uniq_order_sn_channel;comment:订单序列号"`
	OrderDescription string `gorm:"type:varchar(255);not null;comment:订单简要描述"`
	TotalAmount      int64  `gorm:"not null;comment:支付总金额,单位为分"`
	Currency         string `gorm:"type:varchar(16);not null;default:CNY;comment:币种"`
	PayerId          int64  `gorm:"not null;index:idx_payer_id;comment:支付者ID"`
	Channel          int64  `gorm:"type:tinyint unsigned;not null;uniqueIndex:uniq_order_sn_channel;comment:支付渠道 1=微信 2=epay"`
	TxnID3rd         string `gorm:"column:txn_id_3rd;type:varchar(255);index:idx_txn_id_3rd;comment:渠道交易号"`
	PayURL           string `gorm:"type:varchar(1024);comment:收银台地址或二维码内容"`
	RawResponse      string `gorm:"type:text;comment:渠道回调或查单原文"`
	Status           int64  `gorm:"type:tinyint unsigned;not null;default:1;comment:支付状态 1=未发起 2=支付中 3=支付成功 4=支付失败"`
	PaidAt           int64  `gorm:"comment:支付时间"`
	VerifiedAt       int64  `gorm:"comment:查单确认终态时间"`
	Ctime            int64
	Utime            int64
}

func (Payment) TableName() string {
	return "payments"
}

func InitTables(db *egorm.Component) error {
	return db.AutoMigrate(&Payment{})
}
