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

package domain

type OrderStatus uint8

func (s OrderStatus) ToUint8() uint8 {
	return uint8(s)
}

const (
	StatusPending        OrderStatus = 1 // 待支付
	StatusProcessing     OrderStatus = 2 // 已支付,备货中
	StatusInTransit      OrderStatus = 3 // 运输中
	StatusShipped        OrderStatus = 4 // 已发货
	StatusUnderClearance OrderStatus = 5 // 清关中
	StatusOutForDelivery OrderStatus = 6 // 派送中
	StatusDelivered      OrderStatus = 7 // 已签收
	StatusCanceled       OrderStatus = 8 // 已取消
)

// transitions 订单状态机,取消只允许发生在发货链路开始之前
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:        {StatusProcessing, StatusCanceled},
	StatusProcessing:     {StatusInTransit, StatusCanceled},
	StatusInTransit:      {StatusShipped},
	StatusShipped:        {StatusUnderClearance, StatusOutForDelivery},
	StatusUnderClearance: {StatusOutForDelivery},
	StatusOutForDelivery: {StatusDelivered},
}

func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

type PaymentStatus uint8

func (s PaymentStatus) ToUint8() uint8 {
	return uint8(s)
}

const (
	PaymentStatusPending   PaymentStatus = 1
	PaymentStatusCompleted PaymentStatus = 2
	PaymentStatusFailed    PaymentStatus = 3
)

type Order struct {
	ID        int64
	SN        string
	BuyerID   int64
	PaymentID int64
	PaymentSN string

	// 计价快照,金额单位均为分,TaxRate 为万分比
	Subtotal       int64
	DiscountAmount int64
	TaxRate        int64
	TaxAmount      int64
	ShippingFee    int64
	TotalAmount    int64

	DiscountCode string
	Region       string
	// PaymentChannel 下单时选择的支付渠道
	PaymentChannel int64
	// DeliveryPoint 下单时刻的自提点快照,后台改配送点不影响已有订单
	DeliveryPoint DeliveryPoint

	Status        OrderStatus
	PaymentStatus PaymentStatus
	Items         []OrderItem
	Histories     []StatusHistory
	ClosedAt      int64
	Ctime         int64
	Utime         int64
}

// Cancelable 发货链路开始后订单不可再取消
func (o Order) Cancelable() bool {
	return o.Status.CanTransitionTo(StatusCanceled)
}

type OrderItem struct {
	OrderID  int64
	SPUID    int64
	SKUID    int64
	SKUSN    string
	SKUName  string
	SKUDesc  string
	SKUImage string
	// Price 成交单价,单位为分
	Price    int64
	Quantity int64
}

type DeliveryPoint struct {
	SN            string
	Name          string
	Address       string
	ContactPhone  string
	BusinessHours string
}

// StatusHistory 状态流转记录,随状态变更在同一事务中追加
type StatusHistory struct {
	OrderID    int64
	FromStatus OrderStatus
	ToStatus   OrderStatus
	// Actor 触发方: buyer / admin / system
	Actor string
	Note  string
	Ctime int64
}
