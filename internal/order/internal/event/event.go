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

package event

const (
	paymentEvents  = "payment_events"
	orderEventName = "order_events"
)

// PaymentEvent 支付模块发布的支付终态
type PaymentEvent struct {
	OrderSN   string `json:"orderSN"`
	PaymentID int64  `json:"paymentId"`
	PayerID   int64  `json:"payerId"`
	Status    int64  `json:"status"`
}

const (
	// PaymentStatusPaidSuccess 与支付模块的终态取值保持一致
	PaymentStatusPaidSuccess int64 = 3
	PaymentStatusPaidFailed  int64 = 4
)

// OrderEvent 订单完成事件,下游通知模块消费
type OrderEvent struct {
	OrderSN string `json:"orderSN"`
	BuyerID int64  `json:"buyerId"`
	Amount  int64  `json:"amount"`
}
