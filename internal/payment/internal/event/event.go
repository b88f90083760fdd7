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

const PaymentEventName = "payment_events"

// PaymentEvent 支付终态事件,只在首次进入终态时发送一次
type PaymentEvent struct {
	OrderSN   string `json:"orderSN"`
	PaymentID int64  `json:"paymentId"`
	PayerID   int64  `json:"payerId"`
	// Status 只会是终态:3=支付成功, 4=支付失败
	Status int64 `json:"status"`
}
