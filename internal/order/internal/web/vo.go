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

package web

type CheckoutReq struct {
	// RequestID 客户端生成,同一请求重试不会重复下单
	RequestID      string        `json:"requestId"`
	Items          []CheckoutSKU `json:"items"`
	DiscountCode   string        `json:"discountCode"`
	Region         string        `json:"region"`
	ShippingZoneSN string        `json:"shippingZoneSN"`
	PaymentChannel int64         `json:"paymentChannel"`
}

type CheckoutSKU struct {
	SN       string `json:"sn"`
	Quantity int64  `json:"quantity"`
}

type CheckoutResp struct {
	OrderSN   string `json:"orderSN"`
	PaymentSN string `json:"paymentSN"`
	// PayURL 微信为二维码内容,epay为收银台跳转地址
	PayURL      string `json:"payURL"`
	TotalAmount int64  `json:"totalAmount"`
}

type PreviewReq struct {
	Items          []CheckoutSKU `json:"items"`
	DiscountCode   string        `json:"discountCode"`
	Region         string        `json:"region"`
	ShippingZoneSN string        `json:"shippingZoneSN"`
}

type PreviewResp struct {
	Subtotal       int64         `json:"subtotal"`
	DiscountAmount int64         `json:"discountAmount"`
	TaxAmount      int64         `json:"taxAmount"`
	ShippingFee    int64         `json:"shippingFee"`
	TotalAmount    int64         `json:"totalAmount"`
	Payments       []PaymentItem `json:"payments"`
}

type PaymentItem struct {
	Type int64 `json:"type"`
}

type ListOrdersReq struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type ListOrdersResp struct {
	Total  int64   `json:"total"`
	Orders []Order `json:"orders"`
}

type RetrieveOrderDetailReq struct {
	SN string `json:"sn"`
}

type RetrieveOrderDetailResp struct {
	Order Order `json:"order"`
}

type RetrieveOrderStatusReq struct {
	SN string `json:"sn"`
}

type RetrieveOrderStatusResp struct {
	Status        uint8 `json:"status"`
	PaymentStatus uint8 `json:"paymentStatus"`
}

type CancelOrderReq struct {
	SN string `json:"sn"`
}

type Order struct {
	SN             string          `json:"sn"`
	PaymentSN      string          `json:"paymentSN"`
	Subtotal       int64           `json:"subtotal"`
	DiscountAmount int64           `json:"discountAmount"`
	TaxRate        int64           `json:"taxRate"`
	TaxAmount      int64           `json:"taxAmount"`
	ShippingFee    int64           `json:"shippingFee"`
	TotalAmount    int64           `json:"totalAmount"`
	DiscountCode   string          `json:"discountCode"`
	Region         string          `json:"region"`
	DeliveryPoint  DeliveryPoint   `json:"deliveryPoint"`
	Status         uint8           `json:"status"`
	PaymentStatus  uint8           `json:"paymentStatus"`
	Items          []OrderItem     `json:"items,omitempty"`
	Histories      []StatusHistory `json:"histories,omitempty"`
	Ctime          int64           `json:"ctime"`
}

type DeliveryPoint struct {
	SN            string `json:"sn"`
	Name          string `json:"name"`
	Address       string `json:"address"`
	ContactPhone  string `json:"contactPhone"`
	BusinessHours string `json:"businessHours"`
}

type OrderItem struct {
	SKUSN    string `json:"skuSN"`
	Name     string `json:"name"`
	Image    string `json:"image"`
	Price    int64  `json:"price"`
	Quantity int64  `json:"quantity"`
}

type StatusHistory struct {
	FromStatus uint8  `json:"fromStatus"`
	ToStatus   uint8  `json:"toStatus"`
	Actor      string `json:"actor"`
	Note       string `json:"note"`
	Ctime      int64  `json:"ctime"`
}

type ListAllOrdersReq struct {
	Offset int   `json:"offset"`
	Limit  int   `json:"limit"`
	Status uint8 `json:"status"`
}

type UpdateOrderStatusReq struct {
	SN     string `json:"sn"`
	Status uint8  `json:"status"`
}
