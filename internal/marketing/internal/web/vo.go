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

// CreateDiscountReq 创建优惠码,code为空时自动生成
type CreateDiscountReq struct {
	Code        string `json:"code"`
	Type        uint8  `json:"type"` // 1=百分比 2=固定金额
	Value       int64  `json:"value"`
	MinPurchase int64  `json:"minPurchase"`
	MaxDiscount int64  `json:"maxDiscount"`
	UsageLimit  int64  `json:"usageLimit"`
	StartAt     int64  `json:"startAt"`
	EndAt       int64  `json:"endAt"`
}

type CreateDiscountResp struct {
	ID int64 `json:"id"`
}

type ListDiscountsReq struct {
	Offset int `json:"offset,omitempty"`
	Limit  int `json:"limit,omitempty"`
}

type ListDiscountsResp struct {
	Total     int64      `json:"total,omitempty"`
	Discounts []Discount `json:"discounts,omitempty"`
}

type DisableDiscountReq struct {
	ID int64 `json:"id"`
}

type Discount struct {
	ID          int64  `json:"id"`
	Code        string `json:"code"`
	Type        uint8  `json:"type"`
	Value       int64  `json:"value"`
	MinPurchase int64  `json:"minPurchase"`
	MaxDiscount int64  `json:"maxDiscount"`
	UsageLimit  int64  `json:"usageLimit"`
	UsedCount   int64  `json:"usedCount"`
	StartAt     int64  `json:"startAt"`
	EndAt       int64  `json:"endAt"`
	Status      uint8  `json:"status"`
}
