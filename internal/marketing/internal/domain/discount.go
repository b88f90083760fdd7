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

type DiscountType uint8

func (t DiscountType) ToUint8() uint8 {
	return uint8(t)
}

const (
	DiscountTypePercentage DiscountType = 1
	DiscountTypeFixed      DiscountType = 2
)

type DiscountStatus uint8

func (s DiscountStatus) ToUint8() uint8 {
	return uint8(s)
}

const (
	DiscountStatusDisabled DiscountStatus = 1
	DiscountStatusActive   DiscountStatus = 2
)

type Discount struct {
	ID   int64
	Code string
	Type DiscountType
	// Value 百分比类型时为整数百分比, 固定金额类型时为分
	Value int64
	// MinPurchase 使用门槛,单位为分
	MinPurchase int64
	// MaxDiscount 优惠封顶,单位为分,仅百分比类型生效,0表示不封顶
	MaxDiscount int64
	// UsageLimit 总使用次数上限,0表示不限次数
	UsageLimit int64
	UsedCount  int64
	StartAt    int64
	EndAt      int64
	Status     DiscountStatus
	Ctime      int64
	Utime      int64
}

// Redeemable 判断当前时刻优惠码是否处于可用窗口内
func (d Discount) Redeemable(now int64) bool {
	return d.Status == DiscountStatusActive && now >= d.StartAt && now <= d.EndAt
}

// Redemption 一次成功核销的结果
type Redemption struct {
	Code   string
	Type   DiscountType
	Value  int64
	Amount int64
}
