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

// Package pricing 订单金额计算,纯函数无IO。
// 金额一律以分为单位,999表示9.99元;税率以基点表示,1600表示16%。
// 中间计算保持整数分,只在最终落库值上做一次四舍五入,避免级联舍入误差。
package pricing

const (
	// RateBase 基点基数,10000基点=100%
	RateBase = 10000
	// PercentBase 百分比基数
	PercentBase = 100
)

// TaxAmount 计算税额,税基为折后小计 (subtotal - discount)
func TaxAmount(subtotal, discount, rateBps int64) int64 {
	taxable := subtotal - discount
	if taxable < 0 {
		taxable = 0
	}
	return roundDiv(taxable*rateBps, RateBase)
}

// PercentageDiscount 按百分比计算优惠金额,maxDiscount > 0 时封顶
func PercentageDiscount(subtotal, percent, maxDiscount int64) int64 {
	amount := roundDiv(subtotal*percent, PercentBase)
	if maxDiscount > 0 && amount > maxDiscount {
		amount = maxDiscount
	}
	if amount > subtotal {
		amount = subtotal
	}
	return amount
}

// FixedDiscount 固定金额优惠,不允许超过小计
func FixedDiscount(subtotal, value int64) int64 {
	if value > subtotal {
		return subtotal
	}
	return value
}

// Total 订单总价 = 小计 - 优惠 + 税额 + 运费
func Total(subtotal, discount, tax, shipping int64) int64 {
	return subtotal - discount + tax + shipping
}

// roundDiv 整数除法,四舍五入
func roundDiv(numerator, denominator int64) int64 {
	return (numerator + denominator/2) / denominator
}
