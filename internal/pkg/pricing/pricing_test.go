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

package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaxAmount(t *testing.T) {
	testCases := []struct {
		name     string
		subtotal int64
		discount int64
		rateBps  int64
		want     int64
	}{
		{
			name:     "整除",
			subtotal: 100000,
			discount: 10000,
			rateBps:  1600,
			want:     14400,
		},
		{
			name:     "四舍五入_进位",
			subtotal: 99,
			discount: 0,
			rateBps:  1600,
			want:     16, // 15.84 -> 16
		},
		{
			name:     "四舍五入_舍去",
			subtotal: 77,
			discount: 0,
			rateBps:  1600,
			want:     12, // 12.32 -> 12
		},
		{
			name:     "优惠超过小计_税基为零",
			subtotal: 100,
			discount: 200,
			rateBps:  1600,
			want:     0,
		},
		{
			name:     "零税率",
			subtotal: 100000,
			discount: 0,
			rateBps:  0,
			want:     0,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TaxAmount(tc.subtotal, tc.discount, tc.rateBps))
		})
	}
}

func TestPercentageDiscount(t *testing.T) {
	testCases := []struct {
		name        string
		subtotal    int64
		percent     int64
		maxDiscount int64
		want        int64
	}{
		{
			name:     "无封顶",
			subtotal: 100000,
			percent:  10,
			want:     10000,
		},
		{
			name:        "触发封顶",
			subtotal:    100000,
			percent:     10,
			maxDiscount: 5000,
			want:        5000,
		},
		{
			name:        "封顶高于优惠_不生效",
			subtotal:    100000,
			percent:     10,
			maxDiscount: 20000,
			want:        10000,
		},
		{
			name:     "百分百优惠_不超过小计",
			subtotal: 999,
			percent:  100,
			want:     999,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, PercentageDiscount(tc.subtotal, tc.percent, tc.maxDiscount))
		})
	}
}

func TestFixedDiscount(t *testing.T) {
	assert.Equal(t, int64(500), FixedDiscount(1000, 500))
	// 固定优惠不允许把订单打成负数
	assert.Equal(t, int64(1000), FixedDiscount(1000, 2000))
}

// TestTotal 验证订单金额恒等式: total = subtotal - discount + tax + shipping
func TestTotal(t *testing.T) {
	subtotal, discount, shipping := int64(100000), int64(10000), int64(5000)
	tax := TaxAmount(subtotal, discount, 1600)
	assert.Equal(t, int64(14400), tax)
	assert.Equal(t, int64(109400), Total(subtotal, discount, tax, shipping))
}
