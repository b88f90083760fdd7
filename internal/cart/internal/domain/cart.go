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

// Item 购物车条目,同一买家同一 SKU 只保留一条,重复加购合并数量
type Item struct {
	ID       int64
	UID      int64
	SKUID    int64
	SKUSN    string
	Name     string
	Image    string
	// Price 加入时的销售单价,单位为分,仅作展示,结算以商品当前价为准
	Price    int64
	Quantity int64
	Utime    int64
}

// Amount 展示用小计
func (i Item) Amount() int64 {
	return i.Price * i.Quantity
}
