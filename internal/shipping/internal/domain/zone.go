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

type ZoneStatus uint8

func (s ZoneStatus) ToUint8() uint8 {
	return uint8(s)
}

const (
	ZoneStatusDisabled ZoneStatus = 1
	ZoneStatusActive   ZoneStatus = 2
)

// Zone 自提点/配送区域。订单落库时会拷贝一份快照,
// 后续对Zone的修改不影响历史订单。
type Zone struct {
	ID            int64
	SN            string
	Name          string
	Address       string
	ContactPhone  string
	BusinessHours string
	// BaseRate 基础运费,单位为分
	BaseRate int64
	// FreeShippingThreshold 免运费门槛,单位为分,0表示无免运费
	FreeShippingThreshold int64
	Status                ZoneStatus
	Ctime                 int64
	Utime                 int64
}

// Cost 结合小计计算实际运费
func (z Zone) Cost(subtotal int64) int64 {
	if z.FreeShippingThreshold > 0 && subtotal >= z.FreeShippingThreshold {
		return 0
	}
	return z.BaseRate
}

// Quote 一次运费解析结果,Zone用于订单侧做快照
type Quote struct {
	Zone Zone
	Cost int64
}
