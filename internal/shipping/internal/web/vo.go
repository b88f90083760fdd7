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

type CreateZoneReq struct {
	Name                  string `json:"name"`
	Address               string `json:"address"`
	ContactPhone          string `json:"contactPhone"`
	BusinessHours         string `json:"businessHours"`
	BaseRate              int64  `json:"baseRate"`
	FreeShippingThreshold int64  `json:"freeShippingThreshold"`
}

type CreateZoneResp struct {
	ID int64 `json:"id"`
}

type ListZonesReq struct {
	Offset int `json:"offset,omitempty"`
	Limit  int `json:"limit,omitempty"`
}

type ListZonesResp struct {
	Total int64  `json:"total,omitempty"`
	Zones []Zone `json:"zones,omitempty"`
}

type DisableZoneReq struct {
	ID int64 `json:"id"`
}

type Zone struct {
	ID                    int64  `json:"id"`
	SN                    string `json:"sn"`
	Name                  string `json:"name"`
	Address               string `json:"address"`
	ContactPhone          string `json:"contactPhone"`
	BusinessHours         string `json:"businessHours"`
	BaseRate              int64  `json:"baseRate"`
	FreeShippingThreshold int64  `json:"freeShippingThreshold"`
	Status                uint8  `json:"status"`
}
