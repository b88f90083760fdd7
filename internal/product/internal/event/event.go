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

const SyncProductTopic = "sync_product"

// ProductEvent 上游目录服务发布的商品快照,按 SN 幂等落库
type ProductEvent struct {
	SPU SPU `json:"spu"`
}

type SPU struct {
	SN     string `json:"sn"`
	Name   string `json:"name"`
	Desc   string `json:"desc"`
	SKUs   []SKU  `json:"skus"`
	Status uint8  `json:"status"`
}

type SKU struct {
	SN          string `json:"sn"`
	Name        string `json:"name"`
	Desc        string `json:"desc"`
	Price       int64  `json:"price"`
	BuyingPrice int64  `json:"buyingPrice"`
	Stock       int64  `json:"stock"`
	Image       string `json:"image"`
	Status      uint8  `json:"status"`
}
