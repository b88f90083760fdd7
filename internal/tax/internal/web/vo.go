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

type CreateConfigReq struct {
	Name      string `json:"name"`
	RateBps   int64  `json:"rateBps"`
	Regions   string `json:"regions"`
	IsDefault bool   `json:"isDefault"`
}

type CreateConfigResp struct {
	ID int64 `json:"id"`
}

type ListConfigsReq struct {
	Offset int `json:"offset,omitempty"`
	Limit  int `json:"limit,omitempty"`
}

type ListConfigsResp struct {
	Total   int64    `json:"total,omitempty"`
	Configs []Config `json:"configs,omitempty"`
}

type DisableConfigReq struct {
	ID int64 `json:"id"`
}

type Config struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	RateBps   int64  `json:"rateBps"`
	Regions   string `json:"regions"`
	IsDefault bool   `json:"isDefault"`
	Status    uint8  `json:"status"`
}
