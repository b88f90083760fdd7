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

import "strings"

type ConfigStatus uint8

func (s ConfigStatus) ToUint8() uint8 {
	return uint8(s)
}

const (
	ConfigStatusDisabled ConfigStatus = 1
	ConfigStatusActive   ConfigStatus = 2
)

// Config 税率配置。Regions为逗号分隔的地区列表,IsDefault标记兜底配置。
type Config struct {
	ID   int64
	Name string
	// RateBps 税率基点,1600表示16%
	RateBps   int64
	Regions   string
	IsDefault bool
	Status    ConfigStatus
	Ctime     int64
	Utime     int64
}

// Matches 判断配置是否适用于指定地区
func (c Config) Matches(region string) bool {
	if region == "" || c.Regions == "" {
		return false
	}
	for _, r := range strings.Split(c.Regions, ",") {
		if strings.EqualFold(strings.TrimSpace(r), region) {
			return true
		}
	}
	return false
}
