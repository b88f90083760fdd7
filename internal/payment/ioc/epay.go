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

package ioc

import (
	"github.com/ecodeclub/emall/internal/payment/internal/service"
	"github.com/ecodeclub/emall/internal/payment/internal/service/epay"
	"github.com/ecodeclub/emall/internal/payment/internal/service/wechat"
	"github.com/gotomicro/ego/core/econf"
)

func InitEpayService(cfg EpayConfig) *epay.Service {
	return epay.NewService(cfg.BaseURL, cfg.AppID, cfg.AppSecret, cfg.PaymentNotifyURL)
}

func InitEpayConfig() EpayConfig {
	var cfg EpayConfig
	err := econf.UnmarshalKey("epay", &cfg)
	if err != nil {
		panic(err)
	}
	return cfg
}

type EpayConfig struct {
	BaseURL          string
	AppID            string
	AppSecret        string
	PaymentNotifyURL string
}

func InitPaymentChannels(wechatSvc *wechat.NativePaymentService, epaySvc *epay.Service) []service.PaymentChannel {
	return []service.PaymentChannel{wechatSvc, epaySvc}
}
