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
	"github.com/ecodeclub/emall/internal/email"
	"github.com/ecodeclub/emall/internal/notification/consumer"
	"github.com/ecodeclub/emall/internal/order"
	"github.com/ecodeclub/emall/internal/product"
	"github.com/ecodeclub/mq-api"
	"github.com/gotomicro/ego/core/econf"
)

func initMQConsumers(q mq.MQ,
	pm *product.Module,
	om *order.Module,
	emailSvc email.Service) []Consumer {
	return []Consumer{
		pm.C,
		om.C,
		initOrderEmailConsumer(q, emailSvc),
	}
}

func initOrderEmailConsumer(q mq.MQ, svc email.Service) *consumer.OrderEmailConsumer {
	var cfg consumer.OrderEmailConfig
	err := econf.UnmarshalKey("notification.email", &cfg)
	if err != nil {
		panic(err)
	}
	res, err := consumer.NewOrderEmailConsumer(q, svc, &cfg)
	if err != nil {
		panic(err)
	}
	return res
}
