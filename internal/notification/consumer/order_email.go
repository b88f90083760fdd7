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

package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ecodeclub/emall/internal/email"
	"github.com/ecodeclub/emall/internal/notification/event"
	"github.com/ecodeclub/mq-api"
	"github.com/gotomicro/ego/core/elog"
)

type OrderEmailConfig struct {
	// FromAlias 发信人昵称
	FromAlias string `yaml:"fromAlias"`
	// To 收到成交通知的邮箱
	To []string `yaml:"to"`
}

// OrderEmailConsumer 消费订单支付完成事件并发送成交通知邮件。
// 通知失败只记日志,不影响交易链路。
type OrderEmailConsumer struct {
	svc      email.Service
	consumer mq.Consumer
	config   *OrderEmailConfig
	logger   *elog.Component
}

func NewOrderEmailConsumer(q mq.MQ, svc email.Service, config *OrderEmailConfig) (*OrderEmailConsumer, error) {
	groupID := "notification.email"
	consumer, err := q.Consumer(event.OrderEventName, groupID)
	if err != nil {
		return nil, err
	}
	return &OrderEmailConsumer{
		svc:      svc,
		consumer: consumer,
		config:   config,
		logger:   elog.DefaultLogger.With(elog.FieldComponent("notification.email.consumer")),
	}, nil
}

// Start 后面要考虑借助 ctx 来优雅退出
func (c *OrderEmailConsumer) Start(ctx context.Context) {
	go func() {
		for {
			err := c.Consume(ctx)
			if err != nil {
				c.logger.Error("消费订单完成事件失败", elog.FieldErr(err))
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()
}

func (c *OrderEmailConsumer) Consume(ctx context.Context) error {
	msg, err := c.consumer.Consume(ctx)
	if err != nil {
		return fmt.Errorf("获取消息失败: %w", err)
	}
	var evt event.OrderEvent
	err = json.Unmarshal(msg.Value, &evt)
	if err != nil {
		return fmt.Errorf("解析消息失败: %w", err)
	}
	subject := fmt.Sprintf("订单成交通知: %s", evt.OrderSN)
	body := fmt.Sprintf("<p>订单 %s 已支付成功。</p><p>买家: %d</p><p>金额: %.2f 元</p>",
		evt.OrderSN, evt.BuyerID, float64(evt.Amount)/100)
	for _, to := range c.config.To {
		err = c.svc.SendMail(ctx, email.Mail{
			From:    c.config.FromAlias,
			To:      to,
			Subject: subject,
			Body:    []byte(body),
		})
		if err != nil {
			c.logger.Error("发送成交通知邮件失败",
				elog.FieldErr(err),
				elog.String("orderSN", evt.OrderSN),
				elog.String("to", to),
			)
		}
	}
	return nil
}
