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

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ecodeclub/emall/internal/cart"
	"github.com/ecodeclub/emall/internal/order/internal/service"
	"github.com/ecodeclub/mq-api"
	"github.com/gotomicro/ego/core/elog"
)

// PaymentConsumer 消费支付终态事件:
// 成功则完成订单并清空买家购物车,失败则取消订单恢复库存。
// 重复事件靠订单支付状态的条件更新挡下,消费天然幂等。
type PaymentConsumer struct {
	svc      service.Service
	cartSvc  cart.Service
	producer OrderEventProducer
	consumer mq.Consumer
	logger   *elog.Component
}

func NewPaymentConsumer(svc service.Service, cartSvc cart.Service,
	producer OrderEventProducer, q mq.MQ) (*PaymentConsumer, error) {
	const groupID = "order"
	consumer, err := q.Consumer(paymentEvents, groupID)
	if err != nil {
		return nil, err
	}
	return &PaymentConsumer{
		svc:      svc,
		cartSvc:  cartSvc,
		producer: producer,
		consumer: consumer,
		logger:   elog.DefaultLogger,
	}, nil
}

func (c *PaymentConsumer) Start(ctx context.Context) {
	go func() {
		for {
			er := c.Consume(ctx)
			if er != nil {
				c.logger.Error("消费支付事件失败", elog.FieldErr(er))
			}
		}
	}()
}

func (c *PaymentConsumer) Consume(ctx context.Context) error {
	msg, err := c.consumer.Consume(ctx)
	if err != nil {
		return fmt.Errorf("获取消息失败: %w", err)
	}

	var evt PaymentEvent
	if err = json.Unmarshal(msg.Value, &evt); err != nil {
		return fmt.Errorf("解析消息失败: %w", err)
	}

	switch evt.Status {
	case PaymentStatusPaidSuccess:
		return c.completeOrder(ctx, evt)
	case PaymentStatusPaidFailed:
		return c.failOrder(ctx, evt)
	default:
		c.logger.Warn("忽略非终态支付事件",
			elog.String("order_sn", evt.OrderSN),
			elog.Int64("status", evt.Status))
		return nil
	}
}

func (c *PaymentConsumer) completeOrder(ctx context.Context, evt PaymentEvent) error {
	err := c.svc.CompleteOrder(ctx, evt.OrderSN, evt.PaymentID)
	if errors.Is(err, service.ErrPaymentStatusFinal) {
		// 重复通知,之前已处理过
		c.logger.Warn("重复的支付成功事件",
			elog.String("order_sn", evt.OrderSN))
		return nil
	}
	if err != nil {
		return fmt.Errorf("完成订单失败: %w", err)
	}

	if er := c.cartSvc.Clear(ctx, evt.PayerID); er != nil {
		c.logger.Error("清空购物车失败",
			elog.FieldErr(er),
			elog.Int64("buyer_id", evt.PayerID))
	}

	order, err := c.svc.FindOrderBySN(ctx, evt.OrderSN)
	if err != nil {
		return fmt.Errorf("查找订单失败: %w", err)
	}
	if er := c.producer.Produce(ctx, OrderEvent{
		OrderSN: order.SN,
		BuyerID: order.BuyerID,
		Amount:  order.TotalAmount,
	}); er != nil {
		c.logger.Error("发送订单完成事件失败",
			elog.FieldErr(er),
			elog.String("order_sn", order.SN))
	}
	return nil
}

func (c *PaymentConsumer) failOrder(ctx context.Context, evt PaymentEvent) error {
	err := c.svc.FailOrder(ctx, evt.OrderSN)
	if errors.Is(err, service.ErrPaymentStatusFinal) {
		c.logger.Warn("重复的支付失败事件",
			elog.String("order_sn", evt.OrderSN))
		return nil
	}
	if err != nil {
		return fmt.Errorf("关闭支付失败订单失败: %w", err)
	}
	return nil
}
