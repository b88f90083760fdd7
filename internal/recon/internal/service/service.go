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

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ecodeclub/ekit/retry"
	"github.com/ecodeclub/emall/internal/order"
	"github.com/ecodeclub/emall/internal/payment"
	"github.com/gotomicro/ego/core/elog"
)

// Service 核对长时间停留在待支付的订单与支付记录。
// 支付事件丢失时订单会卡在待支付,这里把两边驱动到一致:
// 支付已成终态的按终态落订单,仍未支付的关单。
type Service interface {
	Reconcile(ctx context.Context, offset, limit int, ctime int64) error
}

type service struct {
	orderSvc        order.Service
	paymentSvc      payment.Service
	initialInterval time.Duration
	maxInterval     time.Duration
	maxRetries      int32
	l               *elog.Component
}

func NewService(orderSvc order.Service,
	paymentSvc payment.Service,
	initialInterval time.Duration, maxInterval time.Duration, maxRetries int32) *service {
	return &service{orderSvc: orderSvc,
		paymentSvc:      paymentSvc,
		initialInterval: initialInterval, maxInterval: maxInterval, maxRetries: maxRetries,
		l: elog.DefaultLogger}
}

func (s *service) Reconcile(ctx context.Context, offset, limit int, ctime int64) error {
	for {
		orders, err := s.orderSvc.FindExpiredOrders(ctx, offset, limit, ctime)
		if err != nil {
			return fmt.Errorf("查找超时待支付订单失败: %w", err)
		}

		for _, o := range orders {
			err = s.reconcileOrder(ctx, o, ctime)
			if err != nil {
				s.l.Warn("订单对账失败",
					elog.FieldErr(err),
					elog.String("order_sn", o.SN),
				)
			}
		}

		if len(orders) < limit {
			return nil
		}
	}
}

func (s *service) reconcileOrder(ctx context.Context, o order.Order, ctime int64) error {
	pmt, err := s.paymentSvc.FindPaymentByOrderSN(ctx, o.SN)
	if err != nil {
		if errors.Is(err, payment.ErrPaymentNotFound) {
			// 从未发起过支付,直接关单
			return s.orderSvc.CancelExpiredOrder(ctx, o)
		}
		return err
	}

	if !pmt.Status.IsFinal() {
		// 先向渠道对账,超时未支付会被按失败关单
		err = s.paymentSvc.SyncPaymentStatus(ctx, pmt, ctime)
		if err != nil {
			return err
		}
		pmt, err = s.paymentSvc.FindPaymentByOrderSN(ctx, o.SN)
		if err != nil {
			return err
		}
		if !pmt.Status.IsFinal() {
			// 渠道侧还在支付中,留给下一轮
			return nil
		}
	}
	return s.settleOrder(ctx, o, pmt)
}

// settleOrder 按支付终态落订单状态,带退避重试
func (s *service) settleOrder(ctx context.Context, o order.Order, pmt payment.Payment) error {
	strategy, err := retry.NewExponentialBackoffRetryStrategy(s.initialInterval, s.maxInterval, s.maxRetries)
	if err != nil {
		return err
	}

	for {
		if pmt.Status == payment.StatusPaidSuccess {
			err = s.orderSvc.CompleteOrder(ctx, o.SN, pmt.ID)
		} else {
			err = s.orderSvc.FailOrder(ctx, o.SN)
		}
		if err == nil || errors.Is(err, order.ErrPaymentStatusFinal) {
			return nil
		}

		d, ok := strategy.Next()
		if !ok {
			return fmt.Errorf("订单对账超过最大重试次数: sn=%s, %w", o.SN, err)
		}
		s.l.Warn("按支付终态更新订单失败,稍后重试",
			elog.FieldErr(err),
			elog.String("order_sn", o.SN),
			elog.Int64("payment_status", pmt.Status.ToInt64()),
		)
		time.Sleep(d)
	}
}
