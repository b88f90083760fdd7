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
	"fmt"
	"testing"
	"time"

	"github.com/ecodeclub/emall/internal/order"
	"github.com/ecodeclub/emall/internal/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOrderSvc 只实现对账路径会触达的方法
type fakeOrderSvc struct {
	order.Service

	expired []order.Order

	canceled  []string
	completed []string
	failed    []string

	// completeFailures 前 N 次 CompleteOrder 返回错误,验证退避重试
	completeFailures int
	// completeFinal 为 true 时 CompleteOrder 返回终态错误
	completeFinal bool
}

func (f *fakeOrderSvc) FindExpiredOrders(_ context.Context, offset, limit int, _ int64) ([]order.Order, error) {
	if offset >= len(f.expired) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.expired) {
		end = len(f.expired)
	}
	return f.expired[offset:end], nil
}

func (f *fakeOrderSvc) CancelExpiredOrder(_ context.Context, o order.Order) error {
	f.canceled = append(f.canceled, o.SN)
	return nil
}

func (f *fakeOrderSvc) CompleteOrder(_ context.Context, sn string, _ int64) error {
	if f.completeFinal {
		return order.ErrPaymentStatusFinal
	}
	if f.completeFailures > 0 {
		f.completeFailures--
		return fmt.Errorf("数据库抖动")
	}
	f.completed = append(f.completed, sn)
	return nil
}

func (f *fakeOrderSvc) FailOrder(_ context.Context, sn string) error {
	f.failed = append(f.failed, sn)
	return nil
}

// fakePaymentSvc 按订单号返回支付记录,SyncPaymentStatus 可把状态驱动到指定终态
type fakePaymentSvc struct {
	payment.Service

	payments map[string]payment.Payment
	// syncTo 为 0 时对账后仍停留在支付中
	syncTo payment.PaymentStatus
	synced int
}

func (f *fakePaymentSvc) FindPaymentByOrderSN(_ context.Context, orderSN string) (payment.Payment, error) {
	p, ok := f.payments[orderSN]
	if !ok {
		return payment.Payment{}, payment.ErrPaymentNotFound
	}
	return p, nil
}

func (f *fakePaymentSvc) SyncPaymentStatus(_ context.Context, pmt payment.Payment, _ int64) error {
	f.synced++
	if f.syncTo != 0 {
		pmt.Status = f.syncTo
		f.payments[pmt.OrderSN] = pmt
	}
	return nil
}

func newReconService(o *fakeOrderSvc, p *fakePaymentSvc) Service {
	return NewService(o, p, time.Millisecond, 10*time.Millisecond, 3)
}

func TestService_Reconcile_未发起支付直接关单(t *testing.T) {
	t.Parallel()
	orderSvc := &fakeOrderSvc{expired: []order.Order{{SN: "order-1", Status: order.StatusPending}}}
	paymentSvc := &fakePaymentSvc{payments: map[string]payment.Payment{}}

	err := newReconService(orderSvc, paymentSvc).Reconcile(context.Background(), 0, 10, time.Now().UnixMilli())
	require.NoError(t, err)

	assert.Equal(t, []string{"order-1"}, orderSvc.canceled)
	assert.Empty(t, orderSvc.completed)
	assert.Empty(t, orderSvc.failed)
}

func TestService_Reconcile_支付成功补完订单(t *testing.T) {
	t.Parallel()
	orderSvc := &fakeOrderSvc{expired: []order.Order{{SN: "order-1", Status: order.StatusPending}}}
	paymentSvc := &fakePaymentSvc{payments: map[string]payment.Payment{
		"order-1": {ID: 11, OrderSN: "order-1", Status: payment.StatusPaidSuccess},
	}}

	err := newReconService(orderSvc, paymentSvc).Reconcile(context.Background(), 0, 10, time.Now().UnixMilli())
	require.NoError(t, err)

	assert.Equal(t, []string{"order-1"}, orderSvc.completed)
	// 已是终态,无需再向渠道对账
	assert.Zero(t, paymentSvc.synced)
}

func TestService_Reconcile_渠道对账后按失败关单(t *testing.T) {
	t.Parallel()
	orderSvc := &fakeOrderSvc{expired: []order.Order{{SN: "order-1", Status: order.StatusPending}}}
	paymentSvc := &fakePaymentSvc{
		payments: map[string]payment.Payment{
			"order-1": {ID: 11, OrderSN: "order-1", Status: payment.StatusProcessing},
		},
		syncTo: payment.StatusPaidFailed,
	}

	err := newReconService(orderSvc, paymentSvc).Reconcile(context.Background(), 0, 10, time.Now().UnixMilli())
	require.NoError(t, err)

	assert.Equal(t, 1, paymentSvc.synced)
	assert.Equal(t, []string{"order-1"}, orderSvc.failed)
	assert.Empty(t, orderSvc.completed)
}

func TestService_Reconcile_渠道仍在支付中留给下一轮(t *testing.T) {
	t.Parallel()
	orderSvc := &fakeOrderSvc{expired: []order.Order{{SN: "order-1", Status: order.StatusPending}}}
	paymentSvc := &fakePaymentSvc{
		payments: map[string]payment.Payment{
			"order-1": {ID: 11, OrderSN: "order-1", Status: payment.StatusProcessing},
		},
	}

	err := newReconService(orderSvc, paymentSvc).Reconcile(context.Background(), 0, 10, time.Now().UnixMilli())
	require.NoError(t, err)

	assert.Equal(t, 1, paymentSvc.synced)
	assert.Empty(t, orderSvc.completed)
	assert.Empty(t, orderSvc.failed)
	assert.Empty(t, orderSvc.canceled)
}

func TestService_Reconcile_落订单失败时退避重试(t *testing.T) {
	t.Parallel()
	orderSvc := &fakeOrderSvc{
		expired:          []order.Order{{SN: "order-1", Status: order.StatusPending}},
		completeFailures: 2,
	}
	paymentSvc := &fakePaymentSvc{payments: map[string]payment.Payment{
		"order-1": {ID: 11, OrderSN: "order-1", Status: payment.StatusPaidSuccess},
	}}

	err := newReconService(orderSvc, paymentSvc).Reconcile(context.Background(), 0, 10, time.Now().UnixMilli())
	require.NoError(t, err)
	assert.Equal(t, []string{"order-1"}, orderSvc.completed)
}

func TestService_Reconcile_订单侧已是终态视为对账完成(t *testing.T) {
	t.Parallel()
	orderSvc := &fakeOrderSvc{
		expired:       []order.Order{{SN: "order-1", Status: order.StatusPending}},
		completeFinal: true,
	}
	paymentSvc := &fakePaymentSvc{payments: map[string]payment.Payment{
		"order-1": {ID: 11, OrderSN: "order-1", Status: payment.StatusPaidSuccess},
	}}

	// 消费者已先一步落了订单终态,对账收到重复通知错误不再报错
	err := newReconService(orderSvc, paymentSvc).Reconcile(context.Background(), 0, 10, time.Now().UnixMilli())
	require.NoError(t, err)
	assert.Empty(t, orderSvc.completed)
}
