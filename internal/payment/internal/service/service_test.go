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
	"sync"
	"testing"

	"github.com/ecodeclub/emall/internal/payment/internal/domain"
	"github.com/ecodeclub/emall/internal/payment/internal/event"
	"github.com/ecodeclub/emall/internal/payment/internal/repository/dao"
	"github.com/ecodeclub/emall/internal/pkg/sequencenumber"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[string]domain.Payment
	nextID   int64
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[string]domain.Payment)}
}

func (f *fakePaymentRepo) FindOrCreate(_ context.Context, pmt domain.Payment) (domain.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.payments {
		if p.OrderSN == pmt.OrderSN && p.ChannelType == pmt.ChannelType {
			return p, nil
		}
	}
	f.nextID++
	pmt.ID = f.nextID
	f.payments[pmt.SN] = pmt
	return pmt, nil
}

func (f *fakePaymentRepo) FindPaymentBySN(_ context.Context, sn string) (domain.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[sn]
	if !ok {
		return domain.Payment{}, dao.ErrPaymentNotFound
	}
	return p, nil
}

func (f *fakePaymentRepo) FindPaymentByOrderSN(_ context.Context, orderSN string) (domain.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.payments {
		if p.OrderSN == orderSN {
			return p, nil
		}
	}
	return domain.Payment{}, dao.ErrPaymentNotFound
}

func (f *fakePaymentRepo) FindPaymentByTxnID(_ context.Context, txnID string) (domain.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.payments {
		if p.TxnID3rd == txnID {
			return p, nil
		}
	}
	return domain.Payment{}, dao.ErrPaymentNotFound
}

func (f *fakePaymentRepo) UpdatePrepayResult(_ context.Context, sn, txnID, payURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[sn]
	if !ok {
		return dao.ErrPaymentNotFound
	}
	p.TxnID3rd = txnID
	p.PayURL = payURL
	p.Status = domain.PaymentStatusProcessing
	f.payments[sn] = p
	return nil
}

func (f *fakePaymentRepo) UpdateFinalStatus(_ context.Context, sn string, status domain.PaymentStatus, txnID, rawResponse string, paidAt, verifiedAt int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[sn]
	if !ok {
		return dao.ErrPaymentNotFound
	}
	if p.Status.IsFinal() {
		return dao.ErrPaymentStatusFinal
	}
	p.Status = status
	if txnID != "" {
		p.TxnID3rd = txnID
	}
	p.RawResponse = rawResponse
	p.PaidAt = paidAt
	p.VerifiedAt = verifiedAt
	f.payments[sn] = p
	return nil
}

func (f *fakePaymentRepo) FindTimeoutPayments(_ context.Context, _, limit int, utime int64) ([]domain.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res := make([]domain.Payment, 0, limit)
	for _, p := range f.payments {
		if !p.Status.IsFinal() && p.Utime <= utime {
			res = append(res, p)
		}
		if len(res) >= limit {
			break
		}
	}
	return res, nil
}

type fakeChannel struct {
	typ     domain.ChannelType
	payURL  string
	txnID   string
	status  domain.PaymentStatus
	prepays int
	queries int
}

func (f *fakeChannel) Type() domain.ChannelType {
	return f.typ
}

func (f *fakeChannel) Desc() string {
	return "fake"
}

func (f *fakeChannel) Prepay(_ context.Context, _ domain.Payment) (string, string, error) {
	f.prepays++
	return f.payURL, f.txnID, nil
}

func (f *fakeChannel) QueryStatus(_ context.Context, _ domain.Payment) (ChannelResult, error) {
	f.queries++
	return ChannelResult{Status: f.status, TxnID: f.txnID, Raw: `{"state":"mock"}`}, nil
}

type fakeProducer struct {
	mu     sync.Mutex
	events []event.PaymentEvent
}

func (f *fakeProducer) Produce(_ context.Context, evt event.PaymentEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, evt)
	return nil
}

func newTestService(channel *fakeChannel) (Service, *fakePaymentRepo, *fakeProducer) {
	repo := newFakePaymentRepo()
	producer := &fakeProducer{}
	svc := NewService([]PaymentChannel{channel}, repo, producer, sequencenumber.NewGenerator())
	return svc, repo, producer
}

func TestService_CreatePayment(t *testing.T) {
	t.Parallel()

	channel := &fakeChannel{
		typ:    domain.ChannelTypeWechat,
		payURL: "weixin://wxpay/bizpayurl?pr=mock",
		status: domain.PaymentStatusProcessing,
	}
	svc, _, _ := newTestService(channel)

	pmt, err := svc.CreatePayment(context.Background(), domain.Payment{
		OrderID:          1,
		OrderSN:          "order-SN-1",
		OrderDescription: "云内存条 x 2",
		TotalAmount:      109400,
		PayerID:          100,
		ChannelType:      domain.ChannelTypeWechat,
	})
	require.NoError(t, err)
	assert.NotZero(t, pmt.ID)
	assert.NotEmpty(t, pmt.SN)
	assert.Equal(t, "weixin://wxpay/bizpayurl?pr=mock", pmt.PayURL)
	assert.Equal(t, domain.PaymentStatusProcessing, pmt.Status)

	// 同一订单同一渠道重复创建,复用已有记录,不再发起预支付
	again, err := svc.CreatePayment(context.Background(), domain.Payment{
		OrderID:          1,
		OrderSN:          "order-SN-1",
		TotalAmount:      109400,
		PayerID:          100,
		ChannelType:      domain.ChannelTypeWechat,
	})
	require.NoError(t, err)
	assert.Equal(t, pmt.SN, again.SN)
	assert.Equal(t, 1, channel.prepays)
}

func TestService_CreatePayment_未知渠道(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(&fakeChannel{typ: domain.ChannelTypeWechat})
	_, err := svc.CreatePayment(context.Background(), domain.Payment{
		OrderSN:     "order-SN-2",
		TotalAmount: 1000,
		PayerID:     100,
		ChannelType: domain.ChannelType(99),
	})
	assert.ErrorIs(t, err, ErrUnknownChannel)
}

func TestService_HandleCallback_重复回调只发一次事件(t *testing.T) {
	t.Parallel()

	channel := &fakeChannel{
		typ:    domain.ChannelTypeWechat,
		payURL: "weixin://wxpay/bizpayurl?pr=mock",
		txnID:  "wx-txn-1",
		status: domain.PaymentStatusPaidSuccess,
	}
	svc, _, producer := newTestService(channel)
	pmt, err := svc.CreatePayment(context.Background(), domain.Payment{
		OrderID:     1,
		OrderSN:     "order-SN-3",
		TotalAmount: 109400,
		PayerID:     100,
		ChannelType: domain.ChannelTypeWechat,
	})
	require.NoError(t, err)

	err = svc.HandleCallback(context.Background(), domain.ChannelTypeWechat, "order-SN-3")
	require.NoError(t, err)
	// 渠道重发的回调是幂等的
	err = svc.HandleCallback(context.Background(), domain.ChannelTypeWechat, "order-SN-3")
	require.NoError(t, err)

	require.Len(t, producer.events, 1)
	evt := producer.events[0]
	assert.Equal(t, "order-SN-3", evt.OrderSN)
	assert.Equal(t, pmt.ID, evt.PaymentID)
	assert.Equal(t, int64(100), evt.PayerID)
	assert.Equal(t, domain.PaymentStatusPaidSuccess.ToInt64(), evt.Status)

	got, err := svc.FindPaymentBySN(context.Background(), pmt.SN)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPaidSuccess, got.Status)
	assert.Equal(t, "wx-txn-1", got.TxnID3rd)
	assert.NotZero(t, got.PaidAt)
}

func TestService_HandleCallback_未知订单号丢弃(t *testing.T) {
	t.Parallel()

	channel := &fakeChannel{typ: domain.ChannelTypeWechat, status: domain.PaymentStatusPaidSuccess}
	svc, _, producer := newTestService(channel)

	err := svc.HandleCallback(context.Background(), domain.ChannelTypeWechat, "no-such-order")
	require.NoError(t, err)
	assert.Zero(t, channel.queries)
	assert.Empty(t, producer.events)
}

func TestService_HandleCallback_渠道不符丢弃(t *testing.T) {
	t.Parallel()

	channel := &fakeChannel{typ: domain.ChannelTypeWechat, status: domain.PaymentStatusPaidSuccess}
	svc, _, producer := newTestService(channel)
	_, err := svc.CreatePayment(context.Background(), domain.Payment{
		OrderSN:     "order-SN-4",
		TotalAmount: 1000,
		PayerID:     100,
		ChannelType: domain.ChannelTypeWechat,
	})
	require.NoError(t, err)

	err = svc.HandleCallback(context.Background(), domain.ChannelTypeEpay, "order-SN-4")
	require.NoError(t, err)
	assert.Empty(t, producer.events)
}

func TestService_HandleCallback_支付失败发失败事件(t *testing.T) {
	t.Parallel()

	channel := &fakeChannel{
		typ:    domain.ChannelTypeEpay,
		txnID:  "epay-txn-1",
		status: domain.PaymentStatusPaidFailed,
	}
	svc, _, producer := newTestService(channel)
	_, err := svc.CreatePayment(context.Background(), domain.Payment{
		OrderSN:     "order-SN-5",
		TotalAmount: 1000,
		PayerID:     100,
		ChannelType: domain.ChannelTypeEpay,
	})
	require.NoError(t, err)

	err = svc.HandleCallback(context.Background(), domain.ChannelTypeEpay, "order-SN-5")
	require.NoError(t, err)
	require.Len(t, producer.events, 1)
	assert.Equal(t, domain.PaymentStatusPaidFailed.ToInt64(), producer.events[0].Status)
}

func TestService_HandleCallback_未到终态不落库(t *testing.T) {
	t.Parallel()

	channel := &fakeChannel{typ: domain.ChannelTypeWechat, status: domain.PaymentStatusProcessing}
	svc, _, producer := newTestService(channel)
	pmt, err := svc.CreatePayment(context.Background(), domain.Payment{
		OrderSN:     "order-SN-6",
		TotalAmount: 1000,
		PayerID:     100,
		ChannelType: domain.ChannelTypeWechat,
	})
	require.NoError(t, err)

	err = svc.HandleCallback(context.Background(), domain.ChannelTypeWechat, "order-SN-6")
	assert.ErrorIs(t, err, ErrPaymentStatusNotFinal)
	assert.Empty(t, producer.events)

	got, err := svc.FindPaymentBySN(context.Background(), pmt.SN)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusProcessing, got.Status)
}

func TestService_SyncPaymentStatus_超时关单(t *testing.T) {
	t.Parallel()

	channel := &fakeChannel{typ: domain.ChannelTypeWechat, status: domain.PaymentStatusProcessing}
	svc, repo, producer := newTestService(channel)
	pmt, err := svc.CreatePayment(context.Background(), domain.Payment{
		OrderSN:     "order-SN-7",
		TotalAmount: 1000,
		PayerID:     100,
		ChannelType: domain.ChannelTypeWechat,
	})
	require.NoError(t, err)

	// 渠道侧仍未支付且已超过截止时间,按失败关单
	err = svc.SyncPaymentStatus(context.Background(), pmt, pmt.Utime+1)
	require.NoError(t, err)
	require.Len(t, producer.events, 1)
	assert.Equal(t, domain.PaymentStatusPaidFailed.ToInt64(), producer.events[0].Status)

	got, err := repo.FindPaymentBySN(context.Background(), pmt.SN)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPaidFailed, got.Status)
}
