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

	"github.com/ecodeclub/emall/internal/payment/internal/domain"
	"github.com/ecodeclub/emall/internal/payment/internal/event"
	"github.com/ecodeclub/emall/internal/payment/internal/repository"
	"github.com/ecodeclub/emall/internal/payment/internal/repository/dao"
	"github.com/ecodeclub/emall/internal/pkg/sequencenumber"
	"github.com/gotomicro/ego/core/elog"
)

var (
	ErrPaymentNotFound       = dao.ErrPaymentNotFound
	ErrPaymentStatusFinal    = dao.ErrPaymentStatusFinal
	ErrUnknownChannel        = errors.New("未知的支付渠道")
	ErrPaymentStatusNotFinal = errors.New("渠道侧支付状态未到终态")
)

//go:generate mockgen -source=service.go -package=paymentmocks -destination=../../mocks/payment.mock.go -typed Service
type Service interface {
	// CreatePayment 创建支付记录并发起渠道预支付。
	// 同一订单同一渠道重复调用是幂等的,返回已有记录。
	CreatePayment(ctx context.Context, pmt domain.Payment) (domain.Payment, error)
	GetPaymentChannels(ctx context.Context) []domain.Channel
	FindPaymentBySN(ctx context.Context, sn string) (domain.Payment, error)
	FindPaymentByOrderSN(ctx context.Context, orderSN string) (domain.Payment, error)
	// HandleCallback 处理渠道回调。回调内容不可信,只取订单号,
	// 真实状态以渠道查单为准。找不到对应支付记录时丢弃并记日志。
	HandleCallback(ctx context.Context, channel domain.ChannelType, orderSN string) error
	// SyncPaymentStatus 主动向渠道对账一笔支付,超过截止时间仍未到终态的按失败关单
	SyncPaymentStatus(ctx context.Context, pmt domain.Payment, deadline int64) error
	FindTimeoutPayments(ctx context.Context, offset, limit int, utime int64) ([]domain.Payment, error)
}

func NewService(channels []PaymentChannel,
	repo repository.PaymentRepository,
	producer event.PaymentEventProducer,
	snGenerator *sequencenumber.Generator) Service {
	channelMap := make(map[domain.ChannelType]PaymentChannel, len(channels))
	for _, c := range channels {
		channelMap[c.Type()] = c
	}
	return &service{
		channels:    channelMap,
		repo:        repo,
		producer:    producer,
		snGenerator: snGenerator,
		l:           elog.DefaultLogger,
	}
}

type service struct {
	channels    map[domain.ChannelType]PaymentChannel
	repo        repository.PaymentRepository
	producer    event.PaymentEventProducer
	snGenerator *sequencenumber.Generator
	l           *elog.Component
}

func (s *service) CreatePayment(ctx context.Context, pmt domain.Payment) (domain.Payment, error) {
	channel, ok := s.channels[pmt.ChannelType]
	if !ok {
		return domain.Payment{}, fmt.Errorf("%w: %d", ErrUnknownChannel, pmt.ChannelType)
	}
	sn, err := s.snGenerator.Generate(pmt.PayerID)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("生成支付序列号失败: %w", err)
	}
	pmt.SN = sn
	pmt.Status = domain.PaymentStatusUnpaid
	if pmt.Currency == "" {
		pmt.Currency = "CNY"
	}
	created, err := s.repo.FindOrCreate(ctx, pmt)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("创建支付记录失败: %w", err)
	}
	// 已有收银台地址说明预支付已经做过,直接复用
	if created.PayURL != "" {
		return created, nil
	}
	payURL, txnID, err := channel.Prepay(ctx, created)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("渠道预支付失败: %w", err)
	}
	err = s.repo.UpdatePrepayResult(ctx, created.SN, txnID, payURL)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("保存预支付结果失败: %w", err)
	}
	created.PayURL = payURL
	created.TxnID3rd = txnID
	created.Status = domain.PaymentStatusProcessing
	return created, nil
}

func (s *service) GetPaymentChannels(_ context.Context) []domain.Channel {
	res := make([]domain.Channel, 0, len(s.channels))
	for _, c := range s.channels {
		res = append(res, domain.Channel{Type: c.Type(), Desc: c.Desc()})
	}
	return res
}

func (s *service) FindPaymentBySN(ctx context.Context, sn string) (domain.Payment, error) {
	return s.repo.FindPaymentBySN(ctx, sn)
}

func (s *service) FindPaymentByOrderSN(ctx context.Context, orderSN string) (domain.Payment, error) {
	return s.repo.FindPaymentByOrderSN(ctx, orderSN)
}

func (s *service) HandleCallback(ctx context.Context, channel domain.ChannelType, orderSN string) error {
	pmt, err := s.repo.FindPaymentByOrderSN(ctx, orderSN)
	if err != nil {
		if errors.Is(err, ErrPaymentNotFound) {
			// 可能是伪造或串台的回调,丢弃
			s.l.Warn("收到未知订单号的支付回调",
				elog.Int64("channel", channel.ToInt64()),
				elog.String("orderSN", orderSN))
			return nil
		}
		return err
	}
	if pmt.ChannelType != channel {
		s.l.Warn("支付回调渠道与记录不符,丢弃",
			elog.Int64("channel", channel.ToInt64()),
			elog.String("orderSN", orderSN))
		return nil
	}
	return s.reconcile(ctx, pmt)
}

// reconcile 向渠道查单并按权威结果落终态
func (s *service) reconcile(ctx context.Context, pmt domain.Payment) error {
	channel, ok := s.channels[pmt.ChannelType]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownChannel, pmt.ChannelType)
	}
	res, err := channel.QueryStatus(ctx, pmt)
	if err != nil {
		return fmt.Errorf("渠道查单失败: %w", err)
	}
	if !res.Status.IsFinal() {
		return fmt.Errorf("%w: sn=%s", ErrPaymentStatusNotFinal, pmt.SN)
	}
	return s.settle(ctx, pmt, res)
}

// settle 以条件更新落终态,只有首次写成功的一方发事件,
// 重复回调或并发对账在这里天然去重
func (s *service) settle(ctx context.Context, pmt domain.Payment, res ChannelResult) error {
	now := time.Now().UnixMilli()
	paidAt := int64(0)
	if res.Status == domain.PaymentStatusPaidSuccess {
		paidAt = now
	}
	err := s.repo.UpdateFinalStatus(ctx, pmt.SN, res.Status, res.TxnID, res.Raw, paidAt, now)
	if err != nil {
		if errors.Is(err, ErrPaymentStatusFinal) {
			s.l.Info("支付已是终态,忽略重复通知", elog.String("sn", pmt.SN))
			return nil
		}
		return fmt.Errorf("更新支付终态失败: %w", err)
	}
	evt := event.PaymentEvent{
		OrderSN:   pmt.OrderSN,
		PaymentID: pmt.ID,
		PayerID:   pmt.PayerID,
		Status:    res.Status.ToInt64(),
	}
	err = s.producer.Produce(ctx, evt)
	if err != nil {
		// 终态已落库,事件发送失败由定时对账兜底
		s.l.Error("发送支付事件失败",
			elog.FieldErr(err),
			elog.String("sn", pmt.SN),
			elog.Int64("status", evt.Status))
	}
	return nil
}

func (s *service) SyncPaymentStatus(ctx context.Context, pmt domain.Payment, deadline int64) error {
	channel, ok := s.channels[pmt.ChannelType]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownChannel, pmt.ChannelType)
	}
	res, err := channel.QueryStatus(ctx, pmt)
	if err != nil {
		return fmt.Errorf("渠道查单失败: %w", err)
	}
	if !res.Status.IsFinal() {
		if pmt.Utime > deadline {
			return nil
		}
		// 超时仍未支付,按失败关单
		res.Status = domain.PaymentStatusPaidFailed
	}
	return s.settle(ctx, pmt, res)
}

func (s *service) FindTimeoutPayments(ctx context.Context, offset, limit int, utime int64) ([]domain.Payment, error) {
	return s.repo.FindTimeoutPayments(ctx, offset, limit, utime)
}
