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

package repository

import (
	"context"

	"github.com/ecodeclub/emall/internal/payment/internal/domain"
	"github.com/ecodeclub/emall/internal/payment/internal/repository/dao"
)

type PaymentRepository interface {
	FindOrCreate(ctx context.Context, pmt domain.Payment) (domain.Payment, error)
	FindPaymentBySN(ctx context.Context, sn string) (domain.Payment, error)
	FindPaymentByOrderSN(ctx context.Context, orderSN string) (domain.Payment, error)
	FindPaymentByTxnID(ctx context.Context, txnID string) (domain.Payment, error)
	UpdatePrepayResult(ctx context.Context, sn, txnID, payURL string) error
	UpdateFinalStatus(ctx context.Context, sn string, status domain.PaymentStatus, txnID, rawResponse string, paidAt, verifiedAt int64) error
	FindTimeoutPayments(ctx context.Context, offset, limit int, utime int64) ([]domain.Payment, error)
}

func NewRepository(d dao.PaymentDAO) PaymentRepository {
	return &paymentRepository{d: d}
}

type paymentRepository struct {
	d dao.PaymentDAO
}

func (p *paymentRepository) FindOrCreate(ctx context.Context, pmt domain.Payment) (domain.Payment, error) {
	res, err := p.d.FindOrCreate(ctx, p.toEntity(pmt))
	if err != nil {
		return domain.Payment{}, err
	}
	return p.toDomain(res), nil
}

func (p *paymentRepository) FindPaymentBySN(ctx context.Context, sn string) (domain.Payment, error) {
	res, err := p.d.FindPaymentBySN(ctx, sn)
	if err != nil {
		return domain.Payment{}, err
	}
	return p.toDomain(res), nil
}

func (p *paymentRepository) FindPaymentByOrderSN(ctx context.Context, orderSN string) (domain.Payment, error) {
	res, err := p.d.FindPaymentByOrderSN(ctx, orderSN)
	if err != nil {
		return domain.Payment{}, err
	}
	return p.toDomain(res), nil
}

func (p *paymentRepository) FindPaymentByTxnID(ctx context.Context, txnID string) (domain.Payment, error) {
	res, err := p.d.FindPaymentByTxnID(ctx, txnID)
	if err != nil {
		return domain.Payment{}, err
	}
	return p.toDomain(res), nil
}

func (p *paymentRepository) UpdatePrepayResult(ctx context.Context, sn, txnID, payURL string) error {
	return p.d.UpdatePrepayResult(ctx, sn, txnID, payURL)
}

func (p *paymentRepository) UpdateFinalStatus(ctx context.Context, sn string, status domain.PaymentStatus, txnID, rawResponse string, paidAt, verifiedAt int64) error {
	return p.d.UpdateFinalStatus(ctx, sn, status.ToInt64(), txnID, rawResponse, paidAt, verifiedAt)
}

func (p *paymentRepository) FindTimeoutPayments(ctx context.Context, offset, limit int, utime int64) ([]domain.Payment, error) {
	ps, err := p.d.FindTimeoutPayments(ctx, offset, limit, utime)
	if err != nil {
		return nil, err
	}
	res := make([]domain.Payment, 0, len(ps))
	for _, pmt := range ps {
		res = append(res, p.toDomain(pmt))
	}
	return res, nil
}

func (p *paymentRepository) toEntity(pmt domain.Payment) dao.Payment {
	return dao.Payment{
		Id:               pmt.ID,
		SN:               pmt.SN,
		OrderId:          pmt.OrderID,
		OrderSn:          pmt.OrderSN,
		OrderDescription: pmt.OrderDescription,
		TotalAmount:      pmt.TotalAmount,
		Currency:         pmt.Currency,
		PayerId:          pmt.PayerID,
		Channel:          pmt.ChannelType.ToInt64(),
		TxnID3rd:         pmt.TxnID3rd,
		PayURL:           pmt.PayURL,
		RawResponse:      pmt.RawResponse,
		Status:           pmt.Status.ToInt64(),
		PaidAt:           pmt.PaidAt,
		VerifiedAt:       pmt.VerifiedAt,
	}
}

func (p *paymentRepository) toDomain(pmt dao.Payment) domain.Payment {
	return domain.Payment{
		ID:               pmt.Id,
		SN:               pmt.SN,
		OrderID:          pmt.OrderId,
		OrderSN:          pmt.OrderSn,
		OrderDescription: pmt.OrderDescription,
		TotalAmount:      pmt.TotalAmount,
		Currency:         pmt.Currency,
		PayerID:          pmt.PayerId,
		ChannelType:      domain.ChannelType(pmt.Channel),
		TxnID3rd:         pmt.TxnID3rd,
		PayURL:           pmt.PayURL,
		RawResponse:      pmt.RawResponse,
		Status:           domain.PaymentStatus(pmt.Status),
		PaidAt:           pmt.PaidAt,
		VerifiedAt:       pmt.VerifiedAt,
		Ctime:            pmt.Ctime,
		Utime:            pmt.Utime,
	}
}
