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

package wechat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ecodeclub/emall/internal/payment/internal/domain"
	"github.com/ecodeclub/emall/internal/payment/internal/service"
	"github.com/gotomicro/ego/core/elog"
	"github.com/wechatpay-apiv3/wechatpay-go/core"
	"github.com/wechatpay-apiv3/wechatpay-go/services/payments"
	"github.com/wechatpay-apiv3/wechatpay-go/services/payments/native"
)

var errUnknownTransactionState = errors.New("未知的微信事务状态")

//go:generate mockgen -source=./native.go -package=wechatmocks -destination=./mocks/native.mock.go -typed NativeAPIService
type NativeAPIService interface {
	Prepay(ctx context.Context, req native.PrepayRequest) (resp *native.PrepayResponse, result *core.APIResult, err error)
	QueryOrderByOutTradeNo(ctx context.Context, req native.QueryOrderByOutTradeNoRequest) (resp *payments.Transaction, result *core.APIResult, err error)
}

var _ service.PaymentChannel = (*NativePaymentService)(nil)

type NativePaymentService struct {
	svc NativeAPIService
	l   *elog.Component

	appID     string
	mchID     string
	notifyURL string
	// 微信 native 的 TradeState:
	// SUCCESS:支付成功
	// REFUND:转入退款
	// NOTPAY:未支付
	// CLOSED:已关闭
	// REVOKED:已撤销(付款码支付)
	// USERPAYING:用户支付中(付款码支付)
	// PAYERROR:支付失败(其他原因,如银行返回失败)
	tradeStateToPaymentStatus map[string]domain.PaymentStatus
}

func NewNativePaymentService(svc NativeAPIService, appid, mchid, notifyURL string) *NativePaymentService {
	return &NativePaymentService{
		svc:       svc,
		l:         elog.DefaultLogger,
		appID:     appid,
		mchID:     mchid,
		notifyURL: notifyURL,
		tradeStateToPaymentStatus: map[string]domain.PaymentStatus{
			"SUCCESS":    domain.PaymentStatusPaidSuccess,
			"PAYERROR":   domain.PaymentStatusPaidFailed,
			"CLOSED":     domain.PaymentStatusPaidFailed,
			"REVOKED":    domain.PaymentStatusPaidFailed,
			"NOTPAY":     domain.PaymentStatusProcessing,
			"USERPAYING": domain.PaymentStatusProcessing,
		},
	}
}

func (n *NativePaymentService) Type() domain.ChannelType {
	return domain.ChannelTypeWechat
}

func (n *NativePaymentService) Desc() string {
	return "微信"
}

func (n *NativePaymentService) Prepay(ctx context.Context, pmt domain.Payment) (string, string, error) {
	if pmt.TotalAmount <= 0 {
		return "", "", fmt.Errorf("非法支付金额: %d", pmt.TotalAmount)
	}
	resp, _, err := n.svc.Prepay(ctx,
		native.PrepayRequest{
			Appid:       core.String(n.appID),
			Mchid:       core.String(n.mchID),
			Description: core.String(pmt.OrderDescription),
			OutTradeNo:  core.String(pmt.OrderSN),
			TimeExpire:  core.Time(time.Now().Add(time.Minute * 30)),
			NotifyUrl:   core.String(n.notifyURL),
			Amount: &native.Amount{
				Currency: core.String(pmt.Currency),
				Total:    core.Int64(pmt.TotalAmount),
			},
		},
	)
	if err != nil {
		return "", "", fmt.Errorf("微信预支付失败: %w", err)
	}
	// 微信在查单/回调阶段才给出 transaction_id
	return *resp.CodeUrl, "", nil
}

func (n *NativePaymentService) QueryStatus(ctx context.Context, pmt domain.Payment) (service.ChannelResult, error) {
	txn, _, err := n.svc.QueryOrderByOutTradeNo(ctx, native.QueryOrderByOutTradeNoRequest{
		OutTradeNo: core.String(pmt.OrderSN),
		Mchid:      core.String(n.mchID),
	})
	if err != nil {
		return service.ChannelResult{}, fmt.Errorf("微信查单失败: %w", err)
	}
	status, ok := n.tradeStateToPaymentStatus[*txn.TradeState]
	if !ok {
		return service.ChannelResult{}, fmt.Errorf("%w: %s", errUnknownTransactionState, *txn.TradeState)
	}
	var txnID string
	if txn.TransactionId != nil {
		txnID = *txn.TransactionId
	}
	raw, _ := json.Marshal(txn)
	return service.ChannelResult{
		Status: status,
		TxnID:  txnID,
		Raw:    string(raw),
	}, nil
}
