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

package epay

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ecodeclub/emall/internal/payment/internal/domain"
	"github.com/ecodeclub/emall/internal/payment/internal/service"
	"github.com/go-resty/resty/v2"
	"github.com/gotomicro/ego/core/elog"
)

var errUnknownTransactionState = errors.New("未知的epay交易状态")

var _ service.PaymentChannel = (*Service)(nil)

// Service 外部通用支付网关(epay)渠道。
// 网关走 REST:先取访问令牌,再创建交易拿收银台地址,
// 终态以按 trackingId 查单为准。
type Service struct {
	client    *resty.Client
	appID     string
	appSecret string
	notifyURL string
	l         *elog.Component

	mu          sync.Mutex
	accessToken string
	tokenExpire time.Time

	stateToPaymentStatus map[string]domain.PaymentStatus
}

func NewService(baseURL, appID, appSecret, notifyURL string) *Service {
	return &Service{
		client: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(10 * time.Second).
			SetRetryCount(3).
			SetRetryWaitTime(time.Second),
		appID:     appID,
		appSecret: appSecret,
		notifyURL: notifyURL,
		l:         elog.DefaultLogger,
		stateToPaymentStatus: map[string]domain.PaymentStatus{
			"CREATED":   domain.PaymentStatusProcessing,
			"PENDING":   domain.PaymentStatusProcessing,
			"COMPLETED": domain.PaymentStatusPaidSuccess,
			"FAILED":    domain.PaymentStatusPaidFailed,
			"CANCELED":  domain.PaymentStatusPaidFailed,
			"EXPIRED":   domain.PaymentStatusPaidFailed,
		},
	}
}

func (s *Service) Type() domain.ChannelType {
	return domain.ChannelTypeEpay
}

func (s *Service) Desc() string {
	return "epay"
}

type tokenResp struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
}

type transactionReq struct {
	OutTradeNo  string `json:"outTradeNo"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
	NotifyURL   string `json:"notifyUrl"`
}

type transactionResp struct {
	TrackingID string `json:"trackingId"`
	PayURL     string `json:"payUrl"`
	State      string `json:"state"`
}

// token 缓存访问令牌,提前一分钟刷新
func (s *Service) token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.accessToken != "" && time.Now().Before(s.tokenExpire) {
		return s.accessToken, nil
	}
	var res tokenResp
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"appId": s.appID, "appSecret": s.appSecret}).
		SetResult(&res).
		Post("/api/v1/token")
	if err != nil {
		return "", fmt.Errorf("获取epay令牌失败: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("获取epay令牌失败: HTTP %d", resp.StatusCode())
	}
	s.accessToken = res.AccessToken
	s.tokenExpire = time.Now().Add(time.Duration(res.ExpiresIn)*time.Second - time.Minute)
	return s.accessToken, nil
}

func (s *Service) Prepay(ctx context.Context, pmt domain.Payment) (string, string, error) {
	token, err := s.token(ctx)
	if err != nil {
		return "", "", err
	}
	var res transactionResp
	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(transactionReq{
			OutTradeNo:  pmt.OrderSN,
			Amount:      pmt.TotalAmount,
			Currency:    pmt.Currency,
			Description: pmt.OrderDescription,
			NotifyURL:   s.notifyURL,
		}).
		SetResult(&res).
		Post("/api/v1/transactions")
	if err != nil {
		return "", "", fmt.Errorf("创建epay交易失败: %w", err)
	}
	if resp.IsError() {
		return "", "", fmt.Errorf("创建epay交易失败: HTTP %d, body=%s", resp.StatusCode(), resp.String())
	}
	return res.PayURL, res.TrackingID, nil
}

func (s *Service) QueryStatus(ctx context.Context, pmt domain.Payment) (service.ChannelResult, error) {
	token, err := s.token(ctx)
	if err != nil {
		return service.ChannelResult{}, err
	}
	var res transactionResp
	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParam("outTradeNo", pmt.OrderSN).
		SetResult(&res).
		Get("/api/v1/transactions")
	if err != nil {
		return service.ChannelResult{}, fmt.Errorf("epay查单失败: %w", err)
	}
	if resp.IsError() {
		return service.ChannelResult{}, fmt.Errorf("epay查单失败: HTTP %d", resp.StatusCode())
	}
	status, ok := s.stateToPaymentStatus[res.State]
	if !ok {
		return service.ChannelResult{}, fmt.Errorf("%w: %s", errUnknownTransactionState, res.State)
	}
	return service.ChannelResult{
		Status: status,
		TxnID:  res.TrackingID,
		Raw:    resp.String(),
	}, nil
}
