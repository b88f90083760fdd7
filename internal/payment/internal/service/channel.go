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

	"github.com/ecodeclub/emall/internal/payment/internal/domain"
)

// ChannelResult 渠道查单得到的权威结果
type ChannelResult struct {
	Status domain.PaymentStatus
	TxnID  string
	// Raw 渠道应答原文,落库留痕
	Raw string
}

// PaymentChannel 支付渠道抽象。
// 回调推送一律不可信,结果以 QueryStatus 查单为准。
type PaymentChannel interface {
	Type() domain.ChannelType
	Desc() string
	// Prepay 发起渠道支付,返回收银台地址与渠道交易号(渠道未必立刻给出)
	Prepay(ctx context.Context, pmt domain.Payment) (payURL, txnID string, err error)
	QueryStatus(ctx context.Context, pmt domain.Payment) (ChannelResult, error)
}
