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

package domain

type ChannelType int64

func (t ChannelType) ToInt64() int64 {
	return int64(t)
}

const (
	ChannelTypeWechat ChannelType = 1
	ChannelTypeEpay   ChannelType = 2
)

type PaymentStatus int64

func (s PaymentStatus) ToInt64() int64 {
	return int64(s)
}

const (
	PaymentStatusUnpaid      PaymentStatus = 1 // 已创建,未发起渠道支付
	PaymentStatusProcessing  PaymentStatus = 2 // 已发起,等待渠道终态
	PaymentStatusPaidSuccess PaymentStatus = 3
	PaymentStatusPaidFailed  PaymentStatus = 4
)

// IsFinal 终态不再被任何通知或对账覆盖
func (s PaymentStatus) IsFinal() bool {
	return s == PaymentStatusPaidSuccess || s == PaymentStatusPaidFailed
}

type Payment struct {
	ID               int64
	SN               string
	OrderID          int64
	OrderSN          string
	OrderDescription string
	// TotalAmount 单位为分
	TotalAmount int64
	Currency    string
	PayerID     int64
	ChannelType ChannelType
	// TxnID3rd 渠道侧交易号,回调与对账用它关联
	TxnID3rd string
	// PayURL 微信为二维码内容,epay为收银台跳转地址
	PayURL string
	// RawResponse 渠道回调/查单原文,审计留痕
	RawResponse string
	Status PaymentStatus
	PaidAt int64
	// VerifiedAt 向渠道查单确认终态的时间,只信查单结果不信回调
	VerifiedAt int64
	Ctime      int64
	Utime      int64
}

type Channel struct {
	Type ChannelType
	Desc string
}
