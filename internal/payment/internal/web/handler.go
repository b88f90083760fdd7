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

package web

import (
	"github.com/ecodeclub/emall/internal/payment/internal/domain"
	"github.com/ecodeclub/emall/internal/payment/internal/service"
	"github.com/ecodeclub/emall/internal/payment/internal/service/wechat"
	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/ginx/session"
	"github.com/gin-gonic/gin"
	"github.com/gotomicro/ego/core/elog"
	"github.com/wechatpay-apiv3/wechatpay-go/services/payments"
)

var _ ginx.Handler = (*Handler)(nil)

type Handler struct {
	svc           service.Service
	notifyHandler wechat.NotifyHandler
	l             *elog.Component
}

func NewHandler(svc service.Service, notifyHandler wechat.NotifyHandler) *Handler {
	return &Handler{
		svc:           svc,
		notifyHandler: notifyHandler,
		l:             elog.DefaultLogger,
	}
}

func (h *Handler) PublicRoutes(server *gin.Engine) {
	server.Any("/pay/callback/wechat", ginx.W(h.HandleWechatCallback))
	server.POST("/pay/callback/epay", ginx.B[EpayCallbackReq](h.HandleEpayCallback))
}

func (h *Handler) PrivateRoutes(server *gin.Engine) {
	server.POST("/pay/status", ginx.BS[PaymentStatusReq](h.PaymentStatus))
}

func (h *Handler) HandleWechatCallback(ctx *ginx.Context) (ginx.Result, error) {
	transaction := &payments.Transaction{}
	_, err := h.notifyHandler.ParseNotifyRequest(ctx, ctx.Request, transaction)
	if err != nil {
		// 验签不过一律视为伪造回调
		h.l.Warn("微信支付回调验签失败", elog.FieldErr(err))
		return ginx.Result{}, err
	}
	if transaction.OutTradeNo == nil {
		h.l.Warn("微信支付回调缺少商户订单号")
		return ginx.Result{}, nil
	}
	err = h.svc.HandleCallback(ctx, domain.ChannelTypeWechat, *transaction.OutTradeNo)
	return ginx.Result{}, err
}

func (h *Handler) HandleEpayCallback(ctx *ginx.Context, req EpayCallbackReq) (ginx.Result, error) {
	err := h.svc.HandleCallback(ctx, domain.ChannelTypeEpay, req.OutTradeNo)
	return ginx.Result{}, err
}

func (h *Handler) PaymentStatus(ctx *ginx.Context, req PaymentStatusReq, _ session.Session) (ginx.Result, error) {
	pmt, err := h.svc.FindPaymentByOrderSN(ctx, req.OrderSN)
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{
		Data: PaymentVO{
			SN:          pmt.SN,
			OrderSN:     pmt.OrderSN,
			TotalAmount: pmt.TotalAmount,
			Currency:    pmt.Currency,
			Channel:     pmt.ChannelType.ToInt64(),
			PayURL:      pmt.PayURL,
			Status:      pmt.Status.ToInt64(),
			PaidAt:      pmt.PaidAt,
		},
	}, nil
}
