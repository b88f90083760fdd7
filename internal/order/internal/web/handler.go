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
	"context"
	"fmt"

	"github.com/ecodeclub/ecache"
	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/emall/internal/order/internal/domain"
	"github.com/ecodeclub/emall/internal/order/internal/service"
	"github.com/ecodeclub/emall/internal/payment"
	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/ginx/session"
	"github.com/gin-gonic/gin"
)

var _ ginx.Handler = &Handler{}

type Handler struct {
	svc        service.Service
	paymentSvc payment.Service
	cache      ecache.Cache
}

func NewHandler(svc service.Service, paymentSvc payment.Service, cache ecache.Cache) *Handler {
	return &Handler{svc: svc, paymentSvc: paymentSvc, cache: cache}
}

func (h *Handler) PrivateRoutes(server *gin.Engine) {
	g := server.Group("/order")
	g.POST("/preview", ginx.BS[PreviewReq](h.Preview))
	g.POST("/create", ginx.BS[CheckoutReq](h.Checkout))
	g.POST("", ginx.BS[RetrieveOrderStatusReq](h.RetrieveOrderStatus))
	g.POST("/list", ginx.BS[ListOrdersReq](h.ListOrders))
	g.POST("/detail", ginx.BS[RetrieveOrderDetailReq](h.RetrieveOrderDetail))
	g.POST("/cancel", ginx.BS[CancelOrderReq](h.CancelOrder))
}

func (h *Handler) PublicRoutes(_ *gin.Engine) {}

func (h *Handler) Preview(ctx *ginx.Context, req PreviewReq, sess session.Session) (ginx.Result, error) {
	order, err := h.svc.Preview(ctx.Request.Context(), service.Checkout{
		BuyerID:        sess.Claims().Uid,
		Items:          h.toCheckoutItems(req.Items),
		DiscountCode:   req.DiscountCode,
		Region:         req.Region,
		ShippingZoneSN: req.ShippingZoneSN,
	})
	if err != nil {
		return systemErrorResult, fmt.Errorf("试算订单失败: %w", err)
	}
	return ginx.Result{
		Data: PreviewResp{
			Subtotal:       order.Subtotal,
			DiscountAmount: order.DiscountAmount,
			TaxAmount:      order.TaxAmount,
			ShippingFee:    order.ShippingFee,
			TotalAmount:    order.TotalAmount,
			Payments: slice.Map(h.paymentSvc.GetPaymentChannels(ctx.Request.Context()),
				func(idx int, src payment.Channel) PaymentItem {
					return PaymentItem{Type: src.Type.ToInt64()}
				}),
		},
	}, nil
}

// Checkout 创建订单并发起支付
func (h *Handler) Checkout(ctx *ginx.Context, req CheckoutReq, sess session.Session) (ginx.Result, error) {
	if err := h.checkRequestID(ctx.Request.Context(), req.RequestID); err != nil {
		return systemErrorResult, fmt.Errorf("请求ID错误: %w", err)
	}

	uid := sess.Claims().Uid
	order, err := h.svc.Checkout(ctx.Request.Context(), service.Checkout{
		BuyerID:        uid,
		Items:          h.toCheckoutItems(req.Items),
		DiscountCode:   req.DiscountCode,
		Region:         req.Region,
		ShippingZoneSN: req.ShippingZoneSN,
		PaymentChannel: req.PaymentChannel,
	})
	if err != nil {
		return systemErrorResult, fmt.Errorf("创建订单失败: %w", err)
	}

	p, err := h.paymentSvc.CreatePayment(ctx.Request.Context(), payment.Payment{
		OrderID:          order.ID,
		OrderSN:          order.SN,
		OrderDescription: h.orderDescription(order),
		TotalAmount:      order.TotalAmount,
		PayerID:          uid,
		ChannelType:      payment.ChannelType(req.PaymentChannel),
	})
	if err != nil {
		return systemErrorResult, fmt.Errorf("创建支付失败: %w", err)
	}

	err = h.svc.UpdateOrderPaymentInfo(ctx.Request.Context(), uid, order.ID, p.ID, p.SN)
	if err != nil {
		return systemErrorResult, fmt.Errorf("订单冗余支付ID及SN失败: %w", err)
	}

	return ginx.Result{
		Data: CheckoutResp{
			OrderSN:     order.SN,
			PaymentSN:   p.SN,
			PayURL:      p.PayURL,
			TotalAmount: order.TotalAmount,
		},
	}, nil
}

func (h *Handler) checkRequestID(ctx context.Context, requestID string) error {
	if requestID == "" {
		return fmt.Errorf("请求ID为空")
	}
	key := fmt.Sprintf("order:create:%s", requestID)
	val := h.cache.Get(ctx, key)
	if !val.KeyNotFound() {
		return fmt.Errorf("重复请求")
	}
	if err := h.cache.Set(ctx, key, requestID, 0); err != nil {
		return fmt.Errorf("缓存请求ID失败: %w", err)
	}
	return nil
}

func (h *Handler) orderDescription(order domain.Order) string {
	if len(order.Items) == 1 {
		return order.Items[0].SKUName
	}
	return fmt.Sprintf("%s 等%d件商品", order.Items[0].SKUName, len(order.Items))
}

func (h *Handler) RetrieveOrderStatus(ctx *ginx.Context, req RetrieveOrderStatusReq, sess session.Session) (ginx.Result, error) {
	order, err := h.svc.FindOrderBySNAndBuyerID(ctx.Request.Context(), req.SN, sess.Claims().Uid)
	if err != nil {
		return systemErrorResult, fmt.Errorf("查找订单失败: %w", err)
	}
	return ginx.Result{
		Data: RetrieveOrderStatusResp{
			Status:        order.Status.ToUint8(),
			PaymentStatus: order.PaymentStatus.ToUint8(),
		},
	}, nil
}

func (h *Handler) ListOrders(ctx *ginx.Context, req ListOrdersReq, sess session.Session) (ginx.Result, error) {
	orders, total, err := h.svc.ListOrders(ctx.Request.Context(), req.Offset, req.Limit, sess.Claims().Uid)
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{
		Data: ListOrdersResp{
			Total: total,
			Orders: slice.Map(orders, func(idx int, src domain.Order) Order {
				return toOrderVO(src)
			}),
		},
	}, nil
}

func (h *Handler) RetrieveOrderDetail(ctx *ginx.Context, req RetrieveOrderDetailReq, sess session.Session) (ginx.Result, error) {
	order, err := h.svc.FindOrderBySNAndBuyerID(ctx.Request.Context(), req.SN, sess.Claims().Uid)
	if err != nil {
		return systemErrorResult, fmt.Errorf("查找订单失败: %w", err)
	}
	return ginx.Result{
		Data: RetrieveOrderDetailResp{Order: toOrderVO(order)},
	}, nil
}

func (h *Handler) CancelOrder(ctx *ginx.Context, req CancelOrderReq, sess session.Session) (ginx.Result, error) {
	err := h.svc.CancelOrder(ctx.Request.Context(), sess.Claims().Uid, req.SN)
	if err != nil {
		return systemErrorResult, fmt.Errorf("取消订单失败: %w", err)
	}
	return ginx.Result{Msg: "OK"}, nil
}

func (h *Handler) toCheckoutItems(items []CheckoutSKU) []service.CheckoutItem {
	return slice.Map(items, func(idx int, src CheckoutSKU) service.CheckoutItem {
		return service.CheckoutItem{SKUSN: src.SN, Quantity: src.Quantity}
	})
}

func toOrderVO(src domain.Order) Order {
	return Order{
		SN:             src.SN,
		PaymentSN:      src.PaymentSN,
		Subtotal:       src.Subtotal,
		DiscountAmount: src.DiscountAmount,
		TaxRate:        src.TaxRate,
		TaxAmount:      src.TaxAmount,
		ShippingFee:    src.ShippingFee,
		TotalAmount:    src.TotalAmount,
		DiscountCode:   src.DiscountCode,
		Region:         src.Region,
		DeliveryPoint: DeliveryPoint{
			SN:            src.DeliveryPoint.SN,
			Name:          src.DeliveryPoint.Name,
			Address:       src.DeliveryPoint.Address,
			ContactPhone:  src.DeliveryPoint.ContactPhone,
			BusinessHours: src.DeliveryPoint.BusinessHours,
		},
		Status:        src.Status.ToUint8(),
		PaymentStatus: src.PaymentStatus.ToUint8(),
		Items: slice.Map(src.Items, func(idx int, src domain.OrderItem) OrderItem {
			return OrderItem{
				SKUSN:    src.SKUSN,
				Name:     src.SKUName,
				Image:    src.SKUImage,
				Price:    src.Price,
				Quantity: src.Quantity,
			}
		}),
		Histories: slice.Map(src.Histories, func(idx int, src domain.StatusHistory) StatusHistory {
			return StatusHistory{
				FromStatus: src.FromStatus.ToUint8(),
				ToStatus:   src.ToStatus.ToUint8(),
				Actor:      src.Actor,
				Note:       src.Note,
				Ctime:      src.Ctime,
			}
		}),
		Ctime: src.Ctime,
	}
}
