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
	"errors"
	"fmt"

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/emall/internal/order/internal/domain"
	"github.com/ecodeclub/emall/internal/order/internal/service"
	"github.com/ecodeclub/ginx"
	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	svc service.Service
}

func NewAdminHandler(svc service.Service) *AdminHandler {
	return &AdminHandler{svc: svc}
}

func (h *AdminHandler) PrivateRoutes(server *gin.Engine) {
	g := server.Group("/order")
	g.POST("/list", ginx.B[ListAllOrdersReq](h.List))
	g.POST("/detail", ginx.B[RetrieveOrderDetailReq](h.Detail))
	g.POST("/status", ginx.B[UpdateOrderStatusReq](h.UpdateStatus))
}

func (h *AdminHandler) PublicRoutes(_ *gin.Engine) {}

func (h *AdminHandler) List(ctx *ginx.Context, req ListAllOrdersReq) (ginx.Result, error) {
	orders, total, err := h.svc.ListAllOrders(ctx.Request.Context(),
		req.Offset, req.Limit, domain.OrderStatus(req.Status))
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

func (h *AdminHandler) Detail(ctx *ginx.Context, req RetrieveOrderDetailReq) (ginx.Result, error) {
	order, err := h.svc.FindOrderBySN(ctx.Request.Context(), req.SN)
	if err != nil {
		return systemErrorResult, fmt.Errorf("查找订单失败: %w", err)
	}
	return ginx.Result{
		Data: RetrieveOrderDetailResp{Order: toOrderVO(order)},
	}, nil
}

func (h *AdminHandler) UpdateStatus(ctx *ginx.Context, req UpdateOrderStatusReq) (ginx.Result, error) {
	err := h.svc.UpdateStatus(ctx.Request.Context(), req.SN, domain.OrderStatus(req.Status))
	if errors.Is(err, service.ErrInvalidTransition) {
		return ginx.Result{Code: 503002, Msg: "非法的订单状态流转"}, err
	}
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{Msg: "OK"}, nil
}
