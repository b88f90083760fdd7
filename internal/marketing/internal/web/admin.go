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
	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/emall/internal/marketing/internal/domain"
	"github.com/ecodeclub/emall/internal/marketing/internal/service"
	"github.com/ecodeclub/ginx"
	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	svc service.AdminService
}

func NewAdminHandler(svc service.AdminService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

func (h *AdminHandler) PrivateRoutes(server *gin.Engine) {
	g := server.Group("/discount")
	g.POST("/create", ginx.B[CreateDiscountReq](h.Create))
	g.POST("/list", ginx.B[ListDiscountsReq](h.List))
	g.POST("/disable", ginx.B[DisableDiscountReq](h.Disable))
}

func (h *AdminHandler) PublicRoutes(_ *gin.Engine) {}

func (h *AdminHandler) Create(ctx *ginx.Context, req CreateDiscountReq) (ginx.Result, error) {
	id, err := h.svc.Create(ctx.Request.Context(), domain.Discount{
		Code:        req.Code,
		Type:        domain.DiscountType(req.Type),
		Value:       req.Value,
		MinPurchase: req.MinPurchase,
		MaxDiscount: req.MaxDiscount,
		UsageLimit:  req.UsageLimit,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
	})
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{Data: CreateDiscountResp{ID: id}}, nil
}

func (h *AdminHandler) List(ctx *ginx.Context, req ListDiscountsReq) (ginx.Result, error) {
	ds, total, err := h.svc.List(ctx.Request.Context(), req.Offset, req.Limit)
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{
		Data: ListDiscountsResp{
			Total: total,
			Discounts: slice.Map(ds, func(idx int, src domain.Discount) Discount {
				return Discount{
					ID:          src.ID,
					Code:        src.Code,
					Type:        src.Type.ToUint8(),
					Value:       src.Value,
					MinPurchase: src.MinPurchase,
					MaxDiscount: src.MaxDiscount,
					UsageLimit:  src.UsageLimit,
					UsedCount:   src.UsedCount,
					StartAt:     src.StartAt,
					EndAt:       src.EndAt,
					Status:      src.Status.ToUint8(),
				}
			}),
		},
	}, nil
}

func (h *AdminHandler) Disable(ctx *ginx.Context, req DisableDiscountReq) (ginx.Result, error) {
	if err := h.svc.Disable(ctx.Request.Context(), req.ID); err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{Msg: "OK"}, nil
}
