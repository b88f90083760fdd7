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
	"github.com/ecodeclub/emall/internal/shipping/internal/domain"
	"github.com/ecodeclub/emall/internal/shipping/internal/service"
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
	g := server.Group("/shipping/zone")
	g.POST("/create", ginx.B[CreateZoneReq](h.Create))
	g.POST("/list", ginx.B[ListZonesReq](h.List))
	g.POST("/disable", ginx.B[DisableZoneReq](h.Disable))
}

func (h *AdminHandler) PublicRoutes(_ *gin.Engine) {}

func (h *AdminHandler) Create(ctx *ginx.Context, req CreateZoneReq) (ginx.Result, error) {
	id, err := h.svc.Create(ctx.Request.Context(), domain.Zone{
		Name:                  req.Name,
		Address:               req.Address,
		ContactPhone:          req.ContactPhone,
		BusinessHours:         req.BusinessHours,
		BaseRate:              req.BaseRate,
		FreeShippingThreshold: req.FreeShippingThreshold,
	})
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{Data: CreateZoneResp{ID: id}}, nil
}

func (h *AdminHandler) List(ctx *ginx.Context, req ListZonesReq) (ginx.Result, error) {
	zs, total, err := h.svc.List(ctx.Request.Context(), req.Offset, req.Limit)
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{
		Data: ListZonesResp{
			Total: total,
			Zones: slice.Map(zs, func(idx int, src domain.Zone) Zone {
				return Zone{
					ID:                    src.ID,
					SN:                    src.SN,
					Name:                  src.Name,
					Address:               src.Address,
					ContactPhone:          src.ContactPhone,
					BusinessHours:         src.BusinessHours,
					BaseRate:              src.BaseRate,
					FreeShippingThreshold: src.FreeShippingThreshold,
					Status:                src.Status.ToUint8(),
				}
			}),
		},
	}, nil
}

func (h *AdminHandler) Disable(ctx *ginx.Context, req DisableZoneReq) (ginx.Result, error) {
	if err := h.svc.Disable(ctx.Request.Context(), req.ID); err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{Msg: "OK"}, nil
}
