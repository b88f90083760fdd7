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
	"github.com/ecodeclub/emall/internal/tax/internal/domain"
	"github.com/ecodeclub/emall/internal/tax/internal/service"
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
	g := server.Group("/tax")
	g.POST("/create", ginx.B[CreateConfigReq](h.Create))
	g.POST("/list", ginx.B[ListConfigsReq](h.List))
	g.POST("/disable", ginx.B[DisableConfigReq](h.Disable))
}

func (h *AdminHandler) PublicRoutes(_ *gin.Engine) {}

func (h *AdminHandler) Create(ctx *ginx.Context, req CreateConfigReq) (ginx.Result, error) {
	id, err := h.svc.Create(ctx.Request.Context(), domain.Config{
		Name:      req.Name,
		RateBps:   req.RateBps,
		Regions:   req.Regions,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{Data: CreateConfigResp{ID: id}}, nil
}

func (h *AdminHandler) List(ctx *ginx.Context, req ListConfigsReq) (ginx.Result, error) {
	cs, total, err := h.svc.List(ctx.Request.Context(), req.Offset, req.Limit)
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{
		Data: ListConfigsResp{
			Total: total,
			Configs: slice.Map(cs, func(idx int, src domain.Config) Config {
				return Config{
					ID:        src.ID,
					Name:      src.Name,
					RateBps:   src.RateBps,
					Regions:   src.Regions,
					IsDefault: src.IsDefault,
					Status:    src.Status.ToUint8(),
				}
			}),
		},
	}, nil
}

func (h *AdminHandler) Disable(ctx *ginx.Context, req DisableConfigReq) (ginx.Result, error) {
	if err := h.svc.Disable(ctx.Request.Context(), req.ID); err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{Msg: "OK"}, nil
}
