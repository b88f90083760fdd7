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

package order

import (
	"github.com/ecodeclub/emall/internal/order/internal/domain"
	"github.com/ecodeclub/emall/internal/order/internal/event"
	"github.com/ecodeclub/emall/internal/order/internal/job"
	"github.com/ecodeclub/emall/internal/order/internal/service"
	"github.com/ecodeclub/emall/internal/order/internal/web"
)

type (
	Order        = domain.Order
	OrderItem    = domain.OrderItem
	OrderStatus  = domain.OrderStatus
	Service      = service.Service
	Checkout     = service.Checkout
	CheckoutItem = service.CheckoutItem
	Handler      = web.Handler
	AdminHandler = web.AdminHandler
)

const (
	StatusPending        = domain.StatusPending
	StatusProcessing     = domain.StatusProcessing
	StatusInTransit      = domain.StatusInTransit
	StatusShipped        = domain.StatusShipped
	StatusUnderClearance = domain.StatusUnderClearance
	StatusOutForDelivery = domain.StatusOutForDelivery
	StatusDelivered      = domain.StatusDelivered
	StatusCanceled       = domain.StatusCanceled
)

type (
	PaymentConsumer       = event.PaymentConsumer
	CloseExpiredOrdersJob = job.CloseExpiredOrdersJob
)

var NewCloseExpiredOrdersJob = job.NewCloseExpiredOrdersJob

var ErrPaymentStatusFinal = service.ErrPaymentStatusFinal

type Module struct {
	Svc      Service
	Hdl      *Handler
	AdminHdl *AdminHandler
	C        *PaymentConsumer
}
