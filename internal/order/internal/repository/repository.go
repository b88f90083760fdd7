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

package repository

import (
	"context"

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/emall/internal/order/internal/domain"
	"github.com/ecodeclub/emall/internal/order/internal/repository/dao"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order domain.Order) (domain.Order, error)
	FindOrderBySN(ctx context.Context, sn string) (domain.Order, error)
	FindOrderBySNAndBuyerID(ctx context.Context, sn string, buyerID int64) (domain.Order, error)
	ListOrders(ctx context.Context, offset, limit int, uid int64) ([]domain.Order, error)
	TotalOrders(ctx context.Context, uid int64) (int64, error)
	ListAllOrders(ctx context.Context, offset, limit int, status domain.OrderStatus) ([]domain.Order, error)
	TotalAllOrders(ctx context.Context, status domain.OrderStatus) (int64, error)
	UpdateOrderPaymentInfo(ctx context.Context, buyerID, oid, pid int64, psn string) error
	UpdateStatus(ctx context.Context, sn string, from, to domain.OrderStatus, actor, note string) error
	CompleteOrderPayment(ctx context.Context, sn string, paymentID int64) error
	FailOrderPayment(ctx context.Context, sn string) error
	FindExpiredOrders(ctx context.Context, offset, limit int, ctime int64) ([]domain.Order, error)
}

func NewRepository(d dao.OrderDAO) OrderRepository {
	return &orderRepository{d: d}
}

type orderRepository struct {
	d dao.OrderDAO
}

func (o *orderRepository) CreateOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	oid, err := o.d.CreateOrder(ctx, o.toOrderEntity(order), o.toOrderItemEntities(order.Items))
	if err != nil {
		return domain.Order{}, err
	}
	order.ID = oid
	return order, nil
}

func (o *orderRepository) FindOrderBySN(ctx context.Context, sn string) (domain.Order, error) {
	order, err := o.d.FindOrderBySN(ctx, sn)
	if err != nil {
		return domain.Order{}, err
	}
	return o.assemble(ctx, order)
}

func (o *orderRepository) FindOrderBySNAndBuyerID(ctx context.Context, sn string, buyerID int64) (domain.Order, error) {
	order, err := o.d.FindOrderBySNAndBuyerID(ctx, sn, buyerID)
	if err != nil {
		return domain.Order{}, err
	}
	return o.assemble(ctx, order)
}

func (o *orderRepository) assemble(ctx context.Context, order dao.Order) (domain.Order, error) {
	items, err := o.d.FindOrderItemsByOrderID(ctx, order.Id)
	if err != nil {
		return domain.Order{}, err
	}
	histories, err := o.d.FindStatusHistoriesByOrderID(ctx, order.Id)
	if err != nil {
		return domain.Order{}, err
	}
	return o.toOrderDomain(order, items, histories), nil
}

func (o *orderRepository) ListOrders(ctx context.Context, offset, limit int, uid int64) ([]domain.Order, error) {
	os, err := o.d.List(ctx, offset, limit, uid)
	if err != nil {
		return nil, err
	}
	return slice.Map(os, func(idx int, src dao.Order) domain.Order {
		return o.toOrderDomain(src, nil, nil)
	}), nil
}

func (o *orderRepository) TotalOrders(ctx context.Context, uid int64) (int64, error) {
	return o.d.Total(ctx, uid)
}

func (o *orderRepository) ListAllOrders(ctx context.Context, offset, limit int, status domain.OrderStatus) ([]domain.Order, error) {
	os, err := o.d.ListAll(ctx, offset, limit, status.ToUint8())
	if err != nil {
		return nil, err
	}
	return slice.Map(os, func(idx int, src dao.Order) domain.Order {
		return o.toOrderDomain(src, nil, nil)
	}), nil
}

func (o *orderRepository) TotalAllOrders(ctx context.Context, status domain.OrderStatus) (int64, error) {
	return o.d.TotalAll(ctx, status.ToUint8())
}

func (o *orderRepository) UpdateOrderPaymentInfo(ctx context.Context, buyerID, oid, pid int64, psn string) error {
	return o.d.UpdateOrderPaymentInfo(ctx, buyerID, oid, pid, psn)
}

func (o *orderRepository) UpdateStatus(ctx context.Context, sn string, from, to domain.OrderStatus, actor, note string) error {
	return o.d.UpdateStatus(ctx, sn, from.ToUint8(), to.ToUint8(), actor, note)
}

func (o *orderRepository) CompleteOrderPayment(ctx context.Context, sn string, paymentID int64) error {
	return o.d.CompleteOrderPayment(ctx, sn, paymentID)
}

func (o *orderRepository) FailOrderPayment(ctx context.Context, sn string) error {
	return o.d.FailOrderPayment(ctx, sn)
}

func (o *orderRepository) FindExpiredOrders(ctx context.Context, offset, limit int, ctime int64) ([]domain.Order, error) {
	os, err := o.d.FindExpiredOrders(ctx, offset, limit, ctime)
	if err != nil {
		return nil, err
	}
	return slice.Map(os, func(idx int, src dao.Order) domain.Order {
		items, er := o.d.FindOrderItemsByOrderID(ctx, src.Id)
		if er != nil {
			return domain.Order{}
		}
		return o.toOrderDomain(src, items, nil)
	}), nil
}

func (o *orderRepository) toOrderEntity(order domain.Order) dao.Order {
	return dao.Order{
		Id:             order.ID,
		SN:             order.SN,
		BuyerId:        order.BuyerID,
		PaymentId:      order.PaymentID,
		PaymentSn:      order.PaymentSN,
		Subtotal:       order.Subtotal,
		DiscountAmount: order.DiscountAmount,
		TaxRate:        order.TaxRate,
		TaxAmount:      order.TaxAmount,
		ShippingFee:    order.ShippingFee,
		TotalAmount:    order.TotalAmount,
		DiscountCode:   order.DiscountCode,
		Region:         order.Region,
		PaymentChannel: order.PaymentChannel,

		DeliveryPointSn:    order.DeliveryPoint.SN,
		DeliveryPointName:  order.DeliveryPoint.Name,
		DeliveryPointAddr:  order.DeliveryPoint.Address,
		DeliveryPointPhone: order.DeliveryPoint.ContactPhone,
		DeliveryPointHours: order.DeliveryPoint.BusinessHours,

		Status:        order.Status.ToUint8(),
		PaymentStatus: order.PaymentStatus.ToUint8(),
		ClosedAt:      order.ClosedAt,
	}
}

func (o *orderRepository) toOrderItemEntities(items []domain.OrderItem) []dao.OrderItem {
	return slice.Map(items, func(idx int, src domain.OrderItem) dao.OrderItem {
		return dao.OrderItem{
			SPUId:    src.SPUID,
			SKUId:    src.SKUID,
			SKUSn:    src.SKUSN,
			SKUName:  src.SKUName,
			SKUDesc:  src.SKUDesc,
			SKUImage: src.SKUImage,
			Price:    src.Price,
			Quantity: src.Quantity,
		}
	})
}

func (o *orderRepository) toOrderDomain(order dao.Order, items []dao.OrderItem, histories []dao.OrderStatusHistory) domain.Order {
	return domain.Order{
		ID:             order.Id,
		SN:             order.SN,
		BuyerID:        order.BuyerId,
		PaymentID:      order.PaymentId,
		PaymentSN:      order.PaymentSn,
		Subtotal:       order.Subtotal,
		DiscountAmount: order.DiscountAmount,
		TaxRate:        order.TaxRate,
		TaxAmount:      order.TaxAmount,
		ShippingFee:    order.ShippingFee,
		TotalAmount:    order.TotalAmount,
		DiscountCode:   order.DiscountCode,
		Region:         order.Region,
		PaymentChannel: order.PaymentChannel,
		DeliveryPoint: domain.DeliveryPoint{
			SN:            order.DeliveryPointSn,
			Name:          order.DeliveryPointName,
			Address:       order.DeliveryPointAddr,
			ContactPhone:  order.DeliveryPointPhone,
			BusinessHours: order.DeliveryPointHours,
		},
		Status:        domain.OrderStatus(order.Status),
		PaymentStatus: domain.PaymentStatus(order.PaymentStatus),
		ClosedAt:      order.ClosedAt,
		Items: slice.Map(items, func(idx int, src dao.OrderItem) domain.OrderItem {
			return domain.OrderItem{
				OrderID:  src.OrderId,
				SPUID:    src.SPUId,
				SKUID:    src.SKUId,
				SKUSN:    src.SKUSn,
				SKUName:  src.SKUName,
				SKUDesc:  src.SKUDesc,
				SKUImage: src.SKUImage,
				Price:    src.Price,
				Quantity: src.Quantity,
			}
		}),
		Histories: slice.Map(histories, func(idx int, src dao.OrderStatusHistory) domain.StatusHistory {
			return domain.StatusHistory{
				OrderID:    src.OrderId,
				FromStatus: domain.OrderStatus(src.FromStatus),
				ToStatus:   domain.OrderStatus(src.ToStatus),
				Actor:      src.Actor,
				Note:       src.Note,
				Ctime:      src.Ctime,
			}
		}),
		Ctime: order.Ctime,
		Utime: order.Utime,
	}
}
