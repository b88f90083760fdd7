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
	"errors"
	"fmt"

	"github.com/ecodeclub/emall/internal/marketing"
	"github.com/ecodeclub/emall/internal/order/internal/domain"
	"github.com/ecodeclub/emall/internal/order/internal/repository"
	"github.com/ecodeclub/emall/internal/order/internal/repository/dao"
	"github.com/ecodeclub/emall/internal/pkg/pricing"
	"github.com/ecodeclub/emall/internal/pkg/sequencenumber"
	"github.com/ecodeclub/emall/internal/product"
	"github.com/ecodeclub/emall/internal/shipping"
	"github.com/ecodeclub/emall/internal/tax"
	"github.com/gotomicro/ego/core/elog"
	"golang.org/x/sync/errgroup"
)

var (
	ErrOrderNotFound      = errors.New("订单不存在")
	ErrOrderNotCancelable = errors.New("订单当前状态不可取消")
	ErrInvalidTransition  = errors.New("非法的订单状态流转")
	// ErrPaymentStatusFinal 支付状态已是终态,重复通知直接忽略
	ErrPaymentStatusFinal = dao.ErrPaymentStatusConflict
)

type CheckoutItem struct {
	SKUSN    string
	Quantity int64
}

type Checkout struct {
	BuyerID        int64
	Items          []CheckoutItem
	DiscountCode   string
	Region         string
	ShippingZoneSN string
	PaymentChannel int64
}

//go:generate mockgen -source=service.go -destination=../../mocks/order.mock.go -package=ordermocks -typed Service
type Service interface {
	// Preview 试算订单金额,不核销优惠也不扣减库存
	Preview(ctx context.Context, c Checkout) (domain.Order, error)
	// Checkout 结账:核销优惠、询价运费税费、扣减库存并创建订单,
	// 任何一步失败都会回滚此前的扣减与核销
	Checkout(ctx context.Context, c Checkout) (domain.Order, error)
	FindOrderBySN(ctx context.Context, sn string) (domain.Order, error)
	FindOrderBySNAndBuyerID(ctx context.Context, sn string, buyerID int64) (domain.Order, error)
	ListOrders(ctx context.Context, offset, limit int, uid int64) ([]domain.Order, int64, error)
	ListAllOrders(ctx context.Context, offset, limit int, status domain.OrderStatus) ([]domain.Order, int64, error)
	// UpdateOrderPaymentInfo 创建支付后把支付ID与序列号冗余到订单上
	UpdateOrderPaymentInfo(ctx context.Context, buyerID, oid, pid int64, psn string) error
	// CancelOrder 买家取消,恢复库存并回补优惠码,仅成功流转的一方执行补偿
	CancelOrder(ctx context.Context, uid int64, sn string) error
	// UpdateStatus 管理端推进履约链路,流转必须合法
	UpdateStatus(ctx context.Context, sn string, to domain.OrderStatus) error
	// CompleteOrder 支付成功,幂等:重复调用返回 ErrPaymentStatusFinal
	CompleteOrder(ctx context.Context, sn string, paymentID int64) error
	// FailOrder 支付终态失败,取消订单并恢复库存
	FailOrder(ctx context.Context, sn string) error
	FindExpiredOrders(ctx context.Context, offset, limit int, ctime int64) ([]domain.Order, error)
	// CancelExpiredOrder 超时关单,与买家取消共用补偿逻辑
	CancelExpiredOrder(ctx context.Context, order domain.Order) error
}

type service struct {
	repo        repository.OrderRepository
	productSvc  product.Service
	discountSvc marketing.Service
	shippingSvc shipping.Service
	taxSvc      tax.Service
	snGenerator *sequencenumber.Generator
	logger      *elog.Component
}

func NewService(repo repository.OrderRepository,
	productSvc product.Service,
	discountSvc marketing.Service,
	shippingSvc shipping.Service,
	taxSvc tax.Service,
	snGenerator *sequencenumber.Generator) Service {
	return &service{
		repo:        repo,
		productSvc:  productSvc,
		discountSvc: discountSvc,
		shippingSvc: shippingSvc,
		taxSvc:      taxSvc,
		snGenerator: snGenerator,
		logger:      elog.DefaultLogger,
	}
}

// buildItems 解析SKU并生成订单项快照,返回商品小计
func (s *service) buildItems(ctx context.Context, c Checkout) ([]domain.OrderItem, int64, error) {
	if len(c.Items) == 0 {
		return nil, 0, fmt.Errorf("结账商品不能为空")
	}
	items := make([]domain.OrderItem, 0, len(c.Items))
	var subtotal int64
	for _, it := range c.Items {
		if it.Quantity < 1 {
			return nil, 0, fmt.Errorf("非法购买数量: sku sn=%s", it.SKUSN)
		}
		sku, err := s.productSvc.FindSKUBySN(ctx, it.SKUSN)
		if err != nil {
			return nil, 0, fmt.Errorf("商品SKU序列号非法: %w", err)
		}
		items = append(items, domain.OrderItem{
			SPUID:    sku.SPUID,
			SKUID:    sku.ID,
			SKUSN:    sku.SN,
			SKUName:  sku.Name,
			SKUDesc:  sku.Desc,
			SKUImage: sku.Image,
			Price:    sku.Price,
			Quantity: it.Quantity,
		})
		subtotal += sku.Price * it.Quantity
	}
	return items, subtotal, nil
}

func (s *service) Preview(ctx context.Context, c Checkout) (domain.Order, error) {
	items, subtotal, err := s.buildItems(ctx, c)
	if err != nil {
		return domain.Order{}, err
	}
	redemption, err := s.discountSvc.Preview(ctx, c.DiscountCode, subtotal)
	if err != nil {
		return domain.Order{}, fmt.Errorf("试算优惠码失败: %w", err)
	}
	quote, err := s.shippingSvc.Resolve(ctx, c.ShippingZoneSN, subtotal)
	if err != nil {
		return domain.Order{}, fmt.Errorf("解析配送区域失败: %w", err)
	}
	rateBps := s.taxSvc.Resolve(ctx, c.Region)
	taxAmount := pricing.TaxAmount(subtotal, redemption.Amount, rateBps)
	return domain.Order{
		BuyerID:        c.BuyerID,
		Subtotal:       subtotal,
		DiscountAmount: redemption.Amount,
		TaxRate:        rateBps,
		TaxAmount:      taxAmount,
		ShippingFee:    quote.Cost,
		TotalAmount:    pricing.Total(subtotal, redemption.Amount, taxAmount, quote.Cost),
		DiscountCode:   redemption.Code,
		Region:         c.Region,
		DeliveryPoint:  s.toDeliveryPoint(quote.Zone),
		Items:          items,
	}, nil
}

// toDeliveryPoint 把配送点信息冗余成订单上的快照
func (s *service) toDeliveryPoint(zone shipping.Zone) domain.DeliveryPoint {
	return domain.DeliveryPoint{
		SN:            zone.SN,
		Name:          zone.Name,
		Address:       zone.Address,
		ContactPhone:  zone.ContactPhone,
		BusinessHours: zone.BusinessHours,
	}
}

func (s *service) Checkout(ctx context.Context, c Checkout) (domain.Order, error) {
	items, subtotal, err := s.buildItems(ctx, c)
	if err != nil {
		return domain.Order{}, err
	}

	// 优惠核销在库存扣减之前,此后任何失败都要 Release 回补
	redemption, err := s.discountSvc.Redeem(ctx, c.DiscountCode, subtotal)
	if err != nil {
		return domain.Order{}, fmt.Errorf("核销优惠码失败: %w", err)
	}

	quote, err := s.shippingSvc.Resolve(ctx, c.ShippingZoneSN, subtotal)
	if err != nil {
		s.releaseDiscount(ctx, redemption.Code)
		return domain.Order{}, fmt.Errorf("解析配送区域失败: %w", err)
	}

	rateBps := s.taxSvc.Resolve(ctx, c.Region)
	taxAmount := pricing.TaxAmount(subtotal, redemption.Amount, rateBps)
	total := pricing.Total(subtotal, redemption.Amount, taxAmount, quote.Cost)

	decremented, err := s.decrementStocks(ctx, items)
	if err != nil {
		s.restoreStocks(ctx, decremented)
		s.releaseDiscount(ctx, redemption.Code)
		return domain.Order{}, err
	}

	sn, err := s.snGenerator.Generate(c.BuyerID)
	if err != nil {
		s.restoreStocks(ctx, items)
		s.releaseDiscount(ctx, redemption.Code)
		return domain.Order{}, fmt.Errorf("生成订单序列号失败: %w", err)
	}

	order, err := s.repo.CreateOrder(ctx, domain.Order{
		SN:             sn,
		BuyerID:        c.BuyerID,
		Subtotal:       subtotal,
		DiscountAmount: redemption.Amount,
		TaxRate:        rateBps,
		TaxAmount:      taxAmount,
		ShippingFee:    quote.Cost,
		TotalAmount:    total,
		DiscountCode:   redemption.Code,
		Region:         c.Region,
		PaymentChannel: c.PaymentChannel,
		DeliveryPoint:  s.toDeliveryPoint(quote.Zone),
		Status:         domain.StatusPending,
		PaymentStatus:  domain.PaymentStatusPending,
		Items:          items,
	})
	if err != nil {
		s.restoreStocks(ctx, items)
		s.releaseDiscount(ctx, redemption.Code)
		return domain.Order{}, fmt.Errorf("创建订单失败: %w", err)
	}
	return order, nil
}

// decrementStocks 逐个扣减,返回已成功扣减的条目供失败时回滚
func (s *service) decrementStocks(ctx context.Context, items []domain.OrderItem) ([]domain.OrderItem, error) {
	decremented := make([]domain.OrderItem, 0, len(items))
	for _, it := range items {
		if err := s.productSvc.DecrementStock(ctx, it.SKUID, it.Quantity); err != nil {
			return decremented, fmt.Errorf("扣减库存失败: %w", err)
		}
		decremented = append(decremented, it)
	}
	return decremented, nil
}

// restoreStocks 补偿回补,失败只记日志,留待人工对账
func (s *service) restoreStocks(ctx context.Context, items []domain.OrderItem) {
	for _, it := range items {
		if err := s.productSvc.RestoreStock(ctx, it.SKUID, it.Quantity); err != nil {
			s.logger.Error("回补库存失败",
				elog.FieldErr(err),
				elog.Int64("sku_id", it.SKUID),
				elog.Int64("quantity", it.Quantity))
		}
	}
}

func (s *service) releaseDiscount(ctx context.Context, code string) {
	if code == "" {
		return
	}
	if err := s.discountSvc.Release(ctx, code); err != nil {
		s.logger.Error("回补优惠码失败",
			elog.FieldErr(err),
			elog.String("code", code))
	}
}

func (s *service) FindOrderBySN(ctx context.Context, sn string) (domain.Order, error) {
	order, err := s.repo.FindOrderBySN(ctx, sn)
	if errors.Is(err, dao.ErrOrderNotFound) {
		return domain.Order{}, fmt.Errorf("%w: sn=%s", ErrOrderNotFound, sn)
	}
	return order, err
}

func (s *service) FindOrderBySNAndBuyerID(ctx context.Context, sn string, buyerID int64) (domain.Order, error) {
	order, err := s.repo.FindOrderBySNAndBuyerID(ctx, sn, buyerID)
	if errors.Is(err, dao.ErrOrderNotFound) {
		return domain.Order{}, fmt.Errorf("%w: sn=%s", ErrOrderNotFound, sn)
	}
	return order, err
}

func (s *service) ListOrders(ctx context.Context, offset, limit int, uid int64) ([]domain.Order, int64, error) {
	var (
		eg    errgroup.Group
		os    []domain.Order
		total int64
	)
	eg.Go(func() error {
		var err error
		os, err = s.repo.ListOrders(ctx, offset, limit, uid)
		return err
	})
	eg.Go(func() error {
		var err error
		total, err = s.repo.TotalOrders(ctx, uid)
		return err
	})
	return os, total, eg.Wait()
}

func (s *service) ListAllOrders(ctx context.Context, offset, limit int, status domain.OrderStatus) ([]domain.Order, int64, error) {
	var (
		eg    errgroup.Group
		os    []domain.Order
		total int64
	)
	eg.Go(func() error {
		var err error
		os, err = s.repo.ListAllOrders(ctx, offset, limit, status)
		return err
	})
	eg.Go(func() error {
		var err error
		total, err = s.repo.TotalAllOrders(ctx, status)
		return err
	})
	return os, total, eg.Wait()
}

func (s *service) UpdateOrderPaymentInfo(ctx context.Context, buyerID, oid, pid int64, psn string) error {
	err := s.repo.UpdateOrderPaymentInfo(ctx, buyerID, oid, pid, psn)
	if errors.Is(err, dao.ErrOrderNotFound) {
		return fmt.Errorf("%w: id=%d", ErrOrderNotFound, oid)
	}
	return err
}

func (s *service) CancelOrder(ctx context.Context, uid int64, sn string) error {
	order, err := s.FindOrderBySNAndBuyerID(ctx, sn, uid)
	if err != nil {
		return err
	}
	return s.cancel(ctx, order, "buyer", "买家取消")
}

func (s *service) CancelExpiredOrder(ctx context.Context, order domain.Order) error {
	return s.cancel(ctx, order, "system", "超时未支付,自动关单")
}

// cancel 取消订单。状态流转是唯一的竞争点:
// 只有把状态成功改成已取消的一方才执行库存与优惠补偿,保证恰好一次。
func (s *service) cancel(ctx context.Context, order domain.Order, actor, note string) error {
	if !order.Cancelable() {
		return fmt.Errorf("%w: sn=%s, status=%d", ErrOrderNotCancelable, order.SN, order.Status)
	}
	err := s.repo.UpdateStatus(ctx, order.SN, order.Status, domain.StatusCanceled, actor, note)
	if errors.Is(err, dao.ErrStatusConflict) {
		return fmt.Errorf("%w: sn=%s", ErrOrderNotCancelable, order.SN)
	}
	if err != nil {
		return fmt.Errorf("取消订单失败: %w", err)
	}
	s.restoreStocks(ctx, order.Items)
	s.releaseDiscount(ctx, order.DiscountCode)
	return nil
}

func (s *service) UpdateStatus(ctx context.Context, sn string, to domain.OrderStatus) error {
	order, err := s.FindOrderBySN(ctx, sn)
	if err != nil {
		return err
	}
	if !order.Status.CanTransitionTo(to) {
		return fmt.Errorf("%w: %d -> %d", ErrInvalidTransition, order.Status, to)
	}
	if to == domain.StatusCanceled {
		return s.cancel(ctx, order, "admin", "后台取消")
	}
	err = s.repo.UpdateStatus(ctx, sn, order.Status, to, "admin", "")
	if errors.Is(err, dao.ErrStatusConflict) {
		return fmt.Errorf("%w: 订单状态已被并发修改", ErrInvalidTransition)
	}
	return err
}

func (s *service) CompleteOrder(ctx context.Context, sn string, paymentID int64) error {
	err := s.repo.CompleteOrderPayment(ctx, sn, paymentID)
	if errors.Is(err, dao.ErrOrderNotFound) {
		return fmt.Errorf("%w: sn=%s", ErrOrderNotFound, sn)
	}
	return err
}

func (s *service) FailOrder(ctx context.Context, sn string) error {
	err := s.repo.FailOrderPayment(ctx, sn)
	if errors.Is(err, dao.ErrPaymentStatusConflict) {
		// 终态已落库,本次通知是重复的
		return ErrPaymentStatusFinal
	}
	if err != nil {
		return err
	}
	order, err := s.FindOrderBySN(ctx, sn)
	if err != nil {
		return err
	}
	if err = s.cancel(ctx, order, "system", "支付失败,关单"); err != nil && !errors.Is(err, ErrOrderNotCancelable) {
		return err
	}
	return nil
}

func (s *service) FindExpiredOrders(ctx context.Context, offset, limit int, ctime int64) ([]domain.Order, error) {
	return s.repo.FindExpiredOrders(ctx, offset, limit, ctime)
}
