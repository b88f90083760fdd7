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
	"fmt"
	"sync"
	"testing"

	"github.com/ecodeclub/emall/internal/marketing"
	"github.com/ecodeclub/emall/internal/order/internal/domain"
	"github.com/ecodeclub/emall/internal/order/internal/repository/dao"
	"github.com/ecodeclub/emall/internal/pkg/sequencenumber"
	"github.com/ecodeclub/emall/internal/product"
	"github.com/ecodeclub/emall/internal/shipping"
	"github.com/ecodeclub/emall/internal/tax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[string]domain.Order
	nextID int64
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]domain.Order)}
}

func (f *fakeOrderRepo) CreateOrder(_ context.Context, order domain.Order) (domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	order.ID = f.nextID
	f.orders[order.SN] = order
	return order, nil
}

func (f *fakeOrderRepo) FindOrderBySN(_ context.Context, sn string) (domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[sn]
	if !ok {
		return domain.Order{}, dao.ErrOrderNotFound
	}
	return order, nil
}

func (f *fakeOrderRepo) FindOrderBySNAndBuyerID(_ context.Context, sn string, buyerID int64) (domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[sn]
	if !ok || order.BuyerID != buyerID {
		return domain.Order{}, dao.ErrOrderNotFound
	}
	return order, nil
}

func (f *fakeOrderRepo) ListOrders(_ context.Context, _, _ int, uid int64) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []domain.Order
	for _, o := range f.orders {
		if o.BuyerID == uid {
			res = append(res, o)
		}
	}
	return res, nil
}

func (f *fakeOrderRepo) TotalOrders(_ context.Context, uid int64) (int64, error) {
	os, _ := f.ListOrders(context.Background(), 0, 0, uid)
	return int64(len(os)), nil
}

func (f *fakeOrderRepo) ListAllOrders(_ context.Context, _, _ int, status domain.OrderStatus) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []domain.Order
	for _, o := range f.orders {
		if status == 0 || o.Status == status {
			res = append(res, o)
		}
	}
	return res, nil
}

func (f *fakeOrderRepo) TotalAllOrders(_ context.Context, status domain.OrderStatus) (int64, error) {
	os, _ := f.ListAllOrders(context.Background(), 0, 0, status)
	return int64(len(os)), nil
}

func (f *fakeOrderRepo) UpdateOrderPaymentInfo(_ context.Context, buyerID, oid, pid int64, psn string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for sn, o := range f.orders {
		if o.ID == oid && o.BuyerID == buyerID {
			o.PaymentID, o.PaymentSN = pid, psn
			f.orders[sn] = o
			return nil
		}
	}
	return dao.ErrOrderNotFound
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, sn string, from, to domain.OrderStatus, actor, note string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[sn]
	if !ok {
		return dao.ErrOrderNotFound
	}
	if order.Status != from {
		return dao.ErrStatusConflict
	}
	order.Status = to
	order.Histories = append(order.Histories, domain.StatusHistory{
		FromStatus: from,
		ToStatus:   to,
		Actor:      actor,
		Note:       note,
	})
	f.orders[sn] = order
	return nil
}

func (f *fakeOrderRepo) CompleteOrderPayment(_ context.Context, sn string, paymentID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[sn]
	if !ok {
		return dao.ErrOrderNotFound
	}
	if order.PaymentStatus == domain.PaymentStatusCompleted {
		return dao.ErrPaymentStatusConflict
	}
	order.PaymentStatus = domain.PaymentStatusCompleted
	order.PaymentID = paymentID
	order.Status = domain.StatusProcessing
	f.orders[sn] = order
	return nil
}

func (f *fakeOrderRepo) FailOrderPayment(_ context.Context, sn string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[sn]
	if !ok {
		return dao.ErrOrderNotFound
	}
	if order.PaymentStatus != domain.PaymentStatusPending {
		return dao.ErrPaymentStatusConflict
	}
	order.PaymentStatus = domain.PaymentStatusFailed
	f.orders[sn] = order
	return nil
}

func (f *fakeOrderRepo) FindExpiredOrders(_ context.Context, _, _ int, ctime int64) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []domain.Order
	for _, o := range f.orders {
		if o.Status == domain.StatusPending && o.Ctime <= ctime {
			res = append(res, o)
		}
	}
	return res, nil
}

// fakeProductSvc 模拟条件扣减语义,可指定某个 SKU 扣减必败
type fakeProductSvc struct {
	mu      sync.Mutex
	stocks  map[int64]int64
	skus    map[string]product.SKU
	failSKU int64
}

func newFakeProductSvc(skus ...product.SKU) *fakeProductSvc {
	f := &fakeProductSvc{
		stocks: make(map[int64]int64),
		skus:   make(map[string]product.SKU),
	}
	for _, sku := range skus {
		f.stocks[sku.ID] = sku.Stock
		f.skus[sku.SN] = sku
	}
	return f
}

func (f *fakeProductSvc) FindSPUByID(_ context.Context, _ int64) (product.SPU, error) {
	return product.SPU{}, fmt.Errorf("商品不存在")
}

func (f *fakeProductSvc) FindSKUByID(_ context.Context, _ int64) (product.SKU, error) {
	return product.SKU{}, fmt.Errorf("商品不存在")
}

func (f *fakeProductSvc) FindSKUBySN(_ context.Context, sn string) (product.SKU, error) {
	sku, ok := f.skus[sn]
	if !ok {
		return product.SKU{}, fmt.Errorf("商品不存在: %s", sn)
	}
	return sku, nil
}

func (f *fakeProductSvc) SaveProduct(_ context.Context, _ product.SPU) (int64, error) {
	return 0, nil
}

func (f *fakeProductSvc) DecrementStock(_ context.Context, skuID, quantity int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if skuID == f.failSKU {
		return fmt.Errorf("商品库存不足: sku id=%d", skuID)
	}
	if f.stocks[skuID] < quantity {
		return fmt.Errorf("商品库存不足: sku id=%d", skuID)
	}
	f.stocks[skuID] -= quantity
	return nil
}

func (f *fakeProductSvc) RestoreStock(_ context.Context, skuID, quantity int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stocks[skuID] += quantity
	return nil
}

func (f *fakeProductSvc) stock(skuID int64) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stocks[skuID]
}

// fakeDiscountSvc 记录核销与回补次数
type fakeDiscountSvc struct {
	mu        sync.Mutex
	amount    int64
	remaining int
	redeemed  int
	released  int
}

func (f *fakeDiscountSvc) Preview(_ context.Context, code string, _ int64) (marketing.Redemption, error) {
	if code == "" {
		return marketing.Redemption{}, nil
	}
	return marketing.Redemption{Code: code, Amount: f.amount}, nil
}

func (f *fakeDiscountSvc) Redeem(_ context.Context, code string, _ int64) (marketing.Redemption, error) {
	if code == "" {
		return marketing.Redemption{}, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.remaining <= 0 {
		return marketing.Redemption{}, fmt.Errorf("优惠码使用次数已耗尽: %s", code)
	}
	f.remaining--
	f.redeemed++
	return marketing.Redemption{Code: code, Amount: f.amount}, nil
}

func (f *fakeDiscountSvc) Release(_ context.Context, code string) error {
	if code == "" {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.remaining++
	f.released++
	return nil
}

type fakeShippingSvc struct {
	baseRate  int64
	threshold int64
}

func (f *fakeShippingSvc) Resolve(_ context.Context, zoneSN string, subtotal int64) (shipping.Quote, error) {
	if zoneSN == "" {
		return shipping.Quote{}, fmt.Errorf("配送区域不存在")
	}
	zone := shipping.Zone{
		SN:                    zoneSN,
		Name:                  "浦东自提点",
		Address:               "上海市浦东新区张江路1号",
		ContactPhone:          "021-12345678",
		BusinessHours:         "09:00-21:00",
		BaseRate:              f.baseRate,
		FreeShippingThreshold: f.threshold,
	}
	return shipping.Quote{Zone: zone, Cost: zone.Cost(subtotal)}, nil
}

func (f *fakeShippingSvc) Create(_ context.Context, _ shipping.Zone) (int64, error) {
	return 0, nil
}

func (f *fakeShippingSvc) List(_ context.Context, _, _ int) ([]shipping.Zone, int64, error) {
	return nil, 0, nil
}

func (f *fakeShippingSvc) Disable(_ context.Context, _ int64) error {
	return nil
}

type fakeTaxSvc struct {
	rateBps int64
}

func (f *fakeTaxSvc) Resolve(_ context.Context, _ string) int64 {
	return f.rateBps
}

func (f *fakeTaxSvc) Create(_ context.Context, _ tax.Config) (int64, error) {
	return 0, nil
}

func (f *fakeTaxSvc) List(_ context.Context, _, _ int) ([]tax.Config, int64, error) {
	return nil, 0, nil
}

func (f *fakeTaxSvc) Disable(_ context.Context, _ int64) error {
	return nil
}

type testEnv struct {
	svc      Service
	repo     *fakeOrderRepo
	products *fakeProductSvc
	discount *fakeDiscountSvc
}

func newTestEnv() testEnv {
	repo := newFakeOrderRepo()
	products := newFakeProductSvc(
		product.SKU{ID: 1, SPUID: 1, SN: "SKU001", Name: "会员月卡", Price: 50000, Stock: 10, Status: product.StatusOnShelf},
		product.SKU{ID: 2, SPUID: 1, SN: "SKU002", Name: "会员年卡", Price: 100000, Stock: 5, Status: product.StatusOnShelf},
	)
	discount := &fakeDiscountSvc{amount: 10000, remaining: 100}
	svc := NewService(repo, products, discount,
		&fakeShippingSvc{baseRate: 5000, threshold: 500000},
		&fakeTaxSvc{rateBps: 1600},
		sequencenumber.NewGenerator())
	return testEnv{svc: svc, repo: repo, products: products, discount: discount}
}

func TestService_Checkout_金额计算(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	order, err := env.svc.Checkout(context.Background(), Checkout{
		BuyerID:        100,
		Items:          []CheckoutItem{{SKUSN: "SKU001", Quantity: 2}},
		DiscountCode:   "EMTEST",
		Region:         "CN",
		ShippingZoneSN: "ZONE001",
	})
	require.NoError(t, err)

	// 小计 100000,优惠 10000,税 16% * 90000 = 14400,运费 5000
	assert.Equal(t, int64(100000), order.Subtotal)
	assert.Equal(t, int64(10000), order.DiscountAmount)
	assert.Equal(t, int64(1600), order.TaxRate)
	assert.Equal(t, int64(14400), order.TaxAmount)
	assert.Equal(t, int64(5000), order.ShippingFee)
	assert.Equal(t, int64(109400), order.TotalAmount)
	assert.Equal(t, domain.StatusPending, order.Status)
	assert.Equal(t, int64(8), env.products.stock(1))

	// 自提点信息在下单时刻被冗余到订单上
	assert.Equal(t, domain.DeliveryPoint{
		SN:            "ZONE001",
		Name:          "浦东自提点",
		Address:       "上海市浦东新区张江路1号",
		ContactPhone:  "021-12345678",
		BusinessHours: "09:00-21:00",
	}, order.DeliveryPoint)
}

func TestService_Checkout_免运费门槛(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	// 小计 500000 恰好到达门槛,免运费
	order, err := env.svc.Checkout(context.Background(), Checkout{
		BuyerID:        100,
		Items:          []CheckoutItem{{SKUSN: "SKU002", Quantity: 5}},
		Region:         "CN",
		ShippingZoneSN: "ZONE001",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), order.ShippingFee)
}

func TestService_Checkout_库存不足时回滚(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	// 第二个 SKU 扣减必败,第一个 SKU 的扣减要被回滚
	env.products.failSKU = 2

	_, err := env.svc.Checkout(context.Background(), Checkout{
		BuyerID: 100,
		Items: []CheckoutItem{
			{SKUSN: "SKU001", Quantity: 2},
			{SKUSN: "SKU002", Quantity: 1},
		},
		DiscountCode:   "EMTEST",
		Region:         "CN",
		ShippingZoneSN: "ZONE001",
	})
	require.Error(t, err)

	assert.Equal(t, int64(10), env.products.stock(1))
	assert.Equal(t, 1, env.discount.redeemed)
	assert.Equal(t, 1, env.discount.released)
	total, _ := env.repo.TotalOrders(context.Background(), 100)
	assert.Equal(t, int64(0), total)
}

func TestService_CancelOrder_恢复库存恰好一次(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	ctx := context.Background()

	order, err := env.svc.Checkout(ctx, Checkout{
		BuyerID:        100,
		Items:          []CheckoutItem{{SKUSN: "SKU001", Quantity: 3}},
		DiscountCode:   "EMTEST",
		Region:         "CN",
		ShippingZoneSN: "ZONE001",
	})
	require.NoError(t, err)
	require.Equal(t, int64(7), env.products.stock(1))

	require.NoError(t, env.svc.CancelOrder(ctx, 100, order.SN))
	assert.Equal(t, int64(10), env.products.stock(1))
	assert.Equal(t, 1, env.discount.released)

	got, err := env.svc.FindOrderBySN(ctx, order.SN)
	require.NoError(t, err)
	require.NotEmpty(t, got.Histories)
	last := got.Histories[len(got.Histories)-1]
	assert.Equal(t, domain.StatusCanceled, last.ToStatus)
	assert.Equal(t, "buyer", last.Actor)

	// 重复取消:状态已不在可取消集合,库存不再变化
	err = env.svc.CancelOrder(ctx, 100, order.SN)
	assert.ErrorIs(t, err, ErrOrderNotCancelable)
	assert.Equal(t, int64(10), env.products.stock(1))
	assert.Equal(t, 1, env.discount.released)
}

func TestService_UpdateStatus_状态机(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	ctx := context.Background()

	order, err := env.svc.Checkout(ctx, Checkout{
		BuyerID:        100,
		Items:          []CheckoutItem{{SKUSN: "SKU001", Quantity: 1}},
		Region:         "CN",
		ShippingZoneSN: "ZONE001",
	})
	require.NoError(t, err)

	// 待支付订单不能直接进入运输中
	err = env.svc.UpdateStatus(ctx, order.SN, domain.StatusInTransit)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, env.svc.CompleteOrder(ctx, order.SN, 1))

	for _, next := range []domain.OrderStatus{
		domain.StatusInTransit,
		domain.StatusShipped,
		domain.StatusUnderClearance,
		domain.StatusOutForDelivery,
		domain.StatusDelivered,
	} {
		require.NoError(t, env.svc.UpdateStatus(ctx, order.SN, next))
	}

	// 已签收是终态
	err = env.svc.UpdateStatus(ctx, order.SN, domain.StatusCanceled)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestService_CompleteOrder_幂等(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	ctx := context.Background()

	order, err := env.svc.Checkout(ctx, Checkout{
		BuyerID:        100,
		Items:          []CheckoutItem{{SKUSN: "SKU001", Quantity: 1}},
		Region:         "CN",
		ShippingZoneSN: "ZONE001",
	})
	require.NoError(t, err)

	require.NoError(t, env.svc.CompleteOrder(ctx, order.SN, 1))
	// 重复的支付成功通知被条件更新挡下
	err = env.svc.CompleteOrder(ctx, order.SN, 1)
	assert.ErrorIs(t, err, ErrPaymentStatusFinal)

	got, err := env.svc.FindOrderBySN(ctx, order.SN)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, got.Status)
	assert.Equal(t, domain.PaymentStatusCompleted, got.PaymentStatus)
}

func TestService_FailOrder_取消并恢复库存(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	ctx := context.Background()

	order, err := env.svc.Checkout(ctx, Checkout{
		BuyerID:        100,
		Items:          []CheckoutItem{{SKUSN: "SKU001", Quantity: 2}},
		Region:         "CN",
		ShippingZoneSN: "ZONE001",
	})
	require.NoError(t, err)
	require.Equal(t, int64(8), env.products.stock(1))

	require.NoError(t, env.svc.FailOrder(ctx, order.SN))
	assert.Equal(t, int64(10), env.products.stock(1))

	got, err := env.svc.FindOrderBySN(ctx, order.SN)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCanceled, got.Status)
	assert.Equal(t, domain.PaymentStatusFailed, got.PaymentStatus)

	// 重复的失败通知是无操作
	assert.ErrorIs(t, env.svc.FailOrder(ctx, order.SN), ErrPaymentStatusFinal)
	assert.Equal(t, int64(10), env.products.stock(1))
}

func TestService_Preview_不产生副作用(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	order, err := env.svc.Preview(context.Background(), Checkout{
		BuyerID:        100,
		Items:          []CheckoutItem{{SKUSN: "SKU001", Quantity: 2}},
		DiscountCode:   "EMTEST",
		Region:         "CN",
		ShippingZoneSN: "ZONE001",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(109400), order.TotalAmount)

	assert.Equal(t, int64(10), env.products.stock(1))
	assert.Equal(t, 0, env.discount.redeemed)
}
