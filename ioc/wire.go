//go:build wireinject

package ioc

import (
	"github.com/ecodeclub/emall/internal/cart"
	"github.com/ecodeclub/emall/internal/marketing"
	"github.com/ecodeclub/emall/internal/order"
	"github.com/ecodeclub/emall/internal/payment"
	"github.com/ecodeclub/emall/internal/pkg/snowflake"
	"github.com/ecodeclub/emall/internal/product"
	"github.com/ecodeclub/emall/internal/recon"
	"github.com/ecodeclub/emall/internal/shipping"
	"github.com/ecodeclub/emall/internal/tax"
	"github.com/google/wire"
)

var BaseSet = wire.NewSet(InitDB, InitCache, InitRedis, InitMQ)

func InitApp() (*App, error) {
	wire.Build(wire.Struct(new(App), "*"),
		BaseSet,
		InitSession,
		initSnowflake,
		InitEmailService,
		product.InitModule,
		cart.InitModule,
		marketing.InitModule,
		shipping.InitModule,
		tax.InitModule,
		payment.InitModule,
		order.InitModule,
		recon.InitModule,
		wire.FieldsOf(new(*product.Module), "Svc"),
		wire.FieldsOf(new(*cart.Module), "Svc", "Hdl"),
		wire.FieldsOf(new(*marketing.Module), "Svc", "AdminHdl"),
		wire.FieldsOf(new(*shipping.Module), "Svc", "AdminHdl"),
		wire.FieldsOf(new(*tax.Module), "Svc", "AdminHdl"),
		wire.FieldsOf(new(*payment.Module), "Svc", "Hdl"),
		wire.FieldsOf(new(*order.Module), "Hdl", "AdminHdl"),
		wire.FieldsOf(new(*recon.Module), "Job"),
		initCloseExpiredOrdersJob,
		initSyncPendingPaymentsJob,
		initCronJobs,
		initMQConsumers,
		initGinxServer,
		InitAdminServer)
	return new(App), nil
}

func initSnowflake() *snowflake.CustomSnowFlake {
	sf, err := snowflake.NewCustomSnowFlake(0, 1)
	if err != nil {
		panic(err)
	}
	return sf
}
