package ioc

import (
	"context"
	"time"

	"github.com/ecodeclub/emall/internal/order"
	"github.com/ecodeclub/emall/internal/payment"
	"github.com/ecodeclub/emall/internal/recon"
	"github.com/gotomicro/ego/core/elog"
	"github.com/gotomicro/ego/task/ecron"
)

func initCronJobs(
	oJob *order.CloseExpiredOrdersJob,
	pJob *payment.SyncPendingPaymentsJob,
	rJob *recon.SyncPaymentAndOrderJob,
) []ecron.Ecron {
	return []ecron.Ecron{
		ecron.Load("cron.close").Build(ecron.WithJob(funcJobWrapper(oJob))),
		ecron.Load("cron.sync").Build(ecron.WithJob(funcJobWrapper(pJob))),
		ecron.Load("cron.recon").Build(ecron.WithJob(funcJobWrapper(rJob))),
	}
}

func initCloseExpiredOrdersJob(m *order.Module) *order.CloseExpiredOrdersJob {
	limit := 100
	minute := int64(30)
	return order.NewCloseExpiredOrdersJob(m.Svc, limit, minute, time.Minute)
}

func initSyncPendingPaymentsJob(m *payment.Module) *payment.SyncPendingPaymentsJob {
	minutes := int64(30)
	seconds := int64(10)
	limit := 100
	return payment.NewSyncPendingPaymentsJob(m.Svc, minutes, seconds, limit)
}

func funcJobWrapper(job ecron.NamedJob) ecron.FuncJob {
	name := job.Name()
	return func(ctx context.Context) error {
		start := time.Now()
		elog.DefaultLogger.Debug("开始运行",
			elog.String("cronjob", name))
		err := job.Run(ctx)
		if err != nil {
			elog.DefaultLogger.Error("执行失败",
				elog.FieldErr(err),
				elog.String("cronjob", name))
			return err
		}
		duration := time.Since(start)
		elog.DefaultLogger.Debug("结束运行",
			elog.String("cronjob", name),
			elog.FieldKey("运行时间"),
			elog.FieldCost(duration))
		return nil
	}
}
