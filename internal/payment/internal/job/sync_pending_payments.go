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

package job

import (
	"context"
	"fmt"
	"time"

	"github.com/ecodeclub/emall/internal/payment/internal/service"
	"github.com/gotomicro/ego/core/elog"
	"github.com/gotomicro/ego/task/ecron"
)

var _ ecron.NamedJob = (*SyncPendingPaymentsJob)(nil)

// SyncPendingPaymentsJob 定时向渠道对账未到终态的支付。
// 回调丢失时由这里兜底,超过期限仍未支付的按失败关单。
type SyncPendingPaymentsJob struct {
	svc     service.Service
	minutes int64
	seconds int64
	limit   int
	l       *elog.Component
}

func NewSyncPendingPaymentsJob(svc service.Service, minutes int64, seconds int64, limit int) *SyncPendingPaymentsJob {
	return &SyncPendingPaymentsJob{
		svc:     svc,
		minutes: minutes,
		seconds: seconds,
		limit:   limit,
		l:       elog.DefaultLogger}
}

func (s *SyncPendingPaymentsJob) Name() string {
	return "sync_pending_payments_job"
}

func (s *SyncPendingPaymentsJob) Run(ctx context.Context) error {

	deadline := time.Now().Add(time.Duration(-s.minutes)*time.Minute + time.Duration(-s.seconds)*time.Second).UnixMilli()

	for offset := 0; ; offset += s.limit {
		payments, err := s.svc.FindTimeoutPayments(ctx, offset, s.limit, deadline)
		if err != nil {
			return fmt.Errorf("获取超时支付记录失败: %w", err)
		}

		for _, pmt := range payments {
			err = s.svc.SyncPaymentStatus(ctx, pmt, deadline)
			if err != nil {
				// 失败留到下一轮重试
				s.l.Error("同步支付状态失败",
					elog.FieldErr(err),
					elog.String("order_sn", pmt.OrderSN),
					elog.Int64("payment_id", pmt.ID),
				)
			}
		}

		if len(payments) < s.limit {
			return nil
		}
	}
}
