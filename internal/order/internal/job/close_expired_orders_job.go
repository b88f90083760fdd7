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

	"github.com/ecodeclub/emall/internal/order/internal/service"
	"github.com/gotomicro/ego/core/elog"
)

// CloseExpiredOrdersJob 定时关闭超时未支付的订单并回补库存
type CloseExpiredOrdersJob struct {
	svc     service.Service
	limit   int
	minute  int64
	timeout time.Duration
	logger  *elog.Component
}

func NewCloseExpiredOrdersJob(svc service.Service, limit int, minute int64, timeout time.Duration) *CloseExpiredOrdersJob {
	return &CloseExpiredOrdersJob{
		svc:     svc,
		limit:   limit,
		minute:  minute,
		timeout: timeout,
		logger:  elog.DefaultLogger,
	}
}

func (c *CloseExpiredOrdersJob) Name() string {
	return "CloseExpiredOrdersJob"
}

func (c *CloseExpiredOrdersJob) Run(_ context.Context) error {
	ctx, cancelFunc := context.WithTimeout(context.Background(), c.timeout)
	defer cancelFunc()
	// 冗余10秒,避免和正在支付的订单擦边
	ctime := time.Now().Add(time.Duration(-c.minute)*time.Minute + 10*time.Second).UnixMilli()

	for {
		orders, err := c.svc.FindExpiredOrders(ctx, 0, c.limit, ctime)
		if err != nil {
			return fmt.Errorf("获取过期订单失败: %w", err)
		}

		for _, order := range orders {
			// 取消失败不终止本轮,漏掉的订单下一轮还会被捞出来
			if er := c.svc.CancelExpiredOrder(ctx, order); er != nil {
				c.logger.Error("关闭过期订单失败",
					elog.FieldErr(er),
					elog.String("order_sn", order.SN))
			}
		}

		if len(orders) < c.limit {
			break
		}
	}
	return nil
}
