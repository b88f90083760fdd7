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

package event

import (
	"context"
	"encoding/json"

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/emall/internal/product/internal/domain"
	"github.com/ecodeclub/emall/internal/product/internal/service"
	"github.com/ecodeclub/mq-api"
	"github.com/gotomicro/ego/core/elog"
)

// SyncProductConsumer 消费上游目录服务的商品事件,维护本地读模型
type SyncProductConsumer struct {
	svc      service.Service
	consumer mq.Consumer
	logger   *elog.Component
}

func NewSyncProductConsumer(svc service.Service, q mq.MQ) (*SyncProductConsumer, error) {
	groupID := "product_sync"
	consumer, err := q.Consumer(SyncProductTopic, groupID)
	if err != nil {
		return nil, err
	}
	return &SyncProductConsumer{
		svc:      svc,
		consumer: consumer,
		logger:   elog.DefaultLogger,
	}, nil
}

func (c *SyncProductConsumer) Start(ctx context.Context) {
	go func() {
		for {
			err := c.Consume(ctx)
			if err != nil {
				c.logger.Error("同步商品事件失败", elog.FieldErr(err))
			}
		}
	}()
}

func (c *SyncProductConsumer) Consume(ctx context.Context) error {
	msg, err := c.consumer.Consume(ctx)
	if err != nil {
		return err
	}
	var evt ProductEvent
	err = json.Unmarshal(msg.Value, &evt)
	if err != nil {
		return err
	}
	_, err = c.svc.SaveProduct(ctx, c.toDomain(evt.SPU))
	return err
}

func (c *SyncProductConsumer) toDomain(spu SPU) domain.SPU {
	return domain.SPU{
		SN:     spu.SN,
		Name:   spu.Name,
		Desc:   spu.Desc,
		Status: domain.Status(spu.Status),
		SKUs: slice.Map(spu.SKUs, func(idx int, src SKU) domain.SKU {
			return domain.SKU{
				SN:          src.SN,
				Name:        src.Name,
				Desc:        src.Desc,
				Price:       src.Price,
				BuyingPrice: src.BuyingPrice,
				Stock:       src.Stock,
				Image:       src.Image,
				Status:      domain.Status(src.Status),
			}
		}),
	}
}
