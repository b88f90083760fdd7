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

	"github.com/ecodeclub/emall/internal/tax/internal/domain"
	"github.com/ecodeclub/emall/internal/tax/internal/repository"
	"github.com/gotomicro/ego/core/elog"
	"golang.org/x/sync/errgroup"
)

// FallbackRateBps 没有任何可用配置时的兜底税率
const FallbackRateBps int64 = 1600

//go:generate mockgen -source=./service.go -package=taxmocks -destination=../../mocks/tax.mock.go -typed Service
type Service interface {
	// Resolve 解析适用税率。税率解析永不失败:
	// 地区配置 -> 默认配置 -> 硬编码兜底,降级路径只记日志不阻塞结账。
	Resolve(ctx context.Context, region string) int64
	// admin
	Create(ctx context.Context, c domain.Config) (int64, error)
	List(ctx context.Context, offset, limit int) ([]domain.Config, int64, error)
	Disable(ctx context.Context, id int64) error
}

func NewService(repo repository.ConfigRepository) Service {
	return &service{repo: repo, l: elog.DefaultLogger}
}

type service struct {
	repo repository.ConfigRepository
	l    *elog.Component
}

func (s *service) Resolve(ctx context.Context, region string) int64 {
	configs, err := s.repo.ListActive(ctx)
	if err != nil {
		s.l.Warn("查询税率配置失败,使用兜底税率",
			elog.FieldErr(err),
			elog.String("region", region),
		)
		return FallbackRateBps
	}

	var defaultRate = int64(-1)
	for _, c := range configs {
		if c.Matches(region) {
			return c.RateBps
		}
		if c.IsDefault && defaultRate < 0 {
			defaultRate = c.RateBps
		}
	}
	if defaultRate >= 0 {
		return defaultRate
	}

	s.l.Warn("没有匹配的税率配置,使用兜底税率",
		elog.String("region", region),
	)
	return FallbackRateBps
}

func (s *service) Create(ctx context.Context, c domain.Config) (int64, error) {
	if c.Status == 0 {
		c.Status = domain.ConfigStatusActive
	}
	return s.repo.Create(ctx, c)
}

func (s *service) List(ctx context.Context, offset, limit int) ([]domain.Config, int64, error) {
	var (
		eg    errgroup.Group
		cs    []domain.Config
		total int64
	)
	eg.Go(func() error {
		var err error
		cs, err = s.repo.List(ctx, offset, limit)
		return err
	})
	eg.Go(func() error {
		var err error
		total, err = s.repo.Total(ctx)
		return err
	})
	return cs, total, eg.Wait()
}

func (s *service) Disable(ctx context.Context, id int64) error {
	return s.repo.UpdateStatus(ctx, id, domain.ConfigStatusDisabled)
}
