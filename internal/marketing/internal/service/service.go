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
	"strconv"
	"strings"
	"time"

	"github.com/ecodeclub/emall/internal/marketing/internal/domain"
	"github.com/ecodeclub/emall/internal/marketing/internal/repository"
	"github.com/ecodeclub/emall/internal/marketing/internal/repository/dao"
	"github.com/ecodeclub/emall/internal/pkg/pricing"
	"github.com/ecodeclub/emall/internal/pkg/snowflake"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var (
	ErrDiscountNotFound     = errors.New("优惠码不存在")
	ErrDiscountInactive     = errors.New("优惠码未生效或已过期")
	ErrDiscountBelowMinimum = errors.New("未达到优惠码最低消费门槛")
	ErrDiscountExhausted    = errors.New("优惠码使用次数已耗尽")
)

//go:generate mockgen -source=./service.go -package=marketingmocks -destination=../../mocks/marketing.mock.go -typed Service
type Service interface {
	// Preview 只试算优惠金额,不消耗使用次数
	Preview(ctx context.Context, code string, subtotal int64) (domain.Redemption, error)
	// Redeem 校验并原子核销一次优惠码,code为空时返回零优惠
	Redeem(ctx context.Context, code string, subtotal int64) (domain.Redemption, error)
	// Release 补偿核销,结账后续步骤失败时回补使用次数
	Release(ctx context.Context, code string) error
}

//go:generate mockgen -source=./service.go -package=marketingmocks -destination=../../mocks/marketing_admin.mock.go -typed AdminService
type AdminService interface {
	Create(ctx context.Context, d domain.Discount) (int64, error)
	List(ctx context.Context, offset, limit int) ([]domain.Discount, int64, error)
	Disable(ctx context.Context, id int64) error
}

func NewService(repo repository.DiscountRepository) Service {
	return &service{repo: repo}
}

type service struct {
	repo repository.DiscountRepository
}

func (s *service) Preview(ctx context.Context, code string, subtotal int64) (domain.Redemption, error) {
	return s.quote(ctx, code, subtotal)
}

func (s *service) Redeem(ctx context.Context, code string, subtotal int64) (domain.Redemption, error) {
	r, err := s.quote(ctx, code, subtotal)
	if err != nil || r.Code == "" {
		return r, err
	}
	// 核销必须是单条条件更新,输掉并发竞争的一方在这里观察到次数耗尽
	if err = s.repo.ConsumeUse(ctx, r.Code); err != nil {
		if errors.Is(err, dao.ErrUsageExhausted) {
			return domain.Redemption{}, fmt.Errorf("%w: %s", ErrDiscountExhausted, r.Code)
		}
		return domain.Redemption{}, fmt.Errorf("核销优惠码失败: %w", err)
	}
	return r, nil
}

func (s *service) quote(ctx context.Context, code string, subtotal int64) (domain.Redemption, error) {
	// 优惠码是可选项
	if code == "" {
		return domain.Redemption{}, nil
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	d, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Redemption{}, fmt.Errorf("%w: %s", ErrDiscountNotFound, code)
		}
		return domain.Redemption{}, fmt.Errorf("查找优惠码失败: %w", err)
	}
	if !d.Redeemable(time.Now().UnixMilli()) {
		return domain.Redemption{}, fmt.Errorf("%w: %s", ErrDiscountInactive, code)
	}
	if subtotal < d.MinPurchase {
		return domain.Redemption{}, fmt.Errorf("%w: %s", ErrDiscountBelowMinimum, code)
	}

	var amount int64
	switch d.Type {
	case domain.DiscountTypePercentage:
		amount = pricing.PercentageDiscount(subtotal, d.Value, d.MaxDiscount)
	case domain.DiscountTypeFixed:
		amount = pricing.FixedDiscount(subtotal, d.Value)
	default:
		return domain.Redemption{}, fmt.Errorf("未知的优惠类型: %d", d.Type)
	}
	return domain.Redemption{
		Code:   code,
		Type:   d.Type,
		Value:  d.Value,
		Amount: amount,
	}, nil
}

func (s *service) Release(ctx context.Context, code string) error {
	if code == "" {
		return nil
	}
	return s.repo.ReleaseUse(ctx, strings.ToUpper(strings.TrimSpace(code)))
}

func NewAdminService(repo repository.DiscountRepository, sf *snowflake.CustomSnowFlake) AdminService {
	return &adminService{repo: repo, sf: sf}
}

type adminService struct {
	repo repository.DiscountRepository
	sf   *snowflake.CustomSnowFlake
}

// marketingAppID 雪花ID的appid分区,营销模块固定使用0号分区
const marketingAppID uint = 0

func (s *adminService) Create(ctx context.Context, d domain.Discount) (int64, error) {
	d.Code = strings.ToUpper(strings.TrimSpace(d.Code))
	if d.Code == "" {
		id, err := s.sf.Generate(marketingAppID)
		if err != nil {
			return 0, fmt.Errorf("生成优惠码失败: %w", err)
		}
		d.Code = "EM" + strings.ToUpper(strconv.FormatInt(id.Int64(), 36))
	}
	if d.Status == 0 {
		d.Status = domain.DiscountStatusActive
	}
	return s.repo.Create(ctx, d)
}

func (s *adminService) List(ctx context.Context, offset, limit int) ([]domain.Discount, int64, error) {
	var (
		eg    errgroup.Group
		ds    []domain.Discount
		total int64
	)
	eg.Go(func() error {
		var err error
		ds, err = s.repo.List(ctx, offset, limit)
		return err
	})
	eg.Go(func() error {
		var err error
		total, err = s.repo.Total(ctx)
		return err
	})
	return ds, total, eg.Wait()
}

func (s *adminService) Disable(ctx context.Context, id int64) error {
	return s.repo.UpdateStatus(ctx, id, domain.DiscountStatusDisabled)
}
