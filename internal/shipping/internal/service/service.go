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
	"strings"

	"github.com/ecodeclub/emall/internal/pkg/sequencenumber"
	"github.com/ecodeclub/emall/internal/shipping/internal/domain"
	"github.com/ecodeclub/emall/internal/shipping/internal/repository"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var ErrZoneNotFound = errors.New("配送点不存在或已停用")

//go:generate mockgen -source=./service.go -package=shippingmocks -destination=../../mocks/shipping.mock.go -typed Service
type Service interface {
	// Resolve 解析配送点运费,命中免运费门槛时运费为0
	Resolve(ctx context.Context, zoneSN string, subtotal int64) (domain.Quote, error)
	// admin
	Create(ctx context.Context, z domain.Zone) (int64, error)
	List(ctx context.Context, offset, limit int) ([]domain.Zone, int64, error)
	Disable(ctx context.Context, id int64) error
}

func NewService(repo repository.ZoneRepository, snGenerator *sequencenumber.Generator) Service {
	return &service{repo: repo, snGenerator: snGenerator}
}

type service struct {
	repo        repository.ZoneRepository
	snGenerator *sequencenumber.Generator
}

func (s *service) Resolve(ctx context.Context, zoneSN string, subtotal int64) (domain.Quote, error) {
	zoneSN = strings.TrimSpace(zoneSN)
	if zoneSN == "" {
		return domain.Quote{}, fmt.Errorf("%w", ErrZoneNotFound)
	}
	z, err := s.repo.FindActiveBySN(ctx, zoneSN)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Quote{}, fmt.Errorf("%w: %s", ErrZoneNotFound, zoneSN)
		}
		return domain.Quote{}, fmt.Errorf("查找配送点失败: %w", err)
	}
	return domain.Quote{Zone: z, Cost: z.Cost(subtotal)}, nil
}

func (s *service) Create(ctx context.Context, z domain.Zone) (int64, error) {
	sn, err := s.snGenerator.Generate(z.ID)
	if err != nil {
		return 0, fmt.Errorf("生成配送点序列号失败: %w", err)
	}
	z.SN = sn
	if z.Status == 0 {
		z.Status = domain.ZoneStatusActive
	}
	return s.repo.Create(ctx, z)
}

func (s *service) List(ctx context.Context, offset, limit int) ([]domain.Zone, int64, error) {
	var (
		eg    errgroup.Group
		zs    []domain.Zone
		total int64
	)
	eg.Go(func() error {
		var err error
		zs, err = s.repo.List(ctx, offset, limit)
		return err
	})
	eg.Go(func() error {
		var err error
		total, err = s.repo.Total(ctx)
		return err
	})
	return zs, total, eg.Wait()
}

func (s *service) Disable(ctx context.Context, id int64) error {
	return s.repo.UpdateStatus(ctx, id, domain.ZoneStatusDisabled)
}
