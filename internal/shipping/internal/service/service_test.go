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
	"testing"

	"github.com/ecodeclub/emall/internal/pkg/sequencenumber"
	"github.com/ecodeclub/emall/internal/shipping/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestService_Resolve(t *testing.T) {
	zone := domain.Zone{
		SN:                    "ZONE001",
		Name:                  "望京自提点",
		BaseRate:              5000,
		FreeShippingThreshold: 500000,
		Status:                domain.ZoneStatusActive,
	}

	testCases := []struct {
		name     string
		repo     *fakeZoneRepo
		zoneSN   string
		subtotal int64

		wantCost int64
		wantErr  error
	}{
		{
			name:     "未达免运费门槛_收基础运费",
			repo:     &fakeZoneRepo{zone: zone},
			zoneSN:   "ZONE001",
			subtotal: 100000,
			wantCost: 5000,
		},
		{
			name:     "达到免运费门槛_运费为零",
			repo:     &fakeZoneRepo{zone: zone},
			zoneSN:   "ZONE001",
			subtotal: 600000,
			wantCost: 0,
		},
		{
			name: "无免运费门槛_始终收基础运费",
			repo: &fakeZoneRepo{zone: func() domain.Zone {
				z := zone
				z.FreeShippingThreshold = 0
				return z
			}()},
			zoneSN:   "ZONE001",
			subtotal: 99999999,
			wantCost: 5000,
		},
		{
			name:    "配送点不存在",
			repo:    &fakeZoneRepo{findErr: gorm.ErrRecordNotFound},
			zoneSN:  "NOPE",
			wantErr: ErrZoneNotFound,
		},
		{
			name:    "空SN",
			repo:    &fakeZoneRepo{},
			zoneSN:  "",
			wantErr: ErrZoneNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService(tc.repo, sequencenumber.NewGenerator())
			quote, err := svc.Resolve(context.Background(), tc.zoneSN, tc.subtotal)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantCost, quote.Cost)
			// 订单侧依赖Quote携带完整Zone做快照
			assert.Equal(t, tc.repo.zone.Name, quote.Zone.Name)
		})
	}
}

type fakeZoneRepo struct {
	zone    domain.Zone
	findErr error
}

func (f *fakeZoneRepo) FindActiveBySN(_ context.Context, _ string) (domain.Zone, error) {
	if f.findErr != nil {
		return domain.Zone{}, f.findErr
	}
	return f.zone, nil
}

func (f *fakeZoneRepo) Create(_ context.Context, _ domain.Zone) (int64, error) {
	return 1, nil
}

func (f *fakeZoneRepo) List(_ context.Context, _, _ int) ([]domain.Zone, error) {
	return nil, nil
}

func (f *fakeZoneRepo) Total(_ context.Context) (int64, error) {
	return 0, nil
}

func (f *fakeZoneRepo) UpdateStatus(_ context.Context, _ int64, _ domain.ZoneStatus) error {
	return nil
}
