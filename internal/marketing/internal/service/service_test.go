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
	"time"

	"github.com/ecodeclub/emall/internal/marketing/internal/domain"
	"github.com/ecodeclub/emall/internal/marketing/internal/repository/dao"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestService_Redeem(t *testing.T) {
	now := time.Now().UnixMilli()
	const day = int64(24 * 3600 * 1000)

	active := domain.Discount{
		Code:        "SAVE10",
		Type:        domain.DiscountTypePercentage,
		Value:       10,
		MinPurchase: 50000,
		StartAt:     now - day,
		EndAt:       now + day,
		Status:      domain.DiscountStatusActive,
	}

	testCases := []struct {
		name     string
		repo     *fakeDiscountRepo
		code     string
		subtotal int64

		want           domain.Redemption
		wantErr        error
		wantRemaining  int64
		checkRemaining bool
	}{
		{
			name:     "空优惠码_返回零优惠",
			repo:     &fakeDiscountRepo{},
			code:     "",
			subtotal: 100000,
			want:     domain.Redemption{},
		},
		{
			name:     "优惠码不存在",
			repo:     &fakeDiscountRepo{findErr: gorm.ErrRecordNotFound},
			code:     "NOPE",
			subtotal: 100000,
			wantErr:  ErrDiscountNotFound,
		},
		{
			name: "已禁用",
			repo: &fakeDiscountRepo{discount: func() domain.Discount {
				d := active
				d.Status = domain.DiscountStatusDisabled
				return d
			}()},
			code:     "SAVE10",
			subtotal: 100000,
			wantErr:  ErrDiscountInactive,
		},
		{
			name: "已过期",
			repo: &fakeDiscountRepo{discount: func() domain.Discount {
				d := active
				d.EndAt = now - day
				return d
			}()},
			code:     "SAVE10",
			subtotal: 100000,
			wantErr:  ErrDiscountInactive,
		},
		{
			name:     "未达最低消费门槛",
			repo:     &fakeDiscountRepo{discount: active},
			code:     "SAVE10",
			subtotal: 10000,
			wantErr:  ErrDiscountBelowMinimum,
		},
		{
			name:     "次数耗尽",
			repo:     &fakeDiscountRepo{discount: active, consumeErr: dao.ErrUsageExhausted},
			code:     "SAVE10",
			subtotal: 100000,
			wantErr:  ErrDiscountExhausted,
		},
		{
			name:     "百分比优惠_核销成功",
			repo:     &fakeDiscountRepo{discount: active, remaining: 1},
			code:     "save10",
			subtotal: 100000,
			want: domain.Redemption{
				Code:   "SAVE10",
				Type:   domain.DiscountTypePercentage,
				Value:  10,
				Amount: 10000,
			},
			wantRemaining:  0,
			checkRemaining: true,
		},
		{
			name: "百分比优惠_触发封顶",
			repo: &fakeDiscountRepo{discount: func() domain.Discount {
				d := active
				d.MaxDiscount = 5000
				return d
			}(), remaining: 1},
			code:     "SAVE10",
			subtotal: 100000,
			want: domain.Redemption{
				Code:   "SAVE10",
				Type:   domain.DiscountTypePercentage,
				Value:  10,
				Amount: 5000,
			},
			wantRemaining:  0,
			checkRemaining: true,
		},
		{
			name: "固定金额优惠_核销成功",
			repo: &fakeDiscountRepo{discount: func() domain.Discount {
				d := active
				d.Type = domain.DiscountTypeFixed
				d.Value = 8000
				return d
			}(), remaining: 1},
			code:     "SAVE10",
			subtotal: 100000,
			want: domain.Redemption{
				Code:   "SAVE10",
				Type:   domain.DiscountTypeFixed,
				Value:  8000,
				Amount: 8000,
			},
			wantRemaining:  0,
			checkRemaining: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService(tc.repo)
			got, err := svc.Redeem(context.Background(), tc.code, tc.subtotal)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			if tc.checkRemaining {
				assert.Equal(t, tc.wantRemaining, tc.repo.remaining)
			}
		})
	}
}

// TestService_Redeem_单次上限仅一方成功 模拟两个并发结账抢同一个上限为1的优惠码
func TestService_Redeem_单次上限仅一方成功(t *testing.T) {
	now := time.Now().UnixMilli()
	repo := &fakeDiscountRepo{
		discount: domain.Discount{
			Code:    "ONCE",
			Type:    domain.DiscountTypePercentage,
			Value:   10,
			StartAt: now - 1000,
			EndAt:   now + 1000,
			Status:  domain.DiscountStatusActive,
		},
		remaining: 1,
	}
	svc := NewService(repo)

	_, err1 := svc.Redeem(context.Background(), "ONCE", 100000)
	_, err2 := svc.Redeem(context.Background(), "ONCE", 100000)

	require.NoError(t, err1)
	require.ErrorIs(t, err2, ErrDiscountExhausted)
	assert.Equal(t, int64(0), repo.remaining)
}

func TestService_Release(t *testing.T) {
	repo := &fakeDiscountRepo{remaining: 0}
	svc := NewService(repo)

	// 空code是no-op
	require.NoError(t, svc.Release(context.Background(), ""))
	assert.Equal(t, int64(0), repo.remaining)

	require.NoError(t, svc.Release(context.Background(), "save10"))
	assert.Equal(t, int64(1), repo.remaining)
	assert.Equal(t, "SAVE10", repo.lastReleased)
}

// fakeDiscountRepo 手写桩,remaining 模拟剩余可用次数的条件更新语义
type fakeDiscountRepo struct {
	discount   domain.Discount
	findErr    error
	consumeErr error

	remaining    int64
	lastReleased string
}

func (f *fakeDiscountRepo) FindByCode(_ context.Context, code string) (domain.Discount, error) {
	if f.findErr != nil {
		return domain.Discount{}, f.findErr
	}
	d := f.discount
	d.Code = code
	return d, nil
}

func (f *fakeDiscountRepo) ConsumeUse(_ context.Context, _ string) error {
	if f.consumeErr != nil {
		return f.consumeErr
	}
	if f.remaining <= 0 {
		return dao.ErrUsageExhausted
	}
	f.remaining--
	return nil
}

func (f *fakeDiscountRepo) ReleaseUse(_ context.Context, code string) error {
	f.remaining++
	f.lastReleased = code
	return nil
}

func (f *fakeDiscountRepo) Create(_ context.Context, _ domain.Discount) (int64, error) {
	return 1, nil
}

func (f *fakeDiscountRepo) List(_ context.Context, _, _ int) ([]domain.Discount, error) {
	return nil, nil
}

func (f *fakeDiscountRepo) Total(_ context.Context) (int64, error) {
	return 0, nil
}

func (f *fakeDiscountRepo) UpdateStatus(_ context.Context, _ int64, _ domain.DiscountStatus) error {
	return nil
}
