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
	"testing"

	"github.com/ecodeclub/emall/internal/tax/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestService_Resolve(t *testing.T) {
	regional := domain.Config{
		Name:    "华北",
		RateBps: 1300,
		Regions: "beijing,tianjin",
		Status:  domain.ConfigStatusActive,
	}
	fallback := domain.Config{
		Name:      "默认",
		RateBps:   1600,
		IsDefault: true,
		Status:    domain.ConfigStatusActive,
	}

	testCases := []struct {
		name   string
		repo   *fakeConfigRepo
		region string
		want   int64
	}{
		{
			name:   "命中地区配置",
			repo:   &fakeConfigRepo{configs: []domain.Config{regional, fallback}},
			region: "beijing",
			want:   1300,
		},
		{
			name:   "地区匹配不区分大小写",
			repo:   &fakeConfigRepo{configs: []domain.Config{regional, fallback}},
			region: "Tianjin",
			want:   1300,
		},
		{
			name:   "未命中地区_回落默认配置",
			repo:   &fakeConfigRepo{configs: []domain.Config{regional, fallback}},
			region: "shanghai",
			want:   1600,
		},
		{
			name:   "空地区_回落默认配置",
			repo:   &fakeConfigRepo{configs: []domain.Config{regional, fallback}},
			region: "",
			want:   1600,
		},
		{
			name:   "无任何配置_硬编码兜底",
			repo:   &fakeConfigRepo{},
			region: "beijing",
			want:   FallbackRateBps,
		},
		{
			name:   "查询失败_硬编码兜底_不阻塞结账",
			repo:   &fakeConfigRepo{err: errors.New("db down")},
			region: "beijing",
			want:   FallbackRateBps,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService(tc.repo)
			assert.Equal(t, tc.want, svc.Resolve(context.Background(), tc.region))
		})
	}
}

type fakeConfigRepo struct {
	configs []domain.Config
	err     error
}

func (f *fakeConfigRepo) ListActive(_ context.Context) ([]domain.Config, error) {
	return f.configs, f.err
}

func (f *fakeConfigRepo) Create(_ context.Context, _ domain.Config) (int64, error) {
	return 1, nil
}

func (f *fakeConfigRepo) List(_ context.Context, _, _ int) ([]domain.Config, error) {
	return nil, nil
}

func (f *fakeConfigRepo) Total(_ context.Context) (int64, error) {
	return 0, nil
}

func (f *fakeConfigRepo) UpdateStatus(_ context.Context, _ int64, _ domain.ConfigStatus) error {
	return nil
}
