package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockScanEventRepository struct {
	CountByOutcomeFunc func(ctx context.Context, since time.Time) (map[string]int64, error)
	lastSince          time.Time
	calls              int
}

func (m *mockScanEventRepository) CountByOutcome(ctx context.Context, since time.Time) (map[string]int64, error) {
	m.calls++
	m.lastSince = since
	return m.CountByOutcomeFunc(ctx, since)
}

func TestStatsUsecase_Stats(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		window    time.Duration
		repoFunc  func(ctx context.Context, since time.Time) (map[string]int64, error)
		wantSince time.Time
		wantTotal int64
		wantErr   error
		wantCalls int
	}{
		{
			name:   "all time",
			window: 0,
			repoFunc: func(ctx context.Context, since time.Time) (map[string]int64, error) {
				return map[string]int64{"success": 3, "fields_missing": 2, "malformed": 1, "failed": 4}, nil
			},
			wantTotal: 10,
			wantCalls: 1,
		},
		{
			name:   "last 24 hours",
			window: 24 * time.Hour,
			repoFunc: func(ctx context.Context, since time.Time) (map[string]int64, error) {
				return map[string]int64{"success": 1}, nil
			},
			wantSince: now.Add(-24 * time.Hour),
			wantTotal: 1,
			wantCalls: 1,
		},
		{
			name:      "negative window",
			window:    -time.Hour,
			wantErr:   ErrInvalidWindow,
			wantCalls: 0,
		},
		{
			name:      "window too long",
			window:    MaxWindow + time.Hour,
			wantErr:   ErrInvalidWindow,
			wantCalls: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := &mockScanEventRepository{CountByOutcomeFunc: tt.repoFunc}
			uc := NewStatsUsecase(repo)
			uc.now = func() time.Time { return now }

			stats, err := uc.Stats(context.Background(), tt.window)

			assert.Equal(t, tt.wantCalls, repo.calls)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, stats)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSince, repo.lastSince)
			assert.Equal(t, tt.wantSince, stats.Since)
			assert.Equal(t, tt.wantTotal, stats.Total())
		})
	}
}

func TestStatsUsecase_Stats_MapsOutcomes(t *testing.T) {
	t.Parallel()

	repo := &mockScanEventRepository{
		CountByOutcomeFunc: func(ctx context.Context, since time.Time) (map[string]int64, error) {
			return map[string]int64{"success": 5, "fields_missing": 4, "malformed": 3, "failed": 2, "unknown": 9}, nil
		},
	}

	stats, err := NewStatsUsecase(repo).Stats(context.Background(), 0)

	require.NoError(t, err)
	assert.Equal(t, int64(5), stats.Success)
	assert.Equal(t, int64(4), stats.FieldsMissing)
	assert.Equal(t, int64(3), stats.Malformed)
	assert.Equal(t, int64(2), stats.Failed)
	assert.Equal(t, int64(14), stats.Total())
}

func TestStatsUsecase_Stats_RepositoryError(t *testing.T) {
	t.Parallel()

	repoErr := errors.New("db down")
	repo := &mockScanEventRepository{
		CountByOutcomeFunc: func(ctx context.Context, since time.Time) (map[string]int64, error) {
			return nil, repoErr
		},
	}

	_, err := NewStatsUsecase(repo).Stats(context.Background(), 0)
	assert.ErrorIs(t, err, repoErr)
}
