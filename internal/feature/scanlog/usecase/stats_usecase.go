// Package usecase はscanlogフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	cardentity "meishi_backend/internal/feature/cardscan/domain/entity"
	"meishi_backend/internal/feature/scanlog/domain/entity"
)

// MaxWindow は集計期間の上限です。
const MaxWindow = 365 * 24 * time.Hour

// ErrInvalidWindow は集計期間が不正な場合に返されます。
var ErrInvalidWindow = errors.New("invalid stats window")

// ScanEventRepository はスキャン記録の集計を行うリポジトリインターフェースです。
type ScanEventRepository interface {
	// CountByOutcome はsince以降の記録を結果ごとに数えます。sinceがゼロ値の場合は全期間です。
	CountByOutcome(ctx context.Context, since time.Time) (map[string]int64, error)
}

type statsUsecase struct {
	repo ScanEventRepository
	now  func() time.Time
}

func NewStatsUsecase(repo ScanEventRepository) *statsUsecase {
	return &statsUsecase{repo: repo, now: time.Now}
}

// Stats は直近window分のスキャン結果の件数を返します。windowが0の場合は全期間を集計します。
func (u *statsUsecase) Stats(ctx context.Context, window time.Duration) (*entity.Stats, error) {
	if window < 0 || window > MaxWindow {
		return nil, fmt.Errorf("%w: %s", ErrInvalidWindow, window)
	}

	var since time.Time
	if window > 0 {
		since = u.now().Add(-window)
	}

	counts, err := u.repo.CountByOutcome(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to count scan events: %w", err)
	}

	return &entity.Stats{
		Since:         since,
		Success:       counts[string(cardentity.OutcomeSuccess)],
		FieldsMissing: counts[string(cardentity.OutcomeFieldsMissing)],
		Malformed:     counts[string(cardentity.OutcomeMalformed)],
		Failed:        counts[string(cardentity.OutcomeFailed)],
	}, nil
}
