package entity

import "time"

// ScanEvent はスキャン1回分の匿名の利用記録です。
// 画像・OCRテキスト・氏名・会社名は含みません。
type ScanEvent struct {
	OccurredAt      time.Time
	Outcome         Outcome
	FailedStage     Stage // Outcome == OutcomeFailed のときのみ設定されます
	OCRBackend      string
	ResearchBackend string
	Timings         StageTimings
}
