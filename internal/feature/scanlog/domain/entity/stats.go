// Package entity はscanlogフィーチャーのドメインモデルを定義します。
package entity

import "time"

// Stats は期間内のスキャン結果ごとの件数です。
type Stats struct {
	Since         time.Time // ゼロ値の場合は全期間
	Success       int64
	FieldsMissing int64
	Malformed     int64
	Failed        int64
}

// Total は全件数を返します。
func (s Stats) Total() int64 {
	return s.Success + s.FieldsMissing + s.Malformed + s.Failed
}
