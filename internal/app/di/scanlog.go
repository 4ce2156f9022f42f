package di

import (
	"gorm.io/gorm"

	"meishi_backend/internal/feature/cardscan/usecase"
	scanlogadapters "meishi_backend/internal/feature/scanlog/adapters"
)

// NewScanRecorder はScanRecorderの実装を返します。
// スキャン記録DBが利用できる場合はgormによる実装を、そうでない場合は何も記録しない実装を返します。
func NewScanRecorder(db *gorm.DB) usecase.ScanRecorder {
	if db != nil {
		return scanlogadapters.NewScanEventRepository(db)
	}
	return usecase.NullScanRecorder{}
}
