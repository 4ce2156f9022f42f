package usecase

import (
	"fmt"

	"meishi_backend/internal/feature/cardscan/domain/entity"
)

// StageError は外部API呼び出しがどの段階で失敗したかを保持します。
// handlerはerrors.Asで取り出してログに段階を記録します。
type StageError struct {
	Stage entity.Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
