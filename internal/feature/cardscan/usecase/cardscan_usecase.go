// Package usecase はcardscanフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"meishi_backend/internal/feature/cardscan/domain"
	"meishi_backend/internal/feature/cardscan/domain/entity"
	"meishi_backend/internal/platform/logger"
)

const (
	// DefaultMaxImageSize は画像アップロードの最大サイズ（10MB）です。
	DefaultMaxImageSize = 10 * 1024 * 1024
	// MaxCompanyNameLength は企業名の最大文字数（rune数）です。
	MaxCompanyNameLength = 100
)

// TextExtractor は画像から文字起こしを行うインターフェースです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type TextExtractor interface {
	// ExtractText はbase64エンコードされた画像からテキストを抽出します。
	ExtractText(ctx context.Context, imageB64 string) (string, error)
}

// FieldParser は文字起こし結果から氏名・会社名を抽出するインターフェースです。
type FieldParser interface {
	// ExtractFields はJSONモードのモデルに問い合わせ、応答テキストをそのまま返します。
	ExtractFields(ctx context.Context, text string) (string, error)
}

// CompanyResearcher はWeb検索付きモデルで企業情報を調べるインターフェースです。
type CompanyResearcher interface {
	// Research はプロンプトを送信し、モデルの出力テキストを返します。
	Research(ctx context.Context, prompt string) (string, error)
}

// ScanRecorder はスキャン結果の匿名記録を保存するインターフェースです。
type ScanRecorder interface {
	RecordScan(ctx context.Context, event entity.ScanEvent) error
}

// NullScanRecorder は何も記録しないScanRecorderです。
type NullScanRecorder struct{}

// RecordScan は何もせずnilを返します。
func (NullScanRecorder) RecordScan(context.Context, entity.ScanEvent) error { return nil }

// Backends はログと記録に残すバックエンド名です。
type Backends struct {
	OCR      string
	Research string
}

// cardscanUsecase は名刺スキャンのパイプラインを提供します。
type cardscanUsecase struct {
	extractor    TextExtractor
	parser       FieldParser
	researcher   CompanyResearcher
	recorder     ScanRecorder
	backends     Backends
	maxImageSize int
	now          func() time.Time
}

// Option はcardscanUsecaseの設定を変更します。
type Option func(*cardscanUsecase)

// WithRecorder はスキャン結果の記録先を設定します。
func WithRecorder(r ScanRecorder) Option {
	return func(u *cardscanUsecase) {
		if r != nil {
			u.recorder = r
		}
	}
}

// WithBackends はバックエンド名を設定します。
func WithBackends(b Backends) Option {
	return func(u *cardscanUsecase) { u.backends = b }
}

// WithMaxImageSize は画像サイズの上限を設定します。0以下の場合は既定値を使います。
func WithMaxImageSize(n int) Option {
	return func(u *cardscanUsecase) {
		if n > 0 {
			u.maxImageSize = n
		}
	}
}

// NewCardScanUsecase はcardscanUsecaseの新しいインスタンスを生成します。
func NewCardScanUsecase(ex TextExtractor, fp FieldParser, cr CompanyResearcher, opts ...Option) *cardscanUsecase {
	u := &cardscanUsecase{
		extractor:    ex,
		parser:       fp,
		researcher:   cr,
		recorder:     NullScanRecorder{},
		maxImageSize: DefaultMaxImageSize,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// MaxImageSize は受け付ける画像サイズの上限を返します。
func (u *cardscanUsecase) MaxImageSize() int {
	return u.maxImageSize
}

// Scan は名刺画像から氏名・会社名を抽出し、揃っていれば企業検索を行います。
//
// 氏名・会社名が揃わない場合やモデル出力がJSONでない場合はエラーではなく、
// それぞれOutcomeFieldsMissing / OutcomeMalformedの結果を返します。
// 外部APIの失敗は*StageErrorでラップして返します。
func (u *cardscanUsecase) Scan(ctx context.Context, imageData []byte) (*entity.ScanResult, error) {
	if len(imageData) == 0 {
		return nil, domain.ErrEmptyImage
	}
	if len(imageData) > u.maxImageSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", domain.ErrImageTooLarge, len(imageData), u.maxImageSize)
	}

	log := logger.Get(ctx).With("ocr_backend", u.backends.OCR, "research_backend", u.backends.Research)
	res := &entity.ScanResult{Stage: entity.StageUploaded}
	log.Info("名刺画像を受け付けました", "stage", res.Stage, "bytes", len(imageData))

	b64 := EncodeImage(imageData)

	// 文字起こし
	res.Stage = entity.StageExtracting
	start := u.now()
	text, err := u.extractor.ExtractText(ctx, b64)
	res.Timings.Extract = u.now().Sub(start)
	if err != nil {
		return nil, u.fail(ctx, res, err)
	}
	res.OCRText = text
	log.Info("文字起こし完了", "stage", res.Stage, "chars", utf8.RuneCountInString(text), "elapsed", res.Timings.Extract)

	// 氏名・会社名の抽出
	res.Stage = entity.StageParsing
	start = u.now()
	raw, err := u.parser.ExtractFields(ctx, text)
	res.Timings.Parse = u.now().Sub(start)
	if err != nil {
		return nil, u.fail(ctx, res, err)
	}
	outcome := ParseFields(raw)
	res.Extraction = outcome.Extraction

	switch {
	case outcome.Malformed():
		res.Outcome = entity.OutcomeMalformed
		res.Stage = entity.StageErroring
		log.Warn("抽出モデルの出力がJSONではありません", "stage", res.Stage, "raw", truncate(raw, 200))
	case !outcome.Extraction.Complete():
		res.Outcome = entity.OutcomeFieldsMissing
		res.Stage = entity.StageErroring
		log.Info("氏名または会社名が抽出できませんでした", "stage", res.Stage,
			"has_name", outcome.Extraction.HasName(), "has_company", outcome.Extraction.HasCompany())
	default:
		// 企業検索
		res.Stage = entity.StageResearching
		start = u.now()
		summary, err := u.researcher.Research(ctx, fmt.Sprintf(ResearchPromptTemplate, outcome.Extraction.Company))
		res.Timings.Research = u.now().Sub(start)
		if err != nil {
			return nil, u.fail(ctx, res, err)
		}
		res.Research = summary
		res.Outcome = entity.OutcomeSuccess
		log.Info("企業検索完了", "stage", res.Stage, "elapsed", res.Timings.Research)
	}

	res.Stage = entity.StageDone
	u.record(ctx, res, "")
	return res, nil
}

// ResearchCompany は企業名を指定して企業検索を行います。
func (u *cardscanUsecase) ResearchCompany(ctx context.Context, companyName string) (*entity.CompanyResearch, error) {
	companyName = strings.TrimSpace(companyName)
	if companyName == "" {
		return nil, domain.ErrCompanyNameRequired
	}
	if utf8.RuneCountInString(companyName) > MaxCompanyNameLength {
		return nil, fmt.Errorf("%w: max %d characters", domain.ErrCompanyNameTooLong, MaxCompanyNameLength)
	}

	summary, err := u.researcher.Research(ctx, fmt.Sprintf(ResearchPromptTemplate, companyName))
	if err != nil {
		return nil, &StageError{Stage: entity.StageResearching, Err: fmt.Errorf("company researcher failed for %q: %w", companyName, err)}
	}
	return &entity.CompanyResearch{CompanyName: companyName, Summary: summary}, nil
}

// fail は失敗を記録し、段階情報付きのエラーを返します。
func (u *cardscanUsecase) fail(ctx context.Context, res *entity.ScanResult, err error) error {
	failed := res.Stage
	res.Outcome = entity.OutcomeFailed
	res.Stage = entity.StageDone
	u.record(ctx, res, failed)
	return &StageError{Stage: failed, Err: err}
}

// record は匿名の利用記録を保存します。保存の失敗はスキャン結果に影響させません。
func (u *cardscanUsecase) record(ctx context.Context, res *entity.ScanResult, failed entity.Stage) {
	ev := entity.ScanEvent{
		OccurredAt:      u.now(),
		Outcome:         res.Outcome,
		FailedStage:     failed,
		OCRBackend:      u.backends.OCR,
		ResearchBackend: u.backends.Research,
		Timings:         res.Timings,
	}
	if err := u.recorder.RecordScan(ctx, ev); err != nil {
		logger.Get(ctx).Warn("スキャン記録の保存に失敗", "error", err)
	}
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
