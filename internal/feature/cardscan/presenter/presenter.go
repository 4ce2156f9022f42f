// Package presenter はスキャン結果を画面表示用のモデルに変換します。
package presenter

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"

	"meishi_backend/internal/feature/cardscan/domain"
	"meishi_backend/internal/feature/cardscan/domain/entity"
)

const (
	// ImageCaption はアップロード画像に付けるキャプションです。
	ImageCaption = "アップロードされた名刺画像"
	// ResultHeading は検索結果の見出しです。
	ResultHeading = "検索結果"
	// MsgExtractionFailed は氏名・会社名が揃わなかった場合のメッセージです。
	MsgExtractionFailed = "氏名または会社名が抽出できませんでした。別の画像を試してください。"
	// MsgUpstreamFailed は外部APIの呼び出しに失敗した場合のメッセージです。
	MsgUpstreamFailed = "処理中にエラーが発生しました。時間をおいて再度お試しください。"
	// MsgUnsupportedType はPNG/JPEG以外がアップロードされた場合のメッセージです。
	MsgUnsupportedType = "JPG/PNG形式の画像をアップロードしてください"
	// MsgImageTooLarge は画像が大きすぎる場合のメッセージです。
	MsgImageTooLarge = "画像サイズが大きすぎます。10MB以下の画像をアップロードしてください"
	// MsgImageRequired は画像が無い場合のメッセージです。
	MsgImageRequired = "画像ファイルが必要です"

	// previewMaxSize はプレビュー画像の最大幅・高さ（px）です。
	previewMaxSize = 1000
)

// Status は画面に表示するメッセージの種類です。
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// View は結果画面の表示モデルです。
type View struct {
	ImageURI  string // プレビュー画像のデータURI（画像が無い場合は空）
	Caption   string
	Status    Status
	Message   string
	Heading   string // 成功時のみ
	Research  string // 成功時のみ
	Company   string
	Name      string
	RequestID string
}

// SuccessMessage は名刺交換の確認メッセージを返します。
func SuccessMessage(company, name string) string {
	return fmt.Sprintf("%sの%sさんと名刺交換したんですね！📇", company, name)
}

// ResultMessage はスキャン結果に対応するメッセージを返します。
func ResultMessage(res *entity.ScanResult) string {
	if res.Succeeded() {
		return SuccessMessage(res.Extraction.Company, res.Extraction.Name)
	}
	return MsgExtractionFailed
}

// Present はスキャン結果から表示モデルを組み立てます。
// 氏名と会社名の両方が揃って企業検索まで完了した場合のみ成功表示になり、部分的な成功はありません。
func Present(imageData []byte, res *entity.ScanResult) View {
	v := View{ImageURI: PreviewDataURI(imageData), Caption: ImageCaption, Message: ResultMessage(res)}
	if res.Succeeded() {
		v.Status = StatusSuccess
		v.Heading = ResultHeading
		v.Research = res.Research
		v.Company = res.Extraction.Company
		v.Name = res.Extraction.Name
		return v
	}
	v.Status = StatusError
	return v
}

// PresentError はパイプラインが中断した場合の表示モデルを組み立てます。
func PresentError(imageData []byte, err error) View {
	v := View{Caption: ImageCaption, Status: StatusError, Message: ErrorMessage(err)}
	if len(imageData) > 0 && !errors.Is(err, domain.ErrUnsupportedImageType) {
		v.ImageURI = PreviewDataURI(imageData)
	}
	return v
}

// ErrorMessage はエラーを利用者向けのメッセージに変換します。
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyImage):
		return MsgImageRequired
	case errors.Is(err, domain.ErrImageTooLarge):
		return MsgImageTooLarge
	case errors.Is(err, domain.ErrUnsupportedImageType):
		return MsgUnsupportedType
	default:
		return MsgUpstreamFailed
	}
}

// PreviewDataURI は表示用の画像データURIを返します。
// 画像として読める場合は長辺previewMaxSize以内に縮小したJPEGに変換し、読めない場合は元のバイト列をそのまま使います。
func PreviewDataURI(imageData []byte) string {
	if len(imageData) == 0 {
		return ""
	}
	mime := mimetype.Detect(imageData).String()

	img, err := imaging.Decode(bytes.NewReader(imageData), imaging.AutoOrientation(true))
	if err != nil {
		return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(imageData)
	}
	b := img.Bounds()
	if b.Dx() <= previewMaxSize && b.Dy() <= previewMaxSize {
		return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(imageData)
	}

	var buf bytes.Buffer
	thumb := imaging.Fit(img, previewMaxSize, previewMaxSize, imaging.Lanczos)
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(imageData)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}
