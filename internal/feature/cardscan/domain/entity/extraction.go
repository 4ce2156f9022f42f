// Package entity はcardscanフィーチャーのドメインモデルを定義します。
package entity

import "strings"

// ExtractionResult は名刺のOCRテキストから抽出した氏名と会社名を表します。
// 空文字列は「抽出できなかった」ことを意味します。
type ExtractionResult struct {
	Name    string // 氏名
	Company string // 会社名
}

// HasName は氏名が抽出できているかを返します。
func (e ExtractionResult) HasName() bool {
	return strings.TrimSpace(e.Name) != ""
}

// HasCompany は会社名が抽出できているかを返します。
func (e ExtractionResult) HasCompany() bool {
	return strings.TrimSpace(e.Company) != ""
}

// Complete は氏名と会社名の両方が揃っているかを返します。
// 企業検索に使うのは会社名だけですが、検索を行う条件は両方が揃っていることです。
func (e ExtractionResult) Complete() bool {
	return e.HasName() && e.HasCompany()
}

// ParseStatus はフィールド抽出の結果種別です。
type ParseStatus int

const (
	// ParseStatusSuccess はモデルの出力がJSONオブジェクトとして解釈できたことを表します。
	// フィールドが欠けていてもSuccessです。
	ParseStatusSuccess ParseStatus = iota
	// ParseStatusMalformed はモデルの出力がJSONオブジェクトではなかったことを表します。
	ParseStatusMalformed
)

// String はParseStatusの文字列表現を返します。
func (s ParseStatus) String() string {
	switch s {
	case ParseStatusSuccess:
		return "success"
	case ParseStatusMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// ParseOutcome はフィールド抽出モデルの応答を解釈した結果です。
type ParseOutcome struct {
	Status     ParseStatus
	Extraction ExtractionResult // Status == ParseStatusSuccess のときのみ有効
	Raw        string           // モデルが返した生のテキスト
}

// Malformed はモデルの出力が解釈不能だったかを返します。
func (o ParseOutcome) Malformed() bool {
	return o.Status == ParseStatusMalformed
}
