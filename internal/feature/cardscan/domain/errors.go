// Package domain はcardscanフィーチャーのドメインエラーを定義します。
package domain

import "errors"

// 入力検証に関するドメインエラー。
// 上位層（handler）ではerrors.Isで判定し、ステータスコードとメッセージに変換します。
var (
	// ErrEmptyImage はアップロードされた画像が空の場合に返されます。
	ErrEmptyImage = errors.New("image data is empty")

	// ErrImageTooLarge は画像サイズが上限を超えた場合に返されます。
	ErrImageTooLarge = errors.New("image size exceeds maximum")

	// ErrUnsupportedImageType はPNG/JPEG以外のファイルがアップロードされた場合に返されます。
	ErrUnsupportedImageType = errors.New("unsupported image type")

	// ErrCompanyNameRequired は企業名が空の場合に返されます。
	ErrCompanyNameRequired = errors.New("company name is required")

	// ErrCompanyNameTooLong は企業名が最大文字数を超えた場合に返されます。
	ErrCompanyNameTooLong = errors.New("company name is too long")
)
