package usecase

import "encoding/base64"

// imageDataURIPrefix は画像をリクエストに埋め込む際のデータURIの接頭辞です。
// PNGでもjpegとして送ります（モデル側は中身から形式を判定します）。
const imageDataURIPrefix = "data:image/jpeg;base64,"

// EncodeImage は画像バイト列をbase64文字列に変換します。
// 画像としての妥当性は検証しません。壊れたデータは後段のAPI呼び出しで失敗します。
func EncodeImage(imageData []byte) string {
	return base64.StdEncoding.EncodeToString(imageData)
}

// ImageDataURI はbase64文字列をデータURIに変換します。
func ImageDataURI(b64 string) string {
	return imageDataURIPrefix + b64
}
