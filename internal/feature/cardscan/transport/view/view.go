// Package view はcardscanフィーチャーのHTMLテンプレートを提供します。
package view

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

const (
	// IndexTemplate はアップロード画面のテンプレート名です。
	IndexTemplate = "index.html"
	// ResultTemplate は結果画面のテンプレート名です。
	ResultTemplate = "result.html"
)

//go:embed templates/*.html
var files embed.FS

// 生のHTMLは出力しない（goldmarkの既定動作）。
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// Markdown はモデルの出力をHTMLに変換します。変換できない場合はエスケープしたテキストを返します。
func Markdown(s string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(s), &buf); err != nil {
		slog.Warn("Markdownの変換に失敗", "error", err)
		return template.HTML(template.HTMLEscapeString(s))
	}
	return template.HTML(buf.String())
}

// ImageURL はプレビュー画像のデータURIをimg要素に埋め込める形で返します。画像以外のURIは空になります。
func ImageURL(uri string) template.URL {
	if !strings.HasPrefix(uri, "data:image/") {
		return ""
	}
	return template.URL(uri)
}

// Templates は埋め込みテンプレートを解析して返します。gin.Engine.SetHTMLTemplateに渡して使います。
func Templates() *template.Template {
	return template.Must(
		template.New("").
			Funcs(template.FuncMap{"markdown": Markdown, "imageURL": ImageURL}).
			ParseFS(files, "templates/*.html"),
	)
}
