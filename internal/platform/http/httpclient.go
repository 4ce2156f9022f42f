// Package http は外部API呼び出し用のHTTPクライアントを提供します。
package http

import (
	"net"
	"net/http"
	"time"

	"meishi_backend/internal/platform/logger"
)

// NewHTTPClient は外部API呼び出し用に設定されたHTTPクライアントを作成します。
// OpenAI・Geminiの各SDKにはこのクライアントを渡し、タイムアウトと接続管理を共通化します。
//
// 設定:
//   - Proxy: 環境変数（HTTP_PROXYなど）が設定されている場合に使用
//   - Dialer.Timeout: TCP接続タイムアウト（デフォルトより短い）
//   - MaxIdleConns / MaxIdleConnsPerHost: 同じAPIホストへの接続を使い回す
//   - TLSHandshakeTimeout: HTTPSハンドシェイクの最大時間
//   - Client.Timeout: リクエスト全体のタイムアウト（モデルの応答待ちを含む）
//
// 注意:
//   - http.DefaultClientにはタイムアウトがないため、常にこのクライアントを使用すること
//   - リクエストURLのクエリやヘッダー（APIキー）はログに出さない
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: &loggingTransport{next: t}}
}

// loggingTransport は外部APIの呼び出し結果をリクエストのロガーに記録します。
type loggingTransport struct {
	next http.RoundTripper
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	elapsed := time.Since(start)

	log := logger.Get(req.Context()).With(
		"method", req.Method,
		"host", req.URL.Host,
		"path", req.URL.Path,
		"elapsed", elapsed,
	)
	switch {
	case err != nil:
		log.Warn("outbound request failed", "error", err)
	case resp.StatusCode >= http.StatusBadRequest:
		log.Warn("outbound request returned error status", "status", resp.StatusCode)
	default:
		log.Debug("outbound request", "status", resp.StatusCode)
	}
	return resp, err
}
