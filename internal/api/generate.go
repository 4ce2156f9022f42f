// Package api はHTTP APIのリクエスト・レスポンス型を提供します。
// 型は api/openapi.yaml から生成されます。
package api

//go:generate go tool oapi-codegen -config ../../api/oapi-codegen.yaml ../../api/openapi.yaml
