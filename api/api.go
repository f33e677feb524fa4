// Package api 内嵌 OpenAPI 文档，供请求/响应校验与在线文档共用。
package api

import _ "embed"

// Spec 是 openapi.yaml 的原始内容
//
//go:embed openapi.yaml
var Spec []byte
