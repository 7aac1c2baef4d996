package indexing

import (
	"context"
	"encoding/json"
	"fmt"
)

// ErrorCode 外部索引服务的失败分类
type ErrorCode string

const (
	CodePermissionDenied ErrorCode = "permission_denied" // 403：配额耗尽或权限不足
	CodeRateLimited      ErrorCode = "rate_limited"      // 429
	CodeConfigMissing    ErrorCode = "config_missing"    // 服务账号配置缺失
	CodeTransport        ErrorCode = "transport"         // 其他网络/服务错误
)

// ProviderError carries the failure classification of a provider call.
type ProviderError struct {
	Code    ErrorCode
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("indexing provider: %s: %s", e.Code, e.Message)
}

// Provider 是外部索引服务的调用契约：提交一个 URL，
// 返回原始响应或者一个带分类的错误。
type Provider interface {
	Submit(ctx context.Context, url string) (json.RawMessage, error)
}

// StaticProvider 返回固定结果，用于测试和没有凭证的本地运行
type StaticProvider struct {
	Response json.RawMessage
	Err      error
}

func (p *StaticProvider) Submit(_ context.Context, _ string) (json.RawMessage, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	if p.Response == nil {
		return json.RawMessage(`{}`), nil
	}
	return p.Response, nil
}
