package indexing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
)

func TestMapGoogleError(t *testing.T) {
	cases := []struct {
		name string
		in   error
		code ErrorCode
	}{
		{"403 配额/权限", &googleapi.Error{Code: 403, Message: "forbidden"}, CodePermissionDenied},
		{"429 限流", &googleapi.Error{Code: 429, Message: "rate limit"}, CodeRateLimited},
		{"500 服务端", &googleapi.Error{Code: 500, Message: "backend error"}, CodeTransport},
		{"非 API 错误", errors.New("dial tcp: connection refused"), CodeTransport},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := mapGoogleError(tc.in)
			var perr *ProviderError
			require.ErrorAs(t, err, &perr)
			require.Equal(t, tc.code, perr.Code)
			require.NotEmpty(t, perr.Message)
		})
	}
}

// 凭证文件缺失时分类为 config_missing，且不发起外部调用
func TestGoogleProvider_MissingCredentials(t *testing.T) {
	p := NewGoogleProvider("testdata/does-not-exist.json", zap.NewNop())

	_, err := p.Submit(context.Background(), "https://example.com")
	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, CodeConfigMissing, perr.Code)

	// 未配置路径也是同样的分类
	p = NewGoogleProvider("", zap.NewNop())
	_, err = p.Submit(context.Background(), "https://example.com")
	require.ErrorAs(t, err, &perr)
	require.Equal(t, CodeConfigMissing, perr.Code)
}
