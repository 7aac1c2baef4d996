package indexing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	indexingapi "google.golang.org/api/indexing/v3"
	"google.golang.org/api/option"
)

// GoogleProvider submits URLs to the Google Indexing API (v3)
// using a service account credentials file.
type GoogleProvider struct {
	credentialsFile string
	log             *zap.Logger

	mu  sync.Mutex
	svc *indexingapi.Service
}

func NewGoogleProvider(credentialsFile string, log *zap.Logger) *GoogleProvider {
	if log == nil {
		log = zap.NewNop()
	}
	return &GoogleProvider{
		credentialsFile: credentialsFile,
		log:             log,
	}
}

// service 懒加载 API client，首次调用时检查凭证文件
func (p *GoogleProvider) service(ctx context.Context) (*indexingapi.Service, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.svc != nil {
		return p.svc, nil
	}

	if p.credentialsFile == "" {
		return nil, &ProviderError{
			Code:    CodeConfigMissing,
			Message: "service account configuration missing",
		}
	}
	if _, err := os.Stat(p.credentialsFile); err != nil {
		p.log.Error("service account file not found",
			zap.String("path", p.credentialsFile))
		return nil, &ProviderError{
			Code:    CodeConfigMissing,
			Message: fmt.Sprintf("service account file not found: %s", p.credentialsFile),
		}
	}

	svc, err := indexingapi.NewService(ctx,
		option.WithCredentialsFile(p.credentialsFile),
		option.WithScopes(indexingapi.IndexingScope),
	)
	if err != nil {
		return nil, &ProviderError{
			Code:    CodeTransport,
			Message: fmt.Sprintf("create indexing client: %v", err),
		}
	}
	p.svc = svc
	return svc, nil
}

// Submit 向 Google Indexing API 发布一条 URL_UPDATED 通知
func (p *GoogleProvider) Submit(ctx context.Context, url string) (json.RawMessage, error) {
	svc, err := p.service(ctx)
	if err != nil {
		return nil, err
	}

	notification := &indexingapi.UrlNotification{
		Url:  url,
		Type: "URL_UPDATED",
	}
	res, err := svc.UrlNotifications.Publish(notification).Context(ctx).Do()
	if err != nil {
		return nil, mapGoogleError(err)
	}

	payload, err := json.Marshal(res)
	if err != nil {
		return nil, &ProviderError{
			Code:    CodeTransport,
			Message: fmt.Sprintf("decode response: %v", err),
		}
	}

	p.log.Info("url submitted to indexing api", zap.String("url", url))
	return payload, nil
}

// mapGoogleError 按原始状态码归类错误
func mapGoogleError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 403:
			return &ProviderError{
				Code:    CodePermissionDenied,
				Message: "API quota exceeded or permission denied. Check if Indexing API is enabled.",
			}
		case 429:
			return &ProviderError{
				Code:    CodeRateLimited,
				Message: "too many requests - try again later",
			}
		default:
			return &ProviderError{
				Code:    CodeTransport,
				Message: apiErr.Message,
			}
		}
	}
	return &ProviderError{
		Code:    CodeTransport,
		Message: err.Error(),
	}
}
