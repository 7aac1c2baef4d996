package util

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateURL 校验待提交的 URL（必须是绝对地址，且为 http/https）
func ValidateURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("url is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url format: %w", err)
	}
	if !u.IsAbs() {
		return fmt.Errorf("url must be absolute")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("url has no host")
	}
	return nil
}

// ValidateUserID 校验用户标识（3-32 位，字母、数字、下划线、中划线）
func ValidateUserID(userID string) error {
	if len(userID) < 3 || len(userID) > 32 {
		return fmt.Errorf("user id must be 3-32 characters")
	}
	for _, ch := range userID {
		switch {
		case ch >= 'A' && ch <= 'Z':
		case ch >= 'a' && ch <= 'z':
		case ch >= '0' && ch <= '9':
		case ch == '_' || ch == '-':
		default:
			return fmt.Errorf("user id contains invalid character %q", ch)
		}
	}
	return nil
}
