package webhook

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/zinc-sig/nbcheck/internal/params"
)

// EnvPrefix selects NBCHECK_WEBHOOK (JSON) and NBCHECK_WEBHOOK_* variables.
const EnvPrefix = "NBCHECK_WEBHOOK"

// Config holds webhook endpoint configuration
type Config struct {
	URL       string            // Webhook endpoint URL
	Method    string            // HTTP method (default: POST)
	Headers   map[string]string // Custom headers
	Timeout   time.Duration     // Overall timeout for all retries
	AuthType  string            // Authentication type: none, bearer, api-key
	AuthToken string            // Authentication token
}

// RetryConfig holds retry configuration
type RetryConfig struct {
	MaxRetries   int           // Maximum retry attempts (default: 3)
	InitialDelay time.Duration // Initial delay between retries (default: 1s)
	MaxDelay     time.Duration // Maximum delay (default: 30s)
	Multiplier   float64       // Backoff multiplier (default: 2.0)
}

// DefaultRetryConfig returns default retry configuration
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:   3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

var methods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// FromSettings converts a merged settings map (keys url, method, auth_type,
// auth_token, timeout, retries, retry_delay, headers) into client
// configuration. A missing url means no webhook: both results are nil.
func FromSettings(settings map[string]any) (*Config, *RetryConfig, error) {
	url, _ := params.String(settings, "url")
	if url == "" {
		return nil, nil, nil
	}

	timeout := 30 * time.Second
	if d, ok, err := params.Duration(settings, "timeout"); err != nil {
		return nil, nil, fmt.Errorf("invalid webhook timeout: %w", err)
	} else if ok {
		timeout = d
	}

	retry := DefaultRetryConfig()
	if d, ok, err := params.Duration(settings, "retry_delay"); err != nil {
		return nil, nil, fmt.Errorf("invalid webhook retry delay: %w", err)
	} else if ok {
		retry.InitialDelay = d
	}
	retry.MaxRetries = params.Int(settings, "retries", retry.MaxRetries)
	if retry.MaxRetries < 0 {
		return nil, nil, fmt.Errorf("webhook retries must not be negative")
	}

	method := strings.ToUpper(params.StringOr(settings, "method", http.MethodPost))
	if !methods[method] {
		return nil, nil, fmt.Errorf("unsupported webhook method: %s", method)
	}

	authType := params.StringOr(settings, "auth_type", "none")
	switch authType {
	case "none", "bearer", "api-key":
	default:
		return nil, nil, fmt.Errorf("unsupported webhook auth type: %s", authType)
	}

	config := &Config{
		URL:       url,
		Method:    method,
		Timeout:   timeout,
		AuthType:  authType,
		AuthToken: params.StringOr(settings, "auth_token", ""),
	}
	if headers, ok := settings["headers"].(map[string]any); ok {
		config.Headers = make(map[string]string, len(headers))
		for k, v := range headers {
			config.Headers[k] = fmt.Sprint(v)
		}
	}

	return config, retry, nil
}
