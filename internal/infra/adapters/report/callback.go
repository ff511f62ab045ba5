package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"scam-honeypot/internal/domain"
	"scam-honeypot/internal/domain/model"
	"scam-honeypot/internal/domain/ports/adapter"
)

const (
	defaultCallbackTimeout = 5 * time.Second
	maxErrorBodyBytes      = 1 << 20
)

var _ adapter.ReportSink = (*CallbackSink)(nil)

type Option func(*CallbackSink)

// CallbackSink POSTs the final report as JSON to the evaluation endpoint.
type CallbackSink struct {
	URL        string
	httpClient *http.Client
}

func NewCallbackSink(url string, timeout time.Duration, opts ...Option) *CallbackSink {
	if timeout <= 0 {
		timeout = defaultCallbackTimeout
	}
	s := &CallbackSink{
		URL:        strings.TrimSpace(url),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func WithHTTPClient(client *http.Client) Option {
	return func(s *CallbackSink) {
		if client != nil {
			s.httpClient = client
		}
	}
}

func (s *CallbackSink) Name() string { return "callback" }

func (s *CallbackSink) Deliver(ctx context.Context, r *model.FinalReport) error {
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: build request: %v", domain.ErrCallbackDelivery, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: post: %v", domain.ErrCallbackDelivery, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	limited := io.LimitReader(resp.Body, maxErrorBodyBytes+1)
	errorBody, err := io.ReadAll(limited)
	if err != nil {
		return fmt.Errorf("%w: status=%d read body: %v", domain.ErrCallbackDelivery, resp.StatusCode, err)
	}
	truncated := ""
	if len(errorBody) > maxErrorBodyBytes {
		errorBody = errorBody[:maxErrorBodyBytes]
		truncated = " (truncated)"
	}
	return fmt.Errorf("%w: status=%d body=%q%s", domain.ErrCallbackDelivery, resp.StatusCode, string(errorBody), truncated)
}
