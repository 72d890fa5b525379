// Package connectivity answers one question: is the backend reachable right now?
package connectivity

import (
	"context"
	"net/http"
	"strings"
	"time"
)

const (
	HealthPath     = "/api/test/"
	DefaultTimeout = 5 * time.Second
)

// Checker is satisfied by *Prober; consumers depend on this instead.
type Checker interface {
	Reachable(ctx context.Context, baseURL string) bool
}

type Prober struct {
	httpClient *http.Client
	timeout    time.Duration
}

// NewProber returns a Prober issuing one GET per call, bounded by timeout.
// A zero timeout falls back to DefaultTimeout; a nil client to http.DefaultClient.
func NewProber(httpClient *http.Client, timeout time.Duration) *Prober {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Prober{httpClient: httpClient, timeout: timeout}
}

// Reachable reports whether GET <baseURL>/api/test/ answers 2xx within the
// timeout. It never fails: every error means unreachable.
func (p *Prober) Reachable(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(baseURL, "/")+HealthPath, nil)
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
