// Package client calls the age verification endpoint and classifies the
// outcome into a tagged result instead of returning raw HTTP errors.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mynextid/zk-agegate/models"
)

// Kind tags a verification result
type Kind int

const (
	KindOK Kind = iota
	KindValidationFailed
	KindTransportFailed
	KindServerFault
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindValidationFailed:
		return "validation_failed"
	case KindTransportFailed:
		return "transport_failed"
	case KindServerFault:
		return "server_fault"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Result of a verification call. Eligible and Attestation are only
// meaningful when Kind is KindOK; Err is set for every other kind.
type Result struct {
	Kind        Kind
	Eligible    bool
	Attestation string
	Err         error
}

var errUnexpectedSignal = errors.New("unexpected isValid value")

// Verifier is what the verification flow needs from a client
type Verifier interface {
	Verify(ctx context.Context, birthYear int) Result
}

// Client talks to POST /api/verify
type Client struct {
	endpoint   string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for the server at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		endpoint:   strings.TrimRight(baseURL, "/") + "/api/verify",
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Verify submits the birth year. It never panics and never returns a raw
// error; every failure is classified.
func (c *Client) Verify(ctx context.Context, birthYear int) Result {
	body, err := json.Marshal(models.VerificationRequest{BirthYear: &birthYear})
	if err != nil {
		return Result{Kind: KindTransportFailed, Err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{Kind: KindTransportFailed, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{Kind: KindTransportFailed, Err: fmt.Errorf("post %s: %w", c.endpoint, err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Kind: KindTransportFailed, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode == http.StatusOK {
		return classifyOK(raw)
	}
	return classifyError(resp.StatusCode, raw)
}

func classifyOK(raw []byte) Result {
	var out models.VerificationResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return Result{Kind: KindTransportFailed, Err: fmt.Errorf("decode response: %w", err)}
	}
	switch out.IsValid {
	case 1:
		return Result{Kind: KindOK, Eligible: true, Attestation: out.Attestation}
	case 0:
		return Result{Kind: KindOK}
	}
	return Result{Kind: KindServerFault, Err: fmt.Errorf("%w: %d", errUnexpectedSignal, out.IsValid)}
}

func classifyError(status int, raw []byte) Result {
	var out models.ErrorResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return Result{Kind: KindServerFault, Err: fmt.Errorf("server returned status %d", status)}
	}

	err := fmt.Errorf("server returned status %d: %s (%s)", status, out.Error, out.Code)
	if status == http.StatusInternalServerError && out.Code == models.CodeInvalidRequest {
		return Result{Kind: KindValidationFailed, Err: err}
	}
	return Result{Kind: KindServerFault, Err: err}
}
