package simd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v5"

	"github.com/GoSim-25-26J-441/archsim-core/internal/metrics"
	"github.com/GoSim-25-26J-441/archsim-core/pkg/logger"
	"github.com/GoSim-25-26J-441/archsim-core/pkg/models"
)

var (
	ErrInvalidURL       = errors.New("invalid callback url")
	ErrMetadataEndpoint = errors.New("callback url targets a cloud metadata endpoint")
	ErrInternalHost     = errors.New("callback url targets an internal address")
)

// CallbackSecretHeader carries the per-run secret on every callback.
const CallbackSecretHeader = "X-Archsim-Callback-Secret"

// NotificationPayload is the JSON body POSTed to a callback URL.
type NotificationPayload struct {
	RunID           string                     `json:"run_id"`
	Status          models.RunStatus           `json:"status"`
	CreatedAtUnixMs int64                      `json:"created_at_unix_ms"`
	StartedAtUnixMs int64                      `json:"started_at_unix_ms,omitempty"`
	EndedAtUnixMs   int64                      `json:"ended_at_unix_ms,omitempty"`
	Error           string                     `json:"error,omitempty"`
	CacheHit        bool                       `json:"cache_hit,omitempty"`
	Metrics         *models.SimulationMetrics  `json:"metrics,omitempty"`
	InjectedMetrics *models.SimulationMetrics  `json:"injected_metrics,omitempty"`
	BlastRadius     *models.BlastRadiusSummary `json:"blast_radius,omitempty"`
	Timestamp       int64                      `json:"timestamp"` // When notification was sent
}

// Notifier delivers run completion callbacks.
type Notifier struct {
	httpClient *http.Client
	maxRetries int
	baseDelay  time.Duration
	metrics    *metrics.Collector

	wg sync.WaitGroup
}

// NotifierOption customizes a Notifier.
type NotifierOption func(*Notifier)

// WithRetries sets how many times a failed delivery is retried and the first
// backoff delay; later delays double.
func WithRetries(maxRetries int, baseDelay time.Duration) NotifierOption {
	return func(n *Notifier) {
		n.maxRetries = maxRetries
		n.baseDelay = baseDelay
	}
}

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) NotifierOption {
	return func(n *Notifier) { n.httpClient = c }
}

// WithNotifierMetrics records delivery outcomes on m.
func WithNotifierMetrics(m *metrics.Collector) NotifierOption {
	return func(n *Notifier) { n.metrics = m }
}

// NewNotifier creates a new notification service
func NewNotifier(opts ...NotifierOption) *Notifier {
	n := &Notifier{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		maxRetries: 3,
		baseDelay:  1 * time.Second,
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.maxRetries < 0 {
		n.maxRetries = 0
	}
	if n.metrics == nil {
		n.metrics = metrics.NewCollector(nil)
	}
	return n
}

// Notify sends the run's terminal state to its callback URL in the
// background. Runs without a callback are ignored.
func (n *Notifier) Notify(rec *RunRecord) {
	if rec == nil || rec.CallbackURL == "" {
		return
	}

	finalURL := strings.ReplaceAll(rec.CallbackURL, "{run_id}", rec.Run.ID)
	payload := buildPayload(rec)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		err := n.Send(context.Background(), finalURL, rec.CallbackSecret, payload)
		n.metrics.ObserveNotification(err == nil)
		if err != nil {
			logger.Error("failed to send notification after retries",
				"callback_url", finalURL,
				"run_id", payload.RunID,
				"status", payload.Status,
				"max_retries", n.maxRetries,
				"error", err)
		}
	}()
}

// Wait blocks until all background deliveries have finished.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func buildPayload(rec *RunRecord) NotificationPayload {
	payload := NotificationPayload{
		RunID:           rec.Run.ID,
		Status:          rec.Run.Status,
		CreatedAtUnixMs: rec.Run.CreatedAtUnixMs,
		StartedAtUnixMs: rec.Run.StartedAtUnixMs,
		EndedAtUnixMs:   rec.Run.EndedAtUnixMs,
		Error:           rec.Run.Error,
		CacheHit:        rec.Run.CacheHit,
		Timestamp:       time.Now().UTC().UnixMilli(),
	}
	if o := rec.Outcome; o != nil {
		if o.Baseline != nil {
			payload.Metrics = &o.Baseline.Metrics
		}
		if o.Injected != nil {
			payload.InjectedMetrics = &o.Injected.Metrics
		}
		payload.BlastRadius = o.BlastRadius
	}
	return payload
}

// Send POSTs the payload, retrying with exponential backoff until a 2xx
// response, the retry budget runs out or ctx is done.
func (n *Notifier) Send(ctx context.Context, callbackURL, callbackSecret string, payload NotificationPayload) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal notification payload: %w", err)
	}

	r := retry.New(
		retry.Context(ctx),
		retry.Attempts(uint(n.maxRetries+1)),
		retry.DelayType(func(attempt uint, err error, config retry.DelayContext) time.Duration {
			delay := n.baseDelay << attempt
			logger.Debug("retrying notification",
				"callback_url", callbackURL,
				"run_id", payload.RunID,
				"attempt", attempt+1,
				"delay", delay,
				"error", err)
			return delay
		}),
	)

	return r.Do(func() error {
		return n.post(ctx, callbackURL, callbackSecret, payload.RunID, payloadJSON)
	})
}

func (n *Notifier) post(ctx context.Context, callbackURL, callbackSecret, runID string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, callbackURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "archsim-core/1.0")
	if callbackSecret != "" {
		req.Header.Set(CallbackSecretHeader, callbackSecret)
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		logger.Warn("notification attempt failed", "callback_url", callbackURL, "run_id", runID, "error", err)
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		logger.Info("notification sent successfully", "run_id", runID, "status_code", resp.StatusCode)
		return nil
	}

	bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	responseBody := string(bodyBytes)
	if len(responseBody) > 200 {
		responseBody = responseBody[:200] + "..."
	}
	logger.Warn("notification returned non-2xx status",
		"callback_url", callbackURL,
		"run_id", runID,
		"status_code", resp.StatusCode,
		"response_body", responseBody)
	return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
}

var metadataHosts = map[string]bool{
	"169.254.169.254":          true,
	"metadata.google.internal": true,
	"metadata":                 true,
	"fd00:ec2::254":            true,
}

// validateCallbackURL rejects callback targets the daemon must never call:
// non-HTTP schemes, cloud metadata services and literal internal addresses.
// The hostname "localhost" stays allowed for local development.
func validateCallbackURL(raw string) error {
	u, err := url.Parse(strings.ReplaceAll(raw, "{run_id}", "run"))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme must be http or https", ErrInvalidURL)
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return fmt.Errorf("%w: missing hostname", ErrInvalidURL)
	}
	if metadataHosts[host] {
		return fmt.Errorf("%w: %s", ErrMetadataEndpoint, host)
	}
	if ip := net.ParseIP(host); ip != nil {
		if ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
			return fmt.Errorf("%w: %s", ErrMetadataEndpoint, host)
		}
		if ip.IsUnspecified() || ip.IsLoopback() {
			return fmt.Errorf("%w: %s", ErrInternalHost, host)
		}
	}
	return nil
}
