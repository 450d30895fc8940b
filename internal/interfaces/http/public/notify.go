package public

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/hykleas/Review-Guard/internal/public/domain"
)

const (
	defaultNotifyAttempts   = 3
	defaultNotifyRetryDelay = 200 * time.Millisecond
	notifyTargetLowRating   = "low_rating"
)

// FailureStore parks alerts that could not be delivered.
type FailureStore interface {
	Save(ctx context.Context, target string, payload map[string]string, cause error, attempts int) error
}

// NotifierConfig wires a Notifier.
type NotifierConfig struct {
	Logger      *log.Logger
	HTTPClient  *http.Client
	Endpoint    string
	Destination string
	Failures    FailureStore
	// RPS caps outgoing gateway calls. Zero disables the cap.
	RPS        float64
	Attempts   int
	RetryDelay time.Duration
}

// Notifier pushes low-rating alerts to the business owner through the messenger gateway.
type Notifier struct {
	logger      *log.Logger
	httpClient  *http.Client
	endpoint    string
	destination string
	failures    FailureStore
	limiter     *rate.Limiter
	attempts    int
	retryDelay  time.Duration
}

// NewNotifier returns nil when no gateway endpoint is configured.
func NewNotifier(cfg NotifierConfig) *Notifier {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil
	}
	n := &Notifier{
		logger:      cfg.Logger,
		httpClient:  cfg.HTTPClient,
		endpoint:    strings.TrimRight(endpoint, "/"),
		destination: strings.TrimSpace(cfg.Destination),
		failures:    cfg.Failures,
		attempts:    cfg.Attempts,
		retryDelay:  cfg.RetryDelay,
	}
	if n.httpClient == nil {
		n.httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	if n.attempts < 1 {
		n.attempts = defaultNotifyAttempts
	}
	if n.retryDelay <= 0 {
		n.retryDelay = defaultNotifyRetryDelay
	}
	if cfg.RPS > 0 {
		n.limiter = rate.NewLimiter(rate.Limit(cfg.RPS), 1)
	}
	return n
}

// NotifyLowRating sends the alert and records it in the failure store when every attempt fails.
func (n *Notifier) NotifyLowRating(ctx context.Context, business domain.Business, review domain.Review) {
	if n == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	message := buildLowRatingMessage(business, review)
	err := n.sendWithRetry(ctx, business.ID, message)
	if err == nil {
		return
	}
	n.logf("low rating alert for profile %s failed: %v", business.ID, err)

	if n.failures == nil {
		return
	}
	payload := map[string]string{
		"profileId":    business.ID,
		"businessName": business.Name,
		"reviewId":     review.ID,
		"rating":       fmt.Sprintf("%d", review.Rating),
		"comment":      review.CommentText(),
		"customerName": review.CustomerName,
	}
	if saveErr := n.failures.Save(ctx, notifyTargetLowRating, payload, err, n.attempts); saveErr != nil {
		n.logf("failed notification insert failed: %v", saveErr)
	}
}

func buildLowRatingMessage(business domain.Business, review domain.Review) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("New %d-star private review for %s.\n", review.Rating, business.Name))
	builder.WriteString(fmt.Sprintf("From: %s\n", review.CustomerName))
	if review.CustomerEmail != nil {
		builder.WriteString(fmt.Sprintf("Email: %s\n", *review.CustomerEmail))
	}
	if comment := review.CommentText(); comment != "" {
		builder.WriteString(fmt.Sprintf("Comment: %s\n", comment))
	}
	return builder.String()
}

func (n *Notifier) sendWithRetry(ctx context.Context, userID, text string) error {
	var lastErr error
	for i := 0; i < n.attempts; i++ {
		if n.limiter != nil {
			if err := n.limiter.Wait(ctx); err != nil {
				return err
			}
		}
		err := n.send(ctx, userID, text)
		if err == nil {
			return nil
		}
		lastErr = err
		if i < n.attempts-1 {
			time.Sleep(n.retryDelay)
		}
	}
	return lastErr
}

func (n *Notifier) send(ctx context.Context, userID, text string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return errors.New("userID is required")
	}

	payload := map[string]any{
		"userId": userID,
		"text":   text,
	}
	if n.destination != "" {
		payload["destination"] = n.destination
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("build messenger payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint+"/messages", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build messenger request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("messenger request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		message, _ := io.ReadAll(io.LimitReader(res.Body, 1<<16))
		return fmt.Errorf("messenger status=%d body=%s", res.StatusCode, strings.TrimSpace(string(message)))
	}
	return nil
}

func (n *Notifier) logf(format string, args ...any) {
	if n.logger != nil {
		n.logger.Printf(format, args...)
	}
}
