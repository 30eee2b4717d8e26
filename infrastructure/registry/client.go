// Package registry is the adapter for the ClinicalTrials.gov v2 API. It
// translates search criteria into the registry's query grammar and flattens
// study payloads into trial records, keeping the raw payload for detail
// views.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"clinect-backend/application/ports"
	"clinect-backend/domain/trial"
	apperrors "clinect-backend/pkg/errors"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Client calls the trial registry over HTTP behind a circuit breaker, so a
// flapping registry fails fast instead of tying up request handlers.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *zap.Logger
}

// NewClient creates a registry client.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "trial-registry",
		MaxRequests: 5,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.8
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("registry circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		breaker:    breaker,
		logger:     logger,
	}
}

// Search queries the registry. A short or empty page is a valid result.
func (c *Client) Search(ctx context.Context, q ports.RegistrySearch) ([]*trial.Record, error) {
	params := url.Values{}
	params.Set("format", "json")
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	params.Set("pageSize", strconv.Itoa(pageSize))
	if q.PageToken != "" {
		params.Set("pageToken", q.PageToken)
	}

	if term := buildQueryTerm(q); term != "" {
		params.Set("query.term", term)
	}

	body, err := c.get(ctx, c.baseURL+"/studies?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var resp struct {
		Studies []json.RawMessage `json:"studies"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, apperrors.NewRegistryError("malformed registry response", err)
	}

	records := make([]*trial.Record, 0, len(resp.Studies))
	for _, raw := range resp.Studies {
		rec := ParseStudy(raw)
		if rec == nil {
			// Studies without an NCT id cannot be keyed; skip them.
			continue
		}
		records = append(records, rec)
	}

	c.logger.Debug("registry search",
		zap.String("term", buildQueryTerm(q)),
		zap.Int("studies", len(records)),
	)

	return records, nil
}

// GetStudy fetches a single study by NCT id.
func (c *Client) GetStudy(ctx context.Context, nctID string) (*trial.Record, error) {
	body, err := c.get(ctx, c.baseURL+"/studies/"+url.PathEscape(nctID)+"?format=json")
	if err != nil {
		return nil, err
	}

	rec := ParseStudy(body)
	if rec == nil {
		return nil, apperrors.NewNotFoundError("trial " + nctID)
	}
	return rec, nil
}

// get performs one GET through the circuit breaker.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	result, err := c.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, apperrors.NewNotFoundError("trial")
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("registry returned status %d", resp.StatusCode)
		}

		return io.ReadAll(resp.Body)
	})
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, err
		}
		return nil, apperrors.NewRegistryError("registry request failed", err)
	}
	return result.([]byte), nil
}

// buildQueryTerm assembles the registry's AREA[...] query grammar from the
// search parameters, AND-joined.
func buildQueryTerm(q ports.RegistrySearch) string {
	var parts []string
	if q.Condition != "" {
		parts = append(parts, "AREA[ConditionSearch]"+q.Condition)
	}
	if q.Location != "" {
		parts = append(parts, "AREA[LocationSearch]"+q.Location)
	}
	if q.Status != "" {
		parts = append(parts, "AREA[RecruitmentStatus]"+q.Status)
	}
	return strings.Join(parts, " AND ")
}
