// Package client implements the signing client for a Vittlify instance. Every
// operation is a Payload variant sent through Send, which signs the canonical
// message, transmits it and classifies the response.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"vittlify/internal/application/common/logging"
	"vittlify/internal/domain/entity"
	"vittlify/internal/domain/errors/domain"
	"vittlify/internal/port/outbound"

	"github.com/tidwall/gjson"
)

const (
	// contentTypeJSON is the Content-Type header value for every request.
	contentTypeJSON = "application/json"

	// headerCorrelationID carries the invocation's correlation ID.
	headerCorrelationID = "X-Correlation-ID"

	defaultUserAgent = "vt/dev"
)

var _ outbound.ListService = (*Client)(nil)

// Client sends signed requests to a Vittlify instance.
type Client struct {
	endpointURL string
	username    string
	proxy       string
	userAgent   string

	signer     Signer
	httpClient *http.Client
	logger     logging.ApplicationLogger
	metrics    *RequestMetrics
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client built from the configuration.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithSigner replaces the key-file signer built from the configuration.
func WithSigner(signer Signer) Option {
	return func(c *Client) {
		if signer != nil {
			c.signer = signer
		}
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger logging.ApplicationLogger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger.WithComponent("client")
		}
	}
}

// WithMetrics sets the request metrics recorder.
func WithMetrics(metrics *RequestMetrics) Option {
	return func(c *Client) {
		c.metrics = metrics
	}
}

// NewClient creates a signing client. Returns a configuration error if config is invalid.
func NewClient(config Config, opts ...Option) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	proxy, err := proxySelector(config.Proxy)
	if err != nil {
		return nil, err
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = proxy

	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	c := &Client{
		endpointURL: config.EndpointURL(),
		username:    config.Username,
		proxy:       config.Proxy,
		userAgent:   userAgent,
		signer:      NewRSASigner(config.PrivateKeyPath),
		httpClient:  &http.Client{Timeout: config.Timeout, Transport: transport},
		logger:      logging.NewNopLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Send signs p, transmits it and decodes a 2xx response body into result when
// result is non-nil. Failures are classified *domain.Error values.
func (c *Client) Send(ctx context.Context, p Payload, result interface{}) (err error) {
	start := time.Now()
	defer func() {
		elapsed := time.Since(start)
		c.metrics.Record(ctx, p, elapsed, err)
		c.logRequest(ctx, p, elapsed, err)
	}()

	message, err := CanonicalMessage(p, c.username)
	if err != nil {
		return err
	}

	signature, err := c.signer.Sign(message)
	if err != nil {
		return err
	}

	body, err := json.Marshal(SignedEnvelope{Message: string(message), Signature: signature})
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, p.Method(), c.endpointURL, bytes.NewReader(body))
	if err != nil {
		return domain.NewConfigurationError("unable to build request", err)
	}

	req.Header.Set("Content-Type", contentTypeJSON)
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set("User-Agent", c.userAgent)
	if correlationID := logging.CorrelationIDFromContext(ctx); correlationID != "" {
		req.Header.Set(headerCorrelationID, correlationID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.NewTransportError(c.endpointURL, c.proxy, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.NewTransportError(c.endpointURL, c.proxy, err)
	}

	if err := classifyResponse(resp.StatusCode, resp.Status, data); err != nil {
		return err
	}

	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return &domain.Error{
				Kind:       domain.KindHTTP,
				StatusCode: resp.StatusCode,
				Message:    "unreadable response body",
				Err:        err,
			}
		}
	}

	return nil
}

// classifyResponse maps 404 and 409 to domain errors carrying the backend's
// message and any other non-2xx status to an HTTP error.
func classifyResponse(statusCode int, status string, body []byte) error {
	switch {
	case statusCode == http.StatusNotFound || statusCode == http.StatusConflict:
		return domain.NewDomainError(statusCode, domainMessage(statusCode, body))
	case statusCode < 200 || statusCode >= 300:
		return domain.NewHTTPError(statusCode, status)
	}
	return nil
}

// domainMessage extracts the human readable message from a 404/409 body. The
// backend usually answers with a bare JSON string.
func domainMessage(statusCode int, body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return http.StatusText(statusCode)
	}
	if gjson.Valid(trimmed) {
		if parsed := gjson.Parse(trimmed); parsed.Type == gjson.String {
			return parsed.String()
		}
	}
	return trimmed
}

func (c *Client) logRequest(ctx context.Context, p Payload, elapsed time.Duration, err error) {
	fields := logging.Fields{
		"endpoint": p.Endpoint(),
		"method":   p.Method(),
		"url":      c.endpointURL,
		"outcome":  outcomeOf(err),
	}
	switch kind, _ := domain.KindOf(err); {
	case err == nil:
	case kind == domain.KindTransport || kind == domain.KindHTTP:
		c.logger.Warn(ctx, fmt.Sprintf("request failed: %v", err), fields)
	default:
		c.logger.Debug(ctx, fmt.Sprintf("request failed: %v", err), fields)
	}
	c.logger.LogPerformance(ctx, "send", elapsed, fields)
}

// AllLists returns every list.
func (c *Client) AllLists(ctx context.Context) ([]entity.Record, error) {
	var lists []entity.Record
	if err := c.Send(ctx, AllLists{}, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

// ListInfo returns a single list.
func (c *Client) ListInfo(ctx context.Context, guid string) (*entity.Record, error) {
	return c.sendRecord(ctx, ListInfo{GUID: guid})
}

// ListItems returns the items of a list, only the unfinished ones if unfinished is set.
func (c *Client) ListItems(ctx context.Context, guid string, unfinished bool) ([]entity.Record, error) {
	var p Payload = ListAllItems{GUID: guid}
	if unfinished {
		p = ListItems{GUID: guid}
	}

	var items []entity.Record
	if err := c.Send(ctx, p, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Completed returns the recently completed items.
func (c *Client) Completed(ctx context.Context) ([]entity.Record, error) {
	var items []entity.Record
	if err := c.Send(ctx, Completed{}, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Item returns a single item.
func (c *Client) Item(ctx context.Context, guid string) (*entity.Record, error) {
	return c.sendRecord(ctx, ItemInfo{GUID: guid})
}

// SetDone marks an item done or not done and returns the updated item.
func (c *Client) SetDone(ctx context.Context, guid string, done bool) (*entity.Record, error) {
	if done {
		return c.sendRecord(ctx, Complete{GUID: guid})
	}
	return c.sendRecord(ctx, Uncomplete{GUID: guid})
}

// Modify replaces an item's comments.
func (c *Client) Modify(ctx context.Context, guid, comments string) (*entity.Record, error) {
	return c.sendRecord(ctx, Modify{GUID: guid, Comments: comments})
}

// AddItem creates an item on the list identified by listGUID.
func (c *Client) AddItem(ctx context.Context, listGUID, name, comments string) (*entity.Record, error) {
	return c.sendRecord(ctx, AddItem{GUID: listGUID, Name: name, Comments: comments})
}

// Move reassigns an item to another list.
func (c *Client) Move(ctx context.Context, guid, toListGUID string) error {
	return c.Send(ctx, Move{GUID: guid, ToListGUID: toListGUID}, nil)
}

// Categorize assigns a category to an item.
func (c *Client) Categorize(ctx context.Context, guid, categoryName string) error {
	return c.Send(ctx, Categorize{GUID: guid, CategoryName: categoryName}, nil)
}

// Categories returns the categories offered by a list.
func (c *Client) Categories(ctx context.Context, listGUID string) ([]entity.Category, error) {
	var categories []entity.Category
	if err := c.Send(ctx, Categories{GUID: listGUID}, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) sendRecord(ctx context.Context, p Payload) (*entity.Record, error) {
	var record entity.Record
	if err := c.Send(ctx, p, &record); err != nil {
		return nil, err
	}
	return &record, nil
}
