package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/tidwall/gjson"

	"github.com/campusweb/content-server/internal/config"
	"github.com/campusweb/content-server/internal/entity"
	"github.com/campusweb/content-server/internal/httpclient"
	"github.com/campusweb/content-server/internal/logger"
	"github.com/campusweb/content-server/internal/record"
)

const (
	// DefaultMaxRetries is the number of read attempts, including the first, when none is configured
	DefaultMaxRetries uint = 3

	// apiPrefix is the path under the upstream endpoint where collections live
	apiPrefix = "/api/"
)

// APISourceHandler reads collections from the upstream REST backend.
// A collection lives at {endpoint}/api/{path} and is a JSON array of records,
// optionally wrapped in an envelope addressed by the resource's resultPath.
type APISourceHandler struct {
	httpClient      httpclient.Client
	validator       SourceDataValidator
	endpoint        string
	maxRetries      uint
	initialInterval time.Duration
}

// NewAPISourceHandler creates a new API source handler
func NewAPISourceHandler(httpClient httpclient.Client, upstream *config.UpstreamConfig) *APISourceHandler {
	h := &APISourceHandler{
		httpClient:      httpClient,
		validator:       NewSourceDataValidator(),
		maxRetries:      DefaultMaxRetries,
		initialInterval: backoff.DefaultInitialInterval,
	}
	if upstream != nil {
		h.endpoint = strings.TrimRight(upstream.Endpoint, "/")
		if upstream.MaxRetries > 0 {
			h.maxRetries = upstream.MaxRetries
		}
	}
	return h
}

// Validate validates the API source configuration
func (h *APISourceHandler) Validate(res *config.ResourceConfig) error {
	if res == nil {
		return fmt.Errorf("resource configuration cannot be nil")
	}

	if res.GetType() != config.SourceTypeAPI {
		return fmt.Errorf("invalid source type: expected %s, got %s", config.SourceTypeAPI, res.GetType())
	}

	if h.endpoint == "" {
		return fmt.Errorf("upstream endpoint cannot be empty")
	}

	return nil
}

// FetchCollection retrieves the collection from the upstream, retrying transient failures
func (h *APISourceHandler) FetchCollection(
	ctx context.Context, res *config.ResourceConfig, schema *entity.Schema,
) (*FetchResult, error) {
	data, err := h.fetchCollectionData(ctx, res)
	if err != nil {
		return nil, err
	}

	records, err := h.validator.ValidateData(data, schema)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return NewFetchResult(records, hashData(data), schema), nil
}

// CurrentHash returns the hash of the collection data as currently served by the upstream
func (h *APISourceHandler) CurrentHash(ctx context.Context, res *config.ResourceConfig) (string, error) {
	data, err := h.fetchCollectionData(ctx, res)
	if err != nil {
		return "", err
	}
	return hashData(data), nil
}

func (h *APISourceHandler) fetchCollectionData(ctx context.Context, res *config.ResourceConfig) ([]byte, error) {
	if err := h.Validate(res); err != nil {
		return nil, fmt.Errorf("source validation failed: %w", err)
	}

	target := h.CollectionURL(res)
	attempt := 0

	operation := func() ([]byte, error) {
		attempt++
		data, err := h.httpClient.Get(ctx, target)
		if err != nil {
			if httpclient.IsClientError(err) {
				return nil, backoff.Permanent(err)
			}
			logger.Debugf("Fetch of %s failed (attempt %d/%d): %v", res.Name, attempt, h.maxRetries, err)
			return nil, err
		}
		return data, nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = h.initialInterval

	data, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(h.maxRetries),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", target, err)
	}

	return extractCollection(data, res.ResultPath)
}

// BaseURL returns the URL of the resource's collection without any query
func (h *APISourceHandler) BaseURL(res *config.ResourceConfig) string {
	return h.endpoint + apiPrefix + res.GetPath()
}

// CollectionURL returns the URL of the resource's collection including its static query
func (h *APISourceHandler) CollectionURL(res *config.ResourceConfig) string {
	u := h.BaseURL(res)
	if len(res.Query) > 0 {
		values := url.Values{}
		for k, v := range res.Query {
			values.Set(k, v)
		}
		u += "?" + values.Encode()
	}
	return u
}

// RecordURL returns the URL of one record in the resource's collection
func (h *APISourceHandler) RecordURL(res *config.ResourceConfig, id string) string {
	return h.BaseURL(res) + "/" + url.PathEscape(id)
}

// extractCollection returns the record array, unwrapping it from its envelope when resultPath is set
func extractCollection(data []byte, resultPath string) ([]byte, error) {
	if resultPath == "" {
		return data, nil
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("upstream response is not valid JSON")
	}
	result := gjson.GetBytes(data, resultPath)
	if !result.Exists() {
		return nil, fmt.Errorf("result path %q not found in upstream response", resultPath)
	}
	if !result.IsArray() {
		return nil, fmt.Errorf("result path %q does not point to an array", resultPath)
	}
	return []byte(result.Raw), nil
}

// APISourceWriter forwards mutations to the upstream REST backend
type APISourceWriter struct {
	handler *APISourceHandler
}

// NewAPISourceWriter creates a writer sharing the handler's client and endpoint
func NewAPISourceWriter(handler *APISourceHandler) *APISourceWriter {
	return &APISourceWriter{handler: handler}
}

// Create posts a new record to the collection
func (w *APISourceWriter) Create(ctx context.Context, res *config.ResourceConfig, rec record.Record) (record.Record, error) {
	if err := w.handler.Validate(res); err != nil {
		return nil, err
	}
	return w.send(ctx, http.MethodPost, w.handler.BaseURL(res), rec)
}

// Update replaces the record with the given id
func (w *APISourceWriter) Update(
	ctx context.Context, res *config.ResourceConfig, id string, rec record.Record,
) (record.Record, error) {
	if err := w.handler.Validate(res); err != nil {
		return nil, err
	}
	return w.send(ctx, http.MethodPut, w.handler.RecordURL(res, id), rec)
}

// Delete removes the record with the given id
func (w *APISourceWriter) Delete(ctx context.Context, res *config.ResourceConfig, id string) error {
	if err := w.handler.Validate(res); err != nil {
		return err
	}
	if _, err := w.handler.httpClient.Send(ctx, http.MethodDelete, w.handler.RecordURL(res, id), nil); err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", res.Name, id, err)
	}
	return nil
}

// send writes rec and decodes the upstream's echo of it.
// A response without a JSON object body returns rec unchanged.
func (w *APISourceWriter) send(ctx context.Context, method, target string, rec record.Record) (record.Record, error) {
	body, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}

	data, err := w.handler.httpClient.Send(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to %s %s: %w", strings.ToLower(method), target, err)
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return rec, nil
	}
	persisted, err := record.Decode(data)
	if err != nil {
		logger.Warnf("Upstream returned a non-object body for %s %s; using submitted record", method, target)
		return rec, nil
	}
	return persisted, nil
}
