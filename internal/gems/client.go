// internal/gems/client.go
package gems

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

	apperrors "gemfinder/internal/common/errors"
	commonhttp "gemfinder/internal/common/http"
	"gemfinder/internal/common/logger"
	"gemfinder/internal/common/metrics"
	"gemfinder/internal/common/validation"
	"gemfinder/internal/models"

	"github.com/google/uuid"
)

const (
	EndpointGems       = "gems"
	EndpointCategories = "categories"
	EndpointWishlist   = "wishlist"

	RequestIDHeader = "X-Request-ID"

	maxBodyBytes = 8 << 20
)

// Client reads gems and categories from the backend REST API. It does not
// cache and does not retry.
type Client struct {
	config *Config
	http   *commonhttp.Client
	logger logger.Logger
}

func NewClient(config *Config, log logger.Logger) (*Client, error) {
	hc, err := commonhttp.NewClient(config.BaseURL, config.Timeout)
	if err != nil {
		return nil, err
	}
	return &Client{
		config: config,
		http:   hc,
		logger: log.WithFields(map[string]interface{}{"component": "gems-client"}),
	}, nil
}

// HTTP exposes the underlying client, e.g. to seed session cookies.
func (c *Client) HTTP() *commonhttp.Client {
	return c.http
}

// FetchGemsPage issues GET /gems?page={page}. page is 1-based.
func (c *Client) FetchGemsPage(ctx context.Context, page int) (*models.GemsPage, error) {
	if page < 1 {
		return nil, apperrors.NewInvalidPageError(page, 0)
	}

	query := url.Values{"page": {strconv.Itoa(page)}}
	body, status, err := c.get(ctx, EndpointGems, "/gems", query, gemsPageSchema)
	if err != nil {
		return nil, err
	}

	result, err := models.DecodeGemsPage(body)
	if err != nil {
		metrics.BackendFetches.WithLabelValues(EndpointGems, "invalid_response").Inc()
		return nil, apperrors.NewInvalidResponseError(status, err.Error())
	}

	metrics.BackendFetches.WithLabelValues(EndpointGems, "ok").Inc()
	c.logger.Debug("gems page fetched", map[string]interface{}{
		"page":       page,
		"items":      len(result.Items),
		"totalPages": result.TotalPages,
		"totalItems": result.TotalItems,
	})
	return result, nil
}

// FetchCategories issues GET /categories and returns the full set.
func (c *Client) FetchCategories(ctx context.Context) ([]models.Category, error) {
	body, status, err := c.get(ctx, EndpointCategories, "/categories", nil, categoriesSchema)
	if err != nil {
		return nil, err
	}

	result, err := models.DecodeCategories(body)
	if err != nil {
		metrics.BackendFetches.WithLabelValues(EndpointCategories, "invalid_response").Inc()
		return nil, apperrors.NewInvalidResponseError(status, err.Error())
	}

	metrics.BackendFetches.WithLabelValues(EndpointCategories, "ok").Inc()
	return result, nil
}

// get performs the request and returns the validated 2xx body.
func (c *Client) get(ctx context.Context, endpoint, path string, query url.Values, schema *validation.Schema) ([]byte, int, error) {
	req, err := c.http.NewRequest(ctx, http.MethodGet, path, query)
	if err != nil {
		return nil, 0, apperrors.NewTransportError(err)
	}
	return c.do(req, endpoint, schema)
}

// do sends req and returns the 2xx body, validated against schema when one
// is given.
func (c *Client) do(req *http.Request, endpoint string, schema *validation.Schema) ([]byte, int, error) {
	start := time.Now()
	defer func() {
		metrics.BackendFetchDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	log := c.logger.WithFields(map[string]interface{}{
		"endpoint":  endpoint,
		"method":    req.Method,
		"requestId": requestID,
	})

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.BackendFetches.WithLabelValues(endpoint, "transport_error").Inc()
		log.Warn("request failed", map[string]interface{}{"error": err.Error()})
		return nil, 0, apperrors.NewTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.BackendFetches.WithLabelValues(endpoint, "transport_error").Inc()
		return nil, resp.StatusCode, apperrors.NewTransportError(fmt.Errorf("read body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.BackendFetches.WithLabelValues(endpoint, "http_error").Inc()
		msg := backendMessage(body)
		log.Warn("backend returned error status", map[string]interface{}{
			"status":  resp.StatusCode,
			"message": msg,
		})
		return nil, resp.StatusCode, apperrors.NewRequestFailedError(resp.StatusCode, msg)
	}

	if schema == nil {
		return body, resp.StatusCode, nil
	}
	if res := schema.ValidateJSON(body); !res.Valid {
		metrics.BackendFetches.WithLabelValues(endpoint, "invalid_response").Inc()
		details := strings.Join(res.GetErrorMessages(), "; ")
		log.Warn("response failed schema validation", map[string]interface{}{
			"schema":  schema.Name(),
			"details": details,
		})
		return nil, resp.StatusCode, apperrors.NewInvalidResponseError(resp.StatusCode, details)
	}

	return body, resp.StatusCode, nil
}

// backendMessage extracts {message} or {error} from an error body.
func backendMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	if eb.Message != "" {
		return eb.Message
	}
	return eb.Error
}
