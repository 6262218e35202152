package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	apierrors "github.com/diogo/chaindocs/internal/errors"
	"github.com/diogo/chaindocs/internal/models"
)

// maxErrorBody limits how much of a failed response is kept for diagnostics
const maxErrorBody = 4096

// Ask sends query to POST /ask and returns the server's answer
func (c *Client) Ask(ctx context.Context, query string) (*models.AskResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apierrors.ErrEmptyQuery
	}

	payload, err := json.Marshal(models.AskRequest{Query: query})
	if err != nil {
		return nil, fmt.Errorf("failed to build payload: %w", err)
	}

	body, err := c.do(ctx, "ask", http.MethodPost, models.EndpointAsk, payload)
	if err != nil {
		return nil, err
	}

	return parseAskResponse(body)
}

// Health calls GET /health
func (c *Client) Health(ctx context.Context) (*models.HealthStatus, error) {
	body, err := c.do(ctx, "health", http.MethodGet, models.EndpointHealth, nil)
	if err != nil {
		return nil, err
	}

	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError("health response is not valid JSON", "")
	}
	status := gjson.GetBytes(body, PathStatus)
	if !status.Exists() {
		return nil, apierrors.NewParseError("missing status", PathStatus)
	}
	return &models.HealthStatus{Status: status.String()}, nil
}

// do performs one request and returns the body of a 2xx response
func (c *Client) do(ctx context.Context, op, method, path string, payload []byte) ([]byte, error) {
	endpoint := c.endpoint(path)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.Debug("request started", zap.String("op", op), zap.String("endpoint", endpoint))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed", zap.String("op", op), zap.Error(err))
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apierrors.NewTimeoutError(op, endpoint, err)
		}
		return nil, apierrors.NewNetworkError(op, endpoint, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		statusText := apierrors.StatusTextFromStatus(resp.Status, resp.StatusCode)
		c.logger.Warn("request rejected",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
			zap.String("detail", gjson.GetBytes(errorBody, PathDetail).String()),
			zap.Duration("took", time.Since(start)),
		)
		return nil, apierrors.NewAPIErrorWithBody(resp.StatusCode, statusText, endpoint, string(errorBody))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, models.MaxResponseBytes))
	if err != nil {
		c.logger.Warn("reading response failed", zap.String("op", op), zap.Error(err))
		return nil, apierrors.NewNetworkError("read "+op+" response", endpoint, err)
	}

	c.logger.Debug("request completed",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("took", time.Since(start)),
	)

	return body, nil
}

// parseAskResponse extracts answer and sources from an /ask body
func parseAskResponse(body []byte) (*models.AskResponse, error) {
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError("response is not valid JSON", "")
	}

	answer := gjson.GetBytes(body, PathAnswer)
	if !answer.Exists() {
		return nil, apierrors.NewParseError("missing answer", PathAnswer)
	}
	if answer.Type != gjson.String {
		return nil, apierrors.NewParseError("answer is not a string", PathAnswer)
	}

	out := &models.AskResponse{Answer: answer.String()}
	for _, src := range gjson.GetBytes(body, PathSources).Array() {
		if src.Type != gjson.String {
			continue
		}
		if s := strings.TrimSpace(src.String()); s != "" {
			out.Sources = append(out.Sources, s)
		}
	}

	return out, nil
}
