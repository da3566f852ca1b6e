package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/koinonia-app/core/config"
	"github.com/koinonia-app/core/internal/entity"
	"github.com/koinonia-app/core/pkg/api"
	"github.com/koinonia-app/core/pkg/errorx"
	"github.com/koinonia-app/core/pkg/xcontext"
)

// httpClient talks to the remote data service over its row-oriented REST
// surface and opens realtime subscriptions over websocket.
type httpClient struct {
	cfg config.RemoteConfigs
	gen api.Generator

	mutex       sync.RWMutex
	accessToken string
}

func NewClient(cfg config.RemoteConfigs) *httpClient {
	return &httpClient{
		cfg: cfg,
		gen: api.NewGenerator(&http.Client{Timeout: 30 * time.Second}, cfg.Endpoint),
	}
}

func (c *httpClient) Authorize(accessToken string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.accessToken = accessToken
}

func (c *httpClient) token() string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.accessToken
}

func (c *httpClient) request(table entity.Table) api.Client {
	req := c.gen.New("/rest/v1/%s", table).
		Header("apikey", c.cfg.APIKey).
		Header("Accept", "application/json")

	if token := c.token(); token != "" {
		req.Header("Authorization", "Bearer "+token)
	}

	return req
}

func (c *httpClient) Read(ctx context.Context, q Query) ([]Row, error) {
	params := api.Parameter{"select": "*"}
	applyFilters(params, q.Filters)

	if len(q.AnyOf) > 0 {
		var parts []string
		for _, f := range q.AnyOf {
			parts = append(parts, fmt.Sprintf("%s.eq.%s", f.Column, filterValue(f.Value)))
		}
		params["or"] = "(" + strings.Join(parts, ",") + ")"
	}

	if q.Order != nil {
		direction := "asc"
		if q.Order.Descending {
			direction = "desc"
		}
		params["order"] = q.Order.Column + "." + direction
	}

	if q.Limit > 0 {
		params["limit"] = strconv.Itoa(q.Limit)
	}

	resp, err := c.request(q.Table).Query(params).GET(ctx)
	if err != nil {
		return nil, errorx.New(errorx.Unavailable, "Cannot reach the server")
	}

	if !resp.OK() {
		return nil, c.asError(ctx, resp)
	}

	var rows []Row
	if err := resp.Parse(&rows); err != nil {
		return nil, errorx.New(errorx.BadResponse, "Unexpected response for %s", q.Table)
	}

	return rows, nil
}

func (c *httpClient) Insert(
	ctx context.Context, table entity.Table, values map[string]any,
) (Row, error) {
	resp, err := c.request(table).
		Header("Prefer", "return=representation").
		Body(api.JSONBody{V: values}).
		POST(ctx)
	if err != nil {
		return nil, errorx.New(errorx.Unavailable, "Cannot reach the server")
	}

	return c.singleRow(ctx, table, resp)
}

func (c *httpClient) Update(
	ctx context.Context, table entity.Table, values map[string]any, filters ...Filter,
) ([]Row, error) {
	params := api.Parameter{}
	applyFilters(params, filters)

	resp, err := c.request(table).
		Header("Prefer", "return=representation").
		Query(params).
		Body(api.JSONBody{V: values}).
		PATCH(ctx)
	if err != nil {
		return nil, errorx.New(errorx.Unavailable, "Cannot reach the server")
	}

	if !resp.OK() {
		return nil, c.asError(ctx, resp)
	}

	var rows []Row
	if err := resp.Parse(&rows); err != nil {
		return nil, errorx.New(errorx.BadResponse, "Unexpected response for %s", table)
	}

	return rows, nil
}

func (c *httpClient) Upsert(
	ctx context.Context, table entity.Table, values map[string]any, conflictColumns ...string,
) (Row, error) {
	params := api.Parameter{}
	if len(conflictColumns) > 0 {
		params["on_conflict"] = strings.Join(conflictColumns, ",")
	}

	resp, err := c.request(table).
		Header("Prefer", "resolution=merge-duplicates,return=representation").
		Query(params).
		Body(api.JSONBody{V: values}).
		POST(ctx)
	if err != nil {
		return nil, errorx.New(errorx.Unavailable, "Cannot reach the server")
	}

	return c.singleRow(ctx, table, resp)
}

func (c *httpClient) Delete(ctx context.Context, table entity.Table, filters ...Filter) error {
	params := api.Parameter{}
	applyFilters(params, filters)

	resp, err := c.request(table).Query(params).DELETE(ctx)
	if err != nil {
		return errorx.New(errorx.Unavailable, "Cannot reach the server")
	}

	if !resp.OK() {
		return c.asError(ctx, resp)
	}

	return nil
}

func (c *httpClient) Call(ctx context.Context, procedure string, args map[string]any) (any, error) {
	req := c.gen.New("/rest/v1/rpc/%s", procedure).
		Header("apikey", c.cfg.APIKey)

	if token := c.token(); token != "" {
		req.Header("Authorization", "Bearer "+token)
	}

	resp, err := req.Body(api.JSONBody{V: args}).POST(ctx)
	if err != nil {
		return nil, errorx.New(errorx.Unavailable, "Cannot reach the server")
	}

	if !resp.OK() {
		return nil, c.asError(ctx, resp)
	}

	var result any
	if err := resp.Parse(&result); err != nil {
		return nil, errorx.New(errorx.BadResponse, "Unexpected response for procedure %s", procedure)
	}

	return result, nil
}

func (c *httpClient) singleRow(ctx context.Context, table entity.Table, resp *api.Response) (Row, error) {
	if !resp.OK() {
		return nil, c.asError(ctx, resp)
	}

	var rows []Row
	if err := resp.Parse(&rows); err != nil {
		// Some deployments return a bare object instead of an array.
		var row Row
		if err := resp.Parse(&row); err != nil {
			return nil, errorx.New(errorx.BadResponse, "Unexpected response for %s", table)
		}

		return row, nil
	}

	if len(rows) == 0 {
		return nil, errorx.New(errorx.BadResponse, "Server returned no row for %s", table)
	}

	return rows[0], nil
}

func (c *httpClient) asError(ctx context.Context, resp *api.Response) error {
	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.RawBody, &body); err != nil {
		body.Message = strings.TrimSpace(string(resp.RawBody))
	}

	xcontext.Logger(ctx).Debugf("Remote error status=%d code=%s: %s", resp.Code, body.Code, body.Message)

	switch {
	case resp.Code == http.StatusUnauthorized:
		return errorx.New(errorx.Unauthenticated, "Your session has expired")
	case resp.Code == http.StatusForbidden:
		return errorx.New(errorx.PermissionDenied, "You are not allowed to do that")
	case resp.Code == http.StatusNotFound:
		return errorx.New(errorx.NotFound, "Not found")
	case resp.Code == http.StatusConflict || body.Code == "23505":
		return errorx.New(errorx.AlreadyExists, "Already exists")
	case resp.Code == http.StatusTooManyRequests:
		return errorx.New(errorx.TooManyRequests, "Too many requests")
	}

	return errorx.Unknown
}

func applyFilters(params api.Parameter, filters []Filter) {
	for _, f := range filters {
		params[f.Column] = "eq." + filterValue(f.Value)
	}
}

func filterValue(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format(time.RFC3339)
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}
