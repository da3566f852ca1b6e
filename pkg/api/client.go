package api

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/koinonia-app/core/pkg/xcontext"
)

type Client interface {
	Header(name, value string) Client
	Query(query Parameter) Client
	Body(body Body) Client
	GET(ctx context.Context) (*Response, error)
	POST(ctx context.Context) (*Response, error)
	PATCH(ctx context.Context) (*Response, error)
	DELETE(ctx context.Context) (*Response, error)
}

type Generator interface {
	New(path string, args ...any) Client
}

type defaultGenerator struct {
	client *http.Client
	domain string
}

func NewGenerator(client *http.Client, domain string) *defaultGenerator {
	if client == nil {
		client = http.DefaultClient
	}

	return &defaultGenerator{client: client, domain: domain}
}

func (g *defaultGenerator) New(path string, args ...any) Client {
	return &defaultClient{
		client:  g.client,
		domain:  g.domain,
		path:    fmt.Sprintf(path, args...),
		headers: make(http.Header),
	}
}

type Body interface {
	ToReader() (io.Reader, string, error)
}

type defaultClient struct {
	client  *http.Client
	domain  string
	method  string
	path    string
	headers http.Header
	query   Parameter
	body    Body
}

func (c *defaultClient) Header(name, value string) Client {
	c.headers[name] = []string{value}
	return c
}

func (c *defaultClient) Query(query Parameter) Client {
	c.query = query
	return c
}

func (c *defaultClient) Body(body Body) Client {
	c.body = body
	return c
}

func (c *defaultClient) GET(ctx context.Context) (*Response, error) {
	c.method = http.MethodGet
	return c.call(ctx)
}

func (c *defaultClient) POST(ctx context.Context) (*Response, error) {
	c.method = http.MethodPost
	return c.call(ctx)
}

func (c *defaultClient) PATCH(ctx context.Context) (*Response, error) {
	c.method = http.MethodPatch
	return c.call(ctx)
}

func (c *defaultClient) DELETE(ctx context.Context) (*Response, error) {
	c.method = http.MethodDelete
	return c.call(ctx)
}

func (c *defaultClient) call(ctx context.Context) (*Response, error) {
	var reader io.Reader
	var contentType string
	if c.body != nil {
		var err error
		reader, contentType, err = c.body.ToReader()
		if err != nil {
			return nil, err
		}
	}

	url := c.domain + c.path
	if c.query != nil {
		url = url + "?" + c.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, c.method, url, reader)
	if err != nil {
		return nil, err
	}

	if contentType != "" {
		req.Header.Add("Content-Type", contentType)
	}

	for h, values := range c.headers {
		for _, v := range values {
			req.Header.Add(h, v)
		}
	}

	result, err := c.client.Do(req)
	if err != nil {
		xcontext.Logger(ctx).Warnf("An error occured when calling to %s: %v", url, err)
		return nil, err
	}
	defer result.Body.Close()

	body, err := io.ReadAll(result.Body)
	if err != nil {
		xcontext.Logger(ctx).Warnf("An error occured when reading body of %s: %v", url, err)
		return nil, err
	}

	return &Response{
		Code:    result.StatusCode,
		Header:  result.Header,
		RawBody: body,
	}, nil
}
