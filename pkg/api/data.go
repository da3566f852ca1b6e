package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

type Parameter map[string]string

func (p Parameter) Encode() string {
	var parameters []string
	for key, value := range p {
		parameters = append(parameters, key+"="+PercentEncode(value))
	}
	sort.Strings(parameters)
	return strings.Join(parameters, "&")
}

func PercentEncode(s string) string {
	s = url.QueryEscape(s)
	return strings.ReplaceAll(s, "+", "%20")
}

// JSONBody wraps any marshalable value as a request body.
type JSONBody struct {
	V any
}

func (b JSONBody) ToReader() (io.Reader, string, error) {
	data, err := json.Marshal(b.V)
	if err != nil {
		return nil, "", err
	}

	return bytes.NewBuffer(data), "application/json", nil
}

type Response struct {
	Code    int
	Header  http.Header
	RawBody []byte
}

// OK reports whether the response carries a 2xx status.
func (r *Response) OK() bool {
	return r.Code >= 200 && r.Code < 300
}

// Parse unmarshals the raw body into out. An empty body is not an error.
func (r *Response) Parse(out any) error {
	if len(r.RawBody) == 0 {
		return nil
	}

	return json.Unmarshal(r.RawBody, out)
}
