package gateway

import (
	"context"
	"net/http"
	"time"

	"streetpaws/internal/platform/httpclient"
)

// Request es lo que el gateway reenvía al origen.
type Request struct {
	Method string
	URI    string // path + query
	Header http.Header
	Body   []byte
}

// Fetcher es "la red". Un error significa que no hubo respuesta; un 4xx/5xx no es error.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) (Entry, error)
}

// hop-by-hop: no se reenvían en ninguna dirección
var hopHeaders = []string{
	"Connection", "Keep-Alive", "Proxy-Authenticate", "Proxy-Authorization",
	"Te", "Trailer", "Transfer-Encoding", "Upgrade",
}

// Origin reenvía al CRUD service usando el httpclient de la plataforma.
type Origin struct {
	client *httpclient.Client
	now    func() time.Time
}

func NewOrigin(baseURL string, timeout time.Duration) (*Origin, error) {
	c, err := httpclient.NewWithBaseURL(baseURL, timeout)
	if err != nil {
		return nil, err
	}
	return NewOriginWithClient(c), nil
}

func NewOriginWithClient(c *httpclient.Client) *Origin {
	return &Origin{client: c.DisableRedirects(), now: time.Now}
}

// HTTPClient expone el cliente subyacente (para httpmock en tests).
func (o *Origin) HTTPClient() *http.Client { return o.client.HTTPClient() }

func (o *Origin) Fetch(ctx context.Context, req Request) (Entry, error) {
	h := stripHopHeaders(req.Header)
	resp, err := o.client.Do(ctx, req.Method, req.URI, h, req.Body)
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		Status:   resp.StatusCode,
		Header:   stripHopHeaders(resp.Header),
		Body:     resp.Body,
		StoredAt: o.now(),
	}, nil
}

func stripHopHeaders(h http.Header) http.Header {
	out := h.Clone()
	if out == nil {
		out = http.Header{}
	}
	for _, k := range hopHeaders {
		out.Del(k)
	}
	// el body ya viene completo; el largo lo recalcula quien escriba
	out.Del("Content-Length")
	return out
}
