package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultTimeout = 10 * time.Second
)

// Client envuelve *resty.Client con helpers comunes para adapters.
type Client struct {
	R       *resty.Client
	BaseURL string // opcional; si se define, Do/DoJSON pueden recibir paths relativos
}

// New crea un Client con timeout razonable. Sin cookie jar: el cliente se
// comparte entre requests de distintos usuarios.
func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	rc := resty.New().
		SetTimeout(timeout).
		SetCookieJar(nil)
	return &Client{R: rc}
}

// NewWithBaseURL crea un Client con BaseURL + timeout.
func NewWithBaseURL(baseURL string, timeout time.Duration) (*Client, error) {
	c := New(timeout)
	if strings.TrimSpace(baseURL) == "" {
		return c, nil
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	c.BaseURL = strings.TrimRight(baseURL, "/")
	return c, nil
}

// NewWithTransport permite inyectar un Transport (p.ej. para tests).
func NewWithTransport(timeout time.Duration, tr http.RoundTripper) *Client {
	c := New(timeout)
	if tr != nil {
		c.R.SetTransport(tr)
	}
	return c
}

// HTTPClient expone el *http.Client subyacente (httpmock se activa sobre él).
func (c *Client) HTTPClient() *http.Client {
	return c.R.GetClient()
}

// DisableRedirects hace que las respuestas 3xx se devuelvan tal cual.
func (c *Client) DisableRedirects() *Client {
	c.R.SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}))
	return c
}

// HTTPError representa una respuesta no-2xx.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("http error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("http error: status=%d body=%s", e.StatusCode, e.Body)
}

// Response es una respuesta completa ya leída.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Do ejecuta el request tal cual y devuelve la respuesta sin interpretar el status.
// Solo devuelve error si no hubo respuesta (red, timeout, contexto).
func (c *Client) Do(ctx context.Context, method, pathOrURL string, header http.Header, body []byte) (*Response, error) {
	if c == nil || c.R == nil {
		return nil, errors.New("httpclient: nil client")
	}

	fullURL, err := c.resolveURL(pathOrURL)
	if err != nil {
		return nil, err
	}

	req := c.R.R().SetContext(ctx)
	for k, vs := range header {
		if strings.TrimSpace(k) == "" {
			continue
		}
		req.SetHeaderMultiValues(map[string][]string{k: vs})
	}
	if len(body) > 0 {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, fullURL)
	if err != nil {
		return nil, fmt.Errorf("httpclient: do request: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header().Clone(),
		Body:       resp.Body(),
	}, nil
}

// DoJSON hace un request JSON.
// - in: body a enviar (opcional). Si nil => no body.
// - out: donde decodificar JSON (opcional). Si nil => ignora body.
// Retorna error si status no es 2xx.
func (c *Client) DoJSON(
	ctx context.Context,
	method string,
	pathOrURL string,
	headers map[string]string,
	in any,
	out any,
) error {
	h := http.Header{}
	h.Set("Accept", "application/json")

	var body []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("httpclient: marshal json: %w", err)
		}
		body = b
		h.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		if strings.TrimSpace(k) == "" {
			continue
		}
		h.Set(k, v)
	}

	resp, err := c.Do(ctx, method, pathOrURL, h, body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw := resp.Body
		if len(raw) > 1<<20 {
			raw = raw[:1<<20]
		}
		return &HTTPError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
		}
	}

	if out == nil || len(resp.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("httpclient: unmarshal json: %w", err)
	}
	return nil
}

func (c *Client) resolveURL(pathOrURL string) (string, error) {
	pathOrURL = strings.TrimSpace(pathOrURL)
	if pathOrURL == "" {
		return "", errors.New("httpclient: empty url")
	}

	// Si ya es URL absoluta, úsala tal cual.
	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		return pathOrURL, nil
	}

	// Si no es absoluta, requiere BaseURL.
	if strings.TrimSpace(c.BaseURL) == "" {
		return "", errors.New("httpclient: relative path requires BaseURL")
	}

	if !strings.HasPrefix(pathOrURL, "/") {
		pathOrURL = "/" + pathOrURL
	}
	return c.BaseURL + pathOrURL, nil
}
