package coinex

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lukehollenback/coinex/exchange"
	"github.com/rs/zerolog"
)

//
// Client implements the exchange.Client interface for the CoinEx v1 API. It is safe for concurrent
// use: nothing about it changes after New returns, and every call derives its own tonce.
//
type Client struct {
	signer     *Signer
	baseURL    string
	userAgent  string
	httpClient *http.Client
	now        func() time.Time
	logger     zerolog.Logger

	proxy   *url.URL
	timeout time.Duration
	debug   bool
}

//
// New constructs a client that signs every request with the provided credentials. The credentials
// are not validated here; a missing key or secret simply produces requests the exchange rejects.
//
func New(apiKey string, apiSecret string, opts ...Option) (*Client, error) {
	c := &Client{
		signer:    NewSigner(apiKey, apiSecret),
		baseURL:   BaseURL,
		userAgent: UserAgent,
		now:       time.Now,
		logger:    zerolog.Nop(),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	hc, err := c.buildHTTPClient()
	if err != nil {
		return nil, err
	}

	c.httpClient = hc

	return c, nil
}

//
// buildHTTPClient assembles the http.Client the requests are sent through. A caller-supplied client
// is copied so that the proxy, timeout and debug settings never leak back into it.
//
func (o *Client) buildHTTPClient() (*http.Client, error) {
	var hc http.Client

	if o.httpClient != nil {
		hc = *o.httpClient
	}

	//
	// Route through the configured proxy. The default transport consults the environment for a
	// proxy, so it is cloned with the proxy setting replaced by our own.
	//
	switch t := hc.Transport.(type) {
	case nil:
		base := http.DefaultTransport.(*http.Transport).Clone()
		base.Proxy = o.proxyFunc()
		hc.Transport = base
	case *http.Transport:
		if o.proxy != nil {
			base := t.Clone()
			base.Proxy = o.proxyFunc()
			hc.Transport = base
		}
	default:
		if o.proxy != nil {
			return nil, fmt.Errorf("cannot apply proxy to a %T transport", t)
		}
	}

	if o.timeout > 0 {
		hc.Timeout = o.timeout
	}

	if o.debug {
		hc.Transport = &debugTransport{base: hc.Transport, logger: o.logger}
	}

	return &hc, nil
}

func (o *Client) proxyFunc() func(*http.Request) (*url.URL, error) {
	if o.proxy == nil {
		return nil
	}

	return http.ProxyURL(o.proxy)
}

//
// Get issues a signed GET request. The canonical query string is appended to the path, joined with
// "&" if the path already carries a query string and "?" otherwise.
//
func (o *Client) Get(ctx context.Context, path string, fields exchange.Fields) (json.RawMessage, error) {
	return o.request(ctx, http.MethodGet, path, fields)
}

//
// Post issues a signed POST request. The signed parameters are sent as a JSON object whose keys
// appear in the same sorted order they were signed in.
//
func (o *Client) Post(ctx context.Context, path string, fields exchange.Fields) (json.RawMessage, error) {
	return o.request(ctx, http.MethodPost, path, fields)
}

//
// GetInto issues a signed GET request and unmarshals the returned data into out.
//
func (o *Client) GetInto(ctx context.Context, path string, fields exchange.Fields, out interface{}) error {
	data, err := o.Get(ctx, path, fields)
	if err != nil {
		return err
	}

	return decodeData(data, out)
}

//
// PostInto issues a signed POST request and unmarshals the returned data into out.
//
func (o *Client) PostInto(ctx context.Context, path string, fields exchange.Fields, out interface{}) error {
	data, err := o.Post(ctx, path, fields)
	if err != nil {
		return err
	}

	return decodeData(data, out)
}

func decodeData(data json.RawMessage, out interface{}) error {
	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode coinex data: %w", err)
	}

	return nil
}

//
// request signs the provided fields, sends them to the specified path, and normalizes whatever comes
// back into either the envelope's data or an *Error.
//
func (o *Client) request(ctx context.Context, method string, path string, fields exchange.Fields) (json.RawMessage, error) {
	if path == "" {
		return nil, ErrPathRequired
	}

	signed, err := o.signer.SignFields(fields, o.now())
	if err != nil {
		return nil, err
	}

	//
	// Build the request.
	//
	completeURL := o.baseURL + path

	var body io.Reader

	if method == http.MethodGet {
		separator := "?"
		if strings.Contains(completeURL, "?") {
			separator = "&"
		}

		completeURL += separator + signed.Query
	} else {
		// NOTE ~> encoding/json writes map keys in sorted order, which is the order they were signed in.
		fieldsBody, err := signed.Params.Body()
		if err != nil {
			return nil, err
		}

		payload, err := json.Marshal(fieldsBody)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}

		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, completeURL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set(AuthorizationHeader, signed.Signature)
	req.Header.Set(UserAgentHeader, o.userAgent)

	if body != nil {
		req.Header.Set(ContentTypeHeader, "application/json")
	}

	//
	// Send it and normalize the outcome.
	//
	start := time.Now()

	data, status, err := o.do(req)

	o.observe(method, path, status, start, err)

	return data, err
}

func (o *Client) do(req *http.Request) (json.RawMessage, int, error) {
	resp, err := o.httpClient.Do(req)
	if err != nil {
		// NOTE ~> net/http wraps the failure in a *url.Error whose message carries the full signed
		//  URL. Surface what the transport actually returned instead.
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Err != nil {
			err = urlErr.Err
		}

		return nil, 0, &Error{Kind: KindTransport, Inner: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)

	wrapped := &Response{
		response: resp,
		body:     raw,
	}

	if err != nil {
		return nil, resp.StatusCode, &Error{
			Kind:     KindBodylessHTTP,
			HTTP:     exchange.NewHTTPError(resp.StatusCode, wrapped.Text()),
			Response: wrapped,
			Inner:    fmt.Errorf("read response: %w", err),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode, wrapResponseError(wrapped)
	}

	data, err := parseResponse(wrapped)

	return data, resp.StatusCode, err
}

//
// parseResponse extracts the data of a successful HTTP response, or the API error reported in its
// envelope.
//
func parseResponse(resp *Response) (json.RawMessage, error) {
	envelope, err := decodeEnvelope(resp.Body())
	if err != nil {
		return nil, &Error{
			Kind:     KindBodylessHTTP,
			HTTP:     exchange.NewHTTPError(resp.StatusCode(), resp.Text()),
			Response: resp,
			Inner:    err,
		}
	}

	if envelope.code() != 0 {
		return nil, &Error{
			Kind:     KindDomain,
			Envelope: envelope.envelope(),
			Response: resp,
		}
	}

	return envelope.Data, nil
}

//
// wrapResponseError turns a non-2xx HTTP response into an error. Bodies that are not an envelope
// produce a KindBodylessHTTP error; envelopes produce a KindDomain error, and must carry a code.
//
func wrapResponseError(resp *Response) error {
	envelope, err := decodeEnvelope(resp.Body())
	if err != nil {
		return &Error{
			Kind:     KindBodylessHTTP,
			HTTP:     exchange.NewHTTPError(resp.StatusCode(), resp.Text()),
			Response: resp,
		}
	}

	if envelope.code() == 0 {
		return fmt.Errorf("%w (HTTP %d: %s)", ErrMalformedEnvelope, resp.StatusCode(), resp.Text())
	}

	return &Error{
		Kind:     KindDomain,
		Envelope: envelope.envelope(),
		Response: resp,
	}
}

func (o *Client) observe(method string, path string, status int, start time.Time, err error) {
	elapsed := time.Since(start)

	outcome := outcomeOK
	if err != nil {
		outcome = outcomeMalformed

		if kind, ok := KindOf(err); ok {
			outcome = kind.String()
		}
	}

	requestsTotal.WithLabelValues(method, outcome).Inc()
	requestDuration.WithLabelValues(method).Observe(elapsed.Seconds())

	event := o.logger.Debug()

	if err != nil {
		event = o.logger.Warn().Err(err)

		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.Kind == KindDomain {
			event = event.Int64("code", apiErr.Code())
		}
	}

	event.
		Str("method", method).
		Str("path", path).
		Int("status", status).
		Str("outcome", outcome).
		Dur("duration", elapsed).
		Msg("coinex request")
}

var _ exchange.Client = (*Client)(nil)
