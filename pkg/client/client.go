package client

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"syscall"
	"time"

	errs "imagefetcher/pkg/errors"
	"imagefetcher/pkg/logger"
)

const (
	// DefaultUserAgent identifies the fetcher to image hosts
	DefaultUserAgent = "UbuntuImageFetcher/1.0"
	// DefaultTimeout bounds a whole request, body included
	DefaultTimeout = 12 * time.Second
)

// Client performs image GET requests with a fixed set of headers
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	logger     logger.Logger
}

// Response is a successful (2xx) response whose body has not been read yet
type Response struct {
	URL        string
	StatusCode int
	Header     http.Header
	Body       io.ReadCloser
}

// NewClient creates a new image client
func NewClient(timeout time.Duration, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	// Compressed replies must keep their declared Content-Length
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DisableCompression = true

	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		headers: map[string]string{
			"User-Agent": DefaultUserAgent,
		},
		logger: log,
	}
}

// Get issues a GET for rawURL. Every failure is returned as an *errs.Error
// classified by cause; non-2xx statuses are failures too.
func (c *Client) Get(ctx context.Context, rawURL string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeMalformedURL, err, "invalid URL")
	}
	if req.URL.Host == "" {
		return nil, errs.New(errs.ErrorTypeMalformedURL, "no host in URL %q", rawURL)
	}

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    rawURL,
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		fetchErr := ClassifyError(err)
		c.logger.WarnWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      rawURL,
			"kind":     string(fetchErr.Type),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, fetchErr
	}

	logger.LogRequest(c.logger, req.Method, rawURL, resp.StatusCode, duration)

	if err := checkResponseStatus(resp, rawURL); err != nil {
		resp.Body.Close()
		return nil, err
	}

	return &Response{
		URL:        rawURL,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       resp.Body,
	}, nil
}

// ReadAll reads and closes the response body
func (r *Response) ReadAll() ([]byte, error) {
	defer r.Body.Close()

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, ClassifyError(err)
	}
	return data, nil
}

// Close releases the response body without reading it
func (r *Response) Close() error {
	return r.Body.Close()
}

// checkResponseStatus turns a non-2xx status into an http_status error
func checkResponseStatus(resp *http.Response, rawURL string) error {
	if errs.IsSuccessStatusCode(resp.StatusCode) {
		return nil
	}

	class := "Client Error"
	if resp.StatusCode >= 500 {
		class = "Server Error"
	} else if resp.StatusCode < 400 {
		class = "Unexpected Status"
	}

	return &errs.Error{
		Type:    errs.ErrorTypeHTTPStatus,
		Message: fmt.Sprintf("%d %s: %s for url: %s", resp.StatusCode, class, http.StatusText(resp.StatusCode), rawURL),
		Code:    resp.StatusCode,
	}
}

// ClassifyError maps a transport or body read error to a fetch error kind
func ClassifyError(err error) *errs.Error {
	var fetchErr *errs.Error
	if errors.As(err, &fetchErr) {
		return fetchErr
	}

	if errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrorTypeUnexpected, err, "request cancelled")
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return errs.Wrap(errs.ErrorTypeTimeout, err, "request timed out")
	}

	if isConnectionError(err) {
		return errs.Wrap(errs.ErrorTypeConnection, err, "could not connect")
	}

	return errs.Wrap(errs.ErrorTypeUnexpected, err, "request failed")
}

func isConnectionError(err error) bool {
	var (
		dnsErr      *net.DNSError
		opErr       *net.OpError
		recordErr   tls.RecordHeaderError
		verifyErr   *tls.CertificateVerificationError
		unknownCA   x509.UnknownAuthorityError
		hostnameErr x509.HostnameError
	)

	switch {
	case errors.As(err, &dnsErr), errors.As(err, &opErr):
		return true
	case errors.Is(err, syscall.ECONNREFUSED), errors.Is(err, syscall.ECONNRESET), errors.Is(err, syscall.EPIPE):
		return true
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return true
	case errors.As(err, &recordErr), errors.As(err, &verifyErr), errors.As(err, &unknownCA), errors.As(err, &hostnameErr):
		return true
	default:
		return false
	}
}
