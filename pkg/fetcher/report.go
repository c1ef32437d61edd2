package fetcher

import (
	"errors"
	"fmt"

	errs "imagefetcher/pkg/errors"
)

// report turns a Result into exactly one status line
func (f *Fetcher) report(r Result, total int) {
	if r.Err == nil {
		f.reporter.Saved(r.Index, total, r.Path)
		return
	}

	msg := StatusMessage(r)
	if errs.IsSkip(r.Kind()) {
		f.reporter.Skipped(r.Index, total, msg)
	} else {
		f.reporter.Failed(r.Index, total, msg)
	}
}

// StatusMessage returns the human-readable reason for a result that was not saved
func StatusMessage(r Result) string {
	switch r.Kind() {
	case errs.ErrorTypeSchemeRejected:
		return "Skipping (invalid or unsafe URL). Must start with http:// or https://"
	case errs.ErrorTypeNotImage:
		return fmt.Sprintf("Skipping: content is not an image (Content-Type=%s)", r.ContentType)
	case errs.ErrorTypeTooLarge:
		return "Skipping: image is larger than 10MB."
	case errs.ErrorTypeDuplicate:
		return "Duplicate detected: already downloaded this image."
	case errs.ErrorTypeMalformedURL:
		return "Invalid URL format: " + detail(r.Err)
	case errs.ErrorTypeHTTPStatus:
		return "HTTP error: " + detail(r.Err)
	case errs.ErrorTypeConnection:
		return "Network issue: could not connect."
	case errs.ErrorTypeTimeout:
		return "Timeout: the server took too long to respond."
	default:
		return "Unexpected error: " + detail(r.Err)
	}
}

func detail(err error) string {
	var fe *errs.Error
	if errors.As(err, &fe) {
		return fe.Message
	}
	return err.Error()
}
