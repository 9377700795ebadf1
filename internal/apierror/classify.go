package apierror

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
)

var networkKeywords = []string{
	"network",
	"timeout",
	"econnrefused",
	"enotfound",
	"connection",
	"no such host",
}

var validationKeywords = []string{
	"validation",
	"invalid",
	"required",
}

// httpStatuser and statusCoder are the duck-typed shapes accepted as
// response-like values.
type httpStatuser interface {
	HTTPStatus() int
}

type statusCoder interface {
	StatusCode() int
}

// Classify maps any failure value to exactly one classified error.
// Status codes are authoritative when present; message keywords are the
// fallback for errors without one.
func Classify(v any) *Error {
	if err, ok := v.(error); ok {
		var apiErr *Error
		if errors.As(err, &apiErr) {
			return apiErr
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Cancelled(err)
		}
		if isTransportError(err) {
			return New(KindNetwork, err.Error(), err)
		}
	}

	if status, ok := responseStatus(v); ok {
		if classified := classifyStatus(status, v); classified != nil {
			return classified
		}
		return New(KindUnknown, MessageUnexpected, v)
	}

	err, ok := v.(error)
	if !ok {
		return New(KindUnknown, MessageUnexpected, v)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, networkKeywords):
		return New(KindNetwork, err.Error(), err)
	case containsAny(msg, validationKeywords):
		return New(KindValidation, err.Error(), err)
	default:
		return New(KindUnknown, MessageUnexpected, err)
	}
}

// isTransportError reports failures raised below HTTP: DNS, dial, reset.
func isTransportError(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNABORTED)
}

// responseStatus extracts an HTTP status from response-like values.
func responseStatus(v any) (int, bool) {
	switch r := v.(type) {
	case *http.Response:
		if r == nil {
			return 0, false
		}
		return r.StatusCode, true
	case http.Response:
		return r.StatusCode, true
	case httpStatuser:
		return r.HTTPStatus(), true
	case statusCoder:
		return r.StatusCode(), true
	case map[string]any:
		return numericStatus(r["status"])
	}
	return 0, false
}

func numericStatus(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	case float32:
		return numericStatus(float64(n))
	}
	return 0, false
}

func classifyStatus(status int, original any) *Error {
	switch {
	case status >= 500:
		return &Error{
			Kind:       KindServer,
			Message:    fmt.Sprintf("server responded with status %d", status),
			StatusCode: status,
			Original:   original,
		}
	case status >= 400:
		return &Error{
			Kind:       KindValidation,
			Message:    fmt.Sprintf("request rejected with status %d", status),
			StatusCode: status,
			Original:   original,
		}
	}
	return nil
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
