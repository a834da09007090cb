package apiclient

import (
	"bytes"
	"context"
	stdjson "encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// Kind classifies a failed backend call
type Kind string

const (
	KindTransport    Kind = "transport"    // no response
	KindValidation   Kind = "validation"   // 422 with field errors
	KindUnauthorized Kind = "unauthorized" // 401, session is cleared
	KindForbidden    Kind = "forbidden"    // 403
	KindNotFound     Kind = "not_found"    // 404
	KindDomain       Kind = "domain"       // other 4xx, e.g. insufficient stock
	KindServer       Kind = "server"       // 5xx or an unreadable response
)

// FieldError is the messages of one invalid field
type FieldError struct {
	Field    string
	Messages []string
}

// APIError is returned for every failed backend call
type APIError struct {
	Kind    Kind
	Status  int
	Message string
	Fields  []FieldError // backend order
	Err     error
}

func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("api %s (%d): %s", e.Kind, e.Status, e.Display())
	}
	if e.Err != nil {
		return fmt.Sprintf("api %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("api %s: %s", e.Kind, e.Display())
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Display returns the one line shown to the shopper
func (e *APIError) Display() string {
	if e.Kind == KindValidation {
		for _, f := range e.Fields {
			if len(f.Messages) > 0 && f.Messages[0] != "" {
				return f.Messages[0]
			}
		}
	}
	if e.Message != "" {
		return e.Message
	}
	return defaultMessage(e.Kind)
}

// FieldMessage returns the first message for field, if any
func (e *APIError) FieldMessage(field string) string {
	for _, f := range e.Fields {
		if f.Field == field && len(f.Messages) > 0 {
			return f.Messages[0]
		}
	}
	return ""
}

func defaultMessage(kind Kind) string {
	switch kind {
	case KindTransport:
		return "Unable to reach the server. Please check your connection and try again."
	case KindValidation:
		return "The given data was invalid."
	case KindUnauthorized:
		return "Your session has expired. Please log in again."
	case KindForbidden:
		return "You are not allowed to do that."
	case KindNotFound:
		return "The requested resource was not found."
	case KindDomain:
		return "The request could not be completed."
	default:
		return "Something went wrong on the server. Please try again later."
	}
}

// Message reduces any error to one human-readable line
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Display()
	}
	msg := err.Error()
	if msg == "" {
		return defaultMessage(KindServer)
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

// KindOf returns the kind of an API error, or "" for other errors
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

func IsUnauthorized(err error) bool { return KindOf(err) == KindUnauthorized }
func IsForbidden(err error) bool    { return KindOf(err) == KindForbidden }
func IsNotFound(err error) bool     { return KindOf(err) == KindNotFound }
func IsValidation(err error) bool   { return KindOf(err) == KindValidation }
func IsTransport(err error) bool    { return KindOf(err) == KindTransport }

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusUnprocessableEntity:
		return KindValidation
	case status >= 500:
		return KindServer
	default:
		return KindDomain
	}
}

// errorBody is the backend error document: {"message": "...", "errors": {"field": ["..."]}}
type errorBody struct {
	Message string
	Fields  []FieldError
}

func (b *errorBody) UnmarshalJSON(data []byte) error {
	dec := stdjson.NewDecoder(bytes.NewReader(data))
	if tok, err := dec.Token(); err != nil || tok != stdjson.Delim('{') {
		return fmt.Errorf("error body is not an object")
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)

		switch key {
		case "message":
			var msg string
			if err := dec.Decode(&msg); err != nil {
				return err
			}
			b.Message = msg
		case "errors":
			fields, err := decodeFieldErrors(dec)
			if err != nil {
				return err
			}
			b.Fields = fields
		default:
			var skip stdjson.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return err
			}
		}
	}
	return nil
}

// decodeFieldErrors reads the errors object keeping key order
func decodeFieldErrors(dec *stdjson.Decoder) ([]FieldError, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if tok != stdjson.Delim('{') {
		// not an object, e.g. null
		return nil, nil
	}

	var fields []FieldError
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		field, _ := tok.(string)

		var raw stdjson.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		var msgs []string
		if err := stdjson.Unmarshal(raw, &msgs); err != nil {
			var single string
			if stdjson.Unmarshal(raw, &single) == nil {
				msgs = []string{single}
			}
		}
		fields = append(fields, FieldError{Field: field, Messages: msgs})
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return fields, nil
}

// newResponseError builds an APIError from a non-2xx response body
func newResponseError(status int, body []byte) *APIError {
	apiErr := &APIError{
		Kind:   kindForStatus(status),
		Status: status,
	}

	var eb errorBody
	if len(body) > 0 && eb.UnmarshalJSON(body) == nil {
		apiErr.Message = eb.Message
		apiErr.Fields = eb.Fields
	}
	return apiErr
}

// newTransportError wraps a failure that produced no response
func newTransportError(err error) *APIError {
	msg := defaultMessage(KindTransport)
	if isTimeoutError(err) {
		msg = "The server took too long to respond. Please try again."
	}
	return &APIError{Kind: KindTransport, Message: msg, Err: err}
}

func isTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
