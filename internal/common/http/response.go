package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime"
	"strings"

	"scan-dashboard/internal/common/errors"
	"scan-dashboard/internal/common/validation"
)

// Kind classifies a failed response. Successful responses carry KindNone.
type Kind string

const (
	KindNone       Kind = ""
	KindNetwork    Kind = "network"
	KindTimeout    Kind = "timeout"
	KindServer     Kind = "server"
	KindParse      Kind = "parse"
	KindValidation Kind = "validation"
)

// nonFieldErrors collects error messages the server did not attach to a field.
const nonFieldErrors = "non_field_errors"

// APIResponse is the uniform envelope returned for every backend call.
// A response with Success false always has a Message or a non-empty Errors.
type APIResponse struct {
	Success    bool                `json:"success"`
	Message    string              `json:"message,omitempty"`
	Errors     map[string][]string `json:"errors,omitempty"`
	Kind       Kind                `json:"kind,omitempty"`
	StatusCode int                 `json:"status_code,omitempty"`
	RequestID  string              `json:"request_id,omitempty"`

	// Payload holds the top-level fields of a JSON object body.
	Payload map[string]json.RawMessage `json:"-"`
	// Raw is the unparsed body.
	Raw []byte `json:"-"`
}

// Failure builds an unsuccessful envelope.
func Failure(kind Kind, message string, fieldErrors map[string][]string) *APIResponse {
	if message == "" && len(fieldErrors) == 0 {
		message = "Request failed"
	}
	return &APIResponse{Success: false, Kind: kind, Message: message, Errors: fieldErrors}
}

// ValidationFailure converts a failed schema check into an envelope.
func ValidationFailure(res *validation.ValidationResult) *APIResponse {
	return Failure(KindValidation, "Please correct the highlighted fields", res.FieldErrors())
}

// Has reports whether the payload carries a top-level field.
func (r *APIResponse) Has(name string) bool {
	_, ok := r.Payload[name]
	return ok
}

// String returns a top-level string field, or "" when absent or not a string.
func (r *APIResponse) String(name string) string {
	raw, ok := r.Payload[name]
	if !ok {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

// Decode unmarshals the whole JSON body into v.
func (r *APIResponse) Decode(v interface{}) error {
	if r.Payload == nil {
		return fmt.Errorf("response has no JSON payload")
	}
	if err := json.Unmarshal(r.Raw, v); err != nil {
		return errors.NewParseError(err)
	}
	return nil
}

// DecodeField unmarshals one top-level field into v. It reports false when
// the field is absent or null.
func (r *APIResponse) DecodeField(name string, v interface{}) (bool, error) {
	raw, ok := r.Payload[name]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return true, errors.NewParseError(fmt.Errorf("field %q: %w", name, err))
	}
	return true, nil
}

// Err describes a failed envelope as a StandardError. It returns nil on success.
func (r *APIResponse) Err() error {
	if r == nil || r.Success {
		return nil
	}
	var se *errors.StandardError
	switch r.Kind {
	case KindNetwork:
		se = errors.NewNetworkError(fmt.Errorf("%s", r.Message))
	case KindTimeout:
		se = errors.NewTimeoutError(0, nil)
		se.Message = r.Message
	case KindParse:
		se = errors.NewParseError(fmt.Errorf("%s", r.Message))
	case KindValidation:
		se = errors.NewValidationError(r.Message)
	default:
		se = errors.NewServerError(r.StatusCode, r.Message)
	}
	if len(r.Errors) > 0 {
		se.Metadata = map[string]interface{}{"errors": r.Errors}
	}
	return se
}

func isJSONContent(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = contentType
	}
	mediaType = strings.ToLower(mediaType)
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// parseResponse maps a completed HTTP exchange onto the envelope.
func parseResponse(status int, contentType string, body []byte) *APIResponse {
	r := &APIResponse{StatusCode: status, Raw: body}
	ok := status >= 200 && status < 300

	if isJSONContent(contentType) && len(bytes.TrimSpace(body)) > 0 {
		var obj map[string]json.RawMessage
		switch {
		case json.Unmarshal(body, &obj) == nil:
			r.Payload = obj
		case json.Valid(body):
			// arrays and scalars are exposed as "data"
			r.Payload = map[string]json.RawMessage{"data": body}
		default:
			r.Kind = KindParse
			r.Message = "The server returned a malformed response"
			return r
		}
	}

	r.Message = r.firstString("message", "detail", "error")
	r.Errors = parseFieldErrors(r.Payload["errors"])

	if !ok {
		r.Kind = KindServer
		if r.Message == "" {
			r.Message = fmt.Sprintf("Request failed with status %d", status)
		}
		return r
	}

	r.Success = true
	if raw, found := r.Payload["success"]; found {
		var b bool
		if json.Unmarshal(raw, &b) == nil {
			r.Success = b
		}
	}
	if !r.Success {
		r.Kind = KindServer
		if r.Message == "" && len(r.Errors) == 0 {
			r.Message = "The request was not successful"
		}
	}
	return r
}

func (r *APIResponse) firstString(names ...string) string {
	for _, n := range names {
		if s := r.String(n); s != "" {
			return s
		}
	}
	return ""
}

// parseFieldErrors accepts {"field": "msg"}, {"field": ["a", "b"]} or ["msg"].
func parseFieldErrors(raw json.RawMessage) map[string][]string {
	if len(raw) == 0 {
		return nil
	}

	var list []string
	if json.Unmarshal(raw, &list) == nil {
		if len(list) == 0 {
			return nil
		}
		return map[string][]string{nonFieldErrors: list}
	}

	var obj map[string]json.RawMessage
	if json.Unmarshal(raw, &obj) != nil || len(obj) == 0 {
		return nil
	}
	out := make(map[string][]string, len(obj))
	for field, v := range obj {
		var one string
		var many []string
		switch {
		case json.Unmarshal(v, &one) == nil:
			out[field] = []string{one}
		case json.Unmarshal(v, &many) == nil:
			out[field] = many
		default:
			out[field] = []string{string(v)}
		}
	}
	return out
}
