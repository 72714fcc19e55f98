package engage

import (
	"fmt"
	"net/url"
)

// Parameter names used on the wire.
const (
	paramAPIKey         = "apiKey"
	paramFormat         = "format"
	paramToken          = "token"
	paramExtended       = "extended"
	paramTokenURL       = "tokenUrl"
	paramIdentifier     = "identifier"
	paramPrimaryKey     = "primaryKey"
	paramOverwrite      = "overwrite"
	paramUnlink         = "unlink"
	paramAllIdentifiers = "all_identifiers"

	formatJSON    = "json"
	redactedValue = "REDACTED"
)

// Bool returns a pointer to v, for optional boolean parameters.
func Bool(v bool) *bool {
	return &v
}

// String returns a pointer to v, for optional string parameters.
func String(v string) *string {
	return &v
}

// params is the per-call parameter set. Optional values that were not
// supplied are never added, so they are absent from the request body.
type params url.Values

func newParams() params {
	return params{}
}

func (p params) set(key, value string) {
	url.Values(p).Set(key, value)
}

// setRequired sets a required string parameter, rejecting empty values.
func (p params) setRequired(key, value string) error {
	if value == "" {
		return fmt.Errorf("%s: %w", key, ErrEmptyParameter)
	}
	p.set(key, value)
	return nil
}

func (p params) setOptionalString(key string, value *string) {
	if value != nil {
		p.set(key, *value)
	}
}

// setOptionalBool serializes a boolean as the literal "true"/"false".
func (p params) setOptionalBool(key string, value *bool) {
	if value != nil {
		p.set(key, formatBool(*value))
	}
}

// fillDefault sets key only when the caller did not already provide it.
func (p params) fillDefault(key, value string) {
	if _, ok := p[key]; !ok {
		p.set(key, value)
	}
}

func (p params) encode() string {
	return url.Values(p).Encode()
}

// redacted returns a copy safe to attach to errors and logs.
func (p params) redacted() url.Values {
	out := make(url.Values, len(p))
	for k, v := range p {
		if k == paramAPIKey {
			out[k] = []string{redactedValue}
			continue
		}
		out[k] = append([]string(nil), v...)
	}
	return out
}

func formatBool(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
