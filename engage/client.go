package engage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Engage API actions, appended to the base URL.
const (
	ActionAuthInfo    = "auth_info"
	ActionMap         = "map"
	ActionUnmap       = "unmap"
	ActionMappings    = "mappings"
	ActionAllMappings = "all_mappings"
	ActionGetContacts = "get_contacts"
)

const (
	statOK   = "ok"
	statFail = "fail"
)

// Client represents an Engage API client
type Client struct {
	apiKey     string
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new Engage client
func NewClient(apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: API key is required", ErrInvalidConfig)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if o.baseURL == "" {
		return nil, fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	}
	// Actions are appended verbatim
	if !strings.HasSuffix(o.baseURL, "/") {
		return nil, fmt.Errorf("%w: base URL %q must end with a slash", ErrInvalidConfig, o.baseURL)
	}

	return &Client{
		apiKey:     apiKey,
		baseURL:    o.baseURL,
		userAgent:  o.userAgent,
		httpClient: o.newHTTPClient(),
		logger:     logger,
	}, nil
}

// APIKey returns the configured API key
func (c *Client) APIKey() string {
	return c.apiKey
}

// BaseURL returns the configured base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetAuthInfo exchanges a sign-in token for the user's profile.
// extended and tokenURL are only sent when non-nil.
func (c *Client) GetAuthInfo(ctx context.Context, token string, extended *bool, tokenURL *string) (*Response, error) {
	p := newParams()
	if err := p.setRequired(paramToken, token); err != nil {
		return nil, err
	}
	p.setOptionalBool(paramExtended, extended)
	p.setOptionalString(paramTokenURL, tokenURL)

	return c.call(ctx, ActionAuthInfo, p)
}

// SetMap maps an Engage identifier to a local primary key
func (c *Client) SetMap(ctx context.Context, identifier, primaryKey string, overwrite *bool) (*Response, error) {
	p := newParams()
	if err := p.setRequired(paramIdentifier, identifier); err != nil {
		return nil, err
	}
	if err := p.setRequired(paramPrimaryKey, primaryKey); err != nil {
		return nil, err
	}
	p.setOptionalBool(paramOverwrite, overwrite)

	return c.call(ctx, ActionMap, p)
}

// SetUnmap removes the mapping between an identifier and a primary key
func (c *Client) SetUnmap(ctx context.Context, identifier, primaryKey string, unlink *bool) (*Response, error) {
	p := newParams()
	if err := p.setRequired(paramIdentifier, identifier); err != nil {
		return nil, err
	}
	if err := p.setRequired(paramPrimaryKey, primaryKey); err != nil {
		return nil, err
	}
	p.setOptionalBool(paramUnlink, unlink)

	return c.call(ctx, ActionUnmap, p)
}

// SetUnmapAll removes every identifier mapped to a primary key.
// It uses the same action as SetUnmap with all_identifiers=true.
func (c *Client) SetUnmapAll(ctx context.Context, primaryKey string, unlink *bool) (*Response, error) {
	p := newParams()
	p.set(paramAllIdentifiers, "true")
	if err := p.setRequired(paramPrimaryKey, primaryKey); err != nil {
		return nil, err
	}
	p.setOptionalBool(paramUnlink, unlink)

	return c.call(ctx, ActionUnmap, p)
}

// GetMappings retrieves the identifiers mapped to a primary key
func (c *Client) GetMappings(ctx context.Context, primaryKey string) (*Response, error) {
	p := newParams()
	if err := p.setRequired(paramPrimaryKey, primaryKey); err != nil {
		return nil, err
	}

	return c.call(ctx, ActionMappings, p)
}

// GetAllMappings retrieves every mapping of the application
func (c *Client) GetAllMappings(ctx context.Context) (*Response, error) {
	return c.call(ctx, ActionAllMappings, newParams())
}

// GetContacts retrieves the contact list of an identifier
func (c *Client) GetContacts(ctx context.Context, identifier string) (*Response, error) {
	p := newParams()
	if err := p.setRequired(paramIdentifier, identifier); err != nil {
		return nil, err
	}

	return c.call(ctx, ActionGetContacts, p)
}

// call performs one API call and classifies the outcome. Every call builds
// its own request, so a Client can be shared between goroutines.
func (c *Client) call(ctx context.Context, action string, p params) (*Response, error) {
	requestURL := c.baseURL + action

	p.fillDefault(paramAPIKey, c.apiKey)
	p.fillDefault(paramFormat, formatJSON)

	start := time.Now()
	body, err := c.doRequest(ctx, action, requestURL, p)
	if err != nil {
		c.logger.Debug().Err(err).Str("action", action).Str("url", requestURL).
			Dur("duration", time.Since(start)).Msg("Engage request failed")
		return nil, err
	}

	resp, err := c.parseResponse(action, p, body)

	event := c.logger.Debug().Str("action", action).Dur("duration", time.Since(start))
	if err != nil {
		event = event.Err(err)
	}
	event.Msg("Engage API call completed")

	return resp, err
}

// doRequest performs the HTTP POST and returns the raw body of a 2xx response
func (c *Client) doRequest(ctx context.Context, action, requestURL string, p params) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, strings.NewReader(p.encode()))
	if err != nil {
		return nil, &RequestError{Action: action, URL: requestURL, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RequestError{Action: action, URL: requestURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{
			Action:     action,
			URL:        requestURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("failed to read response body: %w", err),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RequestError{
			Action:     action,
			URL:        requestURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status),
		}
	}

	return body, nil
}

// parseResponse decodes the body and maps it onto success, APIError or ResponseError
func (c *Client) parseResponse(action string, p params, body []byte) (*Response, error) {
	respErr := func(payload map[string]any, err error) error {
		return &ResponseError{
			Action:  action,
			Params:  p.redacted(),
			Body:    body,
			Payload: payload,
			Err:     err,
		}
	}

	decoded, err := decodeJSON(body)
	if err != nil {
		return nil, respErr(nil, fmt.Errorf("%w: %w", ErrMalformedBody, err))
	}

	fields, ok := decoded.(map[string]any)
	if !ok {
		return nil, respErr(nil, fmt.Errorf("%w: top-level value is %T, not an object", ErrUnexpectedShape, decoded))
	}

	stat, _ := fields["stat"].(string)
	switch stat {
	case statOK:
		return &Response{raw: body, fields: fields}, nil
	case statFail:
		apiErr, err := parseFailure(fields)
		if err != nil {
			return nil, respErr(fields, err)
		}
		return nil, apiErr
	default:
		return nil, respErr(fields, fmt.Errorf("%w: missing or invalid stat %v", ErrUnexpectedShape, fields["stat"]))
	}
}

// parseFailure extracts err.msg and err.code from a stat=fail payload
func parseFailure(fields map[string]any) (*APIError, error) {
	errObj, ok := fields["err"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: missing err object", ErrMalformedFailure)
	}

	msg, ok := errObj["msg"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: missing or non-string err.msg", ErrMalformedFailure)
	}

	num, ok := errObj["code"].(json.Number)
	if !ok {
		return nil, fmt.Errorf("%w: missing or non-numeric err.code", ErrMalformedFailure)
	}
	code, err := num.Int64()
	if err != nil {
		return nil, fmt.Errorf("%w: err.code %s is not an integer", ErrMalformedFailure, num)
	}

	return &APIError{Code: ErrorCode(code), Message: msg}, nil
}

// decodeJSON decodes exactly one JSON value, keeping numbers as json.Number
func decodeJSON(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after JSON value")
	}
	return v, nil
}
