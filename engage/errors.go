package engage

import (
	"errors"
	"fmt"
	"net/url"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid engage configuration")
	// ErrEmptyParameter indicates a required parameter was empty; no request is sent
	ErrEmptyParameter = errors.New("required parameter is empty")

	// ErrUnexpectedStatus indicates the server answered with a non-2xx status
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrMalformedBody indicates the response body was not valid JSON
	ErrMalformedBody = errors.New("malformed response body")
	// ErrUnexpectedShape indicates valid JSON without a usable stat field
	ErrUnexpectedShape = errors.New("unexpected response shape")
	// ErrMalformedFailure indicates a stat=fail response without a valid err object
	ErrMalformedFailure = errors.New("malformed failure payload")
)

// RequestError is returned when the HTTP exchange itself failed: the
// connection could not be made, timed out, or produced a non-2xx status.
type RequestError struct {
	Action     string
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

// Error implements the error interface
func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("engage request %s failed: status %d: %v", e.Action, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("engage request %s failed: %v", e.Action, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// ResponseError is returned when the server answered but the body does not
// follow the documented format. The diagnostic fields are meant for logging.
type ResponseError struct {
	Action  string
	Params  url.Values // api key redacted
	Body    []byte
	Payload map[string]any // nil when the body could not be decoded
	Err     error
}

// Error implements the error interface
func (e *ResponseError) Error() string {
	return fmt.Sprintf("engage response for %s: %v", e.Action, e.Err)
}

func (e *ResponseError) Unwrap() error {
	return e.Err
}

// APIError represents a failure reported by the Engage API with stat=fail.
type APIError struct {
	Code    ErrorCode
	Message string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("engage API error %d (%s): %s", int(e.Code), e.Code, e.Message)
}

// IsNotFound checks if the API reported that the requested data does not exist
func (e *APIError) IsNotFound() bool {
	return e.Code == CodeDataNotFound
}

// IsAuthError checks if the API rejected the token or API key
func (e *APIError) IsAuthError() bool {
	return e.Code == CodeAuthenticationError
}

// IsTemporary checks if the service reported itself as temporarily unavailable
func (e *APIError) IsTemporary() bool {
	return e.Code == CodeServiceUnavailable
}

// IsRequestError reports whether err is or wraps a *RequestError.
func IsRequestError(err error) bool {
	var target *RequestError
	return errors.As(err, &target)
}

// IsResponseError reports whether err is or wraps a *ResponseError.
func IsResponseError(err error) bool {
	var target *ResponseError
	return errors.As(err, &target)
}

// IsAPIError reports whether err is or wraps an *APIError.
func IsAPIError(err error) bool {
	var target *APIError
	return errors.As(err, &target)
}

// ErrorCode is the numeric code carried in the err object of a failed call.
// Codes outside the documented table are kept as-is.
type ErrorCode int

const (
	CodeServiceUnavailable       ErrorCode = -1
	CodeMissingParameter         ErrorCode = 0
	CodeInvalidParameter         ErrorCode = 1
	CodeDataNotFound             ErrorCode = 2
	CodeAuthenticationError      ErrorCode = 3
	CodeFacebookError            ErrorCode = 4
	CodeMappingExists            ErrorCode = 5
	CodeProviderError            ErrorCode = 6
	CodeUpgradeNeeded            ErrorCode = 7
	CodeMissingCredentials       ErrorCode = 8
	CodeRevokedCredentials       ErrorCode = 9
	CodeMisconfiguredApplication ErrorCode = 10
	CodeUnsupportedFeature       ErrorCode = 11
	CodeGoogleError              ErrorCode = 12
	CodeTwitterError             ErrorCode = 13
	CodeLinkedInError            ErrorCode = 14
	CodeLiveIDError              ErrorCode = 15
	CodeMySpaceError             ErrorCode = 16
	CodeYahooError               ErrorCode = 17
	CodeDomainExists             ErrorCode = 18
	CodeAppIDNotFound            ErrorCode = 19
	CodeOrkutError               ErrorCode = 20
)

var codeDescriptions = map[ErrorCode]string{
	CodeServiceUnavailable:       "service temporarily unavailable",
	CodeMissingParameter:         "missing parameter",
	CodeInvalidParameter:         "invalid parameter",
	CodeDataNotFound:             "data not found",
	CodeAuthenticationError:      "authentication error",
	CodeFacebookError:            "Facebook error",
	CodeMappingExists:            "mapping exists",
	CodeProviderError:            "error interacting with a previously operational provider",
	CodeUpgradeNeeded:            "account upgrade needed to access this API",
	CodeMissingCredentials:       "missing third-party credentials for this identifier",
	CodeRevokedCredentials:       "third-party credentials have been revoked",
	CodeMisconfiguredApplication: "application is not properly configured",
	CodeUnsupportedFeature:       "provider or identifier does not support this feature",
	CodeGoogleError:              "Google error",
	CodeTwitterError:             "Twitter error",
	CodeLinkedInError:            "LinkedIn error",
	CodeLiveIDError:              "LiveId error",
	CodeMySpaceError:             "MySpace error",
	CodeYahooError:               "Yahoo error",
	CodeDomainExists:             "domain already exists",
	CodeAppIDNotFound:            "app ID not found",
	CodeOrkutError:               "Orkut error",
}

// String returns the documented description of the code
func (c ErrorCode) String() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return fmt.Sprintf("unknown error code %d", int(c))
}

// Known reports whether the code is part of the documented table
func (c ErrorCode) Known() bool {
	_, ok := codeDescriptions[c]
	return ok
}
