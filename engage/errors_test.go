package engage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIError(t *testing.T) {
	t.Run("Error message", func(t *testing.T) {
		err := &APIError{Code: CodeMissingParameter, Message: "Missing parameter"}
		assert.Equal(t, "engage API error 0 (missing parameter): Missing parameter", err.Error())
	})

	t.Run("classification", func(t *testing.T) {
		tests := []struct {
			code      ErrorCode
			notFound  bool
			auth      bool
			temporary bool
		}{
			{CodeServiceUnavailable, false, false, true},
			{CodeDataNotFound, true, false, false},
			{CodeAuthenticationError, false, true, false},
			{CodeMappingExists, false, false, false},
			{ErrorCode(99), false, false, false},
		}

		for _, tt := range tests {
			err := &APIError{Code: tt.code}
			assert.Equal(t, tt.notFound, err.IsNotFound(), "code %d", tt.code)
			assert.Equal(t, tt.auth, err.IsAuthError(), "code %d", tt.code)
			assert.Equal(t, tt.temporary, err.IsTemporary(), "code %d", tt.code)
		}
	})

	t.Run("wrapped", func(t *testing.T) {
		err := fmt.Errorf("sign-in: %w", &APIError{Code: CodeAuthenticationError, Message: "bad token"})
		var apiErr *APIError
		assert.True(t, errors.As(err, &apiErr))
		assert.True(t, apiErr.IsAuthError())
		assert.True(t, IsAPIError(err))
	})
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected string
	}{
		{CodeServiceUnavailable, "service temporarily unavailable"},
		{CodeMissingParameter, "missing parameter"},
		{CodeInvalidParameter, "invalid parameter"},
		{CodeDataNotFound, "data not found"},
		{CodeAuthenticationError, "authentication error"},
		{CodeMappingExists, "mapping exists"},
		{CodeDomainExists, "domain already exists"},
		{CodeOrkutError, "Orkut error"},
		{ErrorCode(21), "unknown error code 21"},
		{ErrorCode(-2), "unknown error code -2"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.code.String())
		})
	}

	for code := CodeServiceUnavailable; code <= CodeOrkutError; code++ {
		assert.True(t, code.Known(), "code %d", code)
	}
	assert.False(t, ErrorCode(21).Known())
}

func TestRequestError(t *testing.T) {
	cause := errors.New("connection refused")

	err := &RequestError{Action: "map", Err: cause}
	assert.Equal(t, "engage request map failed: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)

	err = &RequestError{Action: "map", StatusCode: 503, Err: ErrUnexpectedStatus}
	assert.Contains(t, err.Error(), "status 503")
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestResponseError(t *testing.T) {
	err := &ResponseError{Action: "mappings", Err: fmt.Errorf("%w: missing stat", ErrUnexpectedShape)}
	assert.Equal(t, "engage response for mappings: unexpected response shape: missing stat", err.Error())
	assert.ErrorIs(t, err, ErrUnexpectedShape)
	assert.NotErrorIs(t, err, ErrMalformedBody)
}
