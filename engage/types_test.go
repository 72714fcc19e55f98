package engage

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResponse(t *testing.T, body string) *Response {
	t.Helper()
	decoded, err := decodeJSON([]byte(body))
	require.NoError(t, err)
	fields, ok := decoded.(map[string]any)
	require.True(t, ok)
	return &Response{raw: []byte(body), fields: fields}
}

func TestResponseDecoding(t *testing.T) {
	t.Run("AuthInfo", func(t *testing.T) {
		resp := newResponse(t, `{
			"stat": "ok",
			"profile": {
				"identifier": "https://www.google.com/profiles/alice",
				"providerName": "Google",
				"preferredUsername": "alice",
				"email": "alice@example.com",
				"name": {"formatted": "Alice Example", "givenName": "Alice"}
			}
		}`)

		info, err := resp.AuthInfo()
		require.NoError(t, err)
		assert.Equal(t, "Google", info.Profile.ProviderName)
		assert.Equal(t, "https://www.google.com/profiles/alice", info.Profile.Identifier)
		require.NotNil(t, info.Profile.Name)
		assert.Equal(t, "Alice", info.Profile.Name.GivenName)
		assert.Equal(t, "alice", info.Profile.GetDisplayName())
	})

	t.Run("Mappings", func(t *testing.T) {
		resp := newResponse(t, `{"stat":"ok","identifiers":["a","b"]}`)
		result, err := resp.Mappings()
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, result.Identifiers)
	})

	t.Run("AllMappings", func(t *testing.T) {
		resp := newResponse(t, `{"stat":"ok","mappings":{"1":["a"],"2":["b","c"]}}`)
		result, err := resp.AllMappings()
		require.NoError(t, err)
		assert.Equal(t, map[string][]string{"1": {"a"}, "2": {"b", "c"}}, result.Mappings)
	})

	t.Run("Contacts", func(t *testing.T) {
		resp := newResponse(t, `{"stat":"ok","response":{"entry":[{"displayName":"Bob","emails":[{"type":"home","value":"bob@example.com"}]},{"displayName":"Eve"}],"itemsPerPage":2,"startIndex":1,"totalResults":2}}`)
		result, err := resp.Contacts()
		require.NoError(t, err)
		require.Len(t, result.Response.Entry, 2)
		assert.Equal(t, "bob@example.com", result.Response.Entry[0].PrimaryEmail())
		assert.Equal(t, "", result.Response.Entry[1].PrimaryEmail())
		assert.Equal(t, 2, result.Response.TotalResults)
	})

	t.Run("type mismatch", func(t *testing.T) {
		resp := newResponse(t, `{"stat":"ok","identifiers":"not-a-list"}`)
		_, err := resp.Mappings()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode response")
	})

	t.Run("MarshalJSON keeps body", func(t *testing.T) {
		body := `{"stat":"ok","identifier":"abc"}`
		resp := newResponse(t, body)
		out, err := json.Marshal(resp)
		require.NoError(t, err)
		assert.JSONEq(t, body, string(out))
	})
}

func TestProfileDisplayName(t *testing.T) {
	tests := []struct {
		name     string
		profile  Profile
		expected string
	}{
		{"display name", Profile{DisplayName: "Alice", PreferredUsername: "al", Identifier: "id"}, "Alice"},
		{"preferred username", Profile{PreferredUsername: "al", Email: "a@x", Identifier: "id"}, "al"},
		{"formatted name", Profile{Name: &Name{Formatted: "Alice E"}, Identifier: "id"}, "Alice E"},
		{"email", Profile{Email: "a@x", Identifier: "id"}, "a@x"},
		{"identifier", Profile{Identifier: "id"}, "id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.profile.GetDisplayName())
		})
	}
}
