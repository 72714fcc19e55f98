// Package engagetest provides an in-process fake of the Engage API for
// testing code that talks to it, without network access or a real key.
//
// The fake keeps identifier mappings in memory, so map, unmap, mappings and
// all_mappings behave like the real service. auth_info and get_contacts
// answer from data registered with AddProfile and AddContacts. Every request
// is recorded for inspection.
//
// # Basic Usage
//
//	func TestSignIn(t *testing.T) {
//	    srv := engagetest.NewServer("test-key")
//	    defer srv.Close()
//
//	    srv.AddProfile("token-1", map[string]any{
//	        "identifier":   "https://example.com/alice",
//	        "providerName": "Example",
//	    })
//
//	    client, _ := engage.NewClient("test-key", zerolog.Nop(),
//	        engage.WithBaseURL(srv.URL))
//	    resp, err := client.GetAuthInfo(ctx, "token-1", nil, nil)
//	    ...
//	}
//
// # Scripted Responses
//
// Respond replaces the behavior of one action with a fixed status and body,
// which is how malformed or failing responses are tested:
//
//	srv.Respond("auth_info", http.StatusOK, `{not json`)
package engagetest
