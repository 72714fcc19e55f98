// Package engage provides a client for the Janrain Engage (RPX) API.
//
// Engage validates social sign-in tokens and maintains the mapping between
// provider identifiers and local account primary keys. Every API action is a
// form-encoded POST to <base URL><action>, authenticated with an API key.
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := engage.NewClient(
//		"your-api-key",
//		logger,
//		engage.WithTimeout(5*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	resp, err := client.GetAuthInfo(ctx, token, engage.Bool(true), nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	info, err := resp.AuthInfo()
//
// Optional parameters are pointers. A nil value is left out of the request
// entirely; booleans are sent as the strings "true" and "false".
//
// # Error Handling
//
// A call fails with exactly one of three error types:
//
//   - RequestError: the HTTP exchange failed (connection, timeout, non-2xx)
//   - ResponseError: the body was not JSON or lacked a valid stat field
//   - APIError: the API answered stat=fail with an error code and message
//
// Use errors.As to branch on them:
//
//	var apiErr *engage.APIError
//	if errors.As(err, &apiErr) && apiErr.IsNotFound() {
//		// Handle unknown primary key
//	}
//
// Required string parameters are checked before any request is made; an
// empty value returns ErrEmptyParameter.
//
// The client does not retry, cache or throttle. It is safe for concurrent
// use: each call builds its own request and only the underlying connection
// pool is shared.
package engage
