package engage

import (
	"context"
)

// API defines the interface for Engage operations
type API interface {
	// GetAuthInfo exchanges a sign-in token for a user profile
	GetAuthInfo(ctx context.Context, token string, extended *bool, tokenURL *string) (*Response, error)

	// SetMap maps an identifier to a local primary key
	SetMap(ctx context.Context, identifier, primaryKey string, overwrite *bool) (*Response, error)

	// SetUnmap removes a single identifier mapping
	SetUnmap(ctx context.Context, identifier, primaryKey string, unlink *bool) (*Response, error)

	// SetUnmapAll removes every identifier mapped to a primary key
	SetUnmapAll(ctx context.Context, primaryKey string, unlink *bool) (*Response, error)

	// GetMappings retrieves the identifiers mapped to a primary key
	GetMappings(ctx context.Context, primaryKey string) (*Response, error)

	// GetAllMappings retrieves every mapping of the application
	GetAllMappings(ctx context.Context) (*Response, error)

	// GetContacts retrieves the contact list of an identifier
	GetContacts(ctx context.Context, identifier string) (*Response, error)
}

var _ API = (*Client)(nil)
