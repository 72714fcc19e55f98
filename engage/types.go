package engage

import (
	"encoding/json"
	"fmt"
	"maps"
)

// Response is a successful (stat=ok) API response. All fields are passed
// through as received; numbers are kept as json.Number.
type Response struct {
	raw    []byte
	fields map[string]any
}

// Stat returns the stat discriminator, always "ok" for a returned Response
func (r *Response) Stat() string {
	s, _ := r.fields["stat"].(string)
	return s
}

// Get returns a top-level field
func (r *Response) Get(key string) (any, bool) {
	v, ok := r.fields[key]
	return v, ok
}

// String returns a top-level string field, or "" if absent or not a string
func (r *Response) String(key string) string {
	s, _ := r.fields[key].(string)
	return s
}

// Fields returns a shallow copy of the decoded top-level object
func (r *Response) Fields() map[string]any {
	return maps.Clone(r.fields)
}

// Raw returns the response body as received
func (r *Response) Raw() []byte {
	return r.raw
}

// Decode unmarshals the raw body into v
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.raw, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// MarshalJSON returns the raw body, so a Response re-encodes unchanged
func (r *Response) MarshalJSON() ([]byte, error) {
	return r.raw, nil
}

// AuthInfo decodes an auth_info response
func (r *Response) AuthInfo() (*AuthInfo, error) {
	var info AuthInfo
	if err := r.Decode(&info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Mappings decodes a mappings response
func (r *Response) Mappings() (*MappingsResult, error) {
	var result MappingsResult
	if err := r.Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AllMappings decodes an all_mappings response
func (r *Response) AllMappings() (*AllMappingsResult, error) {
	var result AllMappingsResult
	if err := r.Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Contacts decodes a get_contacts response
func (r *Response) Contacts() (*ContactsResult, error) {
	var result ContactsResult
	if err := r.Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AuthInfo represents the auth_info payload
type AuthInfo struct {
	Profile           Profile        `json:"profile"`
	AccessCredentials map[string]any `json:"accessCredentials,omitempty"`
	MergedPoco        map[string]any `json:"merged_poco,omitempty"`
	LimitedData       bool           `json:"limited_data,omitempty"`
}

// Profile represents the normalized user profile returned by auth_info
type Profile struct {
	Identifier        string   `json:"identifier"`
	ProviderName      string   `json:"providerName"`
	PrimaryKey        string   `json:"primaryKey,omitempty"`
	DisplayName       string   `json:"displayName,omitempty"`
	PreferredUsername string   `json:"preferredUsername,omitempty"`
	Name              *Name    `json:"name,omitempty"`
	Gender            string   `json:"gender,omitempty"`
	Birthday          string   `json:"birthday,omitempty"`
	UTCOffset         string   `json:"utcOffset,omitempty"`
	Email             string   `json:"email,omitempty"`
	VerifiedEmail     string   `json:"verifiedEmail,omitempty"`
	URL               string   `json:"url,omitempty"`
	PhoneNumber       string   `json:"phoneNumber,omitempty"`
	Photo             string   `json:"photo,omitempty"`
	Address           *Address `json:"address,omitempty"`
}

// GetDisplayName returns the best available display name for the profile
func (p *Profile) GetDisplayName() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	if p.PreferredUsername != "" {
		return p.PreferredUsername
	}
	if p.Name != nil && p.Name.Formatted != "" {
		return p.Name.Formatted
	}
	if p.Email != "" {
		return p.Email
	}
	return p.Identifier
}

// Name holds the structured name of a profile
type Name struct {
	Formatted       string `json:"formatted,omitempty"`
	FamilyName      string `json:"familyName,omitempty"`
	GivenName       string `json:"givenName,omitempty"`
	MiddleName      string `json:"middleName,omitempty"`
	HonorificPrefix string `json:"honorificPrefix,omitempty"`
	HonorificSuffix string `json:"honorificSuffix,omitempty"`
}

// Address holds the postal address of a profile
type Address struct {
	Formatted     string `json:"formatted,omitempty"`
	StreetAddress string `json:"streetAddress,omitempty"`
	Locality      string `json:"locality,omitempty"`
	Region        string `json:"region,omitempty"`
	PostalCode    string `json:"postalCode,omitempty"`
	Country       string `json:"country,omitempty"`
}

// MappingsResult represents the mappings payload
type MappingsResult struct {
	Identifiers []string `json:"identifiers"`
}

// AllMappingsResult represents the all_mappings payload, keyed by primary key
type AllMappingsResult struct {
	Mappings map[string][]string `json:"mappings"`
}

// ContactsResult represents the get_contacts payload
type ContactsResult struct {
	Response ContactList `json:"response"`
}

// ContactList is a Portable Contacts collection
type ContactList struct {
	Entry        []Contact `json:"entry"`
	ItemsPerPage int       `json:"itemsPerPage"`
	StartIndex   int       `json:"startIndex"`
	TotalResults int       `json:"totalResults"`
}

// Contact is a single Portable Contacts entry
type Contact struct {
	DisplayName string  `json:"displayName"`
	Emails      []Email `json:"emails,omitempty"`
}

// Email is an address attached to a contact
type Email struct {
	Type  string `json:"type,omitempty"`
	Value string `json:"value"`
}

// PrimaryEmail returns the first email of the contact, or ""
func (c *Contact) PrimaryEmail() string {
	if len(c.Emails) == 0 {
		return ""
	}
	return c.Emails[0].Value
}
