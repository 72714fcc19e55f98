package filter

import (
	"net/url"
	"slices"
	"strings"
)

// Mapping is one identifier mapped to a local primary key
type Mapping struct {
	PrimaryKey string `json:"primaryKey"`
	Identifier string `json:"identifier"`
	// Provider is the host of the identifier URL, or "" if it is not a URL
	Provider string `json:"provider,omitempty"`
}

// NewMapping builds a Mapping and derives its provider
func NewMapping(primaryKey, identifier string) Mapping {
	return Mapping{
		PrimaryKey: primaryKey,
		Identifier: identifier,
		Provider:   providerOf(identifier),
	}
}

// FromIdentifiers flattens the identifiers of one primary key
func FromIdentifiers(primaryKey string, identifiers []string) []Mapping {
	mappings := make([]Mapping, 0, len(identifiers))
	for _, id := range identifiers {
		mappings = append(mappings, NewMapping(primaryKey, id))
	}
	return mappings
}

// FromAllMappings flattens an all_mappings result, ordered by primary key
func FromAllMappings(all map[string][]string) []Mapping {
	keys := make([]string, 0, len(all))
	for pk := range all {
		keys = append(keys, pk)
	}
	slices.Sort(keys)

	var mappings []Mapping
	for _, pk := range keys {
		mappings = append(mappings, FromIdentifiers(pk, all[pk])...)
	}
	return mappings
}

func providerOf(identifier string) string {
	u, err := url.Parse(identifier)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
