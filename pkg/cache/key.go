package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// CacheKey identifies a cached lookup.
type CacheKey struct {
	// Endpoint is the API path (e.g., "/users/5f0d.../")
	Endpoint string

	// QueryParams are the query parameters
	QueryParams url.Values

	// Account scopes the entry to one bearer token; see AccountScope
	Account string
}

// String generates a deterministic cache key string.
// Format: ifunny:endpoint:query1=val1:acct=scope
//
// Example:
//
//	ifunny:users/by_nick/someone:acct=9f86d081884c
func (k CacheKey) String() string {
	parts := []string{"ifunny"}

	endpoint := strings.Trim(k.Endpoint, "/")
	if endpoint != "" {
		parts = append(parts, endpoint)
	}

	if len(k.QueryParams) > 0 {
		queryKeys := make([]string, 0, len(k.QueryParams))
		for key := range k.QueryParams {
			queryKeys = append(queryKeys, key)
		}
		sort.Strings(queryKeys)

		for _, key := range queryKeys {
			parts = append(parts, fmt.Sprintf("%s=%s", key, strings.Join(k.QueryParams[key], ",")))
		}
	}

	if k.Account != "" {
		parts = append(parts, "acct="+k.Account)
	}

	return strings.Join(parts, ":")
}

// AccountScope derives a short, non-reversible account scope from a token.
func AccountScope(token string) string {
	if token == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:6])
}
