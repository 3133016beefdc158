package inventory

import (
	"fmt"
	"strings"
)

// Filters narrows a record listing. Empty fields do not filter.
type Filters struct {
	Provider     Provider
	Status       Status
	Region       string // case-insensitive exact match
	Engine       string // case-insensitive substring
	Version      string // case-insensitive substring
	Subscription string // case-insensitive substring
	Search       string // substring over engine, service, endpoint and tags
}

// Match reports whether r passes every filter.
// The SQL store applies the same rules in its WHERE clause.
func (f Filters) Match(r Record) bool {
	if f.Provider != "" && r.Provider != f.Provider {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.Region != "" && !strings.EqualFold(r.Region, f.Region) {
		return false
	}
	if !containsFold(r.Engine, f.Engine) || !containsFold(r.Version, f.Version) || !containsFold(r.Subscription, f.Subscription) {
		return false
	}
	if f.Search != "" {
		if containsFold(r.Engine, f.Search) || containsFold(r.Service, f.Search) || containsFold(r.Endpoint, f.Search) {
			return true
		}
		for _, t := range r.Tags {
			if containsFold(t, f.Search) {
				return true
			}
		}
		return false
	}
	return true
}

func containsFold(s, sub string) bool {
	if sub == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// DuplicateKey selects which fields identify the same instance across imports.
type DuplicateKey string

const (
	KeyProviderServiceRegion DuplicateKey = "provider_service_region"
	KeyService               DuplicateKey = "service"
)

// ParseDuplicateKey accepts the configuration spelling of a DuplicateKey.
func ParseDuplicateKey(s string) (DuplicateKey, error) {
	switch k := DuplicateKey(strings.ToLower(strings.TrimSpace(s))); k {
	case KeyProviderServiceRegion, KeyService:
		return k, nil
	case "":
		return KeyProviderServiceRegion, nil
	}
	return "", fmt.Errorf("unknown duplicate key %q (want provider_service_region or service)", s)
}

// Of returns the identity string of r under key k.
func (k DuplicateKey) Of(r Record) string {
	if k == KeyService {
		return r.Service
	}
	return string(r.Provider) + "|" + r.Service + "|" + r.Region
}
