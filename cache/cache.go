// Package cache provides stores for the translator's fallback decisions.
// Keys combine the lemma hash with the gloss table fingerprint, so entries
// never outlive the dictionary that produced them.
package cache

// LookupCache stores encoded fallback decisions by key.
type LookupCache interface {
	// Get retrieves a cached decision. Returns empty string and false if not found or expired.
	Get(key string) (string, bool)

	// Set stores a decision in the cache.
	Set(key string, value string) error
}

// ExportableCache is a cache whose keys can be enumerated for snapshots.
type ExportableCache interface {
	LookupCache
	// Keys returns all live keys in the cache, sorted.
	Keys() ([]string, error)
}
