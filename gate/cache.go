package gate

import "sort"

// FilterCacheKey uniquely identifies a cached filter result: the file being
// filtered, the gate being applied, and the sorted-deduplicated parent gate
// chain, so that the same gate reached with the same set of ancestors hits
// the same cache entry regardless of traversal order (grounded on
// gates/src/filtering/cache.rs's FilterCacheKey).
type FilterCacheKey struct {
	FileGUID    string
	GateID      string
	ParentChain string // sorted, deduplicated, joined with "\x00"
}

// NewFilterCacheKey builds a key from a parent chain, sorting and
// deduplicating it first so the same set of ancestors always hashes the
// same regardless of insertion order.
func NewFilterCacheKey(fileGUID, gateID string, parentChain []string) FilterCacheKey {
	sorted := append([]string(nil), parentChain...)
	sort.Strings(sorted)
	deduped := sorted[:0]
	for i, id := range sorted {
		if i == 0 || id != sorted[i-1] {
			deduped = append(deduped, id)
		}
	}
	joined := ""
	for i, id := range deduped {
		if i > 0 {
			joined += "\x00"
		}
		joined += id
	}
	return FilterCacheKey{FileGUID: fileGUID, GateID: gateID, ParentChain: joined}
}

// FilterCache caches filtered event indices by FilterCacheKey. Implementations
// must tolerate concurrent Get/Insert calls (§5 Concurrency: "the filter
// cache interface must tolerate concurrent get/insert as part of its
// contract"); this package supplies no built-in implementation, matching
// the original crate's design of leaving the cache to the embedding
// application.
type FilterCache interface {
	Get(key FilterCacheKey) ([]int, bool)
	Insert(key FilterCacheKey, indices []int)
}
