package query

// cacheKey identifies one (query handle, pid) pair. Comparable as a map
// key since DynamicQuery is always referenced by pointer.
type cacheKey struct {
	query *DynamicQuery
	pid   uint32
}

// queryCache holds the most recent non-empty materialized result per
// (query, pid), returned verbatim on an empty-window poll per §4.6 step 5
// and the §4.6.2 degenerate cases.
type queryCache struct {
	blobs map[cacheKey][]byte
}

func newQueryCache() *queryCache {
	return &queryCache{blobs: make(map[cacheKey][]byte)}
}

func (c *queryCache) get(k cacheKey) ([]byte, bool) {
	b, ok := c.blobs[k]
	return b, ok
}

func (c *queryCache) put(k cacheKey, blob []byte) {
	stored := make([]byte, len(blob))
	copy(stored, blob)
	c.blobs[k] = stored
}

// queryDeltaMap holds the clock-alignment delta stabilized per (query,
// pid), per §4.6.1.
type queryDeltaMap struct {
	deltas map[cacheKey]uint64
}

func newQueryDeltaMap() *queryDeltaMap {
	return &queryDeltaMap{deltas: make(map[cacheKey]uint64)}
}

func (d *queryDeltaMap) get(k cacheKey) (uint64, bool) {
	v, ok := d.deltas[k]
	return v, ok
}

func (d *queryDeltaMap) set(k cacheKey, v uint64) {
	d.deltas[k] = v
}
