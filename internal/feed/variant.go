package feed

import "hash/fnv"

// PickVariant deterministically selects one of bucketSize presentation
// variants (e.g. a placeholder card image) for the given seed. The result is
// a presentation affordance only and must never be treated as an identifier.
func PickVariant(seed string, bucketSize int) int {
	if bucketSize <= 1 {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(seed))
	return int(h.Sum32() % uint32(bucketSize))
}
