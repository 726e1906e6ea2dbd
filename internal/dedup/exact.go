package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/knowlyr/datacheck/internal/model"
)

// ContentHash returns a stable hash of a sample's normalized content: string
// fields trimmed, keys sorted. Two samples with the same hash are exact
// duplicates.
func ContentHash(sample model.Sample) string {
	normalized := sample.Normalized()

	// encoding/json sorts map keys, which makes the encoding canonical
	data, err := json.Marshal(normalized)
	if err != nil {
		// Samples come from JSON/CSV input and always marshal; fall back to
		// an empty-content hash rather than failing the run
		data = []byte("{}")
	}

	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ExactGroups finds groups of samples with identical normalized content.
// Groups of size > 1 are returned ordered by first occurrence, each group's
// indices ascending with the first occurrence as canonical. The groups are
// disjoint: a sample appears in at most one.
func ExactGroups(samples []model.Sample) [][]int {
	byHash := make(map[string][]int)
	var order []string

	for i, sample := range samples {
		h := ContentHash(sample)
		if _, seen := byHash[h]; !seen {
			order = append(order, h)
		}
		byHash[h] = append(byHash[h], i)
	}

	var groups [][]int
	for _, h := range order {
		if indices := byHash[h]; len(indices) > 1 {
			sort.Ints(indices)
			groups = append(groups, indices)
		}
	}
	return groups
}
