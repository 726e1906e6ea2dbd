package dedup

import (
	"hash/fnv"
	"math"
	"sort"

	"github.com/knowlyr/datacheck/internal/model"
	"github.com/knowlyr/datacheck/internal/textcheck"
)

// Options configures near-duplicate detection
type Options struct {
	Threshold float64 // Jaccard similarity threshold, default 0.8
	NGramSize int     // default 3
	TextField string  // designated text field; empty concatenates all string fields
}

// DefaultOptions returns the standard near-duplicate settings
func DefaultOptions() Options {
	return Options{Threshold: 0.8, NGramSize: 3}
}

// NearGroups finds groups of samples whose texts have Jaccard similarity at
// or above the threshold without being exact duplicates. Qualifying pairs are
// joined into connected components; groups are ordered by their smallest
// index, indices ascending.
//
// Candidate generation uses exact prefix filtering rather than all-pairs
// comparison: each sample's n-gram hashes are sorted and only a prefix of
// length len - ceil(threshold*len) + 1 is indexed. Under a global hash order,
// any pair with similarity >= threshold must share a prefix hash, so the
// pruning loses no true pair. Shared-prefix candidates are then verified with
// the exact Jaccard similarity.
func NearGroups(samples []model.Sample, opts Options) [][]int {
	if opts.Threshold <= 0 {
		opts.Threshold = 0.8
	}
	if opts.NGramSize <= 0 {
		opts.NGramSize = 3
	}
	if len(samples) < 2 {
		return nil
	}

	grams := make([][]uint64, len(samples))
	contentHashes := make([]string, len(samples))
	for i, sample := range samples {
		grams[i] = hashedNGrams(sample.Text(opts.TextField), opts.NGramSize)
		contentHashes[i] = ContentHash(sample)
	}

	uf := newUnionFind(len(samples))
	index := make(map[uint64][]int) // prefix hash -> sample indices
	checked := make(map[[2]int]bool)

	for i := range samples {
		set := grams[i]
		if len(set) == 0 {
			// No text content; nothing to compare
			continue
		}
		prefix := prefixLength(len(set), opts.Threshold)
		for _, h := range set[:prefix] {
			for _, j := range index[h] {
				pair := [2]int{j, i}
				if checked[pair] {
					continue
				}
				checked[pair] = true
				if contentHashes[i] == contentHashes[j] {
					continue // exact duplicates are reported separately
				}
				if jaccardSorted(grams[i], grams[j]) >= opts.Threshold {
					uf.union(i, j)
				}
			}
			index[h] = append(index[h], i)
		}
	}

	return uf.groups()
}

// prefixLength is the number of leading sorted hashes that must be indexed so
// that any pair above the similarity threshold shares at least one of them.
func prefixLength(setSize int, threshold float64) int {
	p := setSize - int(math.Ceil(threshold*float64(setSize))) + 1
	if p < 1 {
		p = 1
	}
	if p > setSize {
		p = setSize
	}
	return p
}

// hashedNGrams returns the sample text's n-gram set as sorted FNV-64 hashes
func hashedNGrams(text string, n int) []uint64 {
	set := textcheck.NGramSet(text, n)
	hashes := make([]uint64, 0, len(set))
	seen := make(map[uint64]bool, len(set))
	for g := range set {
		h := fnv.New64a()
		_, _ = h.Write([]byte(g))
		v := h.Sum64()
		if !seen[v] {
			seen[v] = true
			hashes = append(hashes, v)
		}
	}
	sort.Slice(hashes, func(a, b int) bool { return hashes[a] < hashes[b] })
	return hashes
}

// jaccardSorted computes Jaccard similarity over two sorted hash slices
func jaccardSorted(a, b []uint64) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	inter := 0
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			inter++
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// unionFind joins qualifying pairs into connected components
type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	return &unionFind{parent: parent}
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]] // path halving
		x = u.parent[x]
	}
	return x
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra != rb {
		if ra > rb {
			ra, rb = rb, ra
		}
		u.parent[rb] = ra
	}
}

// groups returns components of size > 1, ordered by smallest member
func (u *unionFind) groups() [][]int {
	members := make(map[int][]int)
	for i := range u.parent {
		root := u.find(i)
		members[root] = append(members[root], i)
	}

	var roots []int
	for root, m := range members {
		if len(m) > 1 {
			roots = append(roots, root)
		}
	}
	sort.Ints(roots)

	groups := make([][]int, 0, len(roots))
	for _, root := range roots {
		m := members[root]
		sort.Ints(m)
		groups = append(groups, m)
	}
	return groups
}
