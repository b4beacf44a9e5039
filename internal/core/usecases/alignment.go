package usecases

import (
	"fmt"
	"math"
	"strings"

	"github.com/samirrijal/parcelmap/internal/core/domain"
	"github.com/samirrijal/parcelmap/internal/pkg/geospatial"
)

// Alignment decides which existing vertex markers survive a reshape.
// Both policies leave marker i at vertex i with one marker per vertex.
type Alignment int

const (
	// AlignNearest keeps the order-preserving assignment of old markers to
	// new vertices with the smallest total displacement, so a vertex inserted
	// mid-edge gets its own new marker.
	AlignNearest Alignment = iota
	// AlignTail keeps markers by index: new vertices get markers appended at
	// the tail and surplus markers are dropped from the tail.
	AlignTail
)

func (a Alignment) String() string {
	switch a {
	case AlignTail:
		return "tail"
	default:
		return "nearest"
	}
}

// ParseAlignment reads an alignment policy name.
func ParseAlignment(name string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "nearest":
		return AlignNearest, nil
	case "tail":
		return AlignTail, nil
	default:
		return 0, fmt.Errorf("unknown marker alignment %q (want nearest or tail)", name)
	}
}

// assign returns, for every vertex of next, the index of the old marker
// that should move there, or -1 when a fresh marker is needed.
func (a Alignment) assign(old, next domain.Ring) []int {
	out := make([]int, len(next))
	for j := range out {
		out[j] = -1
	}

	if a == AlignTail {
		for j := 0; j < len(next) && j < len(old); j++ {
			out[j] = j
		}
		return out
	}

	if len(next) >= len(old) {
		for i, j := range alignSubsequence(old, next) {
			out[j] = i
		}
		return out
	}
	for j, i := range alignSubsequence(next, old) {
		out[j] = i
	}
	return out
}

// alignSubsequence maps every point of short onto a distinct point of long,
// preserving order and minimising the summed distance. len(short) must not
// exceed len(long).
func alignSubsequence(short, long domain.Ring) []int {
	n, m := len(short), len(long)
	if n == 0 {
		return nil
	}

	// cost[i][j]: best cost of placing short[:i] within long[:j].
	// skip[i][j]: long[j-1] is left unmatched on the best path.
	cost := make([][]float64, n+1)
	skip := make([][]bool, n+1)
	for i := range cost {
		cost[i] = make([]float64, m+1)
		skip[i] = make([]bool, m+1)
	}
	for i := 1; i <= n; i++ {
		for j := 0; j <= m; j++ {
			if j < i {
				cost[i][j] = math.Inf(1)
				continue
			}
			cost[i][j] = cost[i-1][j-1] + geospatial.Distance(short[i-1], long[j-1])
			if j > i && cost[i][j-1] < cost[i][j] {
				cost[i][j] = cost[i][j-1]
				skip[i][j] = true
			}
		}
	}

	out := make([]int, n)
	for i, j := n, m; i > 0; j-- {
		if skip[i][j] {
			continue
		}
		out[i-1] = j - 1
		i--
	}
	return out
}
