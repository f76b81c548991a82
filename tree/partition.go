package tree

import (
	"math"
	"math/rand"

	"github.com/pbanos/canopy/dataset"
)

/*
BestAttribute takes a dataset and a slice of candidate attribute indexes and
returns the candidate whose split leaves the least expected label entropy,
along with that entropy. Candidates are evaluated in order and only a
strictly smaller entropy replaces the incumbent, so ties go to the earliest
candidate. With no candidates, NoAttribute is returned.
*/
func BestAttribute(ds *dataset.Dataset, candidates []int) (int, float64, error) {
	best := NoAttribute
	min := math.Inf(1)
	for _, a := range candidates {
		e, err := ds.Entropy(a)
		if err != nil {
			return NoAttribute, 0.0, err
		}
		if e < min {
			min = e
			best = a
		}
	}
	return best, min, nil
}

/*
candidateAttributes returns the attributes to evaluate on a node: all of them
in index order, or when sampling, floor(sqrt(width)) of them drawn without
replacement in the order they were drawn.
*/
func candidateAttributes(width int, sample bool, rng *rand.Rand) []int {
	if !sample {
		result := make([]int, width)
		for i := range result {
			result[i] = i
		}
		return result
	}
	k := int(math.Sqrt(float64(width)))
	return rng.Perm(width)[:k]
}
