package feature

/*
Tally counts occurrences of labels: the samples of each class on a set, or
the votes cast for each class by the trees of a forest.
*/
type Tally map[Label]int

// Add increments the count for the given label by one.
func (t Tally) Add(l Label) {
	t[l]++
}

// Total returns the sum of all counts.
func (t Tally) Total() int {
	var total int
	for _, c := range t {
		total += c
	}
	return total
}

/*
Plurality returns the label with the highest count and that count.

Labels are visited in ascending code order and a label only replaces the
incumbent with a strictly greater count, so among tied labels the one with
the smallest code wins. An empty tally yields Unknown and 0.
*/
func (t Tally) Plurality() (Label, int) {
	result := Unknown
	var max int
	for l := Wall; l <= Unknown; l++ {
		if c := t[l]; c > max {
			result = l
			max = c
		}
	}
	return result, max
}
