package constructor

import "sort"

// Constructor is the team entering cars, referenced by results.
type Constructor struct {
	ConstructorID string
	Name          string
	Nationality   string
	URL           string
}

// Normalize sorts by ConstructorID and removes exact-row duplicates.
func Normalize(items []Constructor) []Constructor {
	out := make([]Constructor, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ConstructorID < out[j].ConstructorID })

	seen := make(map[Constructor]struct{}, len(out))
	deduped := out[:0]
	for _, item := range out {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		deduped = append(deduped, item)
	}
	return deduped
}
