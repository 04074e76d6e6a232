package circuit

import "sort"

// Circuit is a venue referenced by races. Latitude and longitude are
// kept as the upstream's decimal strings; "" means unknown.
type Circuit struct {
	CircuitID string
	Name      string
	Latitude  string
	Longitude string
	Locality  string
	Country   string
	URL       string
}

// Normalize sorts by CircuitID and removes exact-row duplicates.
func Normalize(items []Circuit) []Circuit {
	out := make([]Circuit, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CircuitID < out[j].CircuitID })

	seen := make(map[Circuit]struct{}, len(out))
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
