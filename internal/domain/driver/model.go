package driver

import "sort"

// Driver is a race participant. DOB stays in the upstream's
// YYYY-MM-DD form; "" means unknown.
type Driver struct {
	DriverID    string
	Code        string
	FirstName   string
	LastName    string
	DOB         string
	Nationality string
	URL         string
}

// Normalize sorts by DriverID and removes exact-row duplicates.
func Normalize(items []Driver) []Driver {
	out := make([]Driver, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool { return out[i].DriverID < out[j].DriverID })

	seen := make(map[Driver]struct{}, len(out))
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
