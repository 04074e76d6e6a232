package result

import "sort"

// Result is one driver's classification in one race.
//
// Position, Points, Grid and Laps use -1 as the "unknown" sentinel; -1
// is never a valid classification value. Time, FastestLapTime and
// FastestLapSpeed use "" for unknown.
type Result struct {
	RaceID          int
	Position        int
	Points          int
	DriverID        string
	ConstructorID   string
	Grid            int
	Laps            int
	Status          string
	Time            string
	FastestLapTime  string
	FastestLapSpeed string
}

// Normalize sorts by RaceID then Position and removes exact-row
// duplicates.
func Normalize(items []Result) []Result {
	out := make([]Result, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RaceID != out[j].RaceID {
			return out[i].RaceID < out[j].RaceID
		}
		return out[i].Position < out[j].Position
	})

	seen := make(map[Result]struct{}, len(out))
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
