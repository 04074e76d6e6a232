package race

import (
	"sort"
	"time"
)

// Race is one Grand Prix event within a season.
//
// Numeric fields use -1 (Season) and 0 (Round) as sentinels when the
// upstream payload omitted them; they are never valid values upstream.
// DateTime is always UTC so that exact-row comparison stays stable
// across persist/load round trips.
type Race struct {
	RaceID    int
	Season    int
	Round     int
	RaceName  string
	CircuitID string
	DateTime  time.Time
	URL       string
}

// DeriveID joins season and round into a single sortable key:
// season*100 + round. Ascending RaceID is chronological as long as no
// season has more than 99 rounds.
func DeriveID(season, round int) int {
	return season*100 + round
}

// Normalize sorts by RaceID and removes exact-row duplicates, keeping
// the first occurrence in sorted order. The result is deterministic
// regardless of input order.
func Normalize(items []Race) []Race {
	out := make([]Race, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool { return out[i].RaceID < out[j].RaceID })

	seen := make(map[Race]struct{}, len(out))
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
