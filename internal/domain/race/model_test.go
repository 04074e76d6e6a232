package race

import (
	"testing"
	"time"
)

func TestDeriveID(t *testing.T) {
	t.Parallel()

	cases := []struct {
		season, round, want int
	}{
		{2021, 3, 202103},
		{2021, 13, 202113},
		{2021, 1, 202101},
		{2021, 99, 202199},
		{1950, 7, 195007},
	}
	for _, tc := range cases {
		if got := DeriveID(tc.season, tc.round); got != tc.want {
			t.Errorf("DeriveID(%d, %d) = %d, want %d", tc.season, tc.round, got, tc.want)
		}
	}
}

func TestDeriveID_SortsChronologically(t *testing.T) {
	t.Parallel()

	prev := 0
	for season := 2019; season <= 2022; season++ {
		for round := 1; round <= 99; round++ {
			id := DeriveID(season, round)
			if id <= prev {
				t.Fatalf("DeriveID(%d, %d) = %d not greater than previous %d", season, round, id, prev)
			}
			prev = id
		}
	}
}

func TestNormalize_SortsAndDedupes(t *testing.T) {
	t.Parallel()

	dt := time.Date(2021, 3, 28, 15, 0, 0, 0, time.UTC)
	a := Race{RaceID: 202101, Season: 2021, Round: 1, RaceName: "Bahrain Grand Prix", CircuitID: "bahrain", DateTime: dt}
	b := Race{RaceID: 202102, Season: 2021, Round: 2, RaceName: "Emilia Romagna Grand Prix", CircuitID: "imola", DateTime: dt.AddDate(0, 0, 21)}

	got := Normalize([]Race{b, a, b, a})
	if len(got) != 2 {
		t.Fatalf("Normalize returned %d rows, want 2", len(got))
	}
	if got[0] != a || got[1] != b {
		t.Fatalf("Normalize order = %v", got)
	}
}

func TestNormalize_IsIdempotentUnderSelfConcat(t *testing.T) {
	t.Parallel()

	items := []Race{
		{RaceID: 202101, Season: 2021, Round: 1},
		{RaceID: 202102, Season: 2021, Round: 2},
		{RaceID: 202103, Season: 2021, Round: 3},
	}

	once := Normalize(items)
	twice := Normalize(append(append([]Race{}, once...), once...))

	if len(twice) != len(once) {
		t.Fatalf("self-concat grew table: %d -> %d rows", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Fatalf("row %d changed after self-concat normalize", i)
		}
	}
}
