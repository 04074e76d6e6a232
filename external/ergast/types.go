package ergast

// Wire types for the upstream results payload. Every numeric field
// arrives as a string; mapping to typed rows with sentinel defaults
// happens in map.go.

type resultsEnvelope struct {
	MRData struct {
		RaceTable struct {
			Season string     `json:"season"`
			Races  []raceData `json:"Races"`
		} `json:"RaceTable"`
	} `json:"MRData"`
}

type raceData struct {
	Season   string       `json:"season"`
	Round    string       `json:"round"`
	URL      string       `json:"url"`
	RaceName string       `json:"raceName"`
	Circuit  circuitData  `json:"Circuit"`
	Date     string       `json:"date"`
	Time     string       `json:"time"`
	Results  []resultData `json:"Results"`
}

type circuitData struct {
	CircuitID   string `json:"circuitId"`
	URL         string `json:"url"`
	CircuitName string `json:"circuitName"`
	Location    struct {
		Lat      string `json:"lat"`
		Long     string `json:"long"`
		Locality string `json:"locality"`
		Country  string `json:"country"`
	} `json:"Location"`
}

type resultData struct {
	Position    string          `json:"position"`
	Points      string          `json:"points"`
	Grid        string          `json:"grid"`
	Laps        string          `json:"laps"`
	Status      string          `json:"status"`
	Time        *raceTime       `json:"Time"`
	FastestLap  *fastestLapData `json:"FastestLap"`
	Driver      driverData      `json:"Driver"`
	Constructor constructorData `json:"Constructor"`
}

type raceTime struct {
	Time string `json:"time"`
}

type fastestLapData struct {
	Time         *raceTime `json:"Time"`
	AverageSpeed *struct {
		Speed string `json:"speed"`
	} `json:"AverageSpeed"`
}

type driverData struct {
	DriverID    string `json:"driverId"`
	Code        string `json:"code"`
	URL         string `json:"url"`
	GivenName   string `json:"givenName"`
	FamilyName  string `json:"familyName"`
	DateOfBirth string `json:"dateOfBirth"`
	Nationality string `json:"nationality"`
}

type constructorData struct {
	ConstructorID string `json:"constructorId"`
	URL           string `json:"url"`
	Name          string `json:"name"`
	Nationality   string `json:"nationality"`
}
