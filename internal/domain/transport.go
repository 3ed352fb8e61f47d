package domain

// Departure is one train leaving the origin station.
type Departure struct {
	ScheduledTime string `json:"aimed_departure_time"`
	ExpectedTime  string `json:"expected_departure_time"`
	Platform      string `json:"platform"`
	Status        string `json:"status"`
	Operator      string `json:"operator_name"`
	TrainType     string `json:"train_type,omitempty"`
	Destination   string `json:"destination_name"`
	TrainUID      string `json:"train_uid,omitempty"`
	Delayed       bool   `json:"delayed"`
	DelayMinutes  int    `json:"delay_minutes,omitempty"`
	Simulated     bool   `json:"is_simulated"`
}

type station struct {
	name string
	code string
}

// stations maps lower-cased names and aliases to CRS codes. Order matters for
// substring matching and for reverse lookups, where the first name wins.
var stations = []station{
	// Manchester area
	{"urmston", "URM"},
	{"manchester", "MAN"},
	{"manchester piccadilly", "MAN"},
	{"manchester oxford road", "MCO"},
	{"manchester victoria", "MCV"},
	{"stockport", "SPT"},
	{"altrincham", "ALT"},
	{"trafford park", "TRA"},
	{"bolton", "BON"},
	{"wigan", "WGN"},

	// Liverpool area
	{"liverpool", "LIV"},
	{"liverpool south parkway", "LPY"},
	{"birkenhead", "BKQ"},

	// London
	{"london", "EUS"},
	{"london euston", "EUS"},
	{"london kings cross", "KGX"},
	{"london paddington", "PAD"},
	{"london waterloo", "WAT"},
	{"london bridge", "LBG"},

	{"birmingham", "BHM"},
	{"leeds", "LDS"},
	{"york", "YRK"},
	{"sheffield", "SHF"},
	{"nottingham", "NOT"},
	{"newcastle", "NCL"},
	{"edinburgh", "EDB"},
	{"glasgow", "GLC"},

	// Cheshire
	{"chester", "CTR"},
	{"warrington", "WAC"},
	{"crewe", "CRE"},
	{"macclesfield", "MAC"},
}

// StationCode returns the CRS code for an exact lower-cased station name.
func StationCode(name string) (string, bool) {
	for _, s := range stations {
		if s.name == name {
			return s.code, true
		}
	}
	return "", false
}

// StationNames returns the station table keys in declaration order.
func StationNames() []string {
	names := make([]string, len(stations))
	for i, s := range stations {
		names[i] = s.name
	}
	return names
}

// StationName returns the first table name registered for a code.
func StationName(code string) (string, bool) {
	for _, s := range stations {
		if s.code == code {
			return s.name, true
		}
	}
	return "", false
}
