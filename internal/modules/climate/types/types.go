package types

// Station is one row of the station table.
type Station struct {
	ID        string  `json:"station"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Elevation float64 `json:"elevation"`
}

// Measurement is one observation row of the measurement table. Date is kept in
// the dataset's ISO form (YYYY-MM-DD) so it compares lexically.
type Measurement struct {
	StationID     string   `json:"station"`
	Date          string   `json:"date"`
	Precipitation *float64 `json:"prcp"`
	Tobs          int      `json:"tobs"`
}

// Precipitation is the (date, prcp) projection used by the precipitation route.
type Precipitation struct {
	Date  string
	Value *float64
}

// TemperatureStats holds MIN/AVG/MAX of tobs. All three are nil when no row matched.
type TemperatureStats struct {
	Min *float64
	Avg *float64
	Max *float64
}

// Triple returns the stats in the [min, avg, max] order used on the wire.
func (s TemperatureStats) Triple() []*float64 {
	return []*float64{s.Min, s.Avg, s.Max}
}

// Column describes one column reported by PRAGMA table_info.
type Column struct {
	CID        int
	Name       string
	Type       string
	NotNull    bool
	Default    *string
	PrimaryKey bool
}
