package domain

// Coordinates are a WGS84 position in decimal degrees.
type Coordinates struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Valid reports whether the position lies on the globe.
func (c Coordinates) Valid() bool {
	return c.Lon >= -180 && c.Lon <= 180 && c.Lat >= -90 && c.Lat <= 90
}

// LonLat returns the [lon, lat] pair routing engines expect.
func (c Coordinates) LonLat() []float64 { return []float64{c.Lon, c.Lat} }
