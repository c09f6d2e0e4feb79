package domain

// Status is the tag the flood API attaches to every read response.
type Status string

const (
	StatusSuccess Status = "success"
	StatusWarning Status = "warning" // backend degraded: mock data, no map or tiles
	StatusError   Status = "error"
)

// Statistics summarizes flood impact at one level.
type Statistics struct {
	AffectedAreaKm2        float64 `json:"affected_area_km2"`
	PopulationAtRisk       float64 `json:"population_at_risk"`
	InfrastructureAffected float64 `json:"infrastructure_affected"`
	FloodLevel             float64 `json:"flood_level"`
}

// MapData describes the map viewport and layers for one level.
type MapData struct {
	Center     []float64      `json:"center"` // [lat, lon]
	Zoom       float64        `json:"zoom"`
	FloodLevel float64        `json:"flood_level"`
	Layers     map[string]any `json:"layers"`
}

// FloodData is the response of GET /api/flood-level/{level}.
type FloodData struct {
	Status     Status     `json:"status"`
	Message    string     `json:"message,omitempty"`
	FloodLevel float64    `json:"flood_level"`
	MapData    MapData    `json:"map_data"`
	Statistics Statistics `json:"statistics"`
}

// StatisticsResult is the response of GET /api/statistics/{level}.
type StatisticsResult struct {
	Status     Status     `json:"status"`
	Message    string     `json:"message,omitempty"`
	FloodLevel float64    `json:"flood_level"`
	Statistics Statistics `json:"statistics"`
}

// TileURLResult is the response of GET /api/tile-url/{level}. TileURL is
// empty when the backend has no tile source.
type TileURLResult struct {
	Status     Status  `json:"status"`
	Message    string  `json:"message,omitempty"`
	FloodLevel float64 `json:"flood_level"`
	TileURL    string  `json:"tile_url,omitempty"`
}

// MapRenderResult is the response of GET /api/map/{level}: an opaque
// reference to server-rendered map content.
type MapRenderResult struct {
	Status     Status  `json:"status"`
	Message    string  `json:"message,omitempty"`
	FloodLevel float64 `json:"flood_level"`
	MapURL     string  `json:"map_url,omitempty"`
}

// Renderable reports whether the result carries a map that can be mounted.
func (r MapRenderResult) Renderable() bool {
	return r.Status == StatusSuccess && r.MapURL != ""
}
