package api

// MultiplyRequest submits one multiply to the runtime.
type MultiplyRequest struct {
	// N is the matrix order. Required.
	N int `json:"n"`
	// Tile is the tile width for the grid device. Zero selects the default.
	Tile int `json:"tile,omitempty"`
	// Device is auto, grid, or cpu. Empty means auto.
	Device string `json:"device,omitempty"`
	// Lanes is the number of cooperating lanes per workgroup.
	Lanes int `json:"lanes,omitempty"`
	// Seed selects reproducible random inputs; zero selects the standard
	// modular test patterns instead.
	Seed int64 `json:"seed,omitempty"`
	// Verify compares the output against the scalar reference.
	Verify bool `json:"verify,omitempty"`
	// Tol overrides the verification tolerance.
	Tol float64 `json:"tol,omitempty"`
}

// Job is the record of one completed multiply.
type Job struct {
	ID         string  `json:"id"`
	Object     string  `json:"object"`
	Status     string  `json:"status"`
	N          int     `json:"n"`
	Tile       int     `json:"tile"`
	Lanes      int     `json:"lanes,omitempty"`
	Device     string  `json:"device"`
	Seconds    float64 `json:"seconds"`
	GFLOPS     float64 `json:"gflops"`
	Checksum   float64 `json:"checksum"`
	Verified   *bool   `json:"verified,omitempty"`
	VerifyInfo string  `json:"verify_info,omitempty"`
	Error      string  `json:"error,omitempty"`
	CreatedAt  int64   `json:"created_at"`
}

// JobList wraps job listings.
type JobList struct {
	Object string `json:"object"`
	Data   []Job  `json:"data"`
}

// DevicesResponse describes the available devices and the host.
type DevicesResponse struct {
	Object  string   `json:"object"`
	Devices []string `json:"devices"`
	Host    any      `json:"host"`
}

// APIError is the error envelope body.
type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Param   string `json:"param,omitempty"`
}

const (
	statusCompleted = "completed"
	statusFailed    = "failed"
)
