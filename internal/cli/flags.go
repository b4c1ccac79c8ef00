package cli

import "time"

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile    string
	Input      string
	OutputPath string
	BatchFile  string
	Language   string
	Backup     bool
	DryRun     bool
	ListModels bool
	Verbose    bool
	Indent     int

	// Provider flags
	Provider    string
	Model       string
	BaseURL     string
	Temperature float64
	Timeout     time.Duration
	Prompt      string
	Marker      string

	// Cache and limits
	CachePath       string
	NoCache         bool
	RPS             float64
	BreakerFailures int
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Language:        "zh",
		Indent:          1,
		Provider:        "openai",
		Model:           "gpt-4o-mini",
		Temperature:     0.3,
		Timeout:         2 * time.Minute,
		Marker:          `"""`,
		BreakerFailures: 3,
	}
}
