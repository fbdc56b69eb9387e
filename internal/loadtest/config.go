package loadtest

import (
	"time"

	"github.com/okian/natal/internal/domain/astro"
)

// Config holds configuration for a load run
type Config struct {
	BaseURL    string        // Base URL of the service
	Charts     int           // Number of birth inputs to submit
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	Seed       uint64        // Seed for the input generator
	Verify     int           // Number of charts to read back and replay
	OutputFile string        // Output file for generated inputs, empty to skip
	Verbose    bool          // Enable verbose logging
}

// snapshotReply is the subset of a stored snapshot the run compares.
type snapshotReply struct {
	ID      string `json:"id"`
	Profile struct {
		CareerArchetype     string `json:"careerArchetype"`
		InvestmentArchetype string `json:"investmentArchetype"`
		TopRoles            []struct {
			Role  string  `json:"role"`
			Score float64 `json:"score"`
		} `json:"topRoles"`
	} `json:"profile"`
}

// Result is the outcome of submitting one input.
type Result struct {
	Index  int
	Input  astro.BirthInput
	Status int
	Reply  snapshotReply
	Err    error
}

// Stats holds run statistics
type Stats struct {
	ChartsGenerated int
	ChartsSubmitted int
	ChartsCreated   int
	ChartsRejected  int
	ChartsFailed    int
	ReadsVerified   int
	ReplaysVerified int
	Mismatches      int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}
