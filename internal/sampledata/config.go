package sampledata

import "time"

// Config holds configuration for the sample data generator.
type Config struct {
	Members      int       // Number of registry members
	Visitors     int       // Check-ins per day by people not in the registry
	Days         int       // Consecutive days of check-ins
	Start        time.Time // First day
	Seed         uint64    // Random seed; equal seeds give equal output
	OutputDir    string    // Where files are written
	LogName      string    // Check-in log file name
	RegistryName string    // Registry file name (.csv or .xlsx)
	Sheet        string    // Registry sheet name for .xlsx
}

// Member is one generated registry row.
type Member struct {
	ID      int64
	Name    string
	Subsidy int
	NoID    bool // the registry row carries no identifier
}

// CheckIn is one generated log line.
type CheckIn struct {
	ID         string
	Name       string
	Department string
	Time       time.Time
	Device     string
	Malformed  bool
}

// Dataset is everything Generate produces.
type Dataset struct {
	Members  []Member
	CheckIns []CheckIn
}
