package service

import (
	"time"

	"github.com/okian/mealrecon/internal/config"
	"github.com/okian/mealrecon/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPolicy sets the billing policy.
func WithPolicy(p config.Policy) Option {
	return func(s *Service) {
		s.policy = p
	}
}

// WithInputs sets the check-in log and registry locations.
func WithInputs(checkinPath, registryPath, registrySheet string) Option {
	return func(s *Service) {
		if checkinPath != "" {
			s.checkinPath = checkinPath
		}
		if registryPath != "" {
			s.registryPath = registryPath
		}
		s.registrySheet = registrySheet
	}
}

// WithCheckinHeader controls whether the log starts with a header line.
func WithCheckinHeader(header bool) Option {
	return func(s *Service) {
		s.checkinHeader = header
	}
}

// WithOutputDir sets where artifacts are written.
func WithOutputDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.outputDir = dir
		}
	}
}

// WithTopMembers caps the member table of the text report.
func WithTopMembers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topMembers = n
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRunID fixes the run identifier instead of generating one.
func WithRunID(id string) Option {
	return func(s *Service) {
		if id != "" {
			s.newRunID = func() string { return id }
		}
	}
}
