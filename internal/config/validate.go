package config

import (
	"fmt"
	"strings"
)

// Validate checks the configuration for invalid values. Validation covers
// structural problems only; missing credentials are reported by the
// services that need them.
func (c *Config) Validate() error {
	var problems []string

	appendProblem := func(check func() error) {
		if err := check(); err != nil {
			problems = append(problems, err.Error())
		}
	}

	appendProblem(c.Server.validate)
	appendProblem(c.Paths.validate)
	appendProblem(c.Vision.validate)
	appendProblem(c.GoogleBooks.validate)
	appendProblem(c.OpenLibrary.validate)
	appendProblem(c.Covers.validate)
	appendProblem(c.Geocoding.validate)
	appendProblem(c.Search.validate)
	appendProblem(c.Detector.validate)
	appendProblem(c.RateLimit.validate)
	appendProblem(c.Logging.validate)

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (s *Server) validate() error {
	if s.Bind == "" {
		return fmt.Errorf("server.bind must be set")
	}
	return nil
}

func (p *Paths) validate() error {
	if strings.TrimSpace(p.DataDir) == "" {
		return fmt.Errorf("paths.data_dir must be set")
	}
	return nil
}

func (v *Vision) validate() error {
	if v.BaseURL == "" {
		return fmt.Errorf("vision.base_url must be set")
	}
	if v.Model == "" {
		return fmt.Errorf("vision.model must be set")
	}
	if v.TimeoutSeconds <= 0 {
		return fmt.Errorf("vision.timeout_seconds must be positive")
	}
	return nil
}

func (g *GoogleBooks) validate() error {
	if g.BaseURL == "" {
		return fmt.Errorf("googlebooks.base_url must be set")
	}
	if g.TimeoutSeconds <= 0 {
		return fmt.Errorf("googlebooks.timeout_seconds must be positive")
	}
	return nil
}

func (o *OpenLibrary) validate() error {
	if o.BaseURL == "" {
		return fmt.Errorf("openlibrary.base_url must be set")
	}
	if o.CoversBaseURL == "" {
		return fmt.Errorf("openlibrary.covers_base_url must be set")
	}
	if o.TimeoutSeconds <= 0 {
		return fmt.Errorf("openlibrary.timeout_seconds must be positive")
	}
	return nil
}

func (cv *Covers) validate() error {
	if cv.BaseURL == "" {
		return fmt.Errorf("covers.base_url must be set")
	}
	if cv.TimeoutSeconds <= 0 {
		return fmt.Errorf("covers.timeout_seconds must be positive")
	}
	return nil
}

func (g *Geocoding) validate() error {
	if g.BaseURL == "" {
		return fmt.Errorf("geocoding.base_url must be set")
	}
	if g.TimeoutSeconds <= 0 {
		return fmt.Errorf("geocoding.timeout_seconds must be positive")
	}
	return nil
}

func (s *Search) validate() error {
	if s.ResultLimit <= 0 {
		return fmt.Errorf("search.result_limit must be positive")
	}
	return nil
}

func (d *Detector) validate() error {
	for name, value := range map[string]float64{
		"detector.match_threshold":   d.MatchThreshold,
		"detector.add_confidence":    d.AddConfidence,
		"detector.remove_confidence": d.RemoveConfidence,
	} {
		if value <= 0 || value > 1 {
			return fmt.Errorf("%s must be in (0, 1]", name)
		}
	}
	return nil
}

func (r *RateLimit) validate() error {
	if r.WindowSeconds <= 0 {
		return fmt.Errorf("ratelimit.window_seconds must be positive")
	}
	if r.EvictionSeconds < r.WindowSeconds {
		return fmt.Errorf("ratelimit.eviction_seconds must be at least the window")
	}
	return nil
}

func (l *Logging) validate() error {
	switch l.Format {
	case "auto", "console", "json":
	default:
		return fmt.Errorf("logging.format must be auto, console, or json")
	}
	switch strings.ToLower(l.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error")
	}
	return nil
}
