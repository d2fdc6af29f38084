package main

import (
	"fmt"
	"log/slog"
	"time"

	"bookdroplist/internal/catalog"
	"bookdroplist/internal/catalog/covers"
	"bookdroplist/internal/catalog/googlebooks"
	"bookdroplist/internal/catalog/openlibrary"
	"bookdroplist/internal/config"
	"bookdroplist/internal/enrich"
	"bookdroplist/internal/geo"
	"bookdroplist/internal/lists"
	"bookdroplist/internal/minilibrary"
	"bookdroplist/internal/ratelimit"
	"bookdroplist/internal/store"
	"bookdroplist/internal/vision"
)

// buildService assembles the pipeline from configuration. Optional
// integrations without credentials are still wired; they report their own
// configuration errors when used.
func buildService(cfg *config.Config, st *store.Store, logger *slog.Logger) (*lists.Service, error) {
	googleBooks, err := googlebooks.New(
		cfg.GoogleBooks.APIKey,
		cfg.GoogleBooks.BaseURL,
		seconds(cfg.GoogleBooks.TimeoutSeconds))
	if err != nil {
		return nil, fmt.Errorf("googlebooks client: %w", err)
	}
	openLibrary, err := openlibrary.New(
		cfg.OpenLibrary.BaseURL,
		cfg.OpenLibrary.CoversBaseURL,
		seconds(cfg.OpenLibrary.TimeoutSeconds))
	if err != nil {
		return nil, fmt.Errorf("openlibrary client: %w", err)
	}
	coverService, err := covers.New(cfg.Covers.BaseURL, seconds(cfg.Covers.TimeoutSeconds))
	if err != nil {
		return nil, fmt.Errorf("covers client: %w", err)
	}
	geocoder, err := geo.New(
		cfg.Geocoding.APIKey,
		cfg.Geocoding.BaseURL,
		seconds(cfg.Geocoding.TimeoutSeconds))
	if err != nil {
		return nil, fmt.Errorf("geocoding client: %w", err)
	}

	searcher := catalog.NewSearcher(
		[]catalog.Catalog{googleBooks, openLibrary},
		cfg.Search.ResultLimit,
		logger)
	enricher := enrich.New(searcher, googleBooks, openLibrary, coverService, logger)

	extractor := vision.NewClient(vision.Config{
		APIKey:         cfg.Vision.APIKey,
		BaseURL:        cfg.Vision.BaseURL,
		Model:          cfg.Vision.Model,
		TimeoutSeconds: cfg.Vision.TimeoutSeconds,
	})

	return lists.New(lists.Options{
		Store:    st,
		Vision:   extractor,
		Enricher: enricher,
		Searcher: searcher,
		Detector: minilibrary.New(minilibrary.Thresholds{
			Match:            cfg.Detector.MatchThreshold,
			AddConfidence:    cfg.Detector.AddConfidence,
			RemoveConfidence: cfg.Detector.RemoveConfidence,
		}),
		Geocoder: geocoder,
		Limiter: ratelimit.New(
			seconds(cfg.RateLimit.WindowSeconds),
			seconds(cfg.RateLimit.EvictionSeconds)),
		BaseURL: cfg.Server.BaseURL,
		Logger:  logger,
	})
}

func seconds(value int) time.Duration {
	return time.Duration(value) * time.Second
}
