package config

// Default values applied before a config file is decoded.
const (
	DefaultBind    = "127.0.0.1:8484"
	DefaultBaseURL = "http://127.0.0.1:8484"

	DefaultDataDir = "~/.local/share/bookdroplist"
	DefaultLogDir  = "~/.local/share/bookdroplist/logs"

	DefaultVisionBaseURL        = "https://generativelanguage.googleapis.com/v1beta"
	DefaultVisionModel          = "gemini-2.0-flash"
	DefaultVisionTimeoutSeconds = 60

	DefaultGoogleBooksBaseURL        = "https://www.googleapis.com/books/v1"
	DefaultGoogleBooksTimeoutSeconds = 10

	DefaultOpenLibraryBaseURL        = "https://openlibrary.org"
	DefaultOpenLibraryCoversBaseURL  = "https://covers.openlibrary.org"
	DefaultOpenLibraryTimeoutSeconds = 10

	DefaultCoversBaseURL        = "https://bookcover.longitood.com"
	DefaultCoversTimeoutSeconds = 10

	DefaultGeocodingBaseURL        = "https://maps.googleapis.com/maps/api/geocode/json"
	DefaultGeocodingTimeoutSeconds = 10

	DefaultSearchResultLimit = 8

	DefaultMatchThreshold   = 0.6
	DefaultAddConfidence    = 0.8
	DefaultRemoveConfidence = 0.6

	DefaultRateLimitWindowSeconds   = 5
	DefaultRateLimitEvictionSeconds = 60

	DefaultLogFormat = "auto"
	DefaultLogLevel  = "info"
)

// Default returns a fully populated configuration. Credentialed services
// (vision, geocoding) default to empty keys; their clients refuse to run
// until configured.
func Default() Config {
	return Config{
		Server: Server{
			Bind:    DefaultBind,
			BaseURL: DefaultBaseURL,
		},
		Paths: Paths{
			DataDir: DefaultDataDir,
			LogDir:  DefaultLogDir,
		},
		Vision: Vision{
			BaseURL:        DefaultVisionBaseURL,
			Model:          DefaultVisionModel,
			TimeoutSeconds: DefaultVisionTimeoutSeconds,
		},
		GoogleBooks: GoogleBooks{
			BaseURL:        DefaultGoogleBooksBaseURL,
			TimeoutSeconds: DefaultGoogleBooksTimeoutSeconds,
		},
		OpenLibrary: OpenLibrary{
			BaseURL:        DefaultOpenLibraryBaseURL,
			CoversBaseURL:  DefaultOpenLibraryCoversBaseURL,
			TimeoutSeconds: DefaultOpenLibraryTimeoutSeconds,
		},
		Covers: Covers{
			BaseURL:        DefaultCoversBaseURL,
			TimeoutSeconds: DefaultCoversTimeoutSeconds,
		},
		Geocoding: Geocoding{
			BaseURL:        DefaultGeocodingBaseURL,
			TimeoutSeconds: DefaultGeocodingTimeoutSeconds,
		},
		Search: Search{
			ResultLimit: DefaultSearchResultLimit,
		},
		Detector: Detector{
			MatchThreshold:   DefaultMatchThreshold,
			AddConfidence:    DefaultAddConfidence,
			RemoveConfidence: DefaultRemoveConfidence,
		},
		RateLimit: RateLimit{
			WindowSeconds:   DefaultRateLimitWindowSeconds,
			EvictionSeconds: DefaultRateLimitEvictionSeconds,
		},
		Logging: Logging{
			Format: DefaultLogFormat,
			Level:  DefaultLogLevel,
		},
	}
}
