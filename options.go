package skyline

import (
	"github.com/rs/zerolog"

	"github.com/skylinehq/skyline/pkg/dedupe"
	"github.com/skylinehq/skyline/pkg/pipeline"
	"github.com/skylinehq/skyline/pkg/resolve"
)

// options holds the facade's construction-time settings.
type options struct {
	registryBaseURL string
	registryTable   string
	registryAPIKey  string
	placesAPIKey    string
	geminiAPIKey    string

	exceptionsFile string
	exceptions     *dedupe.ExceptionList

	logger *zerolog.Logger
	dryRun bool

	// Injected collaborators override the client construction above,
	// mainly for tests.
	repo        pipeline.Repository
	placeSearch resolve.PlaceSearch
	discoverer  pipeline.Discoverer
}

// Option configures the facade.
type Option func(*options)

// WithRegistry points the facade at a record store.
func WithRegistry(baseURL, table, apiKey string) Option {
	return func(o *options) {
		o.registryBaseURL = baseURL
		o.registryTable = table
		o.registryAPIKey = apiKey
	}
}

// WithPlacesKey sets the place-search API key.
func WithPlacesKey(apiKey string) Option {
	return func(o *options) { o.placesAPIKey = apiKey }
}

// WithGeminiKey sets the generative-discovery API key.
func WithGeminiKey(apiKey string) Option {
	return func(o *options) { o.geminiAPIKey = apiKey }
}

// WithExceptionsFile loads the never-merge list from a YAML file.
func WithExceptionsFile(path string) Option {
	return func(o *options) { o.exceptionsFile = path }
}

// WithExceptions sets the never-merge list directly.
func WithExceptions(list *dedupe.ExceptionList) Option {
	return func(o *options) { o.exceptions = list }
}

// WithLogger sets the facade's logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithDryRun makes every flow log intended mutations without issuing them.
func WithDryRun(dryRun bool) Option {
	return func(o *options) { o.dryRun = dryRun }
}

// WithRepository injects a record store, bypassing client construction.
func WithRepository(repo pipeline.Repository) Option {
	return func(o *options) { o.repo = repo }
}

// WithPlaceSearch injects a place index, bypassing client construction.
func WithPlaceSearch(index resolve.PlaceSearch) Option {
	return func(o *options) { o.placeSearch = index }
}

// WithDiscoverer injects a discoverer, bypassing client construction.
func WithDiscoverer(d pipeline.Discoverer) Option {
	return func(o *options) { o.discoverer = d }
}
