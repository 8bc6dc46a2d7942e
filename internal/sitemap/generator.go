package sitemap

import (
	"log/slog"
	"strings"
	"time"

	derrors "git.home.luguber.info/inful/sitemapgen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitemapgen/internal/logfields"
	"git.home.luguber.info/inful/sitemapgen/internal/metrics"
	"git.home.luguber.info/inful/sitemapgen/internal/util/sets"
)

// MaxURLPerFile is the sitemaps.org limit of URLs per sitemap document.
const MaxURLPerFile = 50000

// SiteSettings are the build-wide inputs the generator needs from the host.
type SiteSettings struct {
	// SiteURL is required; sitemap URLs are absolute.
	SiteURL string
	// Timezone is an IANA name; empty means UTC.
	Timezone string
	// Sitemap is the raw, untrusted sitemap configuration mapping.
	Sitemap any
}

// Generator accumulates sitemap entries over one build. It is not safe for
// concurrent AddEntry calls.
type Generator struct {
	settings       Settings
	location       *time.Location
	startTime      time.Time
	entries        []Entry
	seenIndexes    sets.Set[string]
	logger         *slog.Logger
	recorder       metrics.Recorder
	maxURLsPerFile int
	now            func() time.Time
	written        []string
	lastWrite      WriteSummary
}

// Option configures a Generator.
type Option func(*Generator)

func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

func WithRecorder(r metrics.Recorder) Option {
	return func(g *Generator) {
		if r != nil {
			g.recorder = r
		}
	}
}

// WithMaxURLsPerFile overrides MaxURLPerFile; values below 1 are ignored.
func WithMaxURLsPerFile(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxURLsPerFile = n
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// New starts a build: it parses the sitemap settings, captures the build
// start time and seeds the generator with the configured extra URLs. A
// missing site URL is the only error.
func New(site SiteSettings, outputPath string, opts ...Option) (*Generator, error) {
	g := &Generator{
		logger:         slog.Default(),
		recorder:       metrics.NoopRecorder{},
		maxURLsPerFile: MaxURLPerFile,
		now:            time.Now,
		seenIndexes:    sets.New[string](),
	}
	for _, opt := range opts {
		opt(g)
	}

	if strings.TrimSpace(site.SiteURL) == "" {
		g.logger.Error("SITEURL not defined; cannot create sitemap")
		return nil, derrors.ConfigError("site url not defined; cannot create sitemap").
			WithContext("setting", "site_url").Build()
	}

	g.location = loadLocation(site.Timezone, g.logger)
	g.startTime = g.now().In(g.location)
	g.settings = ParseSettings(site.Sitemap, outputPath, site.SiteURL, g.logger)
	g.entries = MakeIncludedURLEntries(g.settings.Include, g.location, g.logger)

	g.logger.Debug("Sitemap generator initialized",
		logfields.URL(g.settings.SiteURL),
		logfields.Format(string(g.settings.Format)),
		logfields.Path(g.settings.OutPath),
		logfields.Count(len(g.entries)))
	return g, nil
}

func loadLocation(name string, logger *slog.Logger) *time.Location {
	if strings.TrimSpace(name) == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		logger.Warn("Unknown timezone; using UTC", logfields.Value(name), logfields.Error(err))
		return time.UTC
	}
	return loc
}

func (g *Generator) Settings() Settings       { return g.settings }
func (g *Generator) Location() *time.Location { return g.location }
func (g *Generator) StartTime() time.Time     { return g.startTime }
func (g *Generator) Len() int                 { return len(g.entries) }

// Entries returns a copy of the collected entries in insertion order.
func (g *Generator) Entries() []Entry {
	out := make([]Entry, len(g.entries))
	copy(out, g.entries)
	return out
}

// AddEntry considers one content item written to path during the build.
func (g *Generator) AddEntry(path string, c Content) {
	kind := KindUnknown
	if c != nil {
		kind = c.Kind()
	}

	switch kind {
	case KindArticle:
		g.addDocumentEntry(path, c, CategoryArticles)
	case KindPage:
		g.addDocumentEntry(path, c, CategoryPages)
	case KindIndex:
		g.addIndexEntry(path, c)
	default:
		g.logger.Debug("Could not determine what type of output the path belonged to", logfields.Path(path))
	}
}

func (g *Generator) addDocumentEntry(path string, c Content, cat Category) {
	if reason, excluded := exclusionReason(c, g.settings.Exclude); excluded {
		g.recorder.IncEntryExcluded(reason)
		g.logger.Debug("Content excluded from sitemap", logfields.Path(path), slog.String("reason", string(reason)))
		return
	}

	loc, err := g.contentURL(c)
	if err != nil {
		g.logger.Warn("Content URL could not be resolved; skipping", logfields.Path(path), logfields.Error(err))
		return
	}

	md := c.Metadata()
	entry, err := NewEntry(loc,
		someTime(lastModified(md, g.location, g.now, g.logger)),
		someFrequency(g.itemFrequency(path, md, g.settings.Frequencies[cat])),
		someFloat(g.itemPriority(path, md, g.settings.Priorities[cat])))
	if err != nil {
		g.logger.Warn("Content entry rejected", logfields.Path(path), logfields.Error(err))
		return
	}
	g.append(entry, c.Kind())
}

func (g *Generator) addIndexEntry(path string, c Content) {
	name := c.Name()
	if !g.seenIndexes.AddIfAbsent(name) {
		return
	}

	loc, err := g.contentURL(c)
	if err != nil {
		g.logger.Warn("Index URL could not be resolved; skipping", logfields.Path(path), logfields.Name(name), logfields.Error(err))
		return
	}

	entry, err := NewEntry(loc,
		someTime(g.startTime),
		someFrequency(g.settings.Frequencies[CategoryIndexes]),
		someFloat(g.settings.Priorities[CategoryIndexes]))
	if err != nil {
		g.logger.Warn("Index entry rejected", logfields.Path(path), logfields.Error(err))
		return
	}
	g.append(entry, KindIndex)
}

func (g *Generator) append(e Entry, kind Kind) {
	g.entries = append(g.entries, e)
	g.recorder.IncEntryAdded(kind.String())
}

func (g *Generator) contentURL(c Content) (string, error) {
	return resolveURL(g.settings.SiteURL, escapeURL(c.URL()))
}

// itemFrequency applies the sitemap_freq override, falling back to def.
func (g *Generator) itemFrequency(path string, md Metadata, def Frequency) Frequency {
	v, ok := md.Lookup("sitemap_freq")
	if !ok {
		return def
	}
	if s, isString := v.(string); isString {
		if f, valid := ParseFrequency(strings.TrimSpace(s)); valid {
			return f
		}
	}
	g.recorder.IncFallback("frequency")
	g.logger.Warn("Content has invalid frequency value; using default value",
		logfields.Path(path), logfields.Value(v), logfields.Default(string(def)))
	return def
}

// itemPriority applies the sitemap_pri override, falling back to def.
func (g *Generator) itemPriority(path string, md Metadata, def float64) float64 {
	v, ok := md.Lookup("sitemap_pri")
	if !ok {
		return def
	}
	if p, parsed := parsePriority(v); parsed && ValidPriority(p) {
		return p
	}
	g.recorder.IncFallback("priority")
	g.logger.Warn("Content has invalid priority value; using default value",
		logfields.Path(path), logfields.Value(v), logfields.Default(def))
	return def
}
