package sitemap

import (
	"log/slog"
	"maps"
	"path/filepath"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/sitemapgen/internal/foundation/normalization"
	"git.home.luguber.info/inful/sitemapgen/internal/logfields"
)

// Format selects the sitemap document format.
type Format string

const (
	FormatXML Format = "xml"
	FormatTXT Format = "txt"
)

var formatNormalizer = normalization.NewStrictNormalizer(map[string]Format{
	"xml": FormatXML,
	"txt": FormatTXT,
}, FormatXML)

// Category is a content category with its own frequency and priority defaults.
type Category string

const (
	CategoryArticles Category = "articles"
	CategoryPages    Category = "pages"
	CategoryIndexes  Category = "indexes"
)

// Categories lists every category in a stable order.
var Categories = []Category{CategoryArticles, CategoryIndexes, CategoryPages}

const defaultPriority = 0.5

// DefaultFrequencies returns a fresh copy of the per-category frequency defaults.
func DefaultFrequencies() map[Category]Frequency {
	return map[Category]Frequency{
		CategoryArticles: FrequencyMonthly,
		CategoryPages:    FrequencyMonthly,
		CategoryIndexes:  FrequencyDaily,
	}
}

// DefaultPriorities returns a fresh copy of the per-category priority defaults.
func DefaultPriorities() map[Category]float64 {
	return map[Category]float64{
		CategoryArticles: defaultPriority,
		CategoryPages:    defaultPriority,
		CategoryIndexes:  defaultPriority,
	}
}

// Settings is the validated, fully defaulted sitemap configuration for one build.
type Settings struct {
	// SiteURL always ends with "/".
	SiteURL  string
	Compress bool
	Format   Format
	// OutPath is the absolute directory the sitemap files are written to.
	OutPath string
	// MapRoot is the absolute URL under which the sitemap files are published.
	MapRoot     string
	Frequencies map[Category]Frequency
	Priorities  map[Category]float64
	// Include holds the raw inclusion specs that are mappings.
	Include []map[string]any
	Exclude []*regexp.Regexp
}

// ParseSettings turns the raw SITEMAP mapping into Settings. It never fails:
// every malformed field is logged and replaced by its default.
func ParseSettings(raw any, outputRoot, siteURL string, logger *slog.Logger) Settings {
	if logger == nil {
		logger = slog.Default()
	}
	cfg, ok := asMapping(raw)
	if !ok {
		if raw != nil {
			logger.Warn("Sitemap settings not specified as mapping; using defaults", logfields.Value(raw))
		}
		cfg = map[string]any{}
	}

	s := Settings{SiteURL: siteURL}
	if !strings.HasSuffix(s.SiteURL, "/") {
		s.SiteURL += "/"
	}

	outPath := parseOutPath(cfg, logger)
	s.OutPath = resolveOutPath(outputRoot, outPath)
	s.MapRoot = resolveMapRoot(s.SiteURL, outPath, logger)
	s.Compress = parseCompress(cfg, logger)
	s.Format = parseFormat(cfg, logger)
	s.Frequencies = parseFrequencies(cfg, logger)
	s.Priorities = parsePriorities(cfg, logger)
	s.Include = parseInclude(cfg, logger)
	s.Exclude = parseExclude(cfg, logger)
	return s
}

func parseOutPath(cfg map[string]any, logger *slog.Logger) string {
	v, ok := cfg["out_path"]
	if !ok || v == nil {
		return "."
	}
	p, isString := v.(string)
	if !isString || strings.TrimSpace(p) == "" {
		logger.Warn("Sitemap output path invalid; defaulting to output directory", logfields.Value(v))
		return "."
	}
	return p
}

func resolveOutPath(outputRoot, outPath string) string {
	p := outPath
	if !filepath.IsAbs(p) {
		p = filepath.Join(outputRoot, p)
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return abs
}

func resolveMapRoot(siteURL, outPath string, logger *slog.Logger) string {
	ref := filepath.ToSlash(outPath)
	if !strings.HasSuffix(ref, "/") {
		ref += "/"
	}
	root, err := resolveURL(siteURL, escapeURL(ref))
	if err != nil {
		logger.Warn("Could not resolve sitemap URL root; using site URL", logfields.URL(siteURL), logfields.Error(err))
		return siteURL
	}
	return root
}

func parseCompress(cfg map[string]any, logger *slog.Logger) bool {
	v, ok := cfg["compress"]
	if !ok || v == nil {
		return true
	}
	b, isBool := v.(bool)
	if !isBool {
		logger.Warn("Compression setting not specified as boolean; defaulting to true", logfields.Value(v))
		return true
	}
	return b
}

func parseFormat(cfg map[string]any, logger *slog.Logger) Format {
	v, ok := cfg["format"]
	if !ok || v == nil {
		return FormatXML
	}
	if s, isString := v.(string); isString {
		if f, valid := formatNormalizer.Lookup(s); valid {
			return f
		}
	}
	logger.Warn("Sitemap format invalid; defaulting to xml", logfields.Value(v), logfields.Default(string(FormatXML)))
	return FormatXML
}

func parseFrequencies(cfg map[string]any, logger *slog.Logger) map[Category]Frequency {
	defaults := DefaultFrequencies()
	v, present := cfg["frequencies"]
	m, ok := asMapping(v)
	if !ok {
		if present && v != nil {
			logger.Warn("Frequencies not specified as mapping; using defaults", logfields.Value(v))
		}
		return defaults
	}

	out := maps.Clone(defaults)
	for _, cat := range Categories {
		raw, has := m[string(cat)]
		if !has || raw == nil {
			logger.Info("Frequency not specified; using default",
				logfields.Field(string(cat)), logfields.Default(string(defaults[cat])))
			continue
		}
		s, isString := raw.(string)
		f, valid := ParseFrequency(s)
		if !isString || !valid {
			logger.Warn("Frequency invalid; using default",
				logfields.Field(string(cat)), logfields.Value(raw), logfields.Default(string(defaults[cat])))
			continue
		}
		out[cat] = f
	}
	return out
}

func parsePriorities(cfg map[string]any, logger *slog.Logger) map[Category]float64 {
	defaults := DefaultPriorities()
	v, present := cfg["priorities"]
	m, ok := asMapping(v)
	if !ok {
		if present && v != nil {
			logger.Warn("Priorities not specified as mapping; using defaults", logfields.Value(v))
		}
		return defaults
	}

	out := maps.Clone(defaults)
	for _, cat := range Categories {
		raw, has := m[string(cat)]
		if !has || raw == nil {
			logger.Info("Priority not specified; using default",
				logfields.Field(string(cat)), logfields.Default(defaults[cat]))
			continue
		}
		p, isNum := asNumber(raw)
		if !isNum || !ValidPriority(p) {
			logger.Warn("Priority invalid; using default",
				logfields.Field(string(cat)), logfields.Value(raw), logfields.Default(defaults[cat]))
			continue
		}
		out[cat] = p
	}
	return out
}

func parseInclude(cfg map[string]any, logger *slog.Logger) []map[string]any {
	v, present := cfg["include"]
	seq, ok := asSequence(v)
	if !ok {
		if present && v != nil {
			logger.Warn("URL inclusions not specified as list; defaulting to none", logfields.Value(v))
		}
		return []map[string]any{}
	}

	out := make([]map[string]any, 0, len(seq))
	dropped := 0
	for _, item := range seq {
		m, isMap := asMapping(item)
		if !isMap {
			dropped++
			logger.Debug("Dropping URL inclusion that is not a mapping", logfields.Value(item))
			continue
		}
		if _, hasURL := m["url"]; !hasURL {
			dropped++
			logger.Debug("Dropping URL inclusion without a url key", logfields.Value(item))
			continue
		}
		out = append(out, m)
	}
	if dropped > 0 {
		logger.Warn("Not including URLs specified incorrectly; check settings", logfields.Count(dropped))
	}
	return out
}

func parseExclude(cfg map[string]any, logger *slog.Logger) []*regexp.Regexp {
	v, present := cfg["exclude"]
	seq, ok := asSequence(v)
	if !ok {
		if present && v != nil {
			logger.Warn("URL exclusions not specified as list; defaulting to none", logfields.Value(v))
		}
		return []*regexp.Regexp{}
	}

	out := make([]*regexp.Regexp, 0, len(seq))
	for _, item := range seq {
		pattern, isString := item.(string)
		if !isString {
			logger.Warn("URL exclusion is not a string; skipping", logfields.Value(item))
			continue
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			logger.Warn("URL exclusion is not a valid pattern; skipping", logfields.Value(pattern), logfields.Error(err))
			continue
		}
		out = append(out, re)
	}
	return out
}
