package content

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	derrors "git.home.luguber.info/inful/sitemapgen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitemapgen/internal/logfields"
	"git.home.luguber.info/inful/sitemapgen/internal/sitemap"
)

// DefaultPagesDir is the directory, relative to the content root, whose
// sources are pages rather than articles.
const DefaultPagesDir = "pages"

// Options controls Discover.
type Options struct {
	// Dir is the content root.
	Dir string
	// PagesDir is relative to Dir; empty means DefaultPagesDir.
	PagesDir string
	// GitLastmod fills in "modified" from Git history for sources that do
	// not set it.
	GitLastmod bool
	Logger     *slog.Logger
}

type source struct {
	rel    string
	fields map[string]any
	body   []byte
	fp     string
}

// Discover walks opts.Dir and returns its content in emission order: pages
// first, then articles, each article followed by the index nodes it
// references. Order within each group follows the source path. Sources with
// malformed front matter and drafts are skipped.
func Discover(ctx context.Context, opts Options) ([]Item, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	pagesDir := path.Clean(filepath.ToSlash(opts.PagesDir))
	if opts.PagesDir == "" {
		pagesDir = DefaultPagesDir
	}

	info, err := os.Stat(opts.Dir)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryNotFound, "content directory not found").
			WithContext("path", opts.Dir).Build()
	}
	if !info.IsDir() {
		return nil, derrors.ContentError("content path is not a directory").
			WithContext("path", opts.Dir).Build()
	}

	sources, err := readSources(ctx, opts.Dir, logger)
	if err != nil {
		return nil, err
	}
	if opts.GitLastmod {
		applyGitModTimes(opts.Dir, sources, logger)
	}

	var pages, articles []Item
	for _, src := range sources {
		md := sitemap.Metadata(src.fields)
		if status, _ := md.String("status"); strings.EqualFold(strings.TrimSpace(status), "draft") {
			logger.Debug("Skipping draft", logfields.Path(src.rel))
			continue
		}

		title := documentTitle(src)
		if isPage(src, pagesDir) {
			it := NewPage(itemURL(src, pagesDir, true), title, md)
			it.source, it.fingerprint = src.rel, src.fp
			pages = append(pages, it)
			continue
		}
		it := NewArticle(itemURL(src, pagesDir, false), title, md)
		it.source, it.fingerprint = src.rel, src.fp
		articles = append(articles, it)
		articles = append(articles, taxonomyItems(md, src.rel, logger)...)
	}

	logger.Info("Content discovered",
		logfields.Path(opts.Dir),
		slog.Int("pages", len(pages)),
		slog.Int("articles", countKind(articles, sitemap.KindArticle)))
	return append(pages, articles...), nil
}

func readSources(ctx context.Context, dir string, logger *slog.Logger) ([]source, error) {
	var sources []source
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if p != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(d.Name()), ".md") {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		raw, err := os.ReadFile(p)
		if err != nil {
			return derrors.WrapError(err, derrors.CategoryFileSystem, "read content source").
				WithContext("path", p).Build()
		}
		src, err := parseSource(rel, raw)
		if err != nil {
			logger.Warn("Skipping content with malformed front matter", logfields.Path(rel), logfields.Error(err))
			return nil
		}
		sources = append(sources, src)
		return nil
	})
	if err != nil {
		if _, ok := derrors.AsClassified(err); ok {
			return nil, err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, derrors.WrapError(err, derrors.CategoryFileSystem, "walk content directory").
			WithContext("path", dir).Build()
	}
	return sources, nil
}

func parseSource(rel string, raw []byte) (source, error) {
	fm, body, _, err := splitFrontMatter(raw)
	if err != nil {
		return source{}, err
	}
	fields, err := parseFrontMatter(fm)
	if err != nil {
		return source{}, err
	}
	fp, err := computeFingerprint(fields, body)
	if err != nil {
		return source{}, err
	}
	return source{rel: rel, fields: fields, body: body, fp: fp}, nil
}

func applyGitModTimes(dir string, sources []source, logger *slog.Logger) {
	var wanted []string
	for _, src := range sources {
		if _, set := src.fields["modified"]; !set {
			wanted = append(wanted, src.rel)
		}
	}
	if len(wanted) == 0 {
		return
	}

	times, err := gitModTimes(dir, wanted)
	if err != nil {
		logger.Warn("Git history unavailable; keeping front matter dates", logfields.Path(dir), logfields.Error(err))
		return
	}
	for i := range sources {
		if _, set := sources[i].fields["modified"]; set {
			continue
		}
		if t, ok := times[sources[i].rel]; ok {
			sources[i].fields["modified"] = t
		}
	}
}

func isPage(src source, pagesDir string) bool {
	if typ, ok := src.fields["type"].(string); ok && strings.EqualFold(strings.TrimSpace(typ), "page") {
		return true
	}
	return strings.HasPrefix(src.rel, pagesDir+"/")
}

// itemURL is the front matter "url" when set, else the source path with
// ".md" replaced by ".html". Pages live under "pages/". URLs are always
// relative to the site root.
func itemURL(src source, pagesDir string, page bool) string {
	if u, ok := src.fields["url"].(string); ok && strings.TrimSpace(u) != "" {
		return strings.TrimPrefix(strings.TrimSpace(u), "/")
	}
	rel := strings.TrimSuffix(src.rel, path.Ext(src.rel)) + ".html"
	if !page {
		return rel
	}
	if inPages, ok := strings.CutPrefix(rel, pagesDir+"/"); ok {
		rel = inPages
	}
	return "pages/" + rel
}

func documentTitle(src source) string {
	if t, ok := src.fields["title"].(string); ok && strings.TrimSpace(t) != "" {
		return strings.TrimSpace(t)
	}
	if t := headingTitle(src.body); t != "" {
		return t
	}
	base := path.Base(src.rel)
	return strings.TrimSuffix(base, path.Ext(base))
}

// taxonomyItems returns the index nodes an article references: its
// category, then its tags, then its authors.
func taxonomyItems(md sitemap.Metadata, rel string, logger *slog.Logger) []Item {
	var out []Item
	add := func(tax Taxonomy, names []string) {
		for _, name := range names {
			it, ok := NewIndex(tax, name)
			if !ok {
				logger.Warn("Ignoring taxonomy name without a usable slug",
					logfields.Path(rel), logfields.Kind(string(tax)), logfields.Name(name))
				continue
			}
			out = append(out, it)
		}
	}
	add(TaxonomyCategory, stringList(md["category"]))
	add(TaxonomyTag, stringList(md["tags"]))
	add(TaxonomyAuthor, append(stringList(md["author"]), stringList(md["authors"])...))
	return out
}

// stringList accepts a YAML list or a comma-separated string.
func stringList(v any) []string {
	var raw []string
	switch t := v.(type) {
	case string:
		raw = strings.Split(t, ",")
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
	case []string:
		raw = t
	}

	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func countKind(items []Item, kind sitemap.Kind) int {
	n := 0
	for _, it := range items {
		if it.kind == kind {
			n++
		}
	}
	return n
}
