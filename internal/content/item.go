package content

import (
	"maps"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/sitemapgen/internal/sitemap"
)

// Taxonomy is the kind of index node an article can reference.
type Taxonomy string

const (
	TaxonomyCategory Taxonomy = "category"
	TaxonomyTag      Taxonomy = "tag"
	TaxonomyAuthor   Taxonomy = "author"
)

// Item is one article, page or index node. It implements sitemap.Content.
type Item struct {
	kind        sitemap.Kind
	url         string
	name        string
	title       string
	metadata    sitemap.Metadata
	source      string
	fingerprint string
}

var _ sitemap.Content = Item{}

func (i Item) Kind() sitemap.Kind         { return i.kind }
func (i Item) URL() string                { return i.url }
func (i Item) Metadata() sitemap.Metadata { return i.metadata }
func (i Item) Name() string               { return i.name }

// Title is the display name: the document title, or the taxonomy name as
// written in front matter.
func (i Item) Title() string { return i.title }

// Source is the Markdown file the item came from, relative to the content
// directory. Index items have no source.
func (i Item) Source() string { return i.source }

// Fingerprint is the mdfp fingerprint of the item's front matter and body.
func (i Item) Fingerprint() string { return i.fingerprint }

// OutputPath is where the host writes the item, relative to the output
// directory.
func (i Item) OutputPath() string {
	return filepath.FromSlash(strings.TrimPrefix(i.url, "/"))
}

// NewArticle builds an article item. The metadata map is copied.
func NewArticle(url, title string, md sitemap.Metadata) Item {
	return Item{kind: sitemap.KindArticle, url: url, name: title, title: title, metadata: maps.Clone(md)}
}

// NewPage builds a page item. The metadata map is copied.
func NewPage(url, title string, md sitemap.Metadata) Item {
	return Item{kind: sitemap.KindPage, url: url, name: title, title: title, metadata: maps.Clone(md)}
}

// NewIndex builds the index node for a category, tag or author. Its Name is
// "<taxonomy>/<slug>", so names that slug alike are one node and equal slugs
// in different taxonomies stay apart. ok is false when name has no usable
// slug.
func NewIndex(tax Taxonomy, name string) (Item, bool) {
	slug := Slugify(name)
	if slug == "" {
		return Item{}, false
	}
	return Item{
		kind: sitemap.KindIndex,
		url:   string(tax) + "/" + slug + ".html",
		name:  string(tax) + "/" + slug,
		title: name,
	}, true
}
