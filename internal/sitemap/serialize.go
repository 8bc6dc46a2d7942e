package sitemap

import (
	"encoding/xml"
	"strconv"
	"strings"

	derrors "git.home.luguber.info/inful/sitemapgen/internal/foundation/errors"
)

const (
	sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"
	xsiNamespace     = "http://www.w3.org/2001/XMLSchema-instance"
	urlsetSchema     = sitemapNamespace + " " + sitemapNamespace + "/sitemap.xsd"
	indexSchema      = sitemapNamespace + " " + sitemapNamespace + "/siteindex.xsd"

	// lastmodLayout is W3C datetime with a numeric offset ("+00:00" for UTC).
	lastmodLayout = "2006-01-02T15:04:05.999999-07:00"
)

type schema struct {
	Xmlns             string `xml:"xmlns,attr"`
	XmlnsXsi          string `xml:"xmlns:xsi,attr"`
	XsiSchemaLocation string `xml:"xsi:schemaLocation,attr"`
}

type urlSet struct {
	XMLName xml.Name `xml:"urlset"`
	schema
	URLs []xmlEntry `xml:"url"`
}

type sitemapIndex struct {
	XMLName xml.Name `xml:"sitemapindex"`
	schema
	Sitemaps []xmlEntry `xml:"sitemap"`
}

type xmlEntry struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// GenerateSitemapData renders entries in the given format: newline-joined
// URLs for txt, a urlset document for xml.
func GenerateSitemapData(entries []Entry, format Format) (string, error) {
	if format == FormatTXT {
		urls := make([]string, len(entries))
		for i, e := range entries {
			urls[i] = e.URL()
		}
		return strings.Join(urls, "\n"), nil
	}
	return GenerateXMLSitemapData(entries, false)
}

// GenerateXMLSitemapData renders a urlset document, or a sitemapindex
// document when isIndex is set. Absent optional fields are omitted.
func GenerateXMLSitemapData(entries []Entry, isIndex bool) (string, error) {
	children := make([]xmlEntry, len(entries))
	for i, e := range entries {
		children[i] = toXMLEntry(e)
	}

	var doc any
	if isIndex {
		doc = sitemapIndex{
			schema:   schema{Xmlns: sitemapNamespace, XmlnsXsi: xsiNamespace, XsiSchemaLocation: indexSchema},
			Sitemaps: children,
		}
	} else {
		doc = urlSet{
			schema: schema{Xmlns: sitemapNamespace, XmlnsXsi: xsiNamespace, XsiSchemaLocation: urlsetSchema},
			URLs:   children,
		}
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", derrors.WrapError(err, derrors.CategoryInternal, "render sitemap xml").Build()
	}
	return xml.Header + string(body) + "\n", nil
}

func toXMLEntry(e Entry) xmlEntry {
	x := xmlEntry{Loc: e.URL()}
	if t, ok := e.LastModified().Get(); ok {
		x.LastMod = t.Format(lastmodLayout)
	}
	if f, ok := e.Frequency().Get(); ok {
		x.ChangeFreq = string(f)
	}
	if p, ok := e.Priority().Get(); ok {
		x.Priority = formatPriority(p)
	}
	return x
}

// formatPriority renders p in its shortest decimal form, keeping one
// fractional digit for whole numbers ("1.0", "0.5", "0.25").
func formatPriority(p float64) string {
	s := strconv.FormatFloat(p, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
