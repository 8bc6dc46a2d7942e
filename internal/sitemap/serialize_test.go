package sitemap

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitemapgen/internal/foundation"
)

type decodedNode struct {
	Loc        string  `xml:"loc"`
	LastMod    *string `xml:"lastmod"`
	ChangeFreq *string `xml:"changefreq"`
	Priority   *string `xml:"priority"`
}

type decodedDocument struct {
	XMLName  xml.Name
	URLs     []decodedNode `xml:"url"`
	Sitemaps []decodedNode `xml:"sitemap"`
}

func decodeDocument(t *testing.T, doc string) decodedDocument {
	t.Helper()
	var d decodedDocument
	require.NoError(t, xml.Unmarshal([]byte(doc), &d))
	return d
}

func mustEntry(t *testing.T, url string, lm foundation.Option[time.Time], freq foundation.Option[Frequency], pri foundation.Option[float64]) Entry {
	t.Helper()
	e, err := NewEntry(url, lm, freq, pri)
	require.NoError(t, err)
	return e
}

func TestGenerateXMLSitemapData_URLSet(t *testing.T) {
	now := time.Date(2020, 6, 9, 16, 20, 0, 0, time.UTC)
	entries := []Entry{
		mustEntry(t, "example.com/page1.html", foundation.Some(now), foundation.Some(FrequencyNever), foundation.Some(0.5)),
		mustEntry(t, "example.com/page2.html", foundation.Some(now), foundation.Some(FrequencyNever), foundation.Some(1.0)),
		mustEntry(t, "example.com/page3.html", foundation.Some(now), foundation.Some(FrequencyNever), foundation.Some(0.25)),
	}

	doc, err := GenerateXMLSitemapData(entries, false)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(doc, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, doc, `xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"`)
	assert.Contains(t, doc, `sitemap/0.9/sitemap.xsd"`)

	d := decodeDocument(t, doc)
	assert.Equal(t, sitemapNamespace, d.XMLName.Space)
	assert.Equal(t, "urlset", d.XMLName.Local)
	require.Len(t, d.URLs, 3)
	assert.Empty(t, d.Sitemaps)
	for i, u := range d.URLs {
		assert.Equal(t, entries[i].URL(), u.Loc)
		require.NotNil(t, u.LastMod)
		assert.Equal(t, "2020-06-09T16:20:00+00:00", *u.LastMod)
		require.NotNil(t, u.ChangeFreq)
		assert.Equal(t, "never", *u.ChangeFreq)
	}
	assert.Equal(t, "0.5", *d.URLs[0].Priority)
	assert.Equal(t, "1.0", *d.URLs[1].Priority)
	assert.Equal(t, "0.25", *d.URLs[2].Priority)
}

func TestGenerateXMLSitemapData_Index(t *testing.T) {
	now := time.Date(2020, 6, 9, 16, 20, 0, 0, time.UTC)
	var entries []Entry
	for _, u := range []string{"example.com/map1.xml", "example.com/map2.xml", "example.com/map3.xml"} {
		entries = append(entries, mustEntry(t, u, foundation.Some(now), foundation.None[Frequency](), foundation.None[float64]()))
	}

	doc, err := GenerateXMLSitemapData(entries, true)
	require.NoError(t, err)
	assert.Contains(t, doc, `sitemap/0.9/siteindex.xsd"`)
	assert.NotContains(t, doc, "changefreq")
	assert.NotContains(t, doc, "priority")

	d := decodeDocument(t, doc)
	assert.Equal(t, "sitemapindex", d.XMLName.Local)
	assert.Equal(t, sitemapNamespace, d.XMLName.Space)
	require.Len(t, d.Sitemaps, 3)
	for i, sm := range d.Sitemaps {
		assert.Equal(t, entries[i].URL(), sm.Loc)
		assert.Nil(t, sm.ChangeFreq)
		assert.Nil(t, sm.Priority)
	}
}

func TestGenerateXMLSitemapData_OmitsAbsentFields(t *testing.T) {
	entries := []Entry{
		mustEntry(t, "example.com/bare.html", foundation.None[time.Time](), foundation.None[Frequency](), foundation.None[float64]()),
	}

	doc, err := GenerateXMLSitemapData(entries, false)
	require.NoError(t, err)

	d := decodeDocument(t, doc)
	require.Len(t, d.URLs, 1)
	assert.Nil(t, d.URLs[0].LastMod)
	assert.Nil(t, d.URLs[0].ChangeFreq)
	assert.Nil(t, d.URLs[0].Priority)
}

func TestGenerateXMLSitemapData_EscapesMarkup(t *testing.T) {
	entries := []Entry{
		mustEntry(t, "http://example.com/?a=1&b=2", foundation.None[time.Time](), foundation.None[Frequency](), foundation.None[float64]()),
	}

	doc, err := GenerateXMLSitemapData(entries, false)
	require.NoError(t, err)
	assert.Contains(t, doc, "a=1&amp;b=2")
	assert.Equal(t, "http://example.com/?a=1&b=2", decodeDocument(t, doc).URLs[0].Loc)
}

func TestGenerateSitemapData(t *testing.T) {
	entries := []Entry{
		mustEntry(t, "example.com/page1.html", foundation.None[time.Time](), foundation.Some(FrequencyNever), foundation.Some(0.5)),
		mustEntry(t, "example.com/page2.html", foundation.None[time.Time](), foundation.Some(FrequencyNever), foundation.Some(0.5)),
		mustEntry(t, "example.com/page3.html", foundation.None[time.Time](), foundation.Some(FrequencyNever), foundation.Some(0.5)),
	}

	t.Run("txt", func(t *testing.T) {
		doc, err := GenerateSitemapData(entries, FormatTXT)
		require.NoError(t, err)
		assert.Equal(t, "example.com/page1.html\nexample.com/page2.html\nexample.com/page3.html", doc)
	})

	t.Run("xml", func(t *testing.T) {
		doc, err := GenerateSitemapData(entries, FormatXML)
		require.NoError(t, err)
		assert.Equal(t, "urlset", decodeDocument(t, doc).XMLName.Local)
	})

	t.Run("empty txt", func(t *testing.T) {
		doc, err := GenerateSitemapData(nil, FormatTXT)
		require.NoError(t, err)
		assert.Empty(t, doc)
	})
}

func TestLastmodLayout(t *testing.T) {
	ny := time.FixedZone("EDT", -4*60*60)

	assert.Equal(t, "2020-06-09T16:20:00+00:00", time.Date(2020, 6, 9, 16, 20, 0, 0, time.UTC).Format(lastmodLayout))
	assert.Equal(t, "2020-06-09T12:20:00-04:00", time.Date(2020, 6, 9, 12, 20, 0, 0, ny).Format(lastmodLayout))
	assert.Equal(t, "2020-06-09T16:20:00.5+00:00", time.Date(2020, 6, 9, 16, 20, 0, 500_000_000, time.UTC).Format(lastmodLayout))
}

func TestFormatPriority(t *testing.T) {
	assert.Equal(t, "0.0", formatPriority(0))
	assert.Equal(t, "1.0", formatPriority(1))
	assert.Equal(t, "0.5", formatPriority(0.5))
	assert.Equal(t, "0.8", formatPriority(0.8))
	assert.Equal(t, "0.125", formatPriority(0.125))
}
