// Package sitemap collects, validates and writes sitemap entries for a
// generated site.
//
// A Generator lives for exactly one build. It is created at build start from
// the site settings (New), receives every emitted content item (AddEntry) and
// is drained once at the end of the build (WriteOutput), which renders XML
// (sitemaps.org 0.9) or plain-text documents, splits them into files of at
// most MaxURLPerFile entries and writes an index document when an XML
// sitemap needs more than one file.
//
// Configuration is untrusted: every malformed value is logged and replaced by
// its default. The only fatal condition is a missing site URL.
package sitemap
