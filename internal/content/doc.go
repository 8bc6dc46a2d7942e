// Package content discovers the Markdown sources of a site and turns them
// into the articles, pages and taxonomy indexes the sitemap generator
// consumes.
//
// A source is a Markdown file with optional YAML front matter delimited by
// "---" lines. Files under the pages directory (or with "type: page") become
// pages, everything else becomes an article. Categories, tags and authors
// referenced by articles become index items.
package content
