// Package errors provides the classified error type used across sitemapgen.
//
// Errors carry a category (config, filesystem, build, ...) and a severity so
// that the CLI can decide how loudly to report them and which exit status to
// use. A fluent builder keeps construction uniform:
//
//	err := errors.NewError(errors.CategoryFileSystem, "write sitemap").
//		WithContext("path", path).
//		WithCause(osErr).
//		Build()
package errors
