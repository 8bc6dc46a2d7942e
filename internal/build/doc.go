// Package build runs one sitemap build: it discovers content, feeds it to
// the sitemap generator, writes the sitemap files and then records history,
// exports metrics and sends notifications.
//
// All execution paths (generate, watch, schedule) route through Service.
package build
