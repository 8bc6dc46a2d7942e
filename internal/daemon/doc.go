// Package daemon keeps a sitemap current: Watcher rebuilds when content or
// configuration changes, Scheduler rebuilds on a fixed interval. Both drive a
// Rebuilder, which skips builds whose content is unchanged.
package daemon
