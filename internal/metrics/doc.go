// Package metrics records sitemap build observability data.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no nil checks are needed at call sites:
//
//	gen, err := sitemap.New(site, outDir, sitemap.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//
// PrometheusRecorder registers its collectors on the supplied registry. Since
// sitemapgen is a batch tool rather than a server, metrics are exported by
// writing the registry to a node_exporter textfile after each build
// (WriteTextfile).
package metrics
