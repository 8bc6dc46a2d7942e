package daemon

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitemapgen/internal/build"
	"git.home.luguber.info/inful/sitemapgen/internal/config"
)

type site struct {
	root       string
	configPath string
	contentDir string
	out        string
}

func newSite(t *testing.T) site {
	t.Helper()
	root := t.TempDir()
	t.Chdir(root)
	s := site{
		root:       root,
		configPath: filepath.Join(root, config.DefaultPath),
		contentDir: filepath.Join(root, "content"),
		out:        filepath.Join(root, "output"),
	}
	require.NoError(t, os.MkdirAll(filepath.Join(s.contentDir, "pages"), 0o755))
	s.writePage(t, "pages/about.md", "---\ntitle: About\n---\n")
	s.writeConfig(t, "https://example.com/")
	return s
}

func (s site) writePage(t *testing.T, rel, body string) {
	t.Helper()
	p := filepath.Join(s.contentDir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
}

func (s site) writeConfig(t *testing.T, siteURL string) {
	t.Helper()
	body := "site_url: " + siteURL + "\n" +
		"content:\n  directory: content\n" +
		"output:\n  directory: output\n" +
		"sitemap:\n  compress: false\n"
	require.NoError(t, os.WriteFile(s.configPath, []byte(body), 0o644))
}

func (s site) sitemap(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(s.out, "sitemap.xml"))
	require.NoError(t, err)
	return string(data)
}

func newRebuilder(t *testing.T, s site) (*Rebuilder, *bytes.Buffer) {
	t.Helper()
	cfg, err := config.Load(s.configPath)
	require.NoError(t, err)
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	return NewRebuilder(s.configPath, cfg, build.NewService(build.WithLogger(logger)), logger), &logs
}

func TestRebuilder_SkipsUnchangedContent(t *testing.T) {
	s := newSite(t)
	r, _ := newRebuilder(t, s)

	res, err := r.Rebuild(t.Context(), false)
	require.NoError(t, err)
	assert.Equal(t, build.StatusSuccess, res.Status)
	assert.Equal(t, 1, res.Entries)

	res, err = r.Rebuild(t.Context(), false)
	require.NoError(t, err)
	assert.Equal(t, build.StatusSkipped, res.Status)

	s.writePage(t, "pages/contact.md", "---\ntitle: Contact\n---\n")
	res, err = r.Rebuild(t.Context(), false)
	require.NoError(t, err)
	assert.Equal(t, build.StatusSuccess, res.Status)
	assert.Equal(t, 2, res.Entries)
	assert.Contains(t, s.sitemap(t), "<loc>https://example.com/pages/contact.html</loc>")
}

func TestRebuilder_ReloadsConfig(t *testing.T) {
	s := newSite(t)
	r, logs := newRebuilder(t, s)

	_, err := r.Rebuild(t.Context(), false)
	require.NoError(t, err)

	s.writeConfig(t, "https://example.org/")
	res, err := r.Rebuild(t.Context(), true)
	require.NoError(t, err)
	assert.Equal(t, build.StatusSuccess, res.Status, "a reload forces a write even if content is unchanged")
	assert.Equal(t, "https://example.org/", r.Config().SiteURL)
	assert.Contains(t, s.sitemap(t), "<loc>https://example.org/pages/about.html</loc>")
	assert.Contains(t, logs.String(), "Configuration reloaded")
}

func TestRebuilder_KeepsPreviousConfigOnReloadFailure(t *testing.T) {
	s := newSite(t)
	r, logs := newRebuilder(t, s)

	_, err := r.Rebuild(t.Context(), false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(s.configPath, []byte("site_url: [unclosed\n"), 0o644))
	res, err := r.Rebuild(t.Context(), true)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Equal(t, "https://example.com/", r.Config().SiteURL)
	assert.Contains(t, logs.String(), "keeping previous")

	res, err = r.Rebuild(t.Context(), false)
	require.NoError(t, err)
	assert.Equal(t, build.StatusSkipped, res.Status)
}

func TestRebuilder_FailedBuildDoesNotRememberFingerprint(t *testing.T) {
	s := newSite(t)
	r, _ := newRebuilder(t, s)

	cfg := *r.Config()
	cfg.SiteURL = ""
	r.cfg = &cfg
	_, err := r.Rebuild(t.Context(), false)
	require.Error(t, err)
	assert.Empty(t, r.fingerprint)

	s.writeConfig(t, "https://example.com/")
	res, err := r.Rebuild(t.Context(), true)
	require.NoError(t, err)
	assert.Equal(t, build.StatusSuccess, res.Status)
}
