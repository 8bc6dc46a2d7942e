package sitemap

import (
	"bytes"
	"log/slog"
	"strings"
)

type testContent struct {
	kind Kind
	url  string
	md   Metadata
	name string
}

func (c testContent) Kind() Kind         { return c.kind }
func (c testContent) URL() string        { return c.url }
func (c testContent) Metadata() Metadata { return c.md }
func (c testContent) Name() string       { return c.name }

// newTestLogger returns a debug-level logger writing text records into buf.
func newTestLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func splitLines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func containsField(line, field string) bool {
	return strings.Contains(" "+line+" ", " "+field+" ")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
