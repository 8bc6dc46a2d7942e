package sitemap

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"

	"git.home.luguber.info/inful/sitemapgen/internal/foundation"
	derrors "git.home.luguber.info/inful/sitemapgen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitemapgen/internal/logfields"
	"git.home.luguber.info/inful/sitemapgen/internal/util/sets"
)

// WriteSummary describes the files produced by the last successful WriteOutput.
type WriteSummary struct {
	Entries int
	// Files are the written paths in write order.
	Files []string
	// RootURL is the document to advertise: the single sitemap, the index,
	// or the first part of a split text sitemap.
	RootURL string
}

// LastWrite returns the summary of the last successful WriteOutput. It is the
// zero value when nothing has been written.
func (g *Generator) LastWrite() WriteSummary { return g.lastWrite }

// WriteOutput renders the collected entries and writes the sitemap files.
// With no entries nothing is written. Entries are split into files of at
// most MaxURLPerFile; several XML files get a sitemap index. After a
// successful write the generator is empty again.
func (g *Generator) WriteOutput() error {
	if len(g.entries) == 0 {
		g.logger.Info("No sitemap entries collected; not writing a sitemap")
		return nil
	}

	g.written = g.written[:0]
	s := g.settings
	ext := string(s.Format)
	if s.Compress {
		ext += ".gz"
	}

	if err := os.MkdirAll(s.OutPath, 0o755); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "create sitemap directory").
			WithContext("path", s.OutPath).Build()
	}

	chunks := partition(g.entries, g.maxURLsPerFile)
	if len(chunks) == 1 {
		if err := g.writeDocument("sitemap."+ext, chunks[0], false); err != nil {
			return err
		}
		g.finish(len(g.entries), "sitemap."+ext)
		return nil
	}

	index := make([]Entry, 0, len(chunks))
	for i, chunk := range chunks {
		name := fmt.Sprintf("sitemap%d.%s", i+1, ext)
		if err := g.writeDocument(name, chunk, false); err != nil {
			return err
		}
		loc, err := resolveURL(s.MapRoot, name)
		if err != nil {
			return derrors.WrapError(err, derrors.CategoryInternal, "resolve sitemap file url").
				WithContext("file", name).Build()
		}
		entry, err := NewEntry(loc, foundation.Some(g.startTime), foundation.None[Frequency](), foundation.None[float64]())
		if err != nil {
			return err
		}
		index = append(index, entry)
	}

	root := "sitemap1." + ext
	if s.Format == FormatXML {
		if err := g.writeDocument("sitemap."+ext, index, true); err != nil {
			return err
		}
		root = "sitemap." + ext
	}
	g.finish(len(g.entries), root)
	return nil
}

func (g *Generator) finish(entries int, root string) {
	// MapRoot was resolved by ParseSettings; an error here leaves RootURL empty.
	rootURL, _ := resolveURL(g.settings.MapRoot, root)
	g.lastWrite = WriteSummary{
		Entries: entries,
		Files:   append([]string(nil), g.written...),
		RootURL: rootURL,
	}
	g.recorder.SetEntriesWritten(entries)
	g.logger.Info("Sitemap written",
		logfields.Path(g.settings.OutPath),
		logfields.Format(string(g.settings.Format)),
		logfields.Count(entries),
		slog.Int("files", len(g.written)))
	g.entries = nil
	g.seenIndexes = sets.New[string]()
}

func (g *Generator) writeDocument(name string, entries []Entry, isIndex bool) error {
	var (
		doc string
		err error
	)
	if isIndex {
		doc, err = GenerateXMLSitemapData(entries, true)
	} else {
		doc, err = GenerateSitemapData(entries, g.settings.Format)
	}
	if err != nil {
		return err
	}

	data := []byte(doc)
	if g.settings.Compress {
		if data, err = gzipBytes(data); err != nil {
			return derrors.WrapError(err, derrors.CategoryInternal, "compress sitemap").
				WithContext("file", name).Build()
		}
	}

	path := filepath.Join(g.settings.OutPath, name)
	g.logger.Info("Writing sitemap file", logfields.File(path), logfields.Count(len(entries)))
	if err := writeFileAtomic(path, data); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "write sitemap file").
			WithContext("path", path).Build()
	}
	g.written = append(g.written, path)
	g.recorder.IncFileWritten(string(g.settings.Format), g.settings.Compress)
	return nil
}

// partition splits entries into consecutive chunks of at most size, in order.
func partition(entries []Entry, size int) [][]Entry {
	if size < 1 {
		size = MaxURLPerFile
	}
	chunks := make([][]Entry, 0, (len(entries)+size-1)/size)
	for start := 0; start < len(entries); start += size {
		end := min(start+size, len(entries))
		chunks = append(chunks, entries[start:end])
	}
	return chunks
}

func gzipBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeFileAtomic writes data to a temp file next to path and renames it into
// place, so readers never observe a partially written document.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
