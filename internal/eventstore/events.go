package eventstore

import (
	"encoding/json"
	"time"
)

// Event type names as stored in the events table.
const (
	TypeBuildStarted   = "BuildStarted"
	TypeSitemapWritten = "SitemapWritten"
	TypeBuildFailed    = "BuildFailed"
)

// Failure stages reported by BuildFailed.
const (
	StageConfig   = "config"
	StageDiscover = "discover"
	StageCollect  = "collect"
	StageWrite    = "write"
)

// BuildStarted is emitted once the generator has been constructed.
type BuildStarted struct {
	BaseEvent
	SiteURL string `json:"site_url"`
	Format  string `json:"format"`
}

// NewBuildStarted creates a BuildStarted event.
func NewBuildStarted(buildID, siteURL, format string) (*BuildStarted, error) {
	ev := &BuildStarted{SiteURL: siteURL, Format: format}
	base, err := newBase(buildID, TypeBuildStarted, map[string]any{
		"site_url": siteURL,
		"format":   format,
	})
	if err != nil {
		return nil, err
	}
	ev.BaseEvent = base
	return ev, nil
}

// SitemapWritten is emitted after the sitemap files are on disk.
type SitemapWritten struct {
	BaseEvent
	Entries int    `json:"entries"`
	Files   int    `json:"files"`
	OutPath string `json:"out_path"`
}

// NewSitemapWritten creates a SitemapWritten event.
func NewSitemapWritten(buildID string, entries, files int, outPath string) (*SitemapWritten, error) {
	ev := &SitemapWritten{Entries: entries, Files: files, OutPath: outPath}
	base, err := newBase(buildID, TypeSitemapWritten, map[string]any{
		"entries":  entries,
		"files":    files,
		"out_path": outPath,
	})
	if err != nil {
		return nil, err
	}
	ev.BaseEvent = base
	return ev, nil
}

// BuildFailed is emitted when a build stops with an error.
type BuildFailed struct {
	BaseEvent
	Stage string `json:"stage"`
	Error string `json:"error"`
}

// NewBuildFailed creates a BuildFailed event.
func NewBuildFailed(buildID, stage, errorMsg string) (*BuildFailed, error) {
	ev := &BuildFailed{Stage: stage, Error: errorMsg}
	base, err := newBase(buildID, TypeBuildFailed, map[string]any{
		"stage": stage,
		"error": errorMsg,
	})
	if err != nil {
		return nil, err
	}
	ev.BaseEvent = base
	return ev, nil
}

func newBase(buildID, eventType string, body map[string]any) (BaseEvent, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return BaseEvent{}, wrap(ErrMarshalPayloadFailed, err)
	}
	return BaseEvent{
		EventBuildID:   buildID,
		EventType:      eventType,
		EventTimestamp: time.Now(),
		EventPayload:   payload,
	}, nil
}
