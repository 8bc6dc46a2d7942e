package sitemap

import (
	"strconv"
	"strings"
)

// Kind discriminates the capability set of a content item.
type Kind int

const (
	KindUnknown Kind = iota
	KindArticle
	KindPage
	KindIndex
)

func (k Kind) String() string {
	switch k {
	case KindArticle:
		return "article"
	case KindPage:
		return "page"
	case KindIndex:
		return "index"
	default:
		return "unknown"
	}
}

// Content is one item emitted by the build. Articles and pages expose their
// front matter through Metadata; index-like nodes (categories, tags,
// authors) are identified by Name.
type Content interface {
	Kind() Kind
	// URL is the item's site-relative URL, e.g. "posts/hello.html".
	URL() string
	Metadata() Metadata
	Name() string
}

// Metadata is the untyped per-item metadata of an article or page.
type Metadata map[string]any

// Lookup returns the value for key and whether it is set to a non-nil value.
func (m Metadata) Lookup(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m[key]
	return v, ok && v != nil
}

// Truthy reports whether key holds a true-ish value: a true bool, a non-zero
// number, or a string that is not empty and not a false boolean literal.
func (m Metadata) Truthy(key string) bool {
	v, ok := m.Lookup(key)
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		s := strings.TrimSpace(t)
		if b, err := strconv.ParseBool(s); err == nil {
			return b
		}
		return s != ""
	default:
		if n, isNum := asNumber(v); isNum {
			return n != 0
		}
		return true
	}
}

// String returns the value for key when it is a string.
func (m Metadata) String(key string) (string, bool) {
	v, ok := m.Lookup(key)
	if !ok {
		return "", false
	}
	s, isString := v.(string)
	return s, isString
}
