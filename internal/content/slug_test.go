package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Test Category", "test-category"},
		{"Café au Lait!", "cafe-au-lait"},
		{"  Go -- Rust  ", "go-rust"},
		{"snake_case", "snake_case"},
		{"Ünïcödé", "unicode"},
		{"C++", "c"},
		{"2020 review", "2020-review"},
		{"+++", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestNewIndex(t *testing.T) {
	it, ok := NewIndex(TaxonomyTag, "Go Lang")
	assert.True(t, ok)
	assert.Equal(t, "tag/go-lang.html", it.URL())
	assert.Equal(t, "Go Lang", it.Title())
	assert.Equal(t, "tag/go-lang", it.Name())

	lower, ok := NewIndex(TaxonomyTag, "go lang")
	assert.True(t, ok)
	assert.Equal(t, it.Name(), lower.Name())

	category, ok := NewIndex(TaxonomyCategory, "Go Lang")
	assert.True(t, ok)
	assert.NotEqual(t, it.Name(), category.Name())

	_, ok = NewIndex(TaxonomyCategory, "!!!")
	assert.False(t, ok)
}
