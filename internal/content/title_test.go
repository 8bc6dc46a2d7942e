package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeadingTitle(t *testing.T) {
	assert.Equal(t, "Hello World", headingTitle([]byte("Intro text\n\n# Hello *World*\n\nBody\n")))
	assert.Equal(t, "Second level", headingTitle([]byte("## Second level\n")))
	assert.Equal(t, "Setext", headingTitle([]byte("Setext\n======\n")))
	assert.Equal(t, "Uses code", headingTitle([]byte("# Uses `code`\n")))
	assert.Empty(t, headingTitle([]byte("No heading here.\n")))
}
