package handle_message

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitShortTextIsOnePart(t *testing.T) {
	assert.Equal(t, []string{"hello world"}, Split("hello world", 500))
}

func TestSplitEmpty(t *testing.T) {
	assert.Nil(t, Split("", 500))
	assert.Nil(t, Split("   \t\n ", 500))
}

func TestSplitCutsAtWhitespaceOnly(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("tenletters ", 60))
	parts := Split(text, 500)
	require.Greater(t, len(parts), 1)

	for _, part := range parts {
		assert.LessOrEqual(t, len(part), 500)
		for _, word := range strings.Fields(part) {
			assert.Equal(t, "tenletters", word)
		}
	}
	assert.Equal(t, text, strings.Join(parts, " "))
}

func TestSplitOversizeTokenGetsOwnPart(t *testing.T) {
	long := strings.Repeat("x", 40)
	parts := Split("before "+long+" after", 10)

	assert.Equal(t, []string{"before", long, "after"}, parts)
}

func TestSplitCollapsesInternalWhitespace(t *testing.T) {
	assert.Equal(t, []string{"a b c"}, Split("a\t b \n c", 500))
}
