package commands

import (
	"regexp"
	"strings"
	"sync"
)

// Body grammars appended after the alias. Each grammar is a raw regexp
// fragment; the builder anchors the whole pattern and adds a trailing token
// boundary, so "ban" never matches "banana" and a bare alias still matches
// when extra chat follows it.
const (
	BodyNone = ``
	BodyWord = `\s+\S+`
	BodyInt  = `\s+\d+`
)

// PatternBuilder compiles matchers for "{prefix}{alias}{body}" invocations.
// Go's regexp is RE2, so matching stays linear-time no matter what the body
// grammar looks like. Compiled patterns are cached per (prefix, alias, body);
// after the first message with a given channel prefix a match is a map hit.
type PatternBuilder struct {
	mu    sync.RWMutex
	cache map[string]*regexp.Regexp
}

func NewPatternBuilder() *PatternBuilder {
	return &PatternBuilder{
		cache: make(map[string]*regexp.Regexp),
	}
}

// Effective returns the channel prefix override if set, else the default.
func Effective(channelPrefix *string, defaultPrefix string) string {
	if channelPrefix != nil {
		return *channelPrefix
	}
	return defaultPrefix
}

// Matches reports whether text invokes alias under the given prefix with a
// body satisfying the grammar. The prefix+alias portion is matched
// case-insensitively; anything after it keeps its case.
func (b *PatternBuilder) Matches(text, alias, prefix, body string) bool {
	return b.compile(alias, prefix, body).MatchString(text)
}

func (b *PatternBuilder) compile(alias, prefix, body string) *regexp.Regexp {
	key := prefix + "\x00" + alias + "\x00" + body

	b.mu.RLock()
	re := b.cache[key]
	b.mu.RUnlock()
	if re != nil {
		return re
	}

	var expr strings.Builder
	expr.WriteString(`^(?i:`)
	expr.WriteString(regexp.QuoteMeta(prefix + alias))
	expr.WriteString(`)`)
	expr.WriteString(body)
	expr.WriteString(`(\s|$)`)
	re = regexp.MustCompile(expr.String())

	b.mu.Lock()
	b.cache[key] = re
	b.mu.Unlock()
	return re
}
