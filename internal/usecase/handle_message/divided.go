package handle_message

import "strings"

// Split breaks text into parts of at most max bytes, cutting only at
// whitespace. A single token longer than max gets a part of its own rather
// than being cut mid-token.
func Split(text string, max int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var parts []string
	var current strings.Builder
	for _, word := range words {
		if current.Len() == 0 {
			current.WriteString(word)
			continue
		}
		if current.Len()+1+len(word) > max {
			parts = append(parts, current.String())
			current.Reset()
			current.WriteString(word)
			continue
		}
		current.WriteByte(' ')
		current.WriteString(word)
	}
	parts = append(parts, current.String())
	return parts
}
