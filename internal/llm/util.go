package llm

import "strings"

// CleanJSONBlock strips markdown fences and any prose around the first JSON
// object or array in a model response. Text with no JSON in it is returned
// trimmed but otherwise unchanged.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if rest, ok := strings.CutPrefix(text, "```"); ok {
		// A short first line without spaces or braces is a language tag.
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			tag := rest[:nl]
			if len(tag) < 20 && !strings.ContainsAny(tag, " {[") {
				rest = rest[nl+1:]
			}
		}
		if end := strings.LastIndex(rest, "```"); end >= 0 {
			rest = rest[:end]
		}
		text = strings.TrimSpace(rest)
	}

	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return text
	}
	candidate := text[start:]
	if balanced := balancedPrefix(candidate); balanced != "" {
		return balanced
	}
	return candidate
}

// balancedPrefix returns the JSON value at the start of s whose opening
// brace or bracket is closed, skipping delimiters inside strings. It
// returns "" when s does not start with '{' or '[' or never closes.
func balancedPrefix(s string) string {
	if s == "" {
		return ""
	}
	var open, close byte
	switch s[0] {
	case '{':
		open, close = '{', '}'
	case '[':
		open, close = '[', ']'
	default:
		return ""
	}

	depth := 0
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}
