package app

import (
	"net/url"
	"strings"
)

// NormalizeDBURL opts pq out of binary results for prepared statements when
// disable is set, unless the URL already decides.
func NormalizeDBURL(raw string, disablePreparedBinaryResult bool) string {
	if !disablePreparedBinaryResult {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil {
		return raw
	}

	query := parsed.Query()
	if query.Get("disable_prepared_binary_result") == "" {
		query.Set("disable_prepared_binary_result", "yes")
		parsed.RawQuery = query.Encode()
	}

	return parsed.String()
}

func dbNameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	parsed, err := url.Parse(trimmed)
	if err == nil && parsed != nil && parsed.Scheme != "" {
		name := strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/"))
		if name != "" {
			return name
		}
	}

	for _, token := range strings.Fields(trimmed) {
		if !strings.HasPrefix(token, "dbname=") {
			continue
		}
		name := strings.TrimSpace(strings.TrimPrefix(token, "dbname="))
		name = strings.Trim(name, `"'`)
		if name != "" {
			return name
		}
	}

	return ""
}

const maxTracedQueryLength = 512

// formatDBQueryForTrace collapses whitespace, masks quoted literals and caps
// the statement length for span attributes.
func formatDBQueryForTrace(query string) string {
	var b strings.Builder
	inLiteral := false
	for i, field := range strings.Fields(query) {
		if i > 0 && !inLiteral {
			b.WriteByte(' ')
		}
		for _, r := range field {
			if r == '\'' {
				if !inLiteral {
					b.WriteString("'?'")
				}
				inLiteral = !inLiteral
				continue
			}
			if !inLiteral {
				b.WriteRune(r)
			}
		}
	}

	out := b.String()
	if len(out) <= maxTracedQueryLength {
		return out
	}
	return out[:maxTracedQueryLength] + "..."
}
