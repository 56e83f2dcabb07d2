// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

package logging

import "strings"

// maxFieldLen caps the length of sanitized log field values.
// Catalog titles and IDs arrive over HTTP and are attacker-controlled.
const maxFieldLen = 120

// SanitizeForLog makes an untrusted string safe to emit as a log field.
// Control characters (including CR/LF and ANSI escape introducers) are
// stripped to prevent log line forgery, and the result is truncated to a
// bounded length. Use this on item titles, entity IDs and any other value
// that originates from a request body or URL.
//
//	logging.Info().Str("title", logging.SanitizeForLog(item.Title)).Msg("Item upserted")
func SanitizeForLog(s string) string {
	if s == "" {
		return ""
	}

	cleaned := strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)

	return truncateString(cleaned, maxFieldLen)
}

// truncateString truncates a string to a maximum length.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
