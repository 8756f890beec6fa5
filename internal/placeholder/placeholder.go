// Package placeholder implements the bracket-token engine used by clause and
// template content: extraction of [Name] tokens, value substitution, header
// normalization and filename-safe identifier derivation. All functions are
// pure; no I/O happens here.
package placeholder

import (
	"regexp"
	"strings"
	"unicode"
)

// Token syntax is a single bracket pair with no nesting.

var (
	tokenPattern    = regexp.MustCompile(`\[([^\[\]]+)\]`)
	nonKeyPattern   = regexp.MustCompile(`[^a-z0-9]+`)
	nonAlnumPattern = regexp.MustCompile(`[^A-Za-z0-9]`)
)

// Extract returns the unique trimmed placeholder names found across all
// contents, in first-seen order. Empty tokens are discarded.
func Extract(contents []string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, content := range contents {
		for _, match := range tokenPattern.FindAllStringSubmatch(content, -1) {
			name := strings.TrimSpace(match[1])
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// Substitute replaces every [Name] token whose trimmed name has a non-empty
// value in values. Tokens without a value keep their bracket form so unfilled
// placeholders stay visible in the output. The replacement is a single pass:
// substituted values are never re-scanned for further tokens.
func Substitute(content string, values map[string]string) string {
	if len(values) == 0 {
		return content
	}
	return tokenPattern.ReplaceAllStringFunc(content, func(token string) string {
		name := strings.TrimSpace(token[1 : len(token)-1])
		if value, ok := values[name]; ok && value != "" {
			return value
		}
		return token
	})
}

// NormalizeKey lowercases, trims, collapses runs of non-alphanumeric
// characters to a single underscore and strips leading/trailing underscores.
// "Employee Name" and "employee_name" normalize to the same key, which is how
// spreadsheet headers are matched to placeholder names.
func NormalizeKey(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = nonKeyPattern.ReplaceAllString(key, "_")
	return strings.Trim(key, "_")
}

// identifierKeys is the priority order for picking the row value that names
// the generated file. All entries are normalized keys.
var identifierKeys = []string{
	"employee_name",
	"full_name",
	"fullname",
	"name",
	"candidate_name",
	"recipient_name",
	"party_name",
	"vendor_name",
	"customer_name",
}

// DerivePrimaryIdentifier picks the value that identifies a context row.
// It builds a normalized-key view of the context (first non-empty value wins
// when two keys normalize identically), tries the semantic identifier keys in
// priority order, then falls back to the first non-empty value in key order.
// Returns "" when every value is empty.
func DerivePrimaryIdentifier(context map[string]string, keyOrder []string) string {
	if len(keyOrder) == 0 {
		for key := range context {
			keyOrder = append(keyOrder, key)
		}
	}

	normalized := make(map[string]string)
	for _, key := range keyOrder {
		value := strings.TrimSpace(context[key])
		if value == "" {
			continue
		}
		nk := NormalizeKey(key)
		if _, exists := normalized[nk]; !exists {
			normalized[nk] = value
		}
	}

	for _, key := range identifierKeys {
		if value, ok := normalized[key]; ok {
			return value
		}
	}

	for _, key := range keyOrder {
		if value := strings.TrimSpace(context[key]); value != "" {
			return value
		}
	}

	return ""
}

// CleanForFilename strips every character outside [A-Za-z0-9] so the result
// is safe as an archive entry or file name.
func CleanForFilename(value string) string {
	return nonAlnumPattern.ReplaceAllString(value, "")
}

// FileBase cleans a display name for use as a filename prefix and capitalizes
// the first letter, e.g. "employment contract" -> "Employmentcontract".
func FileBase(name string) string {
	cleaned := CleanForFilename(name)
	if cleaned == "" {
		return cleaned
	}
	runes := []rune(cleaned)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
