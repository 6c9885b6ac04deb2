package nlquery

import (
	"fmt"
	"regexp"
	"strings"
)

// The guard rejects any generated statement that is not a single read-only
// SELECT over the vehicles table built from allow-listed identifiers. Model
// output is never trusted: a prompt-injected DROP or UNION fails here before
// it reaches the database.

var allowedColumns = map[string]bool{
	"id":             true,
	"stock_number":   true,
	"vin":            true,
	"year":           true,
	"make":           true,
	"model":          true,
	"trim":           true,
	"body_style":     true,
	"exterior_color": true,
	"price":          true,
	"mileage":        true,
	"image_url":      true,
	"created_at":     true,
}

var allowedKeywords = map[string]bool{
	"select": true, "distinct": true, "from": true, "where": true,
	"and": true, "or": true, "not": true, "like": true, "ilike": true,
	"lower": true, "upper": true, "count": true, "sum": true, "avg": true,
	"min": true, "max": true, "group": true, "by": true, "order": true,
	"asc": true, "desc": true, "limit": true, "offset": true,
	"is": true, "null": true, "in": true, "between": true, "having": true,
	"vehicles": true,
}

var (
	stringLiteralPattern = regexp.MustCompile(`'[^']*'`)
	identifierPattern    = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)
)

// ValidateSelect returns the trimmed statement or an error describing why it
// was rejected.
func ValidateSelect(query string) (string, error) {
	q := strings.TrimSpace(query)
	q = strings.TrimSuffix(q, ";")

	if q == "" {
		return "", fmt.Errorf("empty query")
	}
	if strings.Contains(q, ";") {
		return "", fmt.Errorf("multiple statements are not allowed")
	}
	if strings.Contains(q, "--") || strings.Contains(q, "/*") {
		return "", fmt.Errorf("comments are not allowed")
	}
	if !strings.HasPrefix(strings.ToLower(q), "select") {
		return "", fmt.Errorf("only SELECT statements are allowed")
	}

	// Identifiers are checked with string literals removed so a color like
	// 'red' is not mistaken for a column reference.
	stripped := stringLiteralPattern.ReplaceAllString(q, "''")
	for _, ident := range identifierPattern.FindAllString(stripped, -1) {
		word := strings.ToLower(ident)
		if !allowedKeywords[word] && !allowedColumns[word] {
			return "", fmt.Errorf("disallowed identifier %q", ident)
		}
	}

	return q, nil
}

var aggregateMarkers = []string{"COUNT(", "SUM(", "AVG(", "MIN(", "MAX("}

// IsAggregate reports whether the statement computes a scalar aggregate, in
// which case only the summarized answer matters and no vehicle rows are
// returned to the caller.
func IsAggregate(query string) bool {
	upper := strings.ToUpper(query)
	for _, marker := range aggregateMarkers {
		if strings.Contains(upper, marker) {
			return true
		}
	}
	return false
}
