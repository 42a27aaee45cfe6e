package query

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	lineCommentRe  = regexp.MustCompile(`(?m)--.*$`)
	blockCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)
	wordRe         = regexp.MustCompile(`[A-Z_]+`)
)

// forbiddenKeywords are statement kinds that must never reach the query
// endpoint, even inside an otherwise-SELECT query.
var forbiddenKeywords = []string{
	"INSERT", "UPDATE", "DELETE", "DROP", "CREATE", "ALTER",
	"TRUNCATE", "REPLACE", "MERGE", "CALL", "EXEC", "EXECUTE",
}

// validateReadOnly rejects anything that is not a plain SELECT (or a
// CTE starting with WITH). Comments are stripped before inspection so
// they cannot hide keywords or fake a SELECT prefix.
func validateReadOnly(query string) error {
	normalized := strings.ToUpper(strings.TrimSpace(query))
	normalized = lineCommentRe.ReplaceAllString(normalized, "")
	normalized = blockCommentRe.ReplaceAllString(normalized, "")
	normalized = strings.TrimSpace(normalized)

	if normalized == "" {
		return fmt.Errorf("query is empty")
	}
	if !strings.HasPrefix(normalized, "SELECT") && !strings.HasPrefix(normalized, "WITH") {
		return fmt.Errorf("only SELECT queries (including CTEs with WITH) are permitted")
	}

	for _, word := range wordRe.FindAllString(normalized, -1) {
		for _, keyword := range forbiddenKeywords {
			if word == keyword {
				return fmt.Errorf("query contains forbidden keyword: %s", keyword)
			}
		}
	}
	return nil
}
