package repository

import (
	"os"
	"regexp"
	"strings"
	"testing"
)

// schemaColumns extracts the column names of one CREATE TABLE block
// from scripts/schema.sql.
func schemaColumns(t *testing.T, table string) map[string]bool {
	t.Helper()
	raw, err := os.ReadFile("../../scripts/schema.sql")
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}
	marker := "CREATE TABLE IF NOT EXISTS " + table + " ("
	start := strings.Index(string(raw), marker)
	if start < 0 {
		t.Fatalf("table %s not found in schema", table)
	}
	block := string(raw)[start+len(marker):]
	end := strings.Index(block, "ENGINE=InnoDB")
	if end < 0 {
		t.Fatalf("unterminated block for %s", table)
	}
	block = block[:end]

	cols := map[string]bool{}
	for _, line := range strings.Split(block, "\n") {
		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) < 2 {
			continue
		}
		switch strings.ToUpper(fields[0]) {
		case "PRIMARY", "UNIQUE", "KEY", "CONSTRAINT", "FOREIGN", ")":
			continue
		}
		cols[strings.ToLower(fields[0])] = true
	}
	if len(cols) == 0 {
		t.Fatalf("no columns parsed for %s", table)
	}
	return cols
}

// Every column the refresh token queries touch must exist in the shipped
// schema, so a rename in either place fails here instead of at runtime.
func TestRefreshTokenQueriesMatchSchema(t *testing.T) {
	cols := schemaColumns(t, "refresh_tokens")

	keywords := map[string]bool{
		"insert": true, "into": true, "values": true,
		"select": true, "from": true, "where": true, "limit": true,
		"update": true, "set": true, "and": true, "is": true,
		"null": true, "now": true, "refresh_tokens": true,
	}
	ident := regexp.MustCompile(`[a-z_]+`)

	queries := []string{qStoreRefresh, qSelectRefresh, qRevokeByHash, qRevokeAllForStaff}
	for _, q := range queries {
		for _, tok := range ident.FindAllString(strings.ToLower(q), -1) {
			if keywords[tok] {
				continue
			}
			if !cols[tok] {
				t.Fatalf("query %q references %q which is not a refresh_tokens column", q, tok)
			}
		}
	}

	if !cols["revoked_at"] {
		t.Fatalf("refresh_tokens schema is missing revoked_at")
	}
}
