package nlquery

import (
	"strings"
	"testing"
)

func TestValidateSelectAccepts(t *testing.T) {
	queries := []string{
		"SELECT * FROM vehicles LIMIT 20",
		"SELECT COUNT(*) FROM vehicles",
		"SELECT * FROM vehicles WHERE LOWER(exterior_color) LIKE '%red%' AND LOWER(model) LIKE '%explorer%' LIMIT 20",
		"SELECT make, COUNT(*) FROM vehicles GROUP BY make ORDER BY COUNT(*) DESC LIMIT 5",
		"select * from vehicles where year = 2023 limit 20",
		"SELECT * FROM vehicles WHERE price BETWEEN 20000 AND 30000 LIMIT 20;",
	}

	for _, q := range queries {
		got, err := ValidateSelect(q)
		if err != nil {
			t.Errorf("ValidateSelect(%q): unexpected error %v", q, err)
			continue
		}
		if strings.Contains(got, ";") {
			t.Errorf("ValidateSelect(%q): trailing semicolon not stripped: %q", q, got)
		}
	}
}

func TestValidateSelectRejects(t *testing.T) {
	queries := []string{
		"",
		"DROP TABLE vehicles",
		"DELETE FROM vehicles",
		"SELECT * FROM users",
		"SELECT * FROM vehicles; DROP TABLE vehicles",
		"SELECT * FROM vehicles -- sneaky",
		"SELECT * FROM vehicles /* comment */",
		"SELECT * FROM vehicles UNION SELECT * FROM vehicles",
		"SELECT password FROM vehicles",
		"SELECT * FROM vehicles v JOIN vehicles w ON v.id = w.id",
	}

	for _, q := range queries {
		if _, err := ValidateSelect(q); err == nil {
			t.Errorf("ValidateSelect(%q): expected rejection", q)
		}
	}
}

func TestValidateSelectIgnoresIdentifiersInsideLiterals(t *testing.T) {
	// The literal value is arbitrary user text; only real identifiers count.
	q := "SELECT * FROM vehicles WHERE LOWER(make) LIKE '%drop table%' LIMIT 20"
	if _, err := ValidateSelect(q); err != nil {
		t.Fatalf("unexpected rejection: %v", err)
	}
}

func TestIsAggregate(t *testing.T) {
	cases := []struct {
		query string
		want  bool
	}{
		{"SELECT COUNT(*) FROM vehicles", true},
		{"select count(*) from vehicles", true},
		{"SELECT AVG(price) FROM vehicles", true},
		{"SELECT make, COUNT(*) FROM vehicles GROUP BY make", true},
		{"SELECT * FROM vehicles LIMIT 20", false},
	}

	for _, tc := range cases {
		if got := IsAggregate(tc.query); got != tc.want {
			t.Errorf("IsAggregate(%q): got %v want %v", tc.query, got, tc.want)
		}
	}
}
