package postgres

import "testing"

func TestEscapeLike(t *testing.T) {
	cases := map[string]string{
		"light":      "light",
		"100%":       `100\%`,
		"snake_case": `snake\_case`,
		`a\b`:        `a\\b`,
	}
	for in, want := range cases {
		if got := escapeLike(in); got != want {
			t.Fatalf("escapeLike(%q) = %q, want %q", in, got, want)
		}
	}
}
