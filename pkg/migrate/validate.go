package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var sqlFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

// Dev and tests run the same files on sqlite, so postgres-only syntax is rejected.
var postgresOnly = []struct {
	re   *regexp.Regexp
	what string
}{
	{regexp.MustCompile(`(?i)\bJSONB\b`), "JSONB column"},
	{regexp.MustCompile(`(?i)\b(BIG)?SERIAL\b`), "SERIAL column"},
	{regexp.MustCompile(`(?i)\bCREATE\s+EXTENSION\b`), "CREATE EXTENSION"},
	{regexp.MustCompile(`(?i)\bCREATE\s+TYPE\b`), "CREATE TYPE"},
	{regexp.MustCompile(`::[a-z]`), "postgres cast"},
}

// ValidateDir checks migration filenames, goose headers and sqlite compatibility.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir %q: %w", dir, err)
	}

	seen := map[string]string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			return fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}
		if prev, ok := seen[m[1]]; ok {
			return fmt.Errorf("duplicate migration version %s in %q and %q", m[1], prev, name)
		}
		seen[m[1]] = name

		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read file %q: %w", name, err)
		}
		if err := validateContent(name, string(b)); err != nil {
			return err
		}
	}
	return nil
}

func validateContent(name, txt string) error {
	for _, marker := range []string{"-- +goose Up", "-- +goose Down"} {
		if !strings.Contains(txt, marker) {
			return fmt.Errorf("migration %q missing %q", name, marker)
		}
	}
	if strings.Count(txt, "-- +goose StatementBegin") != strings.Count(txt, "-- +goose StatementEnd") {
		return fmt.Errorf("migration %q has unbalanced StatementBegin/StatementEnd", name)
	}
	for _, rule := range postgresOnly {
		if rule.re.MatchString(stripComments(txt)) {
			return fmt.Errorf("migration %q uses %s, which sqlite cannot run", name, rule.what)
		}
	}
	return nil
}

func stripComments(txt string) string {
	var b strings.Builder
	for _, line := range strings.Split(txt, "\n") {
		if i := strings.Index(line, "--"); i >= 0 {
			line = line[:i]
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
