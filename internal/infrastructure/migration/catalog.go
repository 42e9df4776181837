package migration

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var migrationName = regexp.MustCompile(`^(\d{6})_([a-z0-9_]+)\.(up|down)\.sql$`)

// List returns the base names of the migrations in source, in version order.
// A migration missing its down file is an error.
func List(source fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(source, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	directions := map[string]map[string]bool{}
	for _, entry := range entries {
		match := migrationName.FindStringSubmatch(entry.Name())
		if entry.IsDir() || match == nil {
			continue
		}
		base := match[1] + "_" + match[2]
		if directions[base] == nil {
			directions[base] = map[string]bool{}
		}
		directions[base][match[3]] = true
	}

	names := make([]string, 0, len(directions))
	for base, dirs := range directions {
		if !dirs["up"] || !dirs["down"] {
			return nil, fmt.Errorf("migration %s must have both up and down files", base)
		}
		names = append(names, base)
	}
	sort.Strings(names)
	return names, nil
}

// Create writes an empty up/down pair numbered after the latest migration in dir
func Create(dir, name string) (upPath, downPath string, err error) {
	slug := sanitizeName(name)
	if slug == "" {
		return "", "", fmt.Errorf("migration name %q has no usable characters", name)
	}

	existing, err := List(os.DirFS(dir))
	if err != nil {
		return "", "", err
	}
	next := 1
	if len(existing) > 0 {
		last, _ := strconv.Atoi(existing[len(existing)-1][:6])
		next = last + 1
	}

	base := fmt.Sprintf("%06d_%s", next, slug)
	upPath = filepath.Join(dir, base+".up.sql")
	downPath = filepath.Join(dir, base+".down.sql")

	if err := os.WriteFile(upPath, []byte("-- "+name+"\n"), 0o644); err != nil {
		return "", "", fmt.Errorf("failed to create up migration: %w", err)
	}
	if err := os.WriteFile(downPath, []byte("-- rollback "+name+"\n"), 0o644); err != nil {
		_ = os.Remove(upPath)
		return "", "", fmt.Errorf("failed to create down migration: %w", err)
	}
	return upPath, downPath, nil
}

func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "_") {
				b.WriteByte('_')
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
