package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// AliasFile is the name of the alias file inside the config directory.
const AliasFile = "aliases"

// Aliases maps shorthand names typed on the command line to the exact brand
// or retailer spelling used in the feed, e.g. "redbull = Red Bull".
// Keys are matched case-insensitively.
type Aliases struct {
	names map[string]string
}

// LoadAliases reads {dir}/aliases. A missing file yields an empty set.
// Blank lines and lines starting with "#" are skipped; any other line must
// have the form "alias = Name".
func LoadAliases(dir string) (*Aliases, error) {
	a := &Aliases{names: make(map[string]string)}

	path := filepath.Join(dir, AliasFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return a, nil
		}
		return nil, fmt.Errorf("failed to open aliases: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		alias, name, ok := strings.Cut(line, "=")
		alias, name = strings.TrimSpace(alias), strings.TrimSpace(name)
		if !ok || alias == "" || name == "" {
			return nil, fmt.Errorf("%s:%d: want \"alias = Name\", got %q", path, lineNo, line)
		}
		a.names[strings.ToLower(alias)] = name
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read aliases: %w", err)
	}
	return a, nil
}

// Resolve returns the name s is an alias for, or s unchanged.
func (a *Aliases) Resolve(s string) string {
	if a == nil {
		return s
	}
	if name, ok := a.names[strings.ToLower(strings.TrimSpace(s))]; ok {
		return name
	}
	return s
}

// Len returns the number of aliases defined.
func (a *Aliases) Len() int {
	if a == nil {
		return 0
	}
	return len(a.names)
}
