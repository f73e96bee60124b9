package repository

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rtandon/gfg/internal/constants"
)

// Config is a minimal reader/writer for Git's config INI dialect: bracketed
// "[section]" headers and "key = value" lines. It supports exactly what
// this core needs (the [core] section written by Init, and reading
// user.name/user.email) rather than the full Git config grammar
// (subsections, includes, multi-valued keys).
type Config struct {
	sections map[string]map[string]string
	order    []string
}

// NewConfig returns an empty config.
func NewConfig() *Config {
	return &Config{sections: map[string]map[string]string{}}
}

// Set records key=value under section, creating the section if needed.
func (c *Config) Set(section, key, value string) {
	if _, ok := c.sections[section]; !ok {
		c.sections[section] = map[string]string{}
		c.order = append(c.order, section)
	}
	c.sections[section][key] = value
}

// Get looks up key under section.
func (c *Config) Get(section, key string) (string, bool) {
	s, ok := c.sections[section]
	if !ok {
		return "", false
	}
	v, ok := s[key]
	return v, ok
}

// String renders the config in Git's config file layout: one blank-line-free
// "[section]" header per section, in insertion order, followed by its
// "\tkey = value" lines in sorted key order.
func (c *Config) String() string {
	var b strings.Builder
	for _, section := range c.order {
		fmt.Fprintf(&b, "[%s]\n", section)
		for _, key := range c.sectionKeyOrder(section) {
			fmt.Fprintf(&b, "\t%s = %s\n", key, c.sections[section][key])
		}
	}
	return b.String()
}

// sectionKeyOrder is deterministic (keys sorted by name) but doesn't preserve
// original insertion order per-key; this core only ever writes the fixed
// [core] key set in WriteConfig, so that's sufficient.
func (c *Config) sectionKeyOrder(section string) []string {
	keys := make([]string, 0, len(c.sections[section]))
	for k := range c.sections[section] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ParseConfig decodes a config file's contents.
func ParseConfig(data []byte) (*Config, error) {
	c := NewConfig()
	scanner := bufio.NewScanner(strings.NewReader(string(data)))

	section := ""
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.TrimSpace(line[1 : len(line)-1])
			continue
		}
		eq := strings.IndexByte(line, '=')
		if eq < 0 {
			return nil, fmt.Errorf("malformed config line: %q", line)
		}
		key := strings.TrimSpace(line[:eq])
		value := strings.TrimSpace(line[eq+1:])
		c.Set(section, key, value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return c, nil
}

// ReadConfigFile loads the config file at path.
func ReadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(data)
}

// WriteConfigFile writes c to path.
func WriteConfigFile(path string, c *Config) error {
	if err := os.WriteFile(path, []byte(c.String()), constants.FilePerms); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
