package agents

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Loader discovers agent definitions in a list of directories
type Loader struct {
	paths      []string
	globalPath string
}

// NewLoader creates a loader over paths. globalPath marks which of them is the
// user-wide directory; it may be empty.
func NewLoader(paths []string, globalPath string) *Loader {
	return &Loader{paths: paths, globalPath: globalPath}
}

// LoadAll loads every *.md file from the configured paths. Missing
// directories are skipped; files that fail to parse are logged and skipped.
func (l *Loader) LoadAll() ([]*Definition, error) {
	var defs []*Definition

	for _, basePath := range l.paths {
		info, err := os.Stat(basePath)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("error accessing %s: %w", basePath, err)
		}
		if !info.IsDir() {
			continue
		}

		entries, err := os.ReadDir(basePath)
		if err != nil {
			return nil, fmt.Errorf("error reading directory %s: %w", basePath, err)
		}

		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
				continue
			}

			path := filepath.Join(basePath, entry.Name())
			def, err := LoadFile(path)
			if err != nil {
				log.Warn().Err(err).Str("path", path).Msg("skipping agent definition")
				continue
			}
			def.IsGlobal = l.globalPath != "" && basePath == l.globalPath
			defs = append(defs, def)
		}
	}

	return defs, nil
}

// LoadFile parses a single definition file
func LoadFile(path string) (*Definition, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	def, err := Parse(string(content))
	if err != nil {
		return nil, err
	}
	def.FilePath = path
	return def, nil
}

// Parse reads markdown with YAML frontmatter into a Definition
func Parse(content string) (*Definition, error) {
	frontmatter, body, err := splitFrontmatter(content)
	if err != nil {
		return nil, err
	}

	var def Definition
	if err := yaml.Unmarshal([]byte(frontmatter), &def); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFrontmatter, err)
	}
	def.Instructions = body

	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// splitFrontmatter separates the leading --- block from the body
func splitFrontmatter(content string) (frontmatter, body string, err error) {
	content = strings.ReplaceAll(strings.TrimSpace(content), "\r\n", "\n")
	if !strings.HasPrefix(content, "---") {
		return "", "", ErrNoFrontmatter
	}

	rest := strings.TrimLeft(content[3:], "\n")
	end := strings.Index(rest, "\n---")
	if end == -1 {
		return "", "", ErrNoFrontmatter
	}

	frontmatter = strings.TrimSpace(rest[:end])
	body = strings.TrimSpace(rest[end+len("\n---"):])
	return frontmatter, body, nil
}
