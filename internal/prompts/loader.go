// Package prompts holds the model prompt templates. Each embedded JSON file
// maps a prompt key to a template with {{.Name}} placeholders.
package prompts

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"slices"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// ErrNotFound is returned for an unknown prompt file or key.
var ErrNotFound = errors.New("prompt not found")

var (
	loadOnce sync.Once
	library  map[string]map[string]string
	loadErr  error
)

var placeholderPattern = regexp.MustCompile(`\{\{\.(\w+)\}\}`)

// load parses every embedded prompt file on first use.
func load() (map[string]map[string]string, error) {
	loadOnce.Do(func() {
		names, err := fs.Glob(promptFiles, "*.json")
		if err != nil {
			loadErr = fmt.Errorf("failed to list prompt files: %w", err)
			return
		}
		lib := make(map[string]map[string]string, len(names))
		for _, name := range names {
			data, err := promptFiles.ReadFile(name)
			if err != nil {
				loadErr = fmt.Errorf("failed to read prompt file %s: %w", name, err)
				return
			}
			var set map[string]string
			if err := json.Unmarshal(data, &set); err != nil {
				loadErr = fmt.Errorf("failed to parse prompt file %s: %w", name, err)
				return
			}
			lib[name] = set
		}
		library = lib
	})
	return library, loadErr
}

// Get returns the template stored under key in file, e.g.
// Get("classification.json", "classify-field").
func Get(file, key string) (string, error) {
	lib, err := load()
	if err != nil {
		return "", err
	}
	set, ok := lib[file]
	if !ok {
		return "", fmt.Errorf("%w: no prompt file %s", ErrNotFound, file)
	}
	prompt, ok := set[key]
	if !ok {
		return "", fmt.Errorf("%w: key %q in %s", ErrNotFound, key, file)
	}
	return prompt, nil
}

// MustGet is Get for prompts the caller cannot run without. It panics when
// the prompt is missing, which only a broken build can cause.
func MustGet(file, key string) string {
	prompt, err := Get(file, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

// Format fills {{.Name}} placeholders from data in one pass, so values are
// never themselves expanded. Placeholders without a value stay in place.
func Format(template string, data map[string]string) string {
	if len(data) == 0 {
		return template
	}
	pairs := make([]string, 0, 2*len(data))
	for name, value := range data {
		pairs = append(pairs, "{{."+name+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// Placeholders lists the placeholder names in template in order of first
// use.
func Placeholders(template string) []string {
	var names []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		if !slices.Contains(names, m[1]) {
			names = append(names, m[1])
		}
	}
	return names
}

// Keys returns the sorted prompt keys in file.
func Keys(file string) ([]string, error) {
	lib, err := load()
	if err != nil {
		return nil, err
	}
	set, ok := lib[file]
	if !ok {
		return nil, fmt.Errorf("%w: no prompt file %s", ErrNotFound, file)
	}
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys, nil
}
