package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"bennypowers.dev/tplmin/internal/collections"
	"bennypowers.dev/tplmin/internal/log"
	"github.com/bmatcuk/doublestar/v4"
)

// expand resolves file arguments and ** globs to a sorted list of regular
// files
func expand(patterns []string) ([]string, error) {
	files := collections.NewSet[string]()
	for _, pattern := range patterns {
		if info, err := os.Stat(pattern); err == nil {
			if !info.IsDir() {
				files.Add(filepath.Clean(pattern))
			}
			continue
		}
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		for _, match := range matches {
			if info, err := os.Stat(match); err == nil && info.Mode().IsRegular() {
				files.Add(match)
			}
		}
	}
	return files.Sorted(), nil
}

// matcher reports whether a changed path is covered by any pattern
func matcher(patterns []string) func(path string) bool {
	cleaned := make([]string, len(patterns))
	for i, p := range patterns {
		cleaned[i] = filepath.ToSlash(filepath.Clean(p))
	}
	return func(path string) bool {
		name := filepath.ToSlash(filepath.Clean(path))
		for _, pattern := range cleaned {
			ok, err := doublestar.Match(pattern, name)
			if err != nil {
				log.Debug("pattern %q: %v", pattern, err)
				continue
			}
			if ok {
				return true
			}
		}
		return false
	}
}

// watchRoots returns the fixed directory prefix of each pattern
func watchRoots(patterns []string) []string {
	roots := collections.NewSet[string]()
	for _, pattern := range patterns {
		base, _ := doublestar.SplitPattern(filepath.ToSlash(pattern))
		root := filepath.FromSlash(base)
		if info, err := os.Stat(root); err == nil && !info.IsDir() {
			root = filepath.Dir(root)
		}
		roots.Add(root)
	}
	return roots.Sorted()
}

// outputPath places file below dir, keeping its path relative to the
// working directory
func outputPath(dir, file string) (string, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return "", err
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(cwd, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside the working directory", file)
	}
	return filepath.Join(dir, rel), nil
}

// writeFile writes data, creating parent directories and keeping the mode of
// an existing file
func writeFile(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	return os.WriteFile(path, data, mode)
}
