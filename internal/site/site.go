// Package site discovers the HTML pages of a static site and reads and
// writes them.
package site

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

var (
	DefaultSkipDirs     = []string{".git", "node_modules", ".claude", "__pycache__", "assets", "images", "css", "js"}
	DefaultSkipFiles    = []string{"404.html", "template.html", "test_article.html", "input.html"}
	DefaultSkipPatterns = []string{"google*.html"}
)

// Walker finds the pages under a root. Skip patterns are doublestar globs
// matched against both the base name and the slash-separated relative path.
type Walker struct {
	SkipDirs     []string
	SkipFiles    []string
	SkipPatterns []string
}

func DefaultWalker() Walker {
	return Walker{
		SkipDirs:     DefaultSkipDirs,
		SkipFiles:    DefaultSkipFiles,
		SkipPatterns: DefaultSkipPatterns,
	}
}

// Find returns the sorted page paths under root. A root that is itself a
// file is returned as-is.
func (w Walker) Find(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	skipDirs := toSet(w.SkipDirs)
	skipFiles := toSet(w.SkipFiles)

	var out []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsPage(d.Name()) || skipFiles[d.Name()] {
			return nil
		}
		if w.skipByPattern(Rel(root, path), d.Name()) {
			return nil
		}
		out = append(out, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Strings(out)
	return out, nil
}

func (w Walker) skipByPattern(rel, name string) bool {
	for _, p := range w.SkipPatterns {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

func IsPage(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".html" || ext == ".htm"
}

// Rel returns path relative to root with forward slashes. Paths outside
// root are returned cleaned but otherwise unchanged.
func Rel(root, path string) string {
	r, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(r, "..") {
		return filepath.ToSlash(filepath.Clean(path))
	}
	return filepath.ToSlash(r)
}

// Read returns the file content with invalid UTF-8 sequences replaced.
func Read(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(bytes.ToValidUTF8(b, []byte("�"))), nil
}

// Write replaces the file through a temp file in the same directory,
// keeping the original mode when the file already exists.
func Write(path, content string) error {
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	name := tmp.Name()
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(name)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(name, mode); err != nil {
		os.Remove(name)
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// IsEducational reports whether the lower-cased path contains any marker.
func IsEducational(path string, markers []string) bool {
	lower := strings.ToLower(filepath.ToSlash(path))
	for _, m := range markers {
		if m != "" && strings.Contains(lower, strings.ToLower(m)) {
			return true
		}
	}
	return false
}

func toSet(items []string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, it := range items {
		m[it] = true
	}
	return m
}

// SportPages returns the top-level pages of root named "<sport>*.html",
// sorted, leaving out any whose name contains one of exclude.
func SportPages(root, sport string, exclude ...string) ([]string, error) {
	names, err := doublestar.Glob(os.DirFS(root), sport+"*.html")
	if err != nil {
		return nil, fmt.Errorf("glob %s pages: %w", sport, err)
	}
	var out []string
next:
	for _, name := range names {
		for _, ex := range exclude {
			if strings.Contains(name, ex) {
				continue next
			}
		}
		out = append(out, filepath.Join(root, name))
	}
	sort.Strings(out)
	return out, nil
}
