// Package hook installs the git pre-commit hook that runs the validator
// before every commit.
package hook

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrNotRepo    = errors.New("not a git repository")
	ErrTempBinary = errors.New("validator is a temporary go run build; install it with go build or go install first")
)

// Command is the hook command line for the validator binary exe scanning
// root, followed by args. Both paths are made absolute so the hook works
// whatever directory git runs it from.
func Command(exe, root string, args ...string) ([]string, error) {
	bin, err := filepath.Abs(exe)
	if err != nil {
		return nil, fmt.Errorf("resolve validator: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(bin); err == nil {
		bin = resolved
	}
	for _, part := range strings.Split(filepath.ToSlash(bin), "/") {
		if strings.HasPrefix(part, "go-build") {
			return nil, fmt.Errorf("%w: %s", ErrTempBinary, bin)
		}
	}
	dir, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	return append([]string{bin, "--root", dir}, args...), nil
}

// Script is the pre-commit hook body for command.
func Script(command []string) string {
	quoted := make([]string, len(command))
	for i, arg := range command {
		quoted[i] = shellQuote(arg)
	}
	return `#!/bin/sh
# BetLegend content validator - pre-commit hook
echo "Running BetLegend content validator..."
` + strings.Join(quoted, " ") + `
if [ $? -ne 0 ]; then
    echo ""
    echo "Commit blocked by validator. Fix errors above before committing."
    exit 1
fi
`
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Install writes .git/hooks/pre-commit under repo, replacing any existing
// hook, and returns its path.
func Install(repo string, command []string) (string, error) {
	gitDir := filepath.Join(repo, ".git")
	if info, err := os.Stat(gitDir); err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotRepo, repo)
	}
	hooks := filepath.Join(gitDir, "hooks")
	if err := os.MkdirAll(hooks, 0o755); err != nil {
		return "", fmt.Errorf("create hooks dir: %w", err)
	}
	path := filepath.Join(hooks, "pre-commit")
	if err := os.WriteFile(path, []byte(Script(command)), 0o755); err != nil {
		return "", fmt.Errorf("write hook: %w", err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(path, 0o755); err != nil {
		return "", fmt.Errorf("chmod hook: %w", err)
	}
	return path, nil
}
