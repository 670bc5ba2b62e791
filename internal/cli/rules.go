package cli

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/roach88/werewolf/internal/compiler"
	"github.com/roach88/werewolf/internal/harness"
	"github.com/roach88/werewolf/internal/roles"
)

// loadRules compiles the rules at path, or the embedded sample rules when
// path is empty. It returns the compiled config and the name to report.
func loadRules(path string) (*compiler.Config, string, error) {
	if path == "" {
		cfg, err := compiler.CompileString(roles.DefaultRules, roles.DefaultRulesFile)
		return cfg, roles.DefaultRulesFile, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, path, WrapExitError(ExitCommandError, "rules not found", err)
	}
	cfg, err := compiler.Load(path)
	return cfg, path, err
}

// reportError writes err through f and returns the matching ExitError.
// Errors that are already ExitErrors keep their code; anything else the
// rules or game reject is a failure (exit 1).
func reportError(f *OutputFormatter, fallback string, err error) error {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		code := ErrCodeCommand
		if errors.Is(err, os.ErrNotExist) {
			code = ErrCodeNotFound
		}
		_ = f.Error(code, err.Error(), nil)
		return exitErr
	}

	code := harness.ErrorCode(err)
	if code == "" {
		code = fallback
	}
	var details any
	var ce *compiler.CompileError
	if errors.As(err, &ce) {
		details = map[string]string{"field": ce.Field, "position": ce.Pos.String()}
	}
	_ = f.Error(code, err.Error(), details)
	return WrapExitError(ExitFailure, fmt.Sprintf("%s failed", fallback), err)
}

// roleNames returns the roles of a role order, first to act first.
func roleNames(order map[string]int) []string {
	names := make([]string, 0, len(order))
	for name := range order {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		return cmp.Or(cmp.Compare(order[a], order[b]), cmp.Compare(a, b))
	})
	return names
}
