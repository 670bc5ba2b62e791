package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/werewolf/internal/rules"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Exhaustive bool
}

// ValidationResult describes a ruleset that compiled.
type ValidationResult struct {
	Valid      bool               `json:"valid"`
	Source     string             `json:"source"`
	Rules      int                `json:"rules"`
	Explicit   int                `json:"explicit"`
	RoleOrder  []string           `json:"role_order"`
	Collisions []string           `json:"collisions,omitempty"`
	Audit      *rules.AuditReport `json:"audit,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate [rules]",
		Short: "Compile a ruleset and report its shape",
		Long: `Compile a CUE ruleset (a file or a package directory) and check every
rule invariant. Without an argument the embedded sample rules are used.

Reports the rule counts, the role order and every pair of same-priority
rules that may collide. --exhaustive also collapses every combination of
the handled tags and lists the ones the rules cannot resolve.

Exit codes:
  0 - rules are valid
  1 - rules do not compile or the audit found gaps
  2 - the rules path does not exist

Examples:
  werewolf validate ./rules
  werewolf validate ./rules/werewolf.cue --exhaustive --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runValidate(opts, path, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Exhaustive, "exhaustive", false, "collapse every combination of handled tags")

	return cmd
}

func runValidate(opts *ValidateOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	cfg, source, err := loadRules(path)
	if err != nil {
		return reportError(f, ErrCodeCompile, err)
	}
	f.VerboseLog("compiled %d rule(s) from %s", cfg.RuleSet.Len(), source)

	result := ValidationResult{
		Valid:     true,
		Source:    source,
		Rules:     cfg.RuleSet.Len(),
		RoleOrder: roleNames(cfg.RoleOrder),
	}
	for _, r := range cfg.RuleSet.Rules() {
		if r.Explicit() {
			result.Explicit++
		}
	}
	for _, c := range cfg.RuleSet.PotentialCollisions() {
		result.Collisions = append(result.Collisions, fmt.Sprintf("%s <> %s", cfg.NameOf(c.A), cfg.NameOf(c.B)))
	}

	if opts.Exhaustive {
		report, err := cfg.RuleSet.Audit()
		if err != nil {
			return reportError(f, ErrCodeAudit, WrapExitError(ExitCommandError, "audit", err))
		}
		result.Audit = report
		result.Valid = len(report.Failures) == 0
	}

	if f.JSON() {
		if !result.Valid {
			_ = f.Failure(ErrCodeAudit, fmt.Sprintf("%d combination(s) cannot be collapsed", len(result.Audit.Failures)), result)
			return NewExitError(ExitFailure, "audit failed")
		}
		return f.Success(result)
	}

	w := f.Writer
	mark := "✓"
	if !result.Valid {
		mark = "✗"
	}
	fmt.Fprintf(w, "%s %d rules (%d explicit) in %s\n", mark, result.Rules, result.Explicit, source)
	if len(result.RoleOrder) > 0 {
		fmt.Fprintf(w, "  role order: %s\n", strings.Join(result.RoleOrder, ", "))
	}
	for _, c := range result.Collisions {
		fmt.Fprintf(w, "  potential collision: %s\n", c)
	}
	if result.Audit != nil {
		fmt.Fprintf(w, "  audit: %d combinations, %d failures\n", result.Audit.Checked, len(result.Audit.Failures))
		for _, failure := range result.Audit.Failures {
			fmt.Fprintf(w, "    %s: %s\n", failure.Tags, failure.Code)
			f.VerboseLog("%s: %s", failure.Tags, failure.Error)
		}
	}

	if !result.Valid {
		return NewExitError(ExitFailure, "audit failed")
	}
	return nil
}
