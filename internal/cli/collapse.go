package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/werewolf/internal/rules"
	"github.com/roach88/werewolf/internal/tag"
)

// CollapseResult is one explained collapse.
type CollapseResult struct {
	Input  string   `json:"input"`
	Result string   `json:"result"`
	Steps  []string `json:"steps"`
}

// NewCollapseCommand creates the collapse command.
func NewCollapseCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collapse <rules> <tag>...",
		Short: "Collapse a tag set and show every rewrite",
		Long: `Collapse the given tags with a ruleset and print each rewrite step.
Pass "-" as the rules to use the embedded sample rules.

Examples:
  werewolf collapse ./rules killed_by_werewolves healed_by_witch
  werewolf collapse - killed_by_werewolves protected_by_guardian --format json`,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if path == "-" {
				path = ""
			}
			return runCollapse(rootOpts, path, args[1:], cmd)
		},
	}

	return cmd
}

func runCollapse(opts *RootOptions, path string, ids []string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	for _, id := range ids {
		if id == "" {
			return reportError(f, ErrCodeBadArgument, NewExitError(ExitCommandError, "tag identifiers must not be empty"))
		}
	}

	cfg, _, err := loadRules(path)
	if err != nil {
		return reportError(f, ErrCodeCompile, err)
	}

	input := tag.FromIDs(ids...)
	collapsed, steps, err := cfg.RuleSet.Explain(input)
	if err != nil {
		return reportError(f, string(rules.ErrCodeNoMatchingRule), err)
	}

	result := CollapseResult{
		Input:  input.String(),
		Result: collapsed.String(),
		Steps:  make([]string, len(steps)),
	}
	for i, s := range steps {
		result.Steps[i] = s.String()
	}

	if f.JSON() {
		return f.Success(result)
	}
	w := f.Writer
	fmt.Fprintln(w, result.Input)
	for _, s := range result.Steps {
		fmt.Fprintf(w, "  %s\n", s)
	}
	fmt.Fprintf(w, "= %s\n", result.Result)
	return nil
}
