package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/werewolf/internal/harness"
	"github.com/roach88/werewolf/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string

	// IDs names games whose scenario gives no game_id (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDs store.IDGenerator
}

// RunResult is the outcome of one journaled scenario.
type RunResult struct {
	Scenario string              `json:"scenario"`
	GameID   string              `json:"game_id"`
	Pass     bool                `json:"pass"`
	Errors   []string            `json:"errors,omitempty"`
	Trace    []store.EventRecord `json:"trace"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario>",
		Short: "Play one scenario and journal its events",
		Long: `Play one scenario file and print the events of the game.

With --db (or WEREWOLF_DB) the events are journaled to that SQLite
database, creating it if it doesn't exist, and can be read back with
"werewolf trace". Without it the journal lives in memory.

Example:
  werewolf run --db ./games.db ./scenarios/village_wins.yaml
  werewolf run ./scenarios/village_wins.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Database == "" {
				opts.Database = rootOpts.DB
			}
			return runGame(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (env WEREWOLF_DB)")

	return cmd
}

func runGame(opts *RunOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return reportError(f, ErrCodeCommand, WrapExitError(ExitCommandError, "failed to load scenario", err))
	}

	dbPath := opts.Database
	if dbPath == "" {
		dbPath = ":memory:"
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return reportError(f, ErrCodeCommand, WrapExitError(ExitCommandError, "failed to open database", err))
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	ids := opts.IDs
	if ids == nil {
		ids = store.UUIDv7Generator{}
	}
	result, err := harness.Run(scenario,
		harness.WithStore(st),
		harness.WithIDGenerator(ids),
		harness.WithLogger(slog.Default()),
	)
	if err != nil {
		return reportError(f, ErrCodeCommand, WrapExitError(ExitCommandError, "failed to run scenario", err))
	}

	out := RunResult{
		Scenario: scenario.Name,
		GameID:   result.GameID,
		Pass:     result.Pass,
		Errors:   result.Errors,
		Trace:    result.Trace,
	}

	if f.JSON() {
		if !out.Pass {
			_ = f.Failure(ErrCodeTestFailed, "scenario failed", out)
			return NewExitError(ExitFailure, "scenario failed")
		}
		return f.Success(out)
	}

	w := f.Writer
	fmt.Fprintf(w, "game %s (%s)\n", out.GameID, out.Scenario)
	if err := harness.FormatTrace(w, out.Trace); err != nil {
		return err
	}
	if opts.Database != "" {
		f.VerboseLog("journaled %d event(s) to %s", len(out.Trace), opts.Database)
	}
	if !out.Pass {
		fmt.Fprintln(w, "✗ scenario failed")
		for _, e := range out.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
		return NewExitError(ExitFailure, "scenario failed")
	}
	fmt.Fprintln(w, "✓ scenario passed")
	return nil
}
