package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/werewolf/internal/harness"
	"github.com/roach88/werewolf/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	Kind     string // optional - filter to one event kind
}

// TraceResult is the journal of one game.
type TraceResult struct {
	Game   store.Game          `json:"game"`
	Events []store.EventRecord `json:"events"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace [game-id]",
		Short: "Print journaled games and their events",
		Long: `Read the event journal written by "werewolf run".

Without a game ID every journaled game is listed with its event count and
last event. With one, that game's events are printed in order.

Examples:
  werewolf trace --db ./games.db
  werewolf trace --db ./games.db 0192c3e8-... --kind player_killed
  werewolf trace 0192c3e8-... --format json   # WEREWOLF_DB set`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Database == "" {
				opts.Database = rootOpts.DB
			}
			gameID := ""
			if len(args) == 1 {
				gameID = args[0]
			}
			return runTrace(opts, gameID, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (env WEREWOLF_DB)")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "only show events of this kind")

	return cmd
}

func runTrace(opts *TraceOptions, gameID string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)
	ctx := cmd.Context()

	if opts.Database == "" {
		return reportError(f, ErrCodeBadArgument, NewExitError(ExitCommandError, "--db is required (or set WEREWOLF_DB)"))
	}
	// store.Open would create a missing database
	if _, err := os.Stat(opts.Database); err != nil {
		return reportError(f, ErrCodeNotFound, WrapExitError(ExitCommandError, "database not found", err))
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return reportError(f, ErrCodeCommand, WrapExitError(ExitCommandError, "failed to open database", err))
	}
	defer st.Close()

	if gameID == "" {
		games, err := st.ListGames(ctx)
		if err != nil {
			return reportError(f, ErrCodeCommand, WrapExitError(ExitCommandError, "failed to list games", err))
		}
		if f.JSON() {
			return f.Success(games)
		}
		if len(games) == 0 {
			fmt.Fprintln(f.Writer, "No games journaled.")
			return nil
		}
		for _, g := range games {
			fmt.Fprintf(f.Writer, "%s  %s  %d players  %d events  %s\n", g.ID, g.Name, g.Players, g.Events, g.LastKind)
		}
		return nil
	}

	g, err := st.GetGame(ctx, gameID)
	if errors.Is(err, store.ErrGameNotFound) {
		_ = f.Error(ErrCodeNotFound, fmt.Sprintf("game not found: %s", gameID), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("game not found: %s", gameID))
	}
	if err != nil {
		return reportError(f, ErrCodeCommand, WrapExitError(ExitCommandError, "failed to read game", err))
	}

	var events []store.EventRecord
	if opts.Kind != "" {
		events, err = st.ReadEventsOfKind(ctx, gameID, opts.Kind)
	} else {
		events, err = st.ReadEvents(ctx, gameID)
	}
	if err != nil {
		return reportError(f, ErrCodeCommand, WrapExitError(ExitCommandError, "failed to read events", err))
	}

	if f.JSON() {
		return f.Success(TraceResult{Game: g, Events: events})
	}
	fmt.Fprintf(f.Writer, "game %s (%s, %d players)\n", g.ID, g.Name, g.Players)
	return harness.FormatTrace(f.Writer, events)
}
