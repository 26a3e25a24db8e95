package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"

	"github.com/zhubert/ecehelper/internal/session"
	"github.com/zhubert/ecehelper/internal/store"
)

// sessionTitleWidth is the column width of titles in the listing
const sessionTitleWidth = 40

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List saved conversations",
	Long:  `Prints the saved conversations newest first with their message counts. Conversations without messages are skipped.`,
	RunE:  runSessions,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return fmt.Errorf("error opening session store: %w", err)
	}
	defer st.Close()

	return listSessions(cmd.Context(), st, os.Stdout)
}

func listSessions(ctx context.Context, repo session.Repository, out io.Writer) error {
	snap := repo.Load(ctx)

	// stored order is newest first; empty sessions are never restored
	sessions := slices.DeleteFunc(slices.Clone(snap.Sessions), func(s session.Session) bool {
		return len(s.Messages) == 0
	})
	if len(sessions) == 0 {
		fmt.Fprintln(out, "No saved conversations.")
		return nil
	}

	for _, s := range sessions {
		title := ansi.Truncate(s.Title, sessionTitleWidth, "…")
		pad := sessionTitleWidth - ansi.StringWidth(title)
		fmt.Fprintf(out, "%s%*s  %3d msg  %s\n", title, pad, "", len(s.Messages), s.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}
