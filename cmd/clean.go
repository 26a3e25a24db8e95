package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zhubert/ecehelper/internal/logger"
	"github.com/zhubert/ecehelper/internal/store"
)

var skipConfirm bool

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove all conversations and log files",
	Long: `Clears every saved conversation and the sidebar width from the session
store, then removes the log files.

It will prompt for confirmation before proceeding unless the --yes flag is used.`,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "Skip confirmation prompt")
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return fmt.Errorf("error opening session store: %w", err)
	}
	defer st.Close()

	return cleanStore(cmd.Context(), st, os.Stdin, os.Stdout)
}

// cleanStore clears st after confirmation read from input
func cleanStore(ctx context.Context, st *store.Store, input io.Reader, out io.Writer) error {
	snap := st.Load(ctx)
	sessionCount := len(snap.Sessions)

	fmt.Fprintln(out, "This will clean:")
	if sessionCount > 0 {
		fmt.Fprintf(out, "  - %d conversation(s) in %s\n", sessionCount, st.Describe())
	}
	fmt.Fprintln(out, "  - The saved sidebar width")
	fmt.Fprintln(out, "  - All ecehelper log files")

	if !skipConfirm {
		if !confirm(input, out, "Continue?") {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	if err := st.Clear(ctx); err != nil {
		return fmt.Errorf("error clearing session store: %w", err)
	}

	logsCleared, err := logger.ClearLogs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: error clearing logs: %v\n", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Cleaned:")
	fmt.Fprintf(out, "  - %d conversation(s) cleared\n", sessionCount)
	if logsCleared > 0 {
		fmt.Fprintf(out, "  - %d log file(s) removed\n", logsCleared)
	}
	return nil
}

// confirm prompts the user for y/n confirmation
func confirm(input io.Reader, out io.Writer, prompt string) bool {
	reader := bufio.NewReader(input)
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}
