package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zhubert/ecehelper/internal/backend"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the backend is reachable",
	Long:  `Calls the backend health endpoint and lists the agents it has loaded.`,
	RunE:  runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return checkHealth(cmd.Context(), backend.NewFromConfig(cfg), os.Stdout)
}

// healthChecker is the part of backend.Client used by health
type healthChecker interface {
	BaseURL() string
	Health(ctx context.Context) (backend.Health, error)
	Agents(ctx context.Context) (backend.Agents, error)
}

func checkHealth(ctx context.Context, client healthChecker, out io.Writer) error {
	fmt.Fprintf(out, "Backend: %s\n", client.BaseURL())

	h, err := client.Health(ctx)
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	fmt.Fprintf(out, "Status:  %s", h.Status)
	if h.Message != "" {
		fmt.Fprintf(out, " (%s)", h.Message)
	}
	fmt.Fprintln(out)

	a, err := client.Agents(ctx)
	if err != nil {
		fmt.Fprintf(out, "Agents:  unavailable (%v)\n", err)
		return nil
	}
	if len(a.Available) == 0 {
		fmt.Fprintln(out, "Agents:  none")
		return nil
	}
	fmt.Fprintf(out, "Agents:  %s\n", strings.Join(a.Available, ", "))
	return nil
}
