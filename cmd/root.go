package cmd

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/zhubert/ecehelper/internal/app"
	"github.com/zhubert/ecehelper/internal/backend"
	"github.com/zhubert/ecehelper/internal/config"
	"github.com/zhubert/ecehelper/internal/logger"
	"github.com/zhubert/ecehelper/internal/store"
)

var (
	debugMode             bool
	quietMode             bool
	backendURL            string
	ephemeral             bool
	version, commit, date string
)

// envFile is loaded before the config so ECE_BACKEND_URL can live there
const envFile = ".env"

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "ecehelper",
	Short: "Terminal tutor for electronics and MATLAB practicals",
	Long: `ECE Helper is a terminal client for the AI tutor backend.
Chat with the tutor in several conversations at once and generate MATLAB
practicals with theory, brute-force and optimized code, and a LaTeX report.`,
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", true, "Enable debug logging (on by default)")
	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "q", false, "Reduce logging to info level only")
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", "", "Backend base URL (overrides config and "+config.BackendURLEnv+")")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "Keep conversations in memory only")
}

func initConfig() {
	if quietMode {
		logger.SetDebug(false)
	} else if debugMode {
		logger.SetDebug(true)
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	return rootCmd.Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("ecehelper %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("ecehelper %s\n", version)
}

// loadConfig reads the env file and config, then applies command-line overrides
func loadConfig() (*config.Config, error) {
	if err := config.LoadEnvFiles(envFile); err != nil {
		logger.WithComponent("cmd").Warn("env file ignored", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	if backendURL != "" {
		cfg.SetBackendURL(backendURL)
	}
	if ephemeral {
		cfg.SetStore(config.StoreMemory)
	}
	return cfg, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := store.Open(cfg)
	if err != nil {
		return fmt.Errorf("error opening session store: %w", err)
	}
	defer st.Close()

	defer logger.Close()

	client := backend.NewFromConfig(cfg)
	logger.WithComponent("cmd").Info("starting", "version", version, "backend", client.BaseURL(), "store", st.Describe())

	m := app.New(cfg, st, client, version, app.WithBackendURLHook(client.SetBaseURL))
	p := tea.NewProgram(m)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	return nil
}
