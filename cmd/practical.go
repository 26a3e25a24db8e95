package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	huh "charm.land/huh/v2"
	"github.com/spf13/cobra"

	"github.com/zhubert/ecehelper/internal/backend"
	"github.com/zhubert/ecehelper/internal/practical"
)

var (
	latexOut string
	pdfOut   string
)

var practicalCmd = &cobra.Command{
	Use:   "practical [topic...]",
	Short: "Generate a MATLAB practical without the TUI",
	Long: `Asks the backend for a MATLAB practical on a topic and prints the theory,
the brute-force and optimized code, and their explanations.

Without a topic you are prompted for one.

Examples:
  ecehelper practical FIR Filter Design
  ecehelper practical "Fast Fourier Transform (FFT)" --latex .
  ecehelper practical Convolution --pdf report.pdf`,
	RunE: runPractical,
}

func init() {
	practicalCmd.Flags().StringVar(&latexOut, "latex", "", "Write the LaTeX report to this file or directory")
	practicalCmd.Flags().StringVar(&pdfOut, "pdf", "", "Compile the report on the backend and write the PDF to this file or directory")
	rootCmd.AddCommand(practicalCmd)
}

func runPractical(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	topic := strings.Join(args, " ")
	if strings.TrimSpace(topic) == "" {
		if topic, err = promptTopic(); err != nil {
			return err
		}
	}

	client := backend.NewFromConfig(cfg)
	return generatePractical(cmd.Context(), client, topic, os.Stdout)
}

// promptTopic asks for a topic, offering the suggested ones
func promptTopic() (string, error) {
	const custom = "custom"
	var choice, topic string

	options := make([]huh.Option[string], 0, len(practical.SuggestedTopics)+1)
	for _, t := range practical.SuggestedTopics {
		options = append(options, huh.NewOption(t, t))
	}
	options = append(options, huh.NewOption("Custom topic...", custom))

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Practical topic").
				Options(options...).
				Value(&choice),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Topic").
				CharLimit(200).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("enter a topic")
					}
					return nil
				}).
				Value(&topic),
		).WithHideFunc(func() bool { return choice != custom }),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	if choice != custom {
		topic = choice
	}
	return topic, nil
}

// pdfClient is the part of backend.Client used for PDF export
type pdfClient interface {
	practical.Generator
	GeneratePDF(ctx context.Context, latex string) ([]byte, error)
}

func generatePractical(ctx context.Context, client pdfClient, topic string, out io.Writer) error {
	flow := practical.NewFlow(client)

	fmt.Fprintf(out, "Generating practical: %s\n\n", practical.TrimTopic(topic))
	res, ok := flow.Generate(ctx, topic)
	if !ok {
		return errors.New("a topic is required")
	}
	if !res.IsSuccess() {
		return errors.New(res.DisplayError())
	}

	printPractical(out, res)

	if latexOut != "" {
		path, err := practical.WriteLatex(latexOut, res)
		if err != nil {
			return fmt.Errorf("error writing LaTeX report: %w", err)
		}
		fmt.Fprintf(out, "LaTeX report written to %s\n", path)
	}

	if pdfOut != "" {
		if res.LatexReport == "" {
			return practical.ErrNoLatex
		}
		data, err := client.GeneratePDF(ctx, res.LatexReport)
		if err != nil {
			return fmt.Errorf("error generating PDF: %w", err)
		}
		path := pdfPath(pdfOut, res.Topic)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("error writing PDF: %w", err)
		}
		fmt.Fprintf(out, "PDF written to %s\n", path)
	}
	return nil
}

func printPractical(out io.Writer, res practical.Result) {
	for _, tab := range res.Tabs() {
		if tab.Key == "latex" {
			continue
		}
		fmt.Fprintf(out, "== %s ==\n\n", tab.Title)
		if tab.Disabled {
			fmt.Fprintf(out, "%s\n\n", tab.Placeholder)
			continue
		}
		if tab.Code != "" {
			fmt.Fprintf(out, "%s\n\n", strings.TrimRight(tab.Code, "\n"))
		}
		if tab.Body != "" {
			fmt.Fprintf(out, "%s\n\n", strings.TrimRight(tab.Body, "\n"))
		}
	}
}

// pdfPath names the PDF after the topic when dest is a directory
func pdfPath(dest, topic string) string {
	if info, err := os.Stat(dest); err == nil && info.IsDir() {
		name := strings.TrimSuffix(practical.LatexFilename(topic), ".tex") + ".pdf"
		return filepath.Join(dest, name)
	}
	return dest
}
