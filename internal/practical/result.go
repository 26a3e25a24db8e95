// Package practical holds the generated MATLAB practical bundle returned by the
// backend, the single-slot request flow that fetches it, and helpers for
// exporting its LaTeX report.
package practical

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Status is the outcome reported by the backend for a practical request.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// FailedMessage is shown when the backend could not be reached or errored.
const FailedMessage = "Failed to process the practical. Please try again."

// UnknownErrorMessage is shown for an error result without any detail.
const UnknownErrorMessage = "An error occurred while processing your request."

// NoOptimizedCode is the placeholder for the optimized tab when the backend sent no code.
const NoOptimizedCode = "% No optimized code available"

// ErrNoLatex is returned when exporting a result that has no LaTeX report.
var ErrNoLatex = errors.New("practical has no LaTeX report")

// Result is one generated practical: theory, two code variants with
// explanations, and a LaTeX report. The JSON names follow the backend contract.
type Result struct {
	Status                 Status `json:"status"`
	Topic                  string `json:"topic"`
	Theory                 string `json:"theory,omitempty"`
	BruteForceCode         string `json:"brute_force_code,omitempty"`
	BruteForceExplanation  string `json:"brute_force_explanation,omitempty"`
	EfficientCode          string `json:"efficient_code,omitempty"`
	EfficientExplanation   string `json:"efficient_explanation,omitempty"`
	OptimizationApplicable bool   `json:"optimization_applicable,omitempty"`
	LatexReport            string `json:"latex_report,omitempty"`
	ErrorMessage           string `json:"error_message,omitempty"`

	// Error is set by the backend's generic exception handler instead of ErrorMessage.
	Error string `json:"error,omitempty"`
}

// FailedResult is the result recorded when the request itself failed.
func FailedResult(topic string) Result {
	return Result{
		Status:       StatusError,
		Topic:        topic,
		ErrorMessage: FailedMessage,
	}
}

// IsSuccess reports whether the backend produced a practical.
func (r Result) IsSuccess() bool {
	return r.Status == StatusSuccess
}

// DisplayError returns the message to show for an error result.
func (r Result) DisplayError() string {
	if r.ErrorMessage != "" {
		return r.ErrorMessage
	}
	if r.Error != "" {
		return r.Error
	}
	return UnknownErrorMessage
}

// Tab is one pane of the tabbed practical viewer.
type Tab struct {
	Key         string
	Title       string
	Body        string // Markdown prose
	Code        string // MATLAB or LaTeX source, rendered highlighted
	Language    string // Lexer name for Code
	Disabled    bool
	Placeholder string // Shown instead of Code when Disabled
}

// CopyText is what the copy action puts on the clipboard for this tab.
func (t Tab) CopyText() string {
	if t.Code != "" {
		return t.Code
	}
	return t.Body
}

// Tabs splits a successful result into the four viewer tabs.
func (r Result) Tabs() []Tab {
	optimized := Tab{
		Key:      "advanced",
		Title:    "Optimized",
		Code:     r.EfficientCode,
		Body:     r.EfficientExplanation,
		Language: "matlab",
		Disabled: !r.OptimizationApplicable,
	}
	if optimized.Code == "" {
		optimized.Placeholder = NoOptimizedCode
	}
	if optimized.Disabled {
		optimized.Placeholder = "Optimization is not applicable for this practical."
	}

	return []Tab{
		{Key: "theory", Title: "Theory", Body: r.Theory},
		{
			Key:      "basic",
			Title:    "Brute force",
			Code:     r.BruteForceCode,
			Body:     r.BruteForceExplanation,
			Language: "matlab",
		},
		optimized,
		{Key: "latex", Title: "LaTeX", Code: r.LatexReport, Language: "latex"},
	}
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// LatexFilename returns the download name for a topic's report,
// e.g. "Fast Fourier Transform" -> "Fast_Fourier_Transform_report.tex".
func LatexFilename(topic string) string {
	return whitespaceRun.ReplaceAllString(topic, "_") + "_report.tex"
}

// WriteLatex writes the LaTeX report of r. If dest is an existing directory
// (or empty, meaning the working directory) the file is named after the topic.
// Returns the path written.
func WriteLatex(dest string, r Result) (string, error) {
	if r.LatexReport == "" {
		return "", ErrNoLatex
	}

	path := dest
	if path == "" {
		path = LatexFilename(r.Topic)
	} else if info, err := os.Stat(dest); err == nil && info.IsDir() {
		path = filepath.Join(dest, LatexFilename(r.Topic))
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", err
		}
	}
	if err := os.WriteFile(path, []byte(r.LatexReport), 0644); err != nil {
		return "", err
	}
	return path, nil
}

// SuggestedTopics are offered in the practical form.
var SuggestedTopics = []string{
	"Convolution of two signals",
	"Fast Fourier Transform (FFT)",
	"FIR Filter Design",
	"Amplitude Modulation and Demodulation",
	"Sampling and Aliasing",
	"Discrete Fourier Transform (DFT)",
}

// SuggestedPrompts are offered in an empty chat.
var SuggestedPrompts = []string{
	"What is the difference between FFT and DFT?",
	"Explain convolution in signal processing",
	"How does amplitude modulation work?",
	"What are FIR and IIR filters?",
}

// TrimTopic normalizes a user-entered topic.
func TrimTopic(topic string) string {
	return strings.TrimSpace(topic)
}
