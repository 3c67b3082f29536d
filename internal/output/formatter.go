package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jenian/keycheck/internal/config"
	"github.com/jenian/keycheck/internal/keycheck"
	"golang.org/x/term"
)

var (
	// Color support detection
	colorEnabled = initColorSupport()
)

// ANSI color codes
const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorGray  = "\033[90m"
	colorBold  = "\033[1m"
)

// SuccessMessage is printed when the key is available
const SuccessMessage = "API key loaded successfully! ✨"

// Options controls how a result is printed
type Options struct {
	JSON       bool // Machine-readable output
	Silent     bool // Print nothing, exit code only
	ShowMasked bool // Append the masked key to the success message
}

// initColorSupport initializes color support for the terminal
func initColorSupport() bool {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return false
	}
	return enableANSI()
}

// getColor returns the color code if colors are enabled, empty string otherwise
func getColor(code string) string {
	if colorEnabled {
		return code
	}
	return ""
}

// FailureMessage is printed when the key is unset or empty
func FailureMessage(key, envFile string) string {
	name := filepath.Base(envFile)
	if name == "" || name == "." {
		name = config.DefaultEnvFile
	}
	return fmt.Sprintf("Error: API key %q was not found. Check your %s file.", key, name)
}

// Format writes the check result to w
func Format(w io.Writer, result keycheck.Result, opts Options) error {
	if opts.Silent {
		return nil
	}

	if opts.JSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}

	if !result.Found {
		_, err := fmt.Fprintf(w, "%s%s%s\n", getColor(colorRed), FailureMessage(result.Key, result.EnvFile), getColor(colorReset))
		return err
	}

	if _, err := fmt.Fprintf(w, "%s%s%s%s\n", getColor(colorGreen), getColor(colorBold), SuccessMessage, getColor(colorReset)); err != nil {
		return err
	}
	if opts.ShowMasked && result.Masked != "" {
		_, err := fmt.Fprintf(w, "%sKey: %s (from %s)%s\n", getColor(colorGray), result.Masked, result.Source, getColor(colorReset))
		return err
	}
	return nil
}

// FormatError formats an error message
func FormatError(err error) string {
	return fmt.Sprintf("Error: %s\n", err)
}
