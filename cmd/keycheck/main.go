package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jenian/keycheck/internal/config"
	"github.com/jenian/keycheck/internal/keycheck"
	"github.com/jenian/keycheck/internal/logging"
	"github.com/jenian/keycheck/internal/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is set at build time via -ldflags
var Version = "dev"

// checkOptions holds the flags of the root command
type checkOptions struct {
	key        string
	envFile    string
	maskPrefix int
	override   bool
	showMasked bool
	jsonOutput bool
	silent     bool
	noFail     bool
	debug      bool
}

func newRootCmd() *cobra.Command {
	opts := &checkOptions{}

	rootCmd := &cobra.Command{
		Use:   "keycheck",
		Short: "Check that the API key is available",
		Long: "Loads the local .env file, looks up the API key and reports whether it was found.\n" +
			"Exits with status 1 when the key is missing or empty.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.key, "key", "k", config.DefaultKey, "Name of the environment variable holding the API key")
	flags.StringVarP(&opts.envFile, "env-file", "e", config.DefaultEnvFile, "File to load variables from")
	flags.IntVar(&opts.maskPrefix, "mask-prefix", config.DefaultMaskPrefix, "Characters of the key shown with --show-masked")
	flags.BoolVar(&opts.override, "override", false, "Let values from the env file replace exported variables")
	flags.BoolVar(&opts.showMasked, "show-masked", false, "Print a masked prefix of the key on success")
	flags.BoolVar(&opts.jsonOutput, "json", false, "Output the result in JSON format")
	flags.BoolVar(&opts.silent, "silent", false, "Silent mode (exit code only)")
	flags.BoolVar(&opts.noFail, "no-fail", false, "Exit with status 0 even when the key is missing")
	flags.BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newInitConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func newInitConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-config",
		Short: "Create a " + config.FileName + " file in the current directory",
		Long:  "Creates a " + config.FileName + " file with default configuration in the current directory.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.WriteTemplate("."); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s in the current directory\n", config.FileName)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Long:  "Print the version number of keycheck",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
		},
	}
}

func runCheck(cmd *cobra.Command, opts *checkOptions) error {
	logger, err := logging.New(opts.debug)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	cfg := resolveConfig(cmd, opts, logger)

	result, err := keycheck.Check(cfg, nil, logger)
	if err != nil {
		return err
	}

	formatOpts := output.Options{
		JSON:       opts.jsonOutput,
		Silent:     opts.silent,
		ShowMasked: opts.showMasked,
	}
	if err := output.Format(cmd.OutOrStdout(), result, formatOpts); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if opts.noFail {
		return nil
	}
	return result.Err()
}

// resolveConfig applies precedence: flags > .keycheck.config > defaults
func resolveConfig(cmd *cobra.Command, opts *checkOptions, logger *zap.Logger) *config.Config {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		if !opts.silent {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to load %s: %v\n", config.FileName, err)
		}
		// Continue with default config
		cfg = config.Default()
	}

	flags := cmd.Flags()
	if flags.Changed("key") {
		cfg.Key = opts.key
	}
	if flags.Changed("env-file") {
		cfg.EnvFile = opts.envFile
	}
	if flags.Changed("mask-prefix") {
		cfg.MaskPrefix = opts.maskPrefix
	}
	if flags.Changed("override") {
		cfg.Override = opts.override
	}

	logger.Debug("resolved configuration",
		zap.String("env_file", cfg.EnvFile),
		zap.Int("mask_prefix", cfg.MaskPrefix),
		zap.Bool("override", cfg.Override))
	return cfg
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, keycheck.ErrKeyNotFound) {
			fmt.Fprint(os.Stderr, output.FormatError(err))
		}
		os.Exit(1)
	}
}
