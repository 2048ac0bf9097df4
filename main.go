// Package main provides the entry point for the essaycoach CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/dgnsrekt/essaycoach/internal/analytics"
	"github.com/dgnsrekt/essaycoach/internal/config"
	"github.com/dgnsrekt/essaycoach/ui"
)

// analyticsWait bounds how long exit waits for the start-up page view.
const analyticsWait = 2 * time.Second

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	style      string
	width      uint

	// cfg is the validated configuration, set before any command runs.
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "essaycoach",
		Short: "Study English essay writing in the terminal",
		Long: paragraph(
			fmt.Sprintf("\nStudy a %s, model essays and vocabulary, %s.",
				keyword("template formula"), keyword("with pronunciation")),
		),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

func validateOptions(cmd *cobra.Command) error {
	if cmd.Flags().Changed("config") {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("unable to read config file: %w", err)
		}
	}

	c, err := config.Decode(viper.GetViper())
	if err != nil {
		return err
	}
	cfg = c

	style = cfg.Style
	if s := os.Getenv("GLAMOUR_STYLE"); s != "" && !cmd.Flags().Changed("style") {
		style = s
	}
	if err := validateStyle(style); err != nil {
		return err
	}

	isTerminal := term.IsTerminal(int(os.Stdout.Fd()))
	// We want to use a special no-TTY style, when stdout is not a terminal
	// and there was no specific style passed by arg
	if !isTerminal && !cmd.Flags().Changed("style") {
		style = "notty"
	}

	// Detect terminal width
	width = cfg.Width
	if width == 0 {
		if isTerminal {
			w, _, err := term.GetSize(int(os.Stdout.Fd()))
			if err == nil {
				width = uint(w) //nolint:gosec
			}
			if width > 120 {
				width = 120
			}
		}
		if width == 0 {
			width = 80
		}
	}
	return nil
}

func execute(*cobra.Command, []string) error {
	lib, err := loadLibrary()
	if err != nil {
		return err
	}

	// Read environment to get interface knobs
	uiCfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return fmt.Errorf("error parsing config: %w", err)
	}
	uiCfg.Quiz = cfg.Quiz
	uiCfg.Tab = cfg.Tab
	uiCfg.MaxWidth = cfg.Width
	uiCfg.EnableMouse = cfg.Mouse

	deps := ui.Deps{Library: lib}
	if !cfg.NoAudio {
		sp, err := newSpeechStack(cfg.Speech)
		if err != nil {
			return err
		}
		defer sp.Close() //nolint:errcheck
		deps.Speech = sp.controller
		deps.CacheStats = sp.cache.Stats
	}

	ctx, cancel := context.WithTimeout(context.Background(), analyticsWait)
	defer cancel()
	reported := analytics.New(analytics.Config{
		MeasurementID: cfg.Analytics.MeasurementID,
		APISecret:     cfg.Analytics.APISecret,
	}).Report(ctx, "essaycoach")

	// Run Bubble Tea program
	if _, err := ui.NewProgram(uiCfg, deps).Run(); err != nil {
		return fmt.Errorf("unable to run tui program: %w", err)
	}

	<-reported
	return nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	flags.BoolP("quiz", "q", false, "mask vocabulary for self-testing")
	flags.StringP("style", "s", styles.AutoStyle, "style name or JSON path (print and vocab)")
	flags.UintP("width", "w", 0, "maximum text width (0 to detect)")
	flags.Bool("no-audio", false, "disable pronunciation audio")
	rootCmd.Flags().StringP("tab", "t", config.TabFormula, "tab to start on (formula, essays or vocab)")
	rootCmd.Flags().BoolP("mouse", "m", true, "enable mouse support")

	// Config bindings
	_ = viper.BindPFlag("quiz", flags.Lookup("quiz"))
	_ = viper.BindPFlag("style", flags.Lookup("style"))
	_ = viper.BindPFlag("width", flags.Lookup("width"))
	_ = viper.BindPFlag("no_audio", flags.Lookup("no-audio"))
	_ = viper.BindPFlag("tab", rootCmd.Flags().Lookup("tab"))
	_ = viper.BindPFlag("mouse", rootCmd.Flags().Lookup("mouse"))

	rootCmd.AddCommand(printCmd, vocabCmd, sayCmd, configCmd, manCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "essaycoach")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "essaycoach")}, dirs...)
	}

	if c := os.Getenv("ESSAYCOACH_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("essaycoach")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("essaycoach")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	config.SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "essaycoach.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
