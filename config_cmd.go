package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfig = `# start in quiz mode, vocabulary masked
quiz: false
# first tab: formula, essays or vocab
tab: "formula"
# maximum text width, 0 picks one from the terminal
width: 0
# glamour style name or JSON path for "essaycoach print" (default "auto")
style: "auto"
# mouse support in the reader
mouse: true
# disable pronunciation audio
no_audio: false

data:
  # YAML file replacing the built-in study material
  library: ""

speech:
  # language tag sent to both backends
  language: "en-US"
  remote:
    endpoint: "https://translate.google.com/translate_tts"
    # per-request limit, 0 waits as long as the server takes
    timeout: "0s"
    requests_per_minute: 50
  local:
    # on-device engine: espeak or piper
    engine: "espeak"
    # binary: "espeak-ng"
    # model: "~/.local/share/piper/en_US-lessac-medium.onnx"
    # voice: ""
  cache:
    # decoded audio kept in memory, in megabytes
    max_size: 100

analytics:
  # page views are only sent when both are set
  measurement_id: ""
  api_secret: ""
`

var configCmd = &cobra.Command{
	Use:     "config",
	Hidden:  false,
	Short:   "Edit the essaycoach config file",
	Long:    paragraph(fmt.Sprintf("\n%s the essaycoach config file. We’ll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created.", keyword("Edit"))),
	Example: paragraph("essaycoach config\nessaycoach config --config path/to/config.yml"),
	Args:    cobra.NoArgs,
	// Skip validation so a broken file can still be fixed.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE: func(*cobra.Command, []string) error {
		if err := ensureConfigFile(); err != nil {
			return err
		}

		c, err := editor.Cmd("essaycoach", configFile)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		fmt.Println("Wrote config file to:", configFile)
		return nil
	},
}

func ensureConfigFile() error {
	if configFile == "" {
		configFile = viper.GetViper().ConfigFileUsed()
		if err := os.MkdirAll(filepath.Dir(configFile), 0o755); err != nil { //nolint:gosec
			return fmt.Errorf("could not write configuration file: %w", err)
		}
	}

	if ext := path.Ext(configFile); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	if _, err := os.Stat(configFile); errors.Is(err, fs.ErrNotExist) {
		// File doesn't exist yet, create all necessary directories and
		// write the default config file
		if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
			return fmt.Errorf("unable create directory: %w", err)
		}

		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("unable to create config file: %w", err)
		}
		defer func() { _ = f.Close() }()

		if _, err := f.WriteString(defaultConfig); err != nil {
			return fmt.Errorf("unable to write config file: %w", err)
		}
	} else if err != nil { // some other error occurred
		return fmt.Errorf("unable to stat config file: %w", err)
	}
	return nil
}
