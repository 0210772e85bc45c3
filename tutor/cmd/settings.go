package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// settings are per-user defaults for the terminal client, read from
// ~/.config/historytutor/cli.yaml. Flags given on the command line win.
type settings struct {
	Server   string `yaml:"server"`
	Markdown *bool  `yaml:"markdown"`
	Browser  *bool  `yaml:"browser"`
	NoColor  bool   `yaml:"no_color"`
}

func defaultSettingsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "historytutor", "cli.yaml")
}

// loadSettings returns zero settings when the file does not exist.
func loadSettings(path string) (settings, error) {
	var s settings
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, err
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// apply copies settings into flags the user did not set explicitly.
func (s settings) apply(cmd *cobra.Command) {
	flags := cmd.Flags()
	if s.Server != "" && !flags.Changed("server") {
		serverURL = s.Server
	}
	if s.NoColor && !flags.Changed("no-color") {
		noColor = true
	}
	if s.Markdown != nil && flags.Lookup("markdown") != nil && !flags.Changed("markdown") {
		markdown = *s.Markdown
	}
	if s.Browser != nil && flags.Lookup("browser") != nil && !flags.Changed("browser") {
		openBrowsers = *s.Browser
	}
}
