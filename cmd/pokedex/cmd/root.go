// Package cmd contains all CLI commands for the pokedex tool.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/f3rmion/pokedex/internal/config"
	"github.com/f3rmion/pokedex/internal/lookup"
	"github.com/f3rmion/pokedex/internal/pokeapi"
	"github.com/f3rmion/pokedex/internal/tui"
	"github.com/f3rmion/pokedex/internal/tui/spriteart"
	"github.com/f3rmion/pokedex/internal/tui/views"
)

var cfgDir string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pokedex",
	Short: "Look up Pokémon from the terminal",
	Long: `pokedex looks up Pokémon by name on PokéAPI and shows their
sprite, abilities and types.

Running 'pokedex' without arguments launches the interactive TUI.
Use 'pokedex lookup <name>...' for one-shot lookups.

Settings are read from $HOME/.config/pokedex/config.yaml and can be
overridden with POKEDEX_* environment variables or flags.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgDir, "config", "", "config directory (default is $HOME/.config/pokedex)")
	pf.Bool("verbose", false, "verbose output")
	pf.String("api-url", "", "PokéAPI base URL")
	pf.Duration("timeout", 0, "request timeout (e.g. 5s, 0 disables)")
	pf.String("log-level", "", "log level: debug, info, warn, error")

	viper.BindPFlag("verbose", pf.Lookup("verbose"))
	viper.BindPFlag("api.base_url", pf.Lookup("api-url"))
	viper.BindPFlag("api.timeout", pf.Lookup("timeout"))
	viper.BindPFlag("log.level", pf.Lookup("log-level"))
}

// initConfig reads in config dir and ENV variables if set.
func initConfig() {
	if cfgDir != "" {
		viper.Set("config_dir", cfgDir)
	} else {
		dir, err := config.GetConfigDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
			os.Exit(1)
		}
		viper.Set("config_dir", dir)
	}

	viper.SetEnvPrefix("POKEDEX")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// getConfigDir returns the configuration directory path.
func getConfigDir() string {
	return viper.GetString("config_dir")
}

// loadConfig reads config.yaml from the config directory, falling back to
// defaults when it does not exist, then applies env and flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(filepath.Join(getConfigDir(), config.FileName))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		cfg = config.Default()
	case err != nil:
		return nil, err
	}

	applyOverrides(cfg, viper.GetViper())

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyOverrides copies values set through env or flags onto cfg.
// Unset keys leave the file value alone.
func applyOverrides(cfg *config.Config, v *viper.Viper) {
	if s := v.GetString("api.base_url"); s != "" {
		cfg.API.BaseURL = s
	}
	if v.IsSet("api.timeout") {
		cfg.API.Timeout = v.GetDuration("api.timeout")
	}
	if s := v.GetString("api.user_agent"); s != "" {
		cfg.API.UserAgent = s
	}
	if s := v.GetString("log.level"); s != "" {
		cfg.Log.Level = s
	}
	if v.GetBool("verbose") {
		cfg.Log.Level = "debug"
	}
	if s := v.GetString("lookup.trim_input"); s != "" {
		cfg.Lookup.TrimInput = v.GetBool("lookup.trim_input")
	}
}

// newService builds the PokéAPI client and lookup service from cfg.
func newService(cfg *config.Config, logger zerolog.Logger) *lookup.Service {
	client := pokeapi.NewClient(
		pokeapi.WithBaseURL(cfg.API.BaseURL),
		pokeapi.WithTimeout(cfg.API.Timeout),
		pokeapi.WithUserAgent(cfg.API.UserAgent),
		pokeapi.WithRateLimit(cfg.API.RateLimit),
		pokeapi.WithLogger(logger),
	)
	return lookup.NewService(client, logger)
}

// runTUI launches the interactive lookup TUI.
func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	configDir := getConfigDir()
	if err := config.EnsureDir(configDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	logger, closeLog, err := config.NewLogger(cfg.Log.Level, cfg.LogPath(configDir))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}
	defer closeLog()

	logger.Info().
		Str("base_url", cfg.API.BaseURL).
		Dur("timeout", cfg.API.Timeout).
		Bool("trim_input", cfg.Lookup.TrimInput).
		Msg("starting tui")

	svc := newService(cfg, logger)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var sprites lookup.SpriteFetcher
	var cache *spriteart.Cache
	if cfg.Display.Sprite {
		sprites = svc
		cache = spriteart.NewCache(cfg.Display.SpriteTTL)
	}

	lv := views.NewLookupModel(ctx, svc, sprites, views.LookupOptions{
		KeepWhitespace: !cfg.Lookup.TrimInput,
		Sprite:         cfg.Display.Sprite,
		SpriteWidth:    cfg.Display.SpriteWidth,
		SpriteHeight:   cfg.Display.SpriteHeight,
		SpriteCache:    cache,
		Logger:         logger,
	})

	p := tea.NewProgram(
		tui.NewApp(lv, cfg.Display.Banner),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}
