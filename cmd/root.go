// Package cmd implements the soundscape command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/termenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/soundscape/internal/app"
	"github.com/zjrosen/soundscape/internal/audio"
	"github.com/zjrosen/soundscape/internal/audio/beepengine"
	"github.com/zjrosen/soundscape/internal/config"
	"github.com/zjrosen/soundscape/internal/log"
	"github.com/zjrosen/soundscape/internal/sound"
	"github.com/zjrosen/soundscape/internal/soundscape"
	"github.com/zjrosen/soundscape/internal/tracing"
	"github.com/zjrosen/soundscape/internal/ui/noassets"
	"github.com/zjrosen/soundscape/internal/ui/styles"
)

// Version is set at build time.
var Version = "dev"

var (
	cfgFile   string
	assetsDir string
	debug     bool
	cfg       config.Config
)

var rootCmd = &cobra.Command{
	Use:   "soundscape",
	Short: "An ambient summer soundscape mixer for the terminal",
	Long: `Soundscape mixes looping ambient sounds (cicadas, waves, wind chimes
and more) with independent volumes and a master level.`,
	Version:           Version,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runRoot,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/soundscape/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&assetsDir, "assets-dir", "", "directory containing sounds/*.mp3")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging (to soundscape-debug.log unless log.file is set)")
}

func initConfig() {
	config.SetDefaults(viper.GetViper())
	_ = viper.BindPFlag("assets_dir", rootCmd.PersistentFlags().Lookup("assets-dir"))

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if p, err := config.DefaultConfigPath(); err == nil {
			viper.AddConfigPath(filepath.Dir(p))
		}
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("SOUNDSCAPE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	c, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	if debug {
		c.Log.Level = "debug"
		if c.Log.File == "" {
			c.Log.File = "soundscape-debug.log"
		}
	}
	cfg = c
	return nil
}

// watchConfig re-applies the log level when the config file changes.
func watchConfig() {
	if viper.ConfigFileUsed() == "" {
		return
	}
	viper.OnConfigChange(func(e fsnotify.Event) {
		next, err := config.Load(viper.GetViper())
		if err != nil {
			log.ErrorErr(log.CatConfig, "Ignoring invalid config change", err, "file", e.Name)
			return
		}
		level := next.Log.Level
		if debug {
			level = "debug"
		}
		if err := log.SetLevel(level); err != nil {
			log.ErrorErr(log.CatConfig, "Failed to apply log level", err)
			return
		}
		log.Info(log.CatConfig, "Config reloaded", "file", e.Name, "level", level)
	})
	viper.WatchConfig()
}

func runRoot(cmd *cobra.Command, _ []string) error {
	closeLog, err := log.Init(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("initializing log: %w", err)
	}
	defer func() { _ = closeLog() }()
	log.Info(log.CatCLI, "Starting soundscape", "version", Version, "config", viper.ConfigFileUsed())
	watchConfig()

	if err := styles.ApplyTheme(styles.ThemeConfig{
		Preset: cfg.Theme.Preset,
		Mode:   cfg.Theme.Mode,
		Colors: cfg.Theme.Colors,
	}); err != nil {
		return fmt.Errorf("applying theme: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	tp, err := tracing.Setup(ctx, cfg.Tracing, Version)
	if err != nil {
		return err
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.ErrorErr(log.CatCLI, "Failed to flush traces", err)
		}
	}()

	reg := sound.Default()
	fs := assetFs(cfg.AssetsDir)
	if missing := missingAssets(fs, reg); len(missing) > 0 {
		log.Warn(log.CatCLI, "Sound files not found", "assetsDir", cfg.AssetsDir, "missing", missing)
		if len(missing) == reg.Len() {
			return runProgram(ctx, noassets.New(cfg.AssetsDir, missing))
		}
	}

	engine := beepengine.New(beepengine.Config{
		Fs:             fs,
		SampleRate:     cfg.Audio.SampleRate,
		BufferDuration: cfg.Audio.Buffer,
		CacheTTL:       cfg.Audio.CacheTTL,
	})
	defer engine.Close()

	master := sound.MustVolume(cfg.MasterVolume)
	mixer := audio.NewMixer(engine,
		audio.WithInitialMasterVolume(master),
		audio.WithTracerProvider(tp),
	)
	store := soundscape.NewStore(reg,
		soundscape.WithSoundVolume(sound.MustVolume(cfg.DefaultVolume)),
		soundscape.WithMasterVolume(master),
	)
	defer store.Close()
	ctrl := soundscape.NewController(reg, store, mixer)
	defer ctrl.Close()

	zones := zone.New()
	defer zones.Close()

	model := app.New(ctx, ctrl, app.Options{
		GlamourStyle: glamourStyle(cfg.Theme.Mode),
		Zones:        zones,
	})
	if err := runProgram(ctx, model); err != nil {
		return err
	}
	log.Info(log.CatCLI, "Soundscape exited")
	return nil
}

func runProgram(ctx context.Context, model tea.Model) error {
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running UI: %w", err)
	}
	return nil
}

// assetFs roots /sounds/... paths at dir.
func assetFs(dir string) afero.Fs {
	return afero.NewReadOnlyFs(afero.NewBasePathFs(afero.NewOsFs(), dir))
}

func missingAssets(fs afero.Fs, reg *sound.Registry) []string {
	var missing []string
	for _, d := range reg.List() {
		if ok, err := afero.Exists(fs, d.Path.String()); err != nil || !ok {
			missing = append(missing, d.Path.String())
		}
	}
	return missing
}

func glamourStyle(mode string) string {
	switch mode {
	case "light", "dark":
		return mode
	}
	if termenv.HasDarkBackground() {
		return "dark"
	}
	return "light"
}
