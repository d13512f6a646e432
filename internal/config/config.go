package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config is the full Throne Star configuration tree.
type Config struct {
	Combat      CombatConfig      `mapstructure:"combat"`
	Input       InputConfig       `mapstructure:"input"`
	Feedback    FeedbackConfig    `mapstructure:"feedback"`
	Galaxy      GalaxyConfig      `mapstructure:"galaxy"`
	AI          AIConfig          `mapstructure:"ai"`
	Simulation  SimulationConfig  `mapstructure:"simulation"`
	Server      ServerConfig      `mapstructure:"server"`
	UI          UIConfig          `mapstructure:"ui"`
	Colors      ColorsConfig      `mapstructure:"colors"`
	Development DevelopmentConfig `mapstructure:"development"`
}

// CombatConfig holds battle pacing and odds
type CombatConfig struct {
	TravelDelayMs    int     `mapstructure:"travel_delay_ms"`
	RoundIntervalMs  int     `mapstructure:"round_interval_ms"`
	BaseWinChance    float64 `mapstructure:"base_win_chance"`
	MinWinChance     float64 `mapstructure:"min_win_chance"`
	MaxWinChance     float64 `mapstructure:"max_win_chance"`
	DefaultSendRatio float64 `mapstructure:"default_send_ratio"`
	BonusStep        float64 `mapstructure:"bonus_step"`
	BonusCap         float64 `mapstructure:"bonus_cap"`
}

// InputConfig holds the fleet shares sent per modifier
type InputConfig struct {
	BasePercent    float64 `mapstructure:"base_percent"`
	FullPercent    float64 `mapstructure:"full_percent"`
	QuarterPercent float64 `mapstructure:"quarter_percent"`
	ErrorTextMs    int     `mapstructure:"error_text_ms"`
}

// FeedbackConfig holds visual effect lifetimes
type FeedbackConfig struct {
	FlashMs        int `mapstructure:"flash_ms"`
	TextMs         int `mapstructure:"text_ms"`
	ParticleLifeMs int `mapstructure:"particle_life_ms"`
	FlightLifeMs   int `mapstructure:"flight_life_ms"`
}

// GalaxyConfig holds map generation settings
type GalaxyConfig struct {
	Stars            int     `mapstructure:"stars"`
	Players          int     `mapstructure:"players"`
	Width            float64 `mapstructure:"width"`
	Height           float64 `mapstructure:"height"`
	NeighborRadius   float64 `mapstructure:"neighbor_radius"`
	MinStarSpacing   float64 `mapstructure:"min_star_spacing"`
	HomeArmies       int     `mapstructure:"home_armies"`
	NeutralMinArmies int     `mapstructure:"neutral_min_armies"`
	NeutralMaxArmies int     `mapstructure:"neutral_max_armies"`
}

// AIConfig holds autopilot settings
type AIConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	ThinkIntervalMs int  `mapstructure:"think_interval_ms"`
}

// SimulationConfig holds headless run settings
type SimulationConfig struct {
	TickMs       int   `mapstructure:"tick_ms"`
	MaxDurationS int   `mapstructure:"max_duration_s"`
	Seed         int64 `mapstructure:"seed"`
}

// ServerConfig holds galaxy server configuration
type ServerConfig struct {
	Host                  string `mapstructure:"host"`
	Port                  int    `mapstructure:"port"`
	LogLevel              string `mapstructure:"log_level"`
	LogFormat             string `mapstructure:"log_format"`
	EnableReflection      bool   `mapstructure:"enable_reflection"`
	GracefulShutdownDelay int    `mapstructure:"graceful_shutdown_delay"`
}

// UIConfig configures the desktop client.
type UIConfig struct {
	Window      WindowConfig `mapstructure:"window"`
	HumanPlayer int          `mapstructure:"human_player"`
	AIOnly      bool         `mapstructure:"ai_only"`
	StarRadius  float64      `mapstructure:"star_radius"`
}

// WindowConfig is the client window.
type WindowConfig struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Title  string `mapstructure:"title"`
}

// ColorsConfig is the RGB palette. Players are listed in id order.
type ColorsConfig struct {
	Neutral    [3]int   `mapstructure:"neutral"`
	Players    [][3]int `mapstructure:"players"`
	Background [3]int   `mapstructure:"background"`
	Lanes      [3]int   `mapstructure:"lanes"`
}

// DevelopmentConfig toggles debug output.
type DevelopmentConfig struct {
	VerboseLogging bool `mapstructure:"verbose_logging"`
	ShowIDs        bool `mapstructure:"show_ids"`
}

var (
	// Package-level state, set by Init.
	cfg *Config
	v   *viper.Viper
)

// setViperDefaults registers a default for every key so env overrides work for all of them.
func setViperDefaults(v *viper.Viper) {
	// Combat defaults
	v.SetDefault("combat.travel_delay_ms", 1000)
	v.SetDefault("combat.round_interval_ms", 50)
	v.SetDefault("combat.base_win_chance", 0.5)
	v.SetDefault("combat.min_win_chance", 0.1)
	v.SetDefault("combat.max_win_chance", 0.9)
	v.SetDefault("combat.default_send_ratio", 0.5)
	v.SetDefault("combat.bonus_step", 0.05)
	v.SetDefault("combat.bonus_cap", 0.2)

	// Input defaults
	v.SetDefault("input.base_percent", 0.5)
	v.SetDefault("input.full_percent", 1.0)
	v.SetDefault("input.quarter_percent", 0.25)
	v.SetDefault("input.error_text_ms", 1500)

	// Feedback defaults
	v.SetDefault("feedback.flash_ms", 150)
	v.SetDefault("feedback.text_ms", 1500)
	v.SetDefault("feedback.particle_life_ms", 400)
	v.SetDefault("feedback.flight_life_ms", 1000)

	// Galaxy defaults
	v.SetDefault("galaxy.stars", 24)
	v.SetDefault("galaxy.players", 2)
	v.SetDefault("galaxy.width", 1000.0)
	v.SetDefault("galaxy.height", 700.0)
	v.SetDefault("galaxy.neighbor_radius", 220.0)
	v.SetDefault("galaxy.min_star_spacing", 60.0)
	v.SetDefault("galaxy.home_armies", 20)
	v.SetDefault("galaxy.neutral_min_armies", 2)
	v.SetDefault("galaxy.neutral_max_armies", 8)

	// AI defaults
	v.SetDefault("ai.enabled", true)
	v.SetDefault("ai.think_interval_ms", 750)

	// Simulation defaults
	v.SetDefault("simulation.tick_ms", 16)
	v.SetDefault("simulation.max_duration_s", 600)
	v.SetDefault("simulation.seed", 0)

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 50051)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.log_format", "console")
	v.SetDefault("server.enable_reflection", true)
	v.SetDefault("server.graceful_shutdown_delay", 5)

	// UI defaults
	v.SetDefault("ui.window.width", 1000)
	v.SetDefault("ui.window.height", 700)
	v.SetDefault("ui.window.title", "Throne Star")
	v.SetDefault("ui.human_player", 0)
	v.SetDefault("ui.ai_only", false)
	v.SetDefault("ui.star_radius", 18.0)

	// Color defaults
	v.SetDefault("colors.neutral", []int{120, 120, 120})
	v.SetDefault("colors.players", [][]int{
		{220, 60, 60},
		{60, 110, 220},
		{60, 190, 90},
		{220, 200, 60},
	})
	v.SetDefault("colors.background", []int{8, 8, 20})
	v.SetDefault("colors.lanes", []int{40, 40, 70})

	// Development defaults
	v.SetDefault("development.verbose_logging", false)
	v.SetDefault("development.show_ids", false)
}

// Init layers defaults, the config file (configPath, or config.yaml on the
// search path) and TS_ env overrides, then validates. A missing file is not
// an error.
func Init(configPath string) error {
	v = viper.New()

	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/thronestar")
	}

	// TS_COMBAT_TRAVEL_DELAY_MS overrides combat.travel_delay_ms
	v.SetEnvPrefix("TS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// A specific file that is missing falls back to defaults
		if configPath == "" && !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	loaded := &Config{}
	if err := v.Unmarshal(loaded); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := Validate(loaded); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	cfg = loaded
	return nil
}

// Get returns the loaded config, initializing defaults on first use.
func Get() *Config {
	if cfg == nil {
		if err := Init(""); err != nil {
			panic("failed to initialize config with defaults: " + err.Error())
		}
	}
	return cfg
}

// GetViper exposes the viper instance. It panics before Init.
func GetViper() *viper.Viper {
	if v == nil {
		panic("config not initialized - call Init() first")
	}
	return v
}

// LoadEnvironmentConfig merges config.<env>.yaml over the loaded config
func LoadEnvironmentConfig(env string) error {
	if env == "" {
		return nil
	}

	envFile := fmt.Sprintf("config.%s.yaml", env)

	v.SetConfigFile(envFile)
	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error merging environment config %s: %w", envFile, err)
		}
	}

	return reload()
}

// Set overrides one key and re-decodes the config.
func Set(key string, value interface{}) {
	v.Set(key, value)
	_ = v.Unmarshal(cfg)
}

// GetString and friends read single keys from the viper instance.
func GetString(key string) string {
	return v.GetString(key)
}

func GetInt(key string) int {
	return v.GetInt(key)
}

func GetBool(key string) bool {
	return v.GetBool(key)
}

func GetFloat64(key string) float64 {
	return v.GetFloat64(key)
}

// ConfigFilePath is the file viper read, empty when running on defaults.
func ConfigFilePath() string {
	return v.ConfigFileUsed()
}

// WatchConfig enables hot-reloading of the config file. onChange receives the
// reloaded config, or the validation error that kept the old one in place.
func WatchConfig(onChange func(*Config, error)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		err := reload()
		if onChange != nil {
			onChange(cfg, err)
		}
	})
	v.WatchConfig()
}

// reload re-decodes viper state and swaps it in only if it validates
func reload() error {
	next := &Config{}
	if err := v.Unmarshal(next); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := Validate(next); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	cfg = next
	return nil
}

// Validate rejects configs the engine cannot run with.
func Validate(c *Config) error {
	// Combat
	if c.Combat.TravelDelayMs < 0 {
		return fmt.Errorf("combat.travel_delay_ms must be non-negative")
	}
	if c.Combat.RoundIntervalMs <= 0 {
		return fmt.Errorf("combat.round_interval_ms must be positive")
	}
	if c.Combat.MinWinChance <= 0 || c.Combat.MaxWinChance >= 1 || c.Combat.MinWinChance > c.Combat.MaxWinChance {
		return fmt.Errorf("combat win chance bounds must satisfy 0 < min <= max < 1")
	}
	if c.Combat.BaseWinChance < c.Combat.MinWinChance || c.Combat.BaseWinChance > c.Combat.MaxWinChance {
		return fmt.Errorf("combat.base_win_chance must be within the min/max bounds")
	}
	if c.Combat.DefaultSendRatio <= 0 || c.Combat.DefaultSendRatio > 1 {
		return fmt.Errorf("combat.default_send_ratio must be between 0 and 1")
	}
	if c.Combat.BonusStep < 0 || c.Combat.BonusCap < 0 {
		return fmt.Errorf("combat bonus step and cap must be non-negative")
	}

	// Input
	for name, pct := range map[string]float64{
		"input.base_percent":    c.Input.BasePercent,
		"input.full_percent":    c.Input.FullPercent,
		"input.quarter_percent": c.Input.QuarterPercent,
	} {
		if pct <= 0 || pct > 1 {
			return fmt.Errorf("%s must be between 0 and 1", name)
		}
	}

	// Galaxy
	if c.Galaxy.Players < 1 || c.Galaxy.Players > len(c.Colors.Players) {
		return fmt.Errorf("galaxy.players must be between 1 and %d", len(c.Colors.Players))
	}
	if c.Galaxy.Stars < c.Galaxy.Players {
		return fmt.Errorf("galaxy.stars must be at least galaxy.players")
	}
	if c.Galaxy.Width <= 0 || c.Galaxy.Height <= 0 {
		return fmt.Errorf("galaxy dimensions must be positive")
	}
	if c.Galaxy.NeighborRadius <= 0 {
		return fmt.Errorf("galaxy.neighbor_radius must be positive")
	}
	if c.Galaxy.HomeArmies < 2 {
		return fmt.Errorf("galaxy.home_armies must be at least 2")
	}
	if c.Galaxy.NeutralMinArmies < 0 || c.Galaxy.NeutralMaxArmies < c.Galaxy.NeutralMinArmies {
		return fmt.Errorf("galaxy neutral army range is invalid")
	}

	// AI and simulation
	if c.AI.ThinkIntervalMs <= 0 {
		return fmt.Errorf("ai.think_interval_ms must be positive")
	}
	if c.Simulation.TickMs <= 0 {
		return fmt.Errorf("simulation.tick_ms must be positive")
	}
	if c.Simulation.MaxDurationS <= 0 {
		return fmt.Errorf("simulation.max_duration_s must be positive")
	}

	// Server
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Server.GracefulShutdownDelay < 0 {
		return fmt.Errorf("server.graceful_shutdown_delay must be non-negative")
	}

	// UI
	if c.UI.Window.Width <= 0 || c.UI.Window.Height <= 0 {
		return fmt.Errorf("ui.window dimensions must be positive")
	}
	if c.UI.HumanPlayer < -1 || c.UI.HumanPlayer >= c.Galaxy.Players {
		return fmt.Errorf("ui.human_player must be -1 or valid player index")
	}

	// Colors
	validateRGB := func(rgb [3]int, name string) error {
		for i, v := range rgb {
			if v < 0 || v > 255 {
				return fmt.Errorf("%s[%d] must be between 0 and 255", name, i)
			}
		}
		return nil
	}
	if err := validateRGB(c.Colors.Neutral, "colors.neutral"); err != nil {
		return err
	}
	if err := validateRGB(c.Colors.Background, "colors.background"); err != nil {
		return err
	}
	for i, rgb := range c.Colors.Players {
		if err := validateRGB(rgb, fmt.Sprintf("colors.players[%d]", i)); err != nil {
			return err
		}
	}

	return nil
}
