// Package config loads folioview settings from a TOML file and FOLIOVIEW_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/matzehuels/folioview/pkg/settings"
	"github.com/matzehuels/folioview/pkg/viewer"
)

// Backend names.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Config holds application configuration.
type Config struct {
	Viewer    ViewerConfig   `mapstructure:"viewer"`
	Cache     CacheConfig    `mapstructure:"cache"`
	Bookmarks BookmarkConfig `mapstructure:"bookmarks"`
	Server    ServerConfig   `mapstructure:"server"`
}

// ViewerConfig holds the initial view state and viewport geometry.
type ViewerConfig struct {
	ZoomLevel           int    `mapstructure:"zoom_level"`
	PagesPerRow         int    `mapstructure:"pages_per_row"`
	ViewMode            string `mapstructure:"view_mode"`
	EnableFilenameParam bool   `mapstructure:"enable_filename_param"`
	HashParamSuffix     string `mapstructure:"hash_param_suffix"`
	PanelWidth          int    `mapstructure:"panel_width"`
	PanelHeight         int    `mapstructure:"panel_height"`
	DisplayWidth        int    `mapstructure:"display_width"`
	DisplayHeight       int    `mapstructure:"display_height"`
	HorizontalPadding   int    `mapstructure:"horizontal_padding"`
	VerticalPadding     int    `mapstructure:"vertical_padding"`
}

// CacheConfig selects where fetched manifests are cached.
type CacheConfig struct {
	Backend       string `mapstructure:"backend"`
	Dir           string `mapstructure:"dir"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`

	// KeyPrefix scopes keys so several deployments can share one backend.
	KeyPrefix string `mapstructure:"key_prefix"`
}

// BookmarkConfig selects where bookmarks are stored.
type BookmarkConfig struct {
	Backend         string `mapstructure:"backend"`
	Dir             string `mapstructure:"dir"`
	MongoURI        string `mapstructure:"mongo_uri"`
	MongoDatabase   string `mapstructure:"mongo_database"`
	MongoCollection string `mapstructure:"mongo_collection"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DefaultPath returns ~/.config/folioview/config.toml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "folioview", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix
// FOLIOVIEW_, e.g. FOLIOVIEW_VIEWER_ZOOM_LEVEL. path overrides
// FOLIOVIEW_CONFIG, which overrides DefaultPath; a missing file is only an
// error when the path was given explicitly.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")

	explicit := path != ""
	if !explicit {
		path = os.Getenv("FOLIOVIEW_CONFIG")
		explicit = path != ""
	}
	if path == "" {
		path = DefaultPath()
	}
	v.SetConfigFile(path)

	v.SetEnvPrefix("FOLIOVIEW")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !(errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)) {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("viewer.zoom_level", 0)
	v.SetDefault("viewer.pages_per_row", settings.MaxPagesPerRow)
	v.SetDefault("viewer.view_mode", settings.ModeDocument.String())
	v.SetDefault("viewer.enable_filename_param", false)
	v.SetDefault("viewer.hash_param_suffix", "")
	v.SetDefault("viewer.panel_width", viewer.DefaultPanelWidth)
	v.SetDefault("viewer.panel_height", viewer.DefaultPanelHeight)
	v.SetDefault("viewer.display_width", 0)
	v.SetDefault("viewer.display_height", 0)
	v.SetDefault("viewer.horizontal_padding", viewer.DefaultHorizontalPadding)
	v.SetDefault("viewer.vertical_padding", viewer.DefaultVerticalPadding)

	v.SetDefault("cache.backend", BackendFile)
	v.SetDefault("cache.dir", "")
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)

	v.SetDefault("bookmarks.backend", BackendFile)
	v.SetDefault("bookmarks.dir", "")
	v.SetDefault("bookmarks.mongo_uri", "")
	v.SetDefault("bookmarks.mongo_database", "folioview")
	v.SetDefault("bookmarks.mongo_collection", "bookmarks")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "5s")
}

// Validate checks backend names and the viewer section.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return fmt.Errorf("invalid cache.backend: %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	switch c.Bookmarks.Backend {
	case BackendFile:
	case BackendMongo:
		if c.Bookmarks.MongoURI == "" {
			return fmt.Errorf("bookmarks.mongo_uri is required for the mongo backend")
		}
	default:
		return fmt.Errorf("invalid bookmarks.backend: %q (must be one of: file, mongo)", c.Bookmarks.Backend)
	}
	_, err := c.Viewer.Build(nil)
	return err
}

// Build converts the section to a viewer.Config with defaults applied.
func (vc ViewerConfig) Build(logger *log.Logger) (viewer.Config, error) {
	mode, err := settings.ParseViewMode(vc.ViewMode)
	if err != nil {
		return viewer.Config{}, err
	}
	cfg := viewer.Config{
		ZoomLevel:           vc.ZoomLevel,
		PagesPerRow:         vc.PagesPerRow,
		ViewMode:            mode,
		EnableFilenameParam: vc.EnableFilenameParam,
		HashParamSuffix:     vc.HashParamSuffix,
		PanelWidth:          vc.PanelWidth,
		PanelHeight:         vc.PanelHeight,
		DisplayWidth:        vc.DisplayWidth,
		DisplayHeight:       vc.DisplayHeight,
		HorizontalPadding:   vc.HorizontalPadding,
		VerticalPadding:     vc.VerticalPadding,
		Logger:              logger,
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return viewer.Config{}, err
	}
	return cfg, nil
}
