package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// DefaultPath путь к конфигурации по умолчанию
const DefaultPath = "./config/config.yaml"

type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Log      LogConfig      `yaml:"log"`
	Storage  StorageConfig  `yaml:"storage"`
	Tracking TrackingConfig `yaml:"tracking"`
	Fusion   FusionConfig   `yaml:"fusion"`
	Analysis AnalysisConfig `yaml:"analysis"`
}

type TelegramConfig struct {
	Token string `yaml:"token"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// TrackingConfig параметры сопровождения дефектов между кадрами
type TrackingConfig struct {
	TrackingThreshold float64 `yaml:"tracking_threshold"`
	MinTrackLength    int     `yaml:"min_track_length"`
	MaxTracks         int     `yaml:"max_tracks"`
	MaxHistory        int     `yaml:"max_history"` // 0: хранить всю историю трека
	FrameSkip         int     `yaml:"frame_skip"`
}

// FusionConfig параметры объединения детекций с результатами OCR
type FusionConfig struct {
	OverlapThreshold float64 `yaml:"overlap_threshold"`
	MinConfidence    float64 `yaml:"min_confidence"`
	MinTextLength    int     `yaml:"min_text_length"`
	MaxTextLength    int     `yaml:"max_text_length"`
}

type AnalysisConfig struct {
	MaxFrames int `yaml:"max_frames"` // 0: без ограничения
}

// Load загружает .env, YAML-файл (если есть) и переменные окружения.
func Load(path string) (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{}

	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// файл конфигурации необязателен
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default возвращает конфигурацию со значениями по умолчанию
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

func (c *Config) applyEnv() {
	if v := os.Getenv("TELEGRAM_TOKEN"); v != "" {
		c.Telegram.Token = v
	}
	if v := os.Getenv("ROAD_VISION_DB_PATH"); v != "" {
		c.Storage.DBPath = v
	}
	if v := os.Getenv("ROAD_VISION_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

func (c *Config) setDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}
	if c.Storage.DBPath == "" {
		c.Storage.DBPath = "./data/road-vision.db"
	}
	if c.Tracking.TrackingThreshold == 0 {
		c.Tracking.TrackingThreshold = 0.7
	}
	if c.Tracking.MinTrackLength == 0 {
		c.Tracking.MinTrackLength = 3
	}
	if c.Tracking.MaxTracks == 0 {
		c.Tracking.MaxTracks = 50
	}
	if c.Tracking.FrameSkip == 0 {
		c.Tracking.FrameSkip = 1
	}
	if c.Fusion.OverlapThreshold == 0 {
		c.Fusion.OverlapThreshold = 0.3
	}
	if c.Fusion.MinConfidence == 0 {
		c.Fusion.MinConfidence = 0.3
	}
	if c.Fusion.MinTextLength == 0 {
		c.Fusion.MinTextLength = 3
	}
	if c.Fusion.MaxTextLength == 0 {
		c.Fusion.MaxTextLength = 20
	}
}

// Validate проверяет конфигурацию и возвращает все найденные ошибки сразу.
func (c *Config) Validate() error {
	var errs error

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = multierr.Append(errs, fmt.Errorf("invalid log.level %q (must be debug, info, warn or error)", c.Log.Level))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = multierr.Append(errs, fmt.Errorf("invalid log.format %q (must be text or json)", c.Log.Format))
	}

	errs = multierr.Append(errs, unitInterval("tracking.tracking_threshold", c.Tracking.TrackingThreshold))
	errs = multierr.Append(errs, unitInterval("fusion.overlap_threshold", c.Fusion.OverlapThreshold))
	errs = multierr.Append(errs, unitInterval("fusion.min_confidence", c.Fusion.MinConfidence))

	if c.Tracking.MinTrackLength < 1 {
		errs = multierr.Append(errs, fmt.Errorf("tracking.min_track_length must be >= 1, got %d", c.Tracking.MinTrackLength))
	}
	if c.Tracking.MaxTracks < 1 {
		errs = multierr.Append(errs, fmt.Errorf("tracking.max_tracks must be >= 1, got %d", c.Tracking.MaxTracks))
	}
	if c.Tracking.MaxHistory < 0 {
		errs = multierr.Append(errs, fmt.Errorf("tracking.max_history must be >= 0, got %d", c.Tracking.MaxHistory))
	}
	if c.Tracking.FrameSkip < 1 {
		errs = multierr.Append(errs, fmt.Errorf("tracking.frame_skip must be >= 1, got %d", c.Tracking.FrameSkip))
	}
	if c.Fusion.MinTextLength > c.Fusion.MaxTextLength {
		errs = multierr.Append(errs, fmt.Errorf("fusion.min_text_length (%d) cannot exceed max_text_length (%d)", c.Fusion.MinTextLength, c.Fusion.MaxTextLength))
	}
	if c.Analysis.MaxFrames < 0 {
		errs = multierr.Append(errs, fmt.Errorf("analysis.max_frames must be >= 0, got %d", c.Analysis.MaxFrames))
	}

	if errs != nil {
		return fmt.Errorf("invalid configuration: %w", errs)
	}
	return nil
}

func unitInterval(name string, v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("%s must be between 0 and 1, got %.2f", name, v)
	}
	return nil
}
