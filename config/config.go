package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPAddr       string `mapstructure:"http_addr"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes"`
	UploadDir      string `mapstructure:"upload_dir"`

	SensorPort         string        `mapstructure:"sensor_port"`
	SensorBaud         int           `mapstructure:"sensor_baud"`
	SensorPollInterval time.Duration `mapstructure:"sensor_poll_interval"`

	RoboflowAPIKey    string        `mapstructure:"roboflow_api_key"`
	RoboflowURL       string        `mapstructure:"roboflow_url"`
	RoboflowModel     string        `mapstructure:"roboflow_model"`
	RoboflowVersion   int           `mapstructure:"roboflow_version"`
	ClassifierTimeout time.Duration `mapstructure:"classifier_timeout"`

	GeminiAPIKey     string        `mapstructure:"gemini_api_key"`
	GeminiModel      string        `mapstructure:"gemini_model"`
	NarrativeTimeout time.Duration `mapstructure:"narrative_timeout"`

	TelegramToken  string `mapstructure:"telegram_token"`
	TelegramChatID int64  `mapstructure:"telegram_chat_id"`

	GoodThreshold int     `mapstructure:"good_threshold"`
	PHMin         float64 `mapstructure:"ph_min"`
	PHMax         float64 `mapstructure:"ph_max"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

var defaults = map[string]any{
	"http_addr":            ":8000",
	"max_upload_bytes":     10 << 20,
	"upload_dir":           "",
	"sensor_port":          "",
	"sensor_baud":          115200,
	"sensor_poll_interval": time.Second,
	"roboflow_api_key":     "",
	"roboflow_url":         "https://detect.roboflow.com",
	"roboflow_model":       "shrimp-disease-detection",
	"roboflow_version":     3,
	"classifier_timeout":   30 * time.Second,
	"gemini_api_key":       "",
	"gemini_model":         "gemini-2.0-flash",
	"narrative_timeout":    60 * time.Second,
	"telegram_token":       "",
	"telegram_chat_id":     0,
	"good_threshold":       7,
	"ph_min":               7.0,
	"ph_max":               9.0,
	"log_level":            "info",
	"log_format":           "json",
}

// Load читает настройки из окружения. Переменные из envFile не
// перезаписывают уже заданные; отсутствие файла не ошибка.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("HTTP_ADDR must not be empty"))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_BYTES must be positive"))
	}
	if c.SensorBaud <= 0 {
		errs = append(errs, errors.New("SENSOR_BAUD must be positive"))
	}
	if c.SensorPollInterval <= 0 {
		errs = append(errs, errors.New("SENSOR_POLL_INTERVAL must be positive"))
	}
	if c.ClassifierTimeout <= 0 || c.NarrativeTimeout <= 0 {
		errs = append(errs, errors.New("CLASSIFIER_TIMEOUT and NARRATIVE_TIMEOUT must be positive"))
	}
	if c.GoodThreshold < 0 || c.GoodThreshold > 11 {
		errs = append(errs, fmt.Errorf("GOOD_THRESHOLD %d is outside 0..11", c.GoodThreshold))
	}
	if c.PHMin > c.PHMax {
		errs = append(errs, fmt.Errorf("PH_MIN %.2f is above PH_MAX %.2f", c.PHMin, c.PHMax))
	}
	if c.TelegramChatID != 0 && c.TelegramToken == "" {
		errs = append(errs, errors.New("TELEGRAM_CHAT_ID requires TELEGRAM_TOKEN"))
	}

	switch strings.ToLower(c.LogFormat) {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT %q must be json or console", c.LogFormat))
	}

	return errors.Join(errs...)
}
