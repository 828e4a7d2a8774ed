package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode       string `mapstructure:"mode"`
	Port       int    `mapstructure:"port"`
	LogLevel   string `mapstructure:"log_level"`
	StaticPath string `mapstructure:"static_path"`
	Secret     string `mapstructure:"secret"`

	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	PongWait   time.Duration `mapstructure:"pong_wait"`
	WriteWait  time.Duration `mapstructure:"write_wait"`
	SendBuffer int           `mapstructure:"send_buffer"`
	InboxSize  int           `mapstructure:"inbox_size"`

	DefaultRoom string   `mapstructure:"default_room"`
	DefaultLang string   `mapstructure:"default_lang"`
	Languages   []string `mapstructure:"languages"`

	PreviewLimit    int           `mapstructure:"preview_limit"`
	PreviewInterval time.Duration `mapstructure:"preview_interval"`
	Backpressure    string        `mapstructure:"backpressure"`

	Conversion ConversionConfig `mapstructure:"conversion"`
	OpenAI     OpenAIConfig     `mapstructure:"openai"`
}

type ConversionConfig struct {
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxConcurrent int64         `mapstructure:"max_concurrent"`
	QueueWait     time.Duration `mapstructure:"queue_wait"`
}

type OpenAIConfig struct {
	APIKey          string `mapstructure:"api_key"`
	BaseURL         string `mapstructure:"base_url"`
	TranscribeModel string `mapstructure:"transcribe_model"`
	TranslateModel  string `mapstructure:"translate_model"`
	SpeechModel     string `mapstructure:"speech_model"`
	Voice           string `mapstructure:"voice"`
}

// Load reads .env, then config/config.<CONFIG_ENV>.yaml, then POLYGLOT_*
// environment overrides. A missing file is not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	setDefaults(v)

	v.SetEnvPrefix("POLYGLOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("openai.api_key", "POLYGLOT_OPENAI_API_KEY", "OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Info().
		Str("module", "config").
		Str("mode", cfg.Mode).
		Int("port", cfg.Port).
		Str("static", cfg.StaticPath).
		Bool("openai_key", cfg.OpenAI.APIKey != "").
		Msg("config ready")
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("static_path", "./web")
	v.SetDefault("secret", "change-me")

	v.SetDefault("read_limit", 8<<20)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("pong_wait", "60s")
	v.SetDefault("write_wait", "10s")
	v.SetDefault("send_buffer", 64)
	v.SetDefault("inbox_size", 16)

	v.SetDefault("default_room", "default")
	v.SetDefault("default_lang", "es")
	v.SetDefault("languages", []string{"en", "es", "fr", "de", "it", "pt", "ja", "zh"})

	v.SetDefault("preview_limit", 10)
	v.SetDefault("preview_interval", "1m")
	v.SetDefault("backpressure", "drop")

	v.SetDefault("conversion.timeout", "30s")
	v.SetDefault("conversion.max_concurrent", 16)
	v.SetDefault("conversion.queue_wait", "5s")

	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.transcribe_model", "whisper-1")
	v.SetDefault("openai.translate_model", "gpt-4o-mini")
	v.SetDefault("openai.speech_model", "tts-1")
	v.SetDefault("openai.voice", "alloy")
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.PingPeriod <= 0 || c.PingPeriod >= c.PongWait {
		return fmt.Errorf("ping_period (%s) must be positive and shorter than pong_wait (%s)", c.PingPeriod, c.PongWait)
	}
	if c.SendBuffer <= 0 || c.InboxSize <= 0 {
		return errors.New("send_buffer and inbox_size must be positive")
	}
	if c.DefaultRoom == "" || c.DefaultLang == "" {
		return errors.New("default_room and default_lang must not be empty")
	}
	switch c.Backpressure {
	case "drop", "kick":
	default:
		return fmt.Errorf("invalid backpressure policy %q (must be drop or kick)", c.Backpressure)
	}
	return nil
}
