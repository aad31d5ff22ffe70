package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const minSecretLength = 16

var (
	ErrMissingSecret = errors.New("SECRET_KEY es obligatorio")
	ErrWeakSecret    = errors.New("SECRET_KEY demasiado corto")
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Quiz      QuizConfig      `mapstructure:"quiz"`
	Session   SessionConfig   `mapstructure:"session"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Results   ResultsConfig   `mapstructure:"results"`
	Minio     MinioConfig     `mapstructure:"minio"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Addr         string `mapstructure:"addr"`
	SecretKey    string `mapstructure:"secret_key"`
	CookieSecure bool   `mapstructure:"cookie_secure"`
}

type QuizConfig struct {
	QuestionsFile string `mapstructure:"questions_file"`
	NumQuestions  int    `mapstructure:"num_questions"`
	Shuffle       bool   `mapstructure:"shuffle"`
}

type SessionConfig struct {
	Backend string        `mapstructure:"backend"` // memory|redis
	TTL     time.Duration `mapstructure:"ttl"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type ResultsConfig struct {
	Backend string `mapstructure:"backend"` // fs|minio
	Dir     string `mapstructure:"dir"`
}

type MinioConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

var envBindings = map[string]string{
	"server.addr":          "HTTP_ADDR",
	"server.secret_key":    "SECRET_KEY",
	"server.cookie_secure": "COOKIE_SECURE",
	"quiz.questions_file":  "QUESTIONS_FILE",
	"quiz.num_questions":   "NUM_QUESTIONS",
	"quiz.shuffle":         "QUIZ_SHUFFLE",
	"session.backend":      "SESSION_BACKEND",
	"session.ttl":          "SESSION_TTL",
	"redis.addr":           "REDIS_ADDR",
	"redis.password":       "REDIS_PASSWORD",
	"redis.db":             "REDIS_DB",
	"results.backend":      "RESULTS_BACKEND",
	"results.dir":          "RESULTS_DIR",
	"minio.endpoint":       "MINIO_ENDPOINT",
	"minio.access_key":     "MINIO_ACCESS_KEY",
	"minio.secret_key":     "MINIO_SECRET_KEY",
	"minio.bucket":         "MINIO_BUCKET",
	"minio.use_ssl":        "MINIO_USE_SSL",
	"rate_limit.rps":       "RATE_LIMIT_RPS",
	"rate_limit.burst":     "RATE_LIMIT_BURST",
	"log.level":            "LOG_LEVEL",
	"log.file":             "LOG_FILE",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.secret_key", "")
	v.SetDefault("server.cookie_secure", false)
	v.SetDefault("quiz.questions_file", "questions.json")
	v.SetDefault("quiz.num_questions", 10)
	v.SetDefault("quiz.shuffle", true)
	v.SetDefault("session.backend", "memory")
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("results.backend", "fs")
	v.SetDefault("results.dir", "results")
	v.SetDefault("minio.endpoint", "")
	v.SetDefault("minio.access_key", "")
	v.SetDefault("minio.secret_key", "")
	v.SetDefault("minio.bucket", "")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("rate_limit.rps", 20.0)
	v.SetDefault("rate_limit.burst", 40)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

// LoadConfig lee config.yaml (opcional) desde paths y aplica las variables de entorno encima
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	for _, p := range paths {
		if p != "" {
			v.AddConfigPath(p)
		}
	}

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("error enlazando %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error leyendo configuración: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decodificando configuración: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate comprueba los valores obligatorios; sin secreto el servicio no arranca
func (c *Config) Validate() error {
	if c.Server.SecretKey == "" {
		return ErrMissingSecret
	}
	if len(c.Server.SecretKey) < minSecretLength {
		return fmt.Errorf("%w: %d caracteres, mínimo %d", ErrWeakSecret, len(c.Server.SecretKey), minSecretLength)
	}
	if c.Quiz.NumQuestions <= 0 {
		return fmt.Errorf("NUM_QUESTIONS debe ser positivo, recibido %d", c.Quiz.NumQuestions)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL debe ser positivo, recibido %s", c.Session.TTL)
	}

	switch strings.ToLower(c.Session.Backend) {
	case "memory", "redis":
	default:
		return fmt.Errorf("SESSION_BACKEND desconocido: %q", c.Session.Backend)
	}

	switch strings.ToLower(c.Results.Backend) {
	case "fs":
		if c.Results.Dir == "" {
			return errors.New("RESULTS_DIR es obligatorio con RESULTS_BACKEND=fs")
		}
	case "minio":
		if c.Minio.Endpoint == "" || c.Minio.Bucket == "" {
			return errors.New("MINIO_ENDPOINT y MINIO_BUCKET son obligatorios con RESULTS_BACKEND=minio")
		}
	default:
		return fmt.Errorf("RESULTS_BACKEND desconocido: %q", c.Results.Backend)
	}
	return nil
}
