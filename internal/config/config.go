package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort      string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL   string `env:"DATABASE_URL,notEmpty"`
	RunMigrations bool   `env:"RUN_MIGRATIONS" envDefault:"true"`

	JWTSecret              string  `env:"JWT_SECRET,notEmpty"`
	VerificationSecret     string  `env:"VERIFICATION_SECRET,notEmpty"`
	JWTIssuer              string  `env:"JWT_ISSUER" envDefault:"barter-auth"`
	SessionTTLSeconds      int64   `env:"SESSION_TTL_SECONDS" envDefault:"31556926"`
	VerificationTTLSeconds int64   `env:"VERIFICATION_TTL_SECONDS" envDefault:"3600"`
	BcryptCost             int     `env:"BCRYPT_COST" envDefault:"10"`
	PasswordMinEntropy     float64 `env:"PASSWORD_MIN_ENTROPY" envDefault:"30"`

	AppName             string `env:"APP_NAME" envDefault:"Taskbarter"`
	VerificationURLBase string `env:"VERIFICATION_URL_BASE" envDefault:"http://localhost:8080/confirmation/"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPass     string `env:"SMTP_PASS"`
	SMTPFrom     string `env:"SMTP_FROM"`
	SMTPFromName string `env:"SMTP_FROM_NAME"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	WorkerCount     int `env:"WORKER_COUNT" envDefault:"4"`
	TaskMaxAttempts int `env:"TASK_MAX_ATTEMPTS" envDefault:"5"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SessionTTL devuelve la vigencia del token de sesion.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLSeconds) * time.Second
}

// VerificationTTL devuelve la vigencia del token de verificacion de email.
func (c *Config) VerificationTTL() time.Duration {
	return time.Duration(c.VerificationTTLSeconds) * time.Second
}
