package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	DatabaseURL string `env:"DATABASE_URL" envDefault:"printsaarthi-api.db"`

	API     API     `envPrefix:"API_"`
	Storage Storage `envPrefix:"STORAGE_"`
	Auth    Auth    `envPrefix:"AUTH_"`
}

type API struct {
	BaseURL string        `env:"BASE_URL" envDefault:"http://localhost:5000/api"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

type Storage struct {
	Path string `env:"PATH" envDefault:"printsaarthi.db"`
}

type Auth struct {
	JWTSecret string        `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"5000"`
}
