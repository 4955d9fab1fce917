package picvault

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the server configuration, loaded from the environment.
// MongoURI left empty selects the in-memory credential store.
type Config struct {
	Addr             string        `env:"ADDR" envDefault:":8090"`
	MongoURI         string        `env:"MONGO_URI"`
	MongoDatabase    string        `env:"MONGO_DATABASE" envDefault:"picvault"`
	SigningKey       string        `env:"AUTH_SIGNING_KEY,required"`
	TokenTTL         time.Duration `env:"TOKEN_TTL" envDefault:"1h"`
	ImgurAccessToken string        `env:"IMGUR_ACCESS_TOKEN"`
	ImgurBaseURL     string        `env:"IMGUR_BASE_URL" envDefault:"https://api.imgur.com"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
