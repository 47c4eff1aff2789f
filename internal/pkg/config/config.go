package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=168h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`

	// AvatarBaseURL is the initials-avatar rendering service used to derive
	// profile images from usernames at registration.
	AvatarBaseURL string `env:"AVATAR_BASE_URL, default=https://ui-avatars.com/api"`

	Mongo MongoConfig
	Redis RedisConfig
	Media MediaConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=bookshelf"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type MediaConfig struct {
	Endpoint  string `env:"MEDIA_ENDPOINT,   default=localhost:9000"`
	AccessKey string `env:"MEDIA_ACCESS_KEY"`
	SecretKey string `env:"MEDIA_SECRET_KEY"`
	Bucket    string `env:"MEDIA_BUCKET,     default=bookshelf-media"`
	UseSSL    bool   `env:"MEDIA_USE_SSL,    default=false"`
	// PublicBaseURL is the externally reachable prefix for stored objects,
	// e.g. https://media.example.com. Defaults to the endpoint itself.
	PublicBaseURL string `env:"MEDIA_PUBLIC_URL"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
