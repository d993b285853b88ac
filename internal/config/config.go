// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек сервера, воркера и клиента.
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	MigrationsPath          string `yaml:"migrations_path" env-default:"./migrations"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	Rabbit                  `yaml:"rabbit"`
	Client                  `yaml:"client"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":5000"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env-default:"localhost:6379"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"5s"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// Rabbit структура для настройки подключения к RabbitMQ
type Rabbit struct {
	RabbitURL     string        `yaml:"rabbit_url" env:"RABBIT_URL"`
	RabbitRetries int           `yaml:"rabbit_retries" env-default:"5"`
	RabbitDelay   time.Duration `yaml:"rabbit_delay" env-default:"3s"`
}

// Client структура для настройки клиентской части:
// режим работы API-клиента, адрес сервера и каталог локального состояния
// (токен и настройки пользователя).
type Client struct {
	Mode      string        `yaml:"mode" env-default:"demo"` // demo или live
	BaseURL   string        `yaml:"base_url" env-default:"http://localhost:5000/api"`
	StateDir  string        `yaml:"state_dir" env:"SUBZERO_STATE_DIR" env-default:".subzero"`
	DemoDelay time.Duration `yaml:"demo_delay" env-default:"300ms"`
}

// MustLoad функция для загрузки конфига, путь берётся из CONFIG_PATH.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}
