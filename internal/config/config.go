// Package config fornece as estruturas e a função de carregamento da
// configuração da plataforma a partir de um arquivo YAML apontado por
// CONFIG_PATH.
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config é a configuração completa compartilhada entre os binários.
type Config struct {
	Env                     string        `yaml:"env" env-default:"local"`
	GRPCAuthAddress         string        `yaml:"grpc_auth_address"`
	StorageConnectionString string        `yaml:"storage_connection_string"`
	ContentBucket           string        `yaml:"content_bucket"`
	TrialDays               int           `yaml:"trial_days" env-default:"7"`
	TickMaxAccrual          time.Duration `yaml:"tick_max_accrual" env-default:"5m"`
	AdminUsernames          []string      `yaml:"admin_usernames"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	RabbitMQ                `yaml:"rabbitmq"`
	SMTP                    `yaml:"smtp"`
}

// HTTPServer agrupa os parâmetros do servidor HTTP.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// RedisConnection agrupa os parâmetros de conexão com o redis.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
}

// JWTToken agrupa os parâmetros de emissão de tokens JWT.
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key"`
	TokenTTL     time.Duration `yaml:"token_ttl"`
}

// RabbitMQ agrupa os parâmetros de conexão com a fila de notificações.
type RabbitMQ struct {
	RabbitMQURL        string        `yaml:"rabbitmq_url"`
	RabbitMQMaxRetries int           `yaml:"rabbitmq_max_retries" env-default:"5"`
	RabbitMQRetryDelay time.Duration `yaml:"rabbitmq_retry_delay" env-default:"3s"`
}

// SMTP agrupa os parâmetros do servidor de envio de e-mails.
type SMTP struct {
	SMTPHost string `yaml:"smtp_host"`
	SMTPPort string `yaml:"smtp_port"`
	SMTPUser string `yaml:"smtp_user"`
	SMTPPass string `yaml:"smtp_pass"`
}

// MustLoad carrega a configuração do arquivo apontado por CONFIG_PATH.
// Encerra o processo se o arquivo não existir ou não puder ser lido.
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

// IsAdmin indica se o username está na lista de administradores da
// configuração. A lista é explícita e injetada na inicialização, sem
// estado global.
func (c *Config) IsAdmin(username string) bool {
	for _, admin := range c.AdminUsernames {
		if admin == username {
			return true
		}
	}
	return false
}
