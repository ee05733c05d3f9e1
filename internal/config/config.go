package config

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config - toute la configuration de l'application, chargée depuis
// l'environnement (.env en dev).
type Config struct {
	Server  ServerConfig  `env:",prefix=SERVER_"`
	Scylla  ScyllaConfig  `env:",prefix=SCYLLA_"`
	Redis   RedisConfig   `env:",prefix=REDIS_"`
	Elastic ElasticConfig `env:",prefix=ELASTIC_"`
	MinIO   MinIOConfig   `env:",prefix=MINIO_"`
	Stripe  StripeConfig  `env:",prefix=STRIPE_"`
	Carrier CarrierConfig `env:",prefix=CARRIER_"`
	ViaCEP  ViaCEPConfig  `env:",prefix=VIACEP_"`
	SMTP    SMTPConfig    `env:",prefix=SMTP_"`
	JWT     JWTConfig     `env:",prefix=JWT_"`
	Store   StoreConfig   `env:",prefix=STORE_"`
}

type ServerConfig struct {
	Port        string `env:"PORT,default=8080"`
	FrontendURL string `env:"FRONTEND_URL,default=http://localhost:3000"`
}

type ScyllaConfig struct {
	Hosts    string `env:"HOSTS,default=127.0.0.1"`
	Keyspace string `env:"KEYSPACE,default=farmavida"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
}

type RedisConfig struct {
	Addr     string `env:"ADDR,default=localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB,default=0"`
}

type ElasticConfig struct {
	URL      string `env:"URL,default=http://localhost:9200"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
}

type MinIOConfig struct {
	Endpoint  string `env:"ENDPOINT,default=localhost:9000"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	Bucket    string `env:"BUCKET,default=farmavida-products"`
	UseSSL    bool   `env:"USE_SSL,default=false"`
}

type StripeConfig struct {
	SecretKey string `env:"SECRET_KEY"`
}

// CarrierConfig - API de cotation transporteur (repli quand la table de fret
// locale ne couvre pas la demande).
type CarrierConfig struct {
	BaseURL        string `env:"BASE_URL,default=https://melhorenvio.com.br"`
	Token          string `env:"TOKEN"`
	TimeoutSeconds int    `env:"TIMEOUT_SECONDS,default=8"`
	OriginCEP      string `env:"ORIGIN_CEP,default=01310-100"`
}

type ViaCEPConfig struct {
	BaseURL        string `env:"BASE_URL,default=https://viacep.com.br/ws"`
	TimeoutSeconds int    `env:"TIMEOUT_SECONDS,default=5"`
}

type SMTPConfig struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT,default=587"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	From     string `env:"FROM,default=pedidos@farmavida.com.br"`
}

type JWTConfig struct {
	Secret string `env:"SECRET"`
}

// StoreConfig - moteur de persistance. "scylla" en production, "memory" pour
// les environnements sans base (mode dégradé assumé).
type StoreConfig struct {
	Engine string `env:"ENGINE,default=scylla"`
}

// Load charge .env puis l'environnement. L'absence de .env n'est pas une
// erreur (prod: variables injectées par l'orchestrateur).
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aucun fichier .env trouvé, utilisation des variables d'environnement")
	}

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("lecture de la configuration: %w", err)
	}
	return &cfg, nil
}
