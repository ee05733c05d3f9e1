package database

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gocql/gocql"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"

	"farmavida_back_end/internal/config"
	"farmavida_back_end/internal/store"
)

// --- Variables Globales ---
var (
	Engine      store.Engine
	Redis       *redis.Client
	RedisClient *redis.Client // Alias pour compatibilité
	Elastic     *elasticsearch.Client
	MinIO       *minio.Client

	scyllaSession *gocql.Session
)

// DegradedMode vaut true quand la persistance tourne sur le moteur mémoire
// (les données ne survivent pas au redémarrage).
var DegradedMode bool

// ConnectDatabases initialise toutes les connexions. ScyllaDB indisponible
// n'est pas fatal: on bascule sur le moteur mémoire en mode dégradé. Redis
// est obligatoire (panier + rate limiting). Elasticsearch et MinIO sont
// optionnels: on logue et on continue sans.
func ConnectDatabases(cfg *config.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 1. Moteur de persistance (ScyllaDB, repli mémoire)
	connectStore(cfg)

	// 2. Redis
	connectRedis(ctx, cfg)

	// 3. Elasticsearch
	connectElastic(cfg)

	// 4. MinIO
	connectMinIO(ctx, cfg)

	log.Println("✅ Initialisation des bases de données terminée")
}

// =============================================
// MOTEUR DE PERSISTANCE (ScyllaDB → mémoire)
// =============================================

func connectStore(cfg *config.Config) {
	if cfg.Store.Engine == "memory" {
		useMemoryEngine("moteur mémoire demandé par la configuration")
		return
	}

	cluster := gocql.NewCluster(strings.Split(cfg.Scylla.Hosts, ",")...)
	cluster.Keyspace = cfg.Scylla.Keyspace
	cluster.Consistency = gocql.Quorum
	cluster.Timeout = 5 * time.Second
	cluster.NumConns = 20
	cluster.ReconnectInterval = 1 * time.Second
	if cfg.Scylla.Username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: cfg.Scylla.Username,
			Password: cfg.Scylla.Password,
		}
	}
	cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())

	session, err := cluster.CreateSession()
	if err != nil {
		useMemoryEngine("connexion ScyllaDB impossible: " + err.Error())
		return
	}

	scyllaSession = session
	Engine = store.NewScyllaEngine(session)
	log.Printf("✅ Connecté à ScyllaDB (keyspace '%s')", cfg.Scylla.Keyspace)
}

func useMemoryEngine(reason string) {
	log.Printf("⚠️ %s — bascule sur le moteur mémoire (mode dégradé, données volatiles)", reason)
	Engine = store.NewMemoryEngine()
	DegradedMode = true
}

// CloseStore ferme la session ScyllaDB si elle existe.
func CloseStore() {
	if scyllaSession != nil {
		scyllaSession.Close()
		log.Println("🔌 Session ScyllaDB fermée")
	}
}

// =============================================
// REDIS
// =============================================

func connectRedis(ctx context.Context, cfg *config.Config) {
	Redis = redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	RedisClient = Redis // Alias pour compatibilité

	if err := Redis.Ping(ctx).Err(); err != nil {
		log.Fatal("❌ Erreur connexion Redis:", err)
	}
	log.Println("✅ Connecté à Redis")
}

// =============================================
// ELASTICSEARCH (optionnel)
// =============================================

func connectElastic(cfg *config.Config) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.Elastic.URL},
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		log.Println("⚠️ Erreur création client Elasticsearch:", err)
		return
	}

	res, err := client.Info()
	if err != nil {
		log.Println("⚠️ Elasticsearch indisponible, recherche en mode catalogue seul:", err)
		return
	}
	defer res.Body.Close()

	Elastic = client
	log.Println("✅ Connecté à Elasticsearch")
}

// =============================================
// MINIO (optionnel)
// =============================================

func connectMinIO(ctx context.Context, cfg *config.Config) {
	client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
		Secure: cfg.MinIO.UseSSL,
	})
	if err != nil {
		log.Println("⚠️ Erreur connexion MinIO, images produits indisponibles:", err)
		return
	}

	exists, err := client.BucketExists(ctx, cfg.MinIO.Bucket)
	if err != nil {
		log.Println("⚠️ Erreur vérification bucket MinIO:", err)
		return
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinIO.Bucket, minio.MakeBucketOptions{}); err != nil {
			log.Println("⚠️ Erreur création bucket MinIO:", err)
			return
		}
		log.Println("🪣 Bucket créé :", cfg.MinIO.Bucket)
	} else {
		log.Println("🪣 Bucket MinIO déjà présent :", cfg.MinIO.Bucket)
	}

	MinIO = client
	log.Println("✅ Connecté à MinIO :", cfg.MinIO.Endpoint)
}
