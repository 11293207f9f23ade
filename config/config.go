package config

import (
	"context"
	"database/sql"
	"log"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const OrderEventsTopic = "order-events"

// DailySalesKey names the Redis hash holding a restaurant's completed-order
// figures for one local calendar day.
func DailySalesKey(day string, restaurantID int) string {
	return "sales:daily:" + day + ":" + strconv.Itoa(restaurantID)
}

// Settings holds the runtime knobs shared by the services. Each service reads
// only the fields it needs.
type Settings struct {
	Port           string
	JWTSecret      string
	TokenTTL       time.Duration
	RequestTimeout time.Duration
	Location       *time.Location
	PublicBaseURL  string
	UploadDir      string
	CacheTTL       time.Duration
	OrderCacheTTL  time.Duration

	DashboardSvcURL string
	SalesSvcURL     string
	RateSvcURL      string
}

// Load reads an optional .env file and the process environment.
func Load(defaultPort string) Settings {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: .env not loaded: %v", err)
	}

	loc, err := time.LoadLocation(getEnv("SALES_TIMEZONE", "Asia/Jakarta"))
	if err != nil {
		log.Printf("config: unknown SALES_TIMEZONE, using UTC: %v", err)
		loc = time.UTC
	}

	return Settings{
		Port:            getEnv("PORT", defaultPort),
		JWTSecret:       getEnv("JWT_SECRET", "changeme"),
		TokenTTL:        getDuration("TOKEN_TTL", 24*time.Hour),
		RequestTimeout:  getDuration("REQUEST_TIMEOUT", 15*time.Second),
		Location:        loc,
		PublicBaseURL:   getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		UploadDir:       getEnv("UPLOAD_DIR", "./uploads"),
		CacheTTL:        getDuration("CACHE_TTL", 5*time.Minute),
		OrderCacheTTL:   getDuration("ORDER_CACHE_TTL", 30*time.Second),
		DashboardSvcURL: getEnv("DASHBOARD_SVC_URL", "http://localhost:8081"),
		SalesSvcURL:     getEnv("SALES_SVC_URL", "http://localhost:8083"),
		RateSvcURL:      getEnv("RATE_SVC_URL", "http://localhost:8082"),
	}
}

func NewLogger(service string) *zap.Logger {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to init logger:", err)
	}
	return logger.With(zap.String("service", service))
}

func MustInitPostgres() *sql.DB {
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbName := os.Getenv("DB_NAME")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")

	connStr := "host=" + dbHost + " port=" + dbPort + " user=" + dbUser +
		" password=" + dbPassword + " dbname=" + dbName + " sslmode=" + getEnv("DB_SSLMODE", "disable")

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err = db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis() *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     getEnv("REDIS_HOST", "localhost") + ":" + getEnv("REDIS_PORT", "6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	return client
}

func NewKafkaReader(topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{os.Getenv("KAFKA_BROKER")},
		Topic:   topic,
		GroupID: groupID,
	})
}

func NewKafkaWriter(topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(os.Getenv("KAFKA_BROKER")),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 5 * time.Second,
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// getDuration accepts Go durations ("90s") or plain seconds ("90").
func getDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	log.Printf("config: invalid %s=%q, using %s", key, raw, fallback)
	return fallback
}
