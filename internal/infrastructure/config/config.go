// internal/infrastructure/config/config.go
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string

	// Metrics server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Generation
	Seed        int64
	NumSamples  int
	NumAirports int
	BookWindow  int
	NumRecords  int
	DisplayFreq int
	Streaming   bool
	FactFile    string

	// Simulation
	SkipGreeting         float64
	FirstAskProb         float64
	RegretProb           float64
	CancelRegretProb     float64
	FixResponseCandidate bool
	RandomRespondError   bool
	SecondaryError       bool

	// Corpus output
	OutputData string
	OutputKB   string

	// MongoDB
	MongoURI        string
	MongoDB         string
	MongoUser       string
	MongoPassword   string
	MongoCollection string

	// Postgres reference store
	PostgresURI string

	// S3
	S3Bucket  string
	S3DataKey string
	S3KBKey   string
	AWSRegion string

	// Preprocessing
	VocabCutoff int

	// Scoring
	KLMaxOrder      int
	KLFreqThreshold int
	KLWorkers       int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	// Set defaults and override with env vars
	config := &Config{
		AppVersion:   getEnv("APP_VERSION", "1.0.0"),
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,

		Seed:        getEnvAsInt64("SEED", 1),
		NumSamples:  getEnvAsInt("NUM_SAMPLES", 100),
		NumAirports: getEnvAsInt("NUM_AIRPORTS", 3),
		BookWindow:  getEnvAsInt("BOOK_WINDOW", 2),
		NumRecords:  getEnvAsInt("NUM_DB_RECORDS", 30),
		DisplayFreq: getEnvAsInt("DISPLAY_FREQ", 1000),
		Streaming:   getEnvAsBool("STREAMING", true),
		FactFile:    getEnv("FACT_FILE", ""),

		SkipGreeting:         getEnvAsFloat("SKIP_GREETING_PROB", 0.2),
		FirstAskProb:         getEnvAsFloat("FIRST_ASK_PROB", 0.5),
		RegretProb:           getEnvAsFloat("REGRET_PROB", 0.025),
		CancelRegretProb:     getEnvAsFloat("CANCEL_REGRET_PROB", 0),
		FixResponseCandidate: getEnvAsBool("FIX_RESPONSE_CANDIDATE", false),
		RandomRespondError:   getEnvAsBool("RANDOM_RESPOND_ERROR", false),
		SecondaryError:       getEnvAsBool("SECONDARY_ERROR", false),

		OutputData: getEnv("OUTPUT_DATA", "data.jsonl"),
		OutputKB:   getEnv("OUTPUT_KB", "kb.jsonl"),

		MongoURI:        getEnv("MONGODB_DSN", ""),
		MongoDB:         getEnv("MONGO_DB", "airtalk"),
		MongoUser:       getEnv("MONGO_USER", ""),
		MongoPassword:   getEnv("MONGO_PASSWORD", ""),
		MongoCollection: getEnv("MONGO_COLLECTION", "corpus"),

		PostgresURI: getEnv("POSTGRES_DSN", ""),

		S3Bucket:  getEnv("S3_BUCKET", ""),
		S3DataKey: getEnv("S3_DATA_KEY", "corpus/data.jsonl"),
		S3KBKey:   getEnv("S3_KB_KEY", "corpus/kb.jsonl"),
		AWSRegion: getEnv("AWS_REGION", "us-east-1"),

		VocabCutoff: getEnvAsInt("VOCAB_CUTOFF", 1),

		KLMaxOrder:      getEnvAsInt("KL_MAX_ORDER", 3),
		KLFreqThreshold: getEnvAsInt("KL_FREQ_THRESHOLD", 1),
		KLWorkers:       getEnvAsInt("KL_WORKERS", 4),
	}

	return config, nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
