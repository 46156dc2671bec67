package config

type Config struct {
	AppName                       string   `env:"APP_NAME" env-default:"fern-api"`
	Port                          int      `env:"PORT" env-default:"3004"`
	LogLevel                      string   `env:"LOG_LEVEL" env-default:"info"`
	PrettyLogs                    bool     `env:"PRETTY_LOGS" env-default:"false"`
	HttpServerWriteTimeoutSeconds int      `env:"HTTP_SERVER_WRITE_TIMEOUT_SECONDS" env-default:"30"`
	HttpServerReadTimeoutSeconds  int      `env:"HTTP_SERVER_READ_TIMEOUT_SECONDS" env-default:"10"`
	HttpServerIdleTimeoutSeconds  int      `env:"HTTP_SERVER_IDLE_TIMEOUT_SECONDS" env-default:"10"`
	MaxHeaderBytes                int      `env:"HTTP_SERVER_MAX_HEADER_BYTES" env-default:"64000"` // 64KB
	ReadHeaderTimeoutSeconds      int      `env:"HTTP_SERVER_READ_HEADER_TIMEOUT_SECONDS" env-default:"10"`
	AllowOrigins                  []string `env:"HTTP_SERVER_ALLOW_ORIGINS" env-default:"*"`
	AllowMethods                  []string `env:"HTTP_SERVER_ALLOW_METHODS" env-default:"GET,POST"`
	StartupMaxAttempts            int      `env:"STARTUP_MAX_ATTEMPTS" env-default:"5"`

	// Graph Database (customer schema source)
	GraphDBHost     string `env:"GRAPH_DB_HOST" env-default:"localhost"`
	GraphDBPort     int    `env:"GRAPH_DB_PORT" env-default:"7687"`
	GraphDBUser     string `env:"GRAPH_DB_USER" env-default:""`
	GraphDBPassword string `env:"GRAPH_DB_PASSWORD" env-default:""`
	GraphDBName     string `env:"GRAPH_DB_NAME" env-default:"neo4j"`

	// Standard model source
	StandardModelURL            string `env:"STANDARD_MODEL_URL" env-default:"https://neo4j.com/developer/industry-use-cases/_attachments/transactions-base-model.txt"`
	StandardModelTimeoutSeconds int    `env:"STANDARD_MODEL_TIMEOUT_SECONDS" env-default:"30"`

	// Matching
	SimilarityThreshold float64 `env:"SIMILARITY_THRESHOLD" env-default:"0.7"`
	UseAdaptiveWeights  bool    `env:"USE_ADAPTIVE_WEIGHTS" env-default:"true"`
	TrackCandidates     bool    `env:"TRACK_CANDIDATES" env-default:"true"`

	// Embedding backend (optional; semantic similarity degrades to zero without it)
	EmbeddingEnabled     bool   `env:"EMBEDDING_ENABLED" env-default:"false"`
	EmbeddingURL         string `env:"EMBEDDING_URL" env-default:""`
	EmbeddingModel       string `env:"EMBEDDING_MODEL" env-default:"all-MiniLM-L6-v2"`
	EmbeddingTimeoutSecs int    `env:"EMBEDDING_TIMEOUT_SECONDS" env-default:"15"`

	// Kafka Producer settings
	KafkaEnabled      bool     `env:"KAFKA_ENABLED" env-default:"false"`
	KafkaBrokers      []string `env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	KafkaOutputTopic  string   `env:"KAFKA_OUTPUT_TOPIC" env-default:"comparison-events"`
	KafkaBatchSize    int      `env:"KAFKA_BATCH_SIZE" env-default:"100"`
	KafkaBatchTimeout int      `env:"KAFKA_BATCH_TIMEOUT_MS" env-default:"100"`
	KafkaRequiredAcks int      `env:"KAFKA_REQUIRED_ACKS" env-default:"1"`
	KafkaCompression  string   `env:"KAFKA_COMPRESSION" env-default:"snappy"`
}
