package config

import (
	"time"

	"github.com/spf13/viper"

	pkgconfig "github.com/loadsmile/AIchatbot/pkg/config"
	"github.com/loadsmile/AIchatbot/pkg/log"
)

type Config struct {
	Server     ServerConfig
	WebSocket  WebSocketConfig
	Translator TranslatorConfig
	Suggester  SuggesterConfig
	Redis      RedisConfig
	Kafka      KafkaConfig
	Router     RouterConfig
	Log        log.Config
}

type ServerConfig struct {
	Host string
	Port int
}

type WebSocketConfig struct {
	PingInterval   time.Duration `mapstructure:"ping_interval"`
	PongWait       time.Duration `mapstructure:"pong_wait"`
	WriteWait      time.Duration `mapstructure:"write_wait"`
	MaxMessageSize int64         `mapstructure:"max_message_size"`
}

type TranslatorConfig struct {
	Endpoint string
	Key      string
	Region   string
	Timeout  time.Duration
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type SuggesterConfig struct {
	Enabled  bool
	Endpoint string
	Timeout  time.Duration
}

type RedisConfig struct {
	Enabled   bool
	Address   string
	Password  string
	DB        int
	KeyPrefix string `mapstructure:"key_prefix"`
}

type KafkaConfig struct {
	Enabled    bool
	Brokers    string
	Topic      string
	Partitions int
}

type RouterConfig struct {
	QueueSize int `mapstructure:"queue_size"`
}

func Load() (*Config, error) {
	v, err := pkgconfig.Load("./config", "config")
	if err != nil {
		return nil, err
	}

	// Set defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 10000)
	v.SetDefault("websocket.ping_interval", "30s")
	v.SetDefault("websocket.pong_wait", "60s")
	v.SetDefault("websocket.write_wait", "10s")
	v.SetDefault("websocket.max_message_size", 4096)
	v.SetDefault("translator.endpoint", "")
	v.SetDefault("translator.key", "")
	v.SetDefault("translator.region", "")
	v.SetDefault("translator.timeout", "5s")
	v.SetDefault("translator.cache_ttl", "10m")
	v.SetDefault("suggester.enabled", false)
	v.SetDefault("suggester.endpoint", "")
	v.SetDefault("suggester.timeout", "3s")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "relay:translation")
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", "localhost:9092")
	v.SetDefault("kafka.topic", "delivered-messages")
	v.SetDefault("kafka.partitions", 8)
	v.SetDefault("router.queue_size", 64)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("log.service_name", "chat-relay")

	// Override from environment
	v.BindEnv("server.port", "PORT")
	v.BindEnv("translator.endpoint", "AZURE_TRANSLATION_ENDPOINT")
	v.BindEnv("translator.key", "AZURE_TRANSLATOR_KEY")
	v.BindEnv("translator.region", "AZURE_TRANSLATOR_REGION")
	v.BindEnv("suggester.endpoint", "SUGGESTION_ENDPOINT")
	v.BindEnv("redis.address", "REDIS_ADDRESS")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	v.BindEnv("kafka.topic", "KAFKA_TOPIC")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Parse durations
	cfg.WebSocket.PingInterval = parseDuration(v, "websocket.ping_interval", 30*time.Second)
	cfg.WebSocket.PongWait = parseDuration(v, "websocket.pong_wait", 60*time.Second)
	cfg.WebSocket.WriteWait = parseDuration(v, "websocket.write_wait", 10*time.Second)
	cfg.Translator.Timeout = parseDuration(v, "translator.timeout", 5*time.Second)
	cfg.Translator.CacheTTL = parseDuration(v, "translator.cache_ttl", 10*time.Minute)
	cfg.Suggester.Timeout = parseDuration(v, "suggester.timeout", 3*time.Second)

	return &cfg, nil
}

func parseDuration(v *viper.Viper, key string, defaultVal time.Duration) time.Duration {
	str := v.GetString(key)
	d, err := time.ParseDuration(str)
	if err != nil {
		return defaultVal
	}
	return d
}
