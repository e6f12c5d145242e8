package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env              string
	EnableKafka      bool
	Provider         string
	Server           Server
	LogConfig        LogConfig
	DBConfig         DBConfig
	HTTP             HTTP
	RedisConfig      RedisConfig
	GeminiConfig     GeminiConfig
	OpenAiConfig     AiConfig
	OpenRouterConfig OpenRouterConfig
	KafkaConfig      KafkaConfig
	OtelConfig       OtelConfig
	CatalogTTL       time.Duration
}

type OtelConfig struct {
	Endpoint string
}

type Topic struct {
	GenerationTopic string
}

type KafkaConfig struct {
	Brokers  []string
	Version  string
	SSAL     bool
	TLS      bool
	CertPath string
	Username string
	Password string
	Strategy string
	Topic    Topic
}

type AiConfig struct {
	ApiKey string
	Model  string
}

type OpenRouterConfig struct {
	ApiKey  string
	Model   string
	BaseURL string
}

type GeminiConfig struct {
	ApiKey       string
	Model        string
	Temperature  float32
	EnableSearch bool
}

type RedisConfig struct {
	Mode            string
	Host            string
	Port            string
	Password        string
	DB              int
	PoolTimeout     time.Duration
	DialTimeout     time.Duration
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	ConnMaxIdleTime time.Duration
	Cluster         struct {
		Password string
		Addr     []string
	}
}

type Server struct {
	Name string
	Port string
}

type LogConfig struct {
	Level string
}

type DBConfig struct {
	Host            string
	Port            string
	Username        string
	Password        string
	Name            string
	MaxOpenConn     int32
	MaxConnLifeTime int64
}

type HTTP struct {
	TimeOut            time.Duration
	MaxIdleConn        int
	MaxIdleConnPerHost int
	MaxConnPerHost     int
}

func InitConfig() (*Config, error) {

	viper.SetDefault("LogConfig.LEVEL", "info")
	viper.SetDefault("Server.Name", "nls")
	viper.SetDefault("Server.Port", "8080")
	viper.SetDefault("Provider", "gemini")
	viper.SetDefault("GeminiConfig.Model", "gemini-2.5-flash")
	viper.SetDefault("GeminiConfig.Temperature", 0.7)
	viper.SetDefault("HTTP.TimeOut", 120*time.Second)
	viper.SetDefault("CatalogTTL", time.Hour)

	configPath, ok := os.LookupEnv("API_CONFIG_PATH")
	if !ok {
		configPath = "./config"
	}

	configName, ok := os.LookupEnv("API_CONFIG_NAME")
	if !ok {
		configName = "config"
	}

	viper.SetConfigName(configName)
	viper.AddConfigPath(configPath)

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("config file not found. using default/env config: " + err.Error())
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var c Config

	err := viper.Unmarshal(&c)
	if err != nil {
		return nil, err
	}

	return &c, nil

}

func InitTimeZone() {
	ict, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	if err != nil {
		panic(err)
	}
	time.Local = ict
}
