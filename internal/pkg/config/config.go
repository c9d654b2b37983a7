// internal/pkg/config/config.go
package config

import (
	"os"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config 汇总了一个服务启动所需的全部外部依赖地址
type Config struct {
	HTTP struct {
		Port int `yaml:"port"`
	} `yaml:"http"`
	MySQL struct {
		DSN string `yaml:"dsn"`
	} `yaml:"mysql"`
	Redis struct {
		Addr string `yaml:"addr"`
	} `yaml:"redis"`
	Kafka struct {
		Brokers []string `yaml:"brokers"`
		Topic   string   `yaml:"topic"`
	} `yaml:"kafka"`
	Jaeger struct {
		Endpoint string `yaml:"endpoint"`
	} `yaml:"jaeger"`
}

// Load 读取配置文件并套用环境变量覆盖
// path 为空时取 TRACKDESK_CONFIG，再为空则只用默认值加环境变量
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path == "" {
		path = os.Getenv("TRACKDESK_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", path)
		}
	}

	// 环境变量优先级最高，方便容器部署时逐项覆盖
	if v := getEnv("HTTP_PORT", ""); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.Wrapf(err, "parse HTTP_PORT %q", v)
		}
		cfg.HTTP.Port = p
	}
	if v := getEnv("MYSQL_DSN", ""); v != "" {
		cfg.MySQL.DSN = v
	}
	if v := getEnv("REDIS_ADDR", ""); v != "" {
		cfg.Redis.Addr = v
	}
	if v := getEnv("KAFKA_BROKERS", ""); v != "" {
		cfg.Kafka.Brokers = []string{v}
	}
	if v := getEnv("JAEGER_ENDPOINT", ""); v != "" {
		cfg.Jaeger.Endpoint = v
	}
	return cfg, nil
}

func defaults() *Config {
	cfg := &Config{}
	// 端口 0 表示未显式配置，由各服务自己的默认端口接手
	cfg.HTTP.Port = 0
	cfg.MySQL.DSN = "root:root@tcp(localhost:3306)/trackdesk?charset=utf8mb4&parseTime=True&loc=Local"
	cfg.Redis.Addr = "localhost:6379"
	cfg.Kafka.Brokers = []string{"localhost:9092"}
	cfg.Kafka.Topic = "track-status-changed"
	cfg.Jaeger.Endpoint = "http://localhost:14268/api/traces"
	return cfg
}

// getEnv 从环境变量中读取配置，缺省时返回 fallback
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
