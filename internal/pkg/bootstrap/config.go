package bootstrap

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const DefaultConfigPath = "configs/order-service.yaml"

// Config 是服务的全部静态配置，启动时加载一次，显式传递给各组件。
type Config struct {
	App      AppConfig              `yaml:"app"`
	Infra    InfraConfig            `yaml:"infra"`
	Catalog  []ProductConfig        `yaml:"catalog"`
	Delivery []DeliveryMethodConfig `yaml:"delivery"`
}

type AppConfig struct {
	Name           string        `yaml:"name"`
	Port           int           `yaml:"port"`
	LogLevel       string        `yaml:"logLevel"`
	RequestTimeout time.Duration `yaml:"requestTimeout"`
}

type InfraConfig struct {
	Jaeger JaegerConfig `yaml:"jaeger"`
	Kafka  KafkaConfig  `yaml:"kafka"`
}

type JaegerConfig struct {
	Endpoint string `yaml:"endpoint"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	GroupID string   `yaml:"groupId"`
}

// ProductConfig 描述目录中的一个商品种子。price 用字符串保存，避免浮点误差。
type ProductConfig struct {
	ID              string `yaml:"id"`
	Kind            string `yaml:"kind"`
	Name            string `yaml:"name"`
	Price           string `yaml:"price"`
	Description     string `yaml:"description"`
	Stock           int    `yaml:"stock"`
	DiscountPercent int    `yaml:"discountPercent"`
	Refrigerated    bool   `yaml:"refrigerated"`
	Size            string `yaml:"size"`
	Material        string `yaml:"material"`
	WarrantyMonths  int    `yaml:"warrantyMonths"`
}

// DeliveryMethodConfig 声明一个额外的配送方式及其 CEL 规则。
type DeliveryMethodConfig struct {
	Name  string       `yaml:"name"`
	Rules []RuleConfig `yaml:"rules"`
}

type RuleConfig struct {
	Expr   string `yaml:"expr"`
	Reason string `yaml:"reason"`
}

// Default 返回不依赖任何外部设施即可运行的配置。
func Default() Config {
	return Config{
		App: AppConfig{
			Name:           "order-service",
			Port:           8080,
			LogLevel:       "info",
			RequestTimeout: 5 * time.Second,
		},
		Infra: InfraConfig{
			Kafka: KafkaConfig{
				Topic:   "order-events",
				GroupID: "notification-group",
			},
		},
	}
}

// Load 读取 YAML 配置，再用环境变量覆盖。
// 默认路径下没有文件时使用 Default()。
func Load() (Config, error) {
	path := getEnv("CONFIG_PATH", DefaultConfigPath)
	cfg, err := LoadFile(path)
	if err != nil {
		if !(os.IsNotExist(errors.Cause(err)) && path == DefaultConfigPath) {
			return Config{}, err
		}
		cfg = Default()
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile 只解析文件，不读取环境变量。
func LoadFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "read config %s", path)
	}
	return Parse(raw)
}

// Parse 在 Default() 的基础上解析 YAML。
func Parse(raw []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "parse config")
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := getEnv("HTTP_PORT", ""); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.App.Port = port
		}
	}
	cfg.App.LogLevel = getEnv("LOG_LEVEL", cfg.App.LogLevel)
	cfg.Infra.Jaeger.Endpoint = getEnv("JAEGER_ENDPOINT", cfg.Infra.Jaeger.Endpoint)
	if v := getEnv("KAFKA_BROKERS", ""); v != "" {
		cfg.Infra.Kafka.Brokers = splitList(v)
	}
}

func (c Config) Validate() error {
	if c.App.Name == "" {
		return errors.New("app.name is required")
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return errors.Errorf("app.port %d out of range", c.App.Port)
	}
	if c.App.RequestTimeout < 0 {
		return errors.New("app.requestTimeout must not be negative")
	}
	if len(c.Infra.Kafka.Brokers) > 0 && c.Infra.Kafka.Topic == "" {
		return errors.New("infra.kafka.topic is required when brokers are set")
	}
	for i, d := range c.Delivery {
		if d.Name == "" {
			return errors.Errorf("delivery[%d].name is required", i)
		}
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// getEnv 从环境变量中读取配置。
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
