package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
app:
  name: order-service
  port: 9090
  logLevel: debug
  requestTimeout: 2s
infra:
  kafka:
    brokers: ["k1:9092"]
    topic: order-events
catalog:
  - id: P-1
    kind: food
    name: Milk
    price: "3500"
    stock: 10
    refrigerated: true
delivery:
  - name: fragile
    rules:
      - expr: summary.contains("fragile")
        reason: fragile items only
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, 2*time.Second, cfg.App.RequestTimeout)
	assert.Equal(t, []string{"k1:9092"}, cfg.Infra.Kafka.Brokers)
	// 未声明的字段保留默认值
	assert.Equal(t, "notification-group", cfg.Infra.Kafka.GroupID)

	require.Len(t, cfg.Catalog, 1)
	assert.Equal(t, "3500", cfg.Catalog[0].Price)
	assert.True(t, cfg.Catalog[0].Refrigerated)

	require.Len(t, cfg.Delivery, 1)
	assert.Equal(t, "fragile", cfg.Delivery[0].Name)
	assert.Equal(t, "fragile items only", cfg.Delivery[0].Rules[0].Reason)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("app: [unclosed"))
	require.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("HTTP_PORT", "7070")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("JAEGER_ENDPOINT", "http://jaeger:14268/api/traces")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.App.Port)
	assert.Equal(t, "warn", cfg.App.LogLevel)
	assert.Equal(t, "http://jaeger:14268/api/traces", cfg.Infra.Jaeger.Endpoint)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Infra.Kafka.Brokers)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := Load()
	require.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "default is valid", mutate: func(c *Config) {}},
		{name: "missing name", mutate: func(c *Config) { c.App.Name = "" }, wantErr: true},
		{name: "bad port", mutate: func(c *Config) { c.App.Port = 70000 }, wantErr: true},
		{name: "negative timeout", mutate: func(c *Config) { c.App.RequestTimeout = -time.Second }, wantErr: true},
		{
			name: "brokers without topic",
			mutate: func(c *Config) {
				c.Infra.Kafka.Brokers = []string{"k:9092"}
				c.Infra.Kafka.Topic = ""
			},
			wantErr: true,
		},
		{name: "unnamed delivery", mutate: func(c *Config) { c.Delivery = []DeliveryMethodConfig{{}} }, wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := Default()
			test.mutate(&cfg)
			err := cfg.Validate()
			if test.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
