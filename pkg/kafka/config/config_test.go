package kafka_config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected defaults to load, got: %v", err)
	}
	if cfg.Topic != DefaultNotificationTopic || cfg.DLQTopic != DefaultNotificationDLQTopic {
		t.Errorf("unexpected topics: %q / %q", cfg.Topic, cfg.DLQTopic)
	}
	if len(cfg.Brokers) != 1 || cfg.Brokers[0] != DefaultKafkaBrokers {
		t.Errorf("unexpected brokers: %v", cfg.Brokers)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, "k1:9092, k2:9092")
	t.Setenv(EnvNotificationTopic, "meetings")
	t.Setenv(EnvNotificationDLQTopic, "")
	t.Setenv(EnvNotificationConsumerGroup, "mailer")
	t.Setenv(EnvKafkaConsumerMaxWait, "2s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(cfg.Brokers, ",") != "k1:9092,k2:9092" {
		t.Errorf("Brokers = %v", cfg.Brokers)
	}
	if cfg.Topic != "meetings" || cfg.ConsumerGroup != "mailer" {
		t.Errorf("Topic/ConsumerGroup = %q/%q", cfg.Topic, cfg.ConsumerGroup)
	}
	if cfg.DLQTopic != "" {
		t.Errorf("expected an explicitly empty DLQ topic to disable dead-lettering, got %q", cfg.DLQTopic)
	}
	if cfg.ConsumerMaxWait != 2*time.Second {
		t.Errorf("ConsumerMaxWait = %s", cfg.ConsumerMaxWait)
	}
}

func TestLoad_RejectsDLQEqualToTopic(t *testing.T) {
	t.Setenv(EnvNotificationTopic, "meetings")
	t.Setenv(EnvNotificationDLQTopic, "meetings")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "DLQTopic must differ from Topic") {
		t.Fatalf("expected DLQ topic error, got: %v", err)
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := &Config{
		Brokers:             []string{""},
		ProducerCompression: "brotli",
		ConsumerMaxRetries:  -1,
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"Broker 0", "Topic cannot be empty", "ConsumerGroup", "ProducerMaxAttempts", "ProducerCompression", "ConsumerMaxWait", "ConsumerMaxRetries"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected error to mention %q, got:\n%s", want, err)
		}
	}
}
