package config

import (
	"reflect"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Conversation: ConversationConfig{Backend: ContextBackendMemory, TTL: 2 * time.Hour, MaxTurns: 5},
		EventLog:     EventLogConfig{Backend: EventLogBackendMemory},
		Redis:        RedisConfig{Addr: "localhost:6379"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"redis backend", func(c *Config) { c.Conversation.Backend = ContextBackendRedis }, false},
		{"redis without addr", func(c *Config) { c.Conversation.Backend = ContextBackendRedis; c.Redis.Addr = "" }, true},
		{"unknown context backend", func(c *Config) { c.Conversation.Backend = "etcd" }, true},
		{"zero ttl", func(c *Config) { c.Conversation.TTL = 0 }, true},
		{"zero window", func(c *Config) { c.Conversation.MaxTurns = 0 }, true},
		{"sql without url", func(c *Config) { c.EventLog.Backend = EventLogBackendSQL }, true},
		{"sql with url", func(c *Config) {
			c.EventLog.Backend = EventLogBackendSQL
			c.EventLog.DatabaseURL = "sqlite:file:events.sqlite"
		}, false},
		{"unknown event log backend", func(c *Config) { c.EventLog.Backend = "kafka" }, true},
		{"negative rate limit", func(c *Config) { c.Webhook.RateLimitPerMin = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" 10.0.0.1, ,192.168.0.0/16,")
	want := []string{"10.0.0.1", "192.168.0.0/16"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitList() = %v, want %v", got, want)
	}
	if splitList("") != nil {
		t.Error("splitList(\"\") should be nil")
	}
}
