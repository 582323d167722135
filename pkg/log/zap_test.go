package log_test

import (
	"context"
	"testing"

	"conversational-commerce/pkg/log"
)

func TestInit(t *testing.T) {
	cases := []struct {
		name string
		cfg  log.ZapConfig
	}{
		{"development console", log.ZapConfig{Level: "debug", Mode: log.ModeDevelopment, Encoding: log.EncodingConsole, ColorEnabled: true}},
		{"production json", log.ZapConfig{Level: "info", Mode: log.ModeProduction, Encoding: log.EncodingJSON}},
		{"invalid level falls back", log.ZapConfig{Level: "loud", Mode: log.ModeProduction, Encoding: log.EncodingJSON}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := log.Init(tc.cfg)
			if l == nil {
				t.Fatal("expected logger")
			}
			l.Infof(context.Background(), "hello %s", "world")
			l.Debug(context.TODO(), "debug line")
		})
	}
}

func TestNewNop(t *testing.T) {
	l := log.NewNop()
	l.Errorf(context.Background(), "ignored: %v", "value")
}
