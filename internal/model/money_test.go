package model_test

import (
	"encoding/json"
	"errors"
	"testing"

	"conversational-commerce/internal/model"
)

func TestParseMinor(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"199.90", 19990, false},
		{"199.9", 19990, false},
		{"200", 20000, false},
		{"0.05", 5, false},
		{".5", 50, false},
		{"12.345", 1234, false},
		{"-3.10", -310, false},
		{" 7 ", 700, false},
		{"", 0, true},
		{"abc", 0, true},
		{"1.2.3", 0, true},
		{"1e3", 0, true},
		{".", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := model.ParseMinor(tt.in)
			if tt.wantErr {
				if !errors.Is(err, model.ErrInvalidAmount) {
					t.Fatalf("expected ErrInvalidAmount, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseMinor(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseMinorJSON(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int64
		wantErr bool
	}{
		{"string", `"59.90"`, 5990, false},
		{"number", `59.9`, 5990, false},
		{"integer", `12`, 1200, false},
		{"null", `null`, 0, true},
		{"object", `{}`, 0, true},
		{"exponent", `1e2`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := model.ParseMinorJSON(json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMajorUnits(t *testing.T) {
	if got := model.MajorUnits(19990); got != 199.90 {
		t.Errorf("MajorUnits(19990) = %v", got)
	}
	if got := model.MajorUnits(-5); got != -0.05 {
		t.Errorf("MajorUnits(-5) = %v", got)
	}
}
