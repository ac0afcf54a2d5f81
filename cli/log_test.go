package cli

import (
	"testing"

	"github.com/ardnew/ilang/log"
)

func TestLogConfig_Scan(t *testing.T) {
	defer log.SetDefault(log.Default())

	tests := []struct {
		name       string
		args       []string
		wantLevel  logLevel
		wantFormat logFormat
		wantPretty bool
		wantCaller bool
	}{
		{
			name:       "separate values",
			args:       []string{"check", "--log-level", "debug", "--log-format", "text", "a.il"},
			wantLevel:  "debug",
			wantFormat: "text",
			wantPretty: true,
		},
		{
			name:       "assigned values",
			args:       []string{"--log-level=warn", "--no-log-pretty", "--log-caller"},
			wantLevel:  "warn",
			wantFormat: "json",
			wantCaller: true,
		},
		{
			name:       "explicit booleans",
			args:       []string{"--log-pretty=false", "--no-log-caller=false"},
			wantLevel:  "info",
			wantFormat: "json",
			wantCaller: true,
		},
		{
			name:       "flag value missing",
			args:       []string{"--log-level", "--log-caller"},
			wantLevel:  "",
			wantFormat: "json",
			wantPretty: true,
			wantCaller: true,
		},
		{
			name:       "stops at terminator",
			args:       []string{"--", "--log-level", "error"},
			wantLevel:  "info",
			wantFormat: "json",
			wantPretty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := logConfig{Level: "info", Format: "json", Pretty: true}
			f.scan(tt.args)

			if f.Level != tt.wantLevel || f.Format != tt.wantFormat ||
				f.Pretty != tt.wantPretty || f.Caller != tt.wantCaller {
				t.Errorf("scan(%q) = %+v", tt.args, f)
			}
		})
	}
}

func TestLogConfig_ScanConfiguresLogger(t *testing.T) {
	defer log.SetDefault(log.Default())

	var f logConfig
	f.scan([]string{"--log-level=trace"})

	if got := log.Default().Level(); got != log.LevelTrace {
		t.Errorf("default logger level = %v, want trace", got)
	}
}

func TestBoolFlag(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		assigned bool
		want     bool
		wantOK   bool
	}{
		{"--log-pretty", "", false, true, true},
		{"--no-log-pretty", "", false, false, true},
		{"--log-pretty", "0", true, false, true},
		{"--no-log-pretty", "false", true, true, true},
		{"--log-pretty", "maybe", true, false, false},
	}

	for _, tt := range tests {
		got, ok := boolFlag(tt.name, tt.value, tt.assigned)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("boolFlag(%q, %q, %v) = %v, %v, want %v, %v",
				tt.name, tt.value, tt.assigned, got, ok, tt.want, tt.wantOK)
		}
	}
}
