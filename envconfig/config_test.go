package envconfig

import (
	"log/slog"
	"runtime"
	"testing"
)

func TestLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":      slog.LevelInfo,
		"false": slog.LevelInfo,
		"0":     slog.LevelInfo,
		"t":     slog.LevelDebug,
		"1":     slog.LevelDebug,
		"2":     slog.Level(-8),
		"-1":    slog.LevelWarn,
		"-2":    slog.LevelError,
	}
	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			t.Setenv("MOEQI_DEBUG", k)
			if i := LogLevel(); i != v {
				t.Errorf("LogLevel() = %v, want %v", i, v)
			}
		})
	}
}

func TestBool(t *testing.T) {
	cases := map[string]bool{
		"":      false,
		"true":  true,
		"false": false,
		"1":     true,
		"0":     false,
		"'1'":   true,
		"bogus": true,
	}
	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			t.Setenv("MOEQI_ZSTD", k)
			if b := Zstd(); b != v {
				t.Errorf("Zstd() = %v, want %v", b, v)
			}
		})
	}
}

func TestUint(t *testing.T) {
	cases := map[string]uint{
		"":     0,
		"4":    4,
		" 12 ": 12,
		"-1":   0,
		"x":    0,
	}
	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			t.Setenv("MOEQI_QUANT_BITS", k)
			if n := QuantBits(); n != v {
				t.Errorf("QuantBits() = %d, want %d", n, v)
			}
		})
	}
}

func TestJobs(t *testing.T) {
	t.Setenv("MOEQI_JOBS", "")
	if n := Jobs(); n != runtime.NumCPU() {
		t.Errorf("Jobs() = %d, want %d", n, runtime.NumCPU())
	}
	t.Setenv("MOEQI_JOBS", "3")
	if n := Jobs(); n != 3 {
		t.Errorf("Jobs() = %d, want 3", n)
	}
}

func TestValues(t *testing.T) {
	t.Setenv("MOEQI_QUANT_BITS", "5")
	vals := Values()
	if vals["MOEQI_QUANT_BITS"] != "5" {
		t.Errorf("Values()[MOEQI_QUANT_BITS] = %q, want 5", vals["MOEQI_QUANT_BITS"])
	}
	if len(vals) != len(AsMap()) {
		t.Errorf("Values() has %d entries, AsMap() %d", len(vals), len(AsMap()))
	}
}
