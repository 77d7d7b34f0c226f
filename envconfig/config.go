// Package envconfig reads the moeqi command's environment defaults.
package envconfig

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// Var returns an environment variable stripped of whitespace and quotes.
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}

// LogLevel returns the log level from MOEQI_DEBUG. A true boolean selects
// Debug; an integer n selects slog.Level(-4n).
func LogLevel() slog.Level {
	level := slog.LevelInfo
	if s := Var("MOEQI_DEBUG"); s != "" {
		if b, _ := strconv.ParseBool(s); b {
			level = slog.LevelDebug
		} else if i, _ := strconv.ParseInt(s, 10, 64); i != 0 {
			level = slog.Level(i * -4)
		}
	}

	return level
}

// BoolWithDefault returns a reader for a boolean variable. Unparseable
// values count as true.
func BoolWithDefault(k string) func(defaultValue bool) bool {
	return func(defaultValue bool) bool {
		if s := Var(k); s != "" {
			b, err := strconv.ParseBool(s)
			if err != nil {
				return true
			}
			return b
		}
		return defaultValue
	}
}

// Bool returns a reader for a boolean variable that defaults to false.
func Bool(k string) func() bool {
	withDefault := BoolWithDefault(k)
	return func() bool {
		return withDefault(false)
	}
}

// Uint returns a reader for an unsigned variable with a default.
func Uint(key string, defaultValue uint) func() uint {
	return func() uint {
		if s := Var(key); s != "" {
			if n, err := strconv.ParseUint(s, 10, 64); err != nil {
				slog.Warn("invalid environment variable, using default", "key", key, "value", s, "default", defaultValue)
			} else {
				return uint(n)
			}
		}
		return defaultValue
	}
}

var (
	// Zstd wraps encoded files in a zstd envelope. Configured via MOEQI_ZSTD.
	Zstd = Bool("MOEQI_ZSTD")
	// QuantBits is the default residual quantization. Configured via MOEQI_QUANT_BITS.
	QuantBits = Uint("MOEQI_QUANT_BITS", 0)
)

// Jobs returns how many files are coded concurrently. Configured via
// MOEQI_JOBS; 0 or unset means one per CPU.
func Jobs() int {
	if n := Uint("MOEQI_JOBS", 0)(); n > 0 {
		return int(n)
	}
	return runtime.NumCPU()
}

// EnvVar describes one environment variable with its current value.
type EnvVar struct {
	Name        string
	Value       any
	Description string
}

// AsMap returns every variable with its current value.
func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"MOEQI_DEBUG":      {"MOEQI_DEBUG", LogLevel(), "Show additional debug information (e.g. MOEQI_DEBUG=1)"},
		"MOEQI_JOBS":       {"MOEQI_JOBS", Jobs(), "Files coded concurrently (default: number of CPUs)"},
		"MOEQI_QUANT_BITS": {"MOEQI_QUANT_BITS", QuantBits(), "Default residual quantization bits, 0 is lossless"},
		"MOEQI_ZSTD":       {"MOEQI_ZSTD", Zstd(), "Wrap encoded files in a zstd envelope"},
	}
}

// Values returns every variable's current value as a string.
func Values() map[string]string {
	vals := make(map[string]string)
	for k, v := range AsMap() {
		vals[k] = fmt.Sprintf("%v", v.Value)
	}
	return vals
}
