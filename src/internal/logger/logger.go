package logger

import (
	"encoding/json"
	"log"
	"strings"
	"sync/atomic"
)

type Fields map[string]any

type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var minLevel atomic.Int32

func init() {
	minLevel.Store(int32(LevelInfo))
}

// SetLevel drops every entry below level.
func SetLevel(level Level) {
	minLevel.Store(int32(level))
}

// ParseLevel maps debug/info/warn/error to a Level, defaulting to info.
func ParseLevel(raw string) Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

var sensitiveKeys = map[string]struct{}{
	"pin":             {},
	"transactionpin":  {},
	"transaction_pin": {},
	"pinhash":         {},
	"pin_hash":        {},
	"channelkey":      {},
	"password":        {},
}

func Debug(message string, fields Fields) {
	write(LevelDebug, "DEBUG", message, fields)
}

func Info(message string, fields Fields) {
	write(LevelInfo, "INFO", message, fields)
}

func Warn(message string, fields Fields) {
	write(LevelWarn, "WARN", message, fields)
}

func Error(message string, err error, fields Fields) {
	base := Fields{}
	for k, v := range fields {
		base[k] = v
	}
	if err != nil {
		base["error"] = err.Error()
	}

	write(LevelError, "ERROR", message, base)
}

func write(level Level, tag string, message string, fields Fields) {
	if int32(level) < minLevel.Load() {
		return
	}
	log.Printf("%s %s %s", tag, message, fieldsJSON(fields))
}

func SanitizePayload(payload any) any {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "<unavailable>"
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return "<unavailable>"
	}

	return sanitizeValue(data)
}

func fieldsJSON(fields Fields) string {
	if fields == nil {
		fields = Fields{}
	}

	sanitized := SanitizePayload(fields)
	b, err := json.Marshal(sanitized)
	if err != nil {
		return `{}`
	}

	return string(b)
}

func sanitizeValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, inner := range typed {
			if isSensitiveKey(key) {
				out[key] = "******"
				continue
			}
			out[key] = sanitizeValue(inner)
		}
		return out
	case []any:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			out = append(out, sanitizeValue(item))
		}
		return out
	default:
		return value
	}
}

func isSensitiveKey(key string) bool {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(key), "-", ""))
	_, ok := sensitiveKeys[normalized]
	return ok
}
