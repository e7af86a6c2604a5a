package config

import (
	"os"
	"strings"

	"github.com/gookit/slog"
	"github.com/gookit/slog/handler"
)

// ServiceName 은 SERVICE_NAME 이 비어 있을 때 로그에 붙는 기본 서비스 이름이다.
const ServiceName = "anime-news"

type Fields map[string]any

// Logger 는 전역 로거다. InitLogger 전에도 info 레벨로 동작한다.
var Logger = NewLogger("info")

func InitLogger(level string) {
	Logger = NewLogger(level)
}

// NewLogger builds a JSON console logger that emits only datetime, level,
// message and the structured fields as top-level keys.
func NewLogger(level string) *slog.Logger {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		level = "info"
	}

	h := handler.NewConsoleHandler(levelsUpTo(slog.LevelByName(level)))
	h.SetFormatter(slog.NewJSONFormatter(func(f *slog.JSONFormatter) {
		f.Fields = []string{slog.FieldKeyDatetime, slog.FieldKeyLevel, slog.FieldKeyMessage}
		f.Aliases = slog.StringMap{
			slog.FieldKeyDatetime: "datetime",
			slog.FieldKeyLevel:    "level",
			slog.FieldKeyMessage:  "message",
		}
		f.TimeFormat = "2006-01-02T15:04:05"
	}))
	return slog.NewWithHandlers(h)
}

// slog 레벨은 값이 작을수록 심각하다.
func levelsUpTo(max slog.Level) slog.Levels {
	var out slog.Levels
	for _, lv := range slog.AllLevels {
		if lv <= max {
			out = append(out, lv)
		}
	}
	return out
}

func serviceName() string {
	if sn := os.Getenv("SERVICE_NAME"); sn != "" {
		return sn
	}
	return ServiceName
}

func logWithFields(level slog.Level, msg string, fields Fields) {
	m := make(slog.M, len(fields)+1)
	for k, v := range fields {
		m[k] = v
	}
	if _, ok := m["service_name"]; !ok {
		m["service_name"] = serviceName()
	}
	r := Logger.WithFields(m)
	switch level {
	case slog.ErrorLevel:
		r.Error(msg)
	case slog.WarnLevel:
		r.Warn(msg)
	default:
		r.Info(msg)
	}
}

// InfoWithFields 는 request_id, span_id, visitor_id 같은 구조화 필드를 붙여 로그를 남긴다.
func InfoWithFields(msg string, fields Fields) { logWithFields(slog.InfoLevel, msg, fields) }

func WarnWithFields(msg string, fields Fields) { logWithFields(slog.WarnLevel, msg, fields) }

func ErrorWithFields(msg string, fields Fields) { logWithFields(slog.ErrorLevel, msg, fields) }
