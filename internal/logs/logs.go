package logs

import (
	"log/slog"
	"os"
	"time"

	"github.com/aws/smithy-go/logging"
	"github.com/lmittmann/tint"
)

// ConsoleLogger builds the colored console logger and installs it as the
// process default.
func ConsoleLogger(level slog.Level) *slog.Logger {
	w := os.Stderr

	logger := slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))

	slog.SetDefault(logger)
	return logger
}

// AwsSDKLogger adapts the AWS SDK's wire-level logging onto slog so retries
// and request/response events land in the same stream as everything else.
func AwsSDKLogger() logging.Logger {
	return logging.LoggerFunc(func(classification logging.Classification, format string, v ...interface{}) {
		switch classification {
		case logging.Warn:
			slog.Warn(format, v...)
		default:
			slog.Debug(format, v...)
		}
	})
}
