package log

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/v2rayA/beego/v2/logs"
)

var logger = logs.NewLogger()

func init() {
	// Sane default until InitLog runs, e.g. in tests.
	_ = logger.SetLogger(logs.AdapterConsole)
}

func InitLog(logWay string, logFile string, logLevel string, maxDays int64, disableColor bool, disableTimestamp bool) {
	logger = logs.NewLogger()
	switch logWay {
	case "file":
		_ = os.MkdirAll(filepath.Dir(logFile), 0700)
		_ = logger.SetLogger(logs.AdapterFile, fmt.Sprintf(`{"filename":%q,"maxdays":%v,"daily":true}`, logFile, maxDays))
	default:
		_ = logger.SetLogger(logs.AdapterConsole, fmt.Sprintf(`{"color":%v}`, !disableColor))
	}
	SetLogLevel(logLevel)
}

func SetLogLevel(logLevel string) {
	switch strings.ToLower(logLevel) {
	case "trace", "debug":
		logger.SetLevel(logs.LevelDebug)
	case "warn", "warning":
		logger.SetLevel(logs.LevelWarning)
	case "error":
		logger.SetLevel(logs.LevelError)
	default:
		logger.SetLevel(logs.LevelInformational)
	}
}

func Trace(format string, v ...interface{}) {
	logger.Debug(format, v...)
}

func Debug(format string, v ...interface{}) {
	logger.Debug(format, v...)
}

func Info(format string, v ...interface{}) {
	logger.Info(format, v...)
}

func Warn(format string, v ...interface{}) {
	logger.Warn(format, v...)
}

func Error(format string, v ...interface{}) {
	logger.Error(format, v...)
}

func Fatal(format string, v ...interface{}) {
	logger.Critical(format, v...)
	logger.Flush()
	os.Exit(1)
}
