package logconfig

import (
	"strings"

	myLogger "github.com/sirupsen/logrus"
)

// This output format is used in the test (has terminal).
func ConfigDebugLogger() {
	myLogger.SetReportCaller(true)
	myLogger.SetLevel(myLogger.DebugLevel)
	myLogger.SetFormatter(terminalFormatter())
}

func ConfigInfoLogger() {
	myLogger.SetReportCaller(false)
	myLogger.SetLevel(myLogger.InfoLevel)
	myLogger.SetFormatter(terminalFormatter())
}

// This output format is used in production.
// Lines are JSON so that they can be shipped as-is.
func ConfigProductionLogger() {
	myLogger.SetReportCaller(false)
	myLogger.SetLevel(myLogger.InfoLevel)
	myLogger.SetFormatter(&myLogger.JSONFormatter{})
}

// ConfigFromString picks a preset by name ("debug", "info", "production")
// or, failing that, parses a logrus level name ("warn", "error", ...).
// Unknown names fall back to info.
func ConfigFromString(level string) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		ConfigDebugLogger()
	case "", "info":
		ConfigInfoLogger()
	case "production", "prod":
		ConfigProductionLogger()
	default:
		ConfigInfoLogger()
		lvl, err := myLogger.ParseLevel(level)
		if err != nil {
			myLogger.WithField("level", level).Warn("unknown log level, using info")
			return
		}
		myLogger.SetLevel(lvl)
	}
}

func terminalFormatter() myLogger.Formatter {
	return &myLogger.TextFormatter{
		ForceColors:            true,
		DisableTimestamp:       true,
		DisableLevelTruncation: true,
		PadLevelText:           true,
	}
}
