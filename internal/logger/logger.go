package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

const (
	fatalLabel = "[FATAL] "
	errorLabel = "[ERROR] "
	warnLabel  = "[WARN ] "
	infoLabel  = "[INFO ] "
	debugLabel = "[DEBUG] "
)

var std = newStd()

func newStd() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		DisableQuote:  true,
	})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// SetVerbose switches between info and debug level output.
func SetVerbose(verbose bool) {
	if verbose {
		std.SetLevel(logrus.DebugLevel)
	} else {
		std.SetLevel(logrus.InfoLevel)
	}
}

// SetOutput redirects all log output to w.
func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

// Fatal logs with a fatal label and exits the process with status 1.
// Arguments are handled in the manner of [fmt.Printf].
func Fatal(format string, args ...interface{}) {
	std.Fatalf(fatalLabel+format, args...)
}

// Error logs with an error label.
// Arguments are handled in the manner of [fmt.Printf].
func Error(format string, args ...interface{}) {
	std.Errorf(errorLabel+format, args...)
}

// Warn logs with a warn label.
// Arguments are handled in the manner of [fmt.Printf].
func Warn(format string, args ...interface{}) {
	std.Warnf(warnLabel+format, args...)
}

// Info logs with an info label.
// Arguments are handled in the manner of [fmt.Printf].
func Info(format string, args ...interface{}) {
	std.Infof(infoLabel+format, args...)
}

// Debug logs with a debug label. Suppressed unless SetVerbose(true).
// Arguments are handled in the manner of [fmt.Printf].
func Debug(format string, args ...interface{}) {
	std.Debugf(debugLabel+format, args...)
}
