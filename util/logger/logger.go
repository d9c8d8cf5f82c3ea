package logger

import (
	"os"

	"github.com/pkg/errors"
	logger "github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

var L = &logger.Logger{
	Out:   os.Stderr,
	Level: logger.InfoLevel,
	Hooks: make(logger.LevelHooks),
	Formatter: &prefixed.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
		ForceFormatting: true,
	},
}

// SetLevel parses a logrus level name ("debug", "info", ...) and applies it to L.
func SetLevel(level string) error {
	lvl, err := logger.ParseLevel(level)
	if err != nil {
		return errors.Wrapf(err, "invalid log level '%s'", level)
	}
	L.SetLevel(lvl)
	return nil
}

// For returns an entry tagged with the component name.
func For(component string) *logger.Entry {
	return L.WithField("prefix", component)
}
