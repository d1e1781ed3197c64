package logrusconfig

import (
	"io"

	prefixed "github.com/BertoldVdb/logrus-prefixed-formatter"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

// LevelFlag selects the loglevel on the command line
var LevelFlag = cli.IntFlag{
	Name:  "loglevel",
	Value: int(logrus.InfoLevel),
	Usage: "The loglevel to use. Valid values are from 0 to 6. Higher values output more information",
}

// LevelFromContext returns the level given with LevelFlag, clamped to the valid range
func LevelFromContext(c *cli.Context) logrus.Level {
	level := c.GlobalInt(LevelFlag.Name)
	if level < int(logrus.PanicLevel) {
		level = int(logrus.PanicLevel)
	} else if level > int(logrus.TraceLevel) {
		level = int(logrus.TraceLevel)
	}
	return logrus.Level(level)
}

// GetLogger returns an entry writing to out with the given prefix
func GetLogger(out io.Writer, level logrus.Level, prefix string) *logrus.Entry {
	logrus.ErrorKey = "$error"
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(level)

	customFormatter := new(prefixed.TextFormatter)
	customFormatter.TimestampFormat = "2006-01-02 15:04:05"
	customFormatter.FullTimestamp = true
	customFormatter.PrefixPadding = 20
	customFormatter.SpacePadding = 50
	logger.SetFormatter(customFormatter)

	return logger.WithField("prefix", prefix)
}
