package logging

import (
	"github.com/sirupsen/logrus"
)

// Log is the shared logger of the whole tool.
var Log *logrus.Logger

func init() {
	Log = logrus.New()
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:          true,
		DisableLevelTruncation: true,
		PadLevelText:           true,
	})
}

// SetLevel applies a level string from the CLI; unknown values keep the
// default (info) instead of failing startup.
func SetLevel(level string) {
	lv, err := logrus.ParseLevel(level)
	if err != nil {
		Log.WithError(err).Warn("未知日志等级，保持 info")
		return
	}
	Log.SetLevel(lv)
}
