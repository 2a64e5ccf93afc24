package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

var logg *logrus.Logger

func GetLogger() *logrus.Logger {
	return logg
}

func init() {
	logg = logrus.New()
	logg.SetFormatter(&logrus.JSONFormatter{})
	logg.SetLevel(logrus.InfoLevel)
	logg.SetOutput(os.Stdout)
}

// LogError attaches the standard module/function fields so store failures
// are greppable in the aggregated log stream.
func LogError(moduleName, funcName string, err error) {
	logg.WithFields(logrus.Fields{
		"module":   moduleName,
		"funcName": funcName,
	}).Error(err.Error())
}
