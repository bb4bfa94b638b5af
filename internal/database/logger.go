package database

import (
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// NewLogger routes gorm output through log. With echo set every statement is
// logged, otherwise only slow queries and errors.
func NewLogger(log logrus.FieldLogger, echo bool) logger.Interface {
	level := logger.Warn
	if echo {
		level = logger.Info
	}
	return logger.New(log.WithField("component", "gorm"), logger.Config{
		SlowThreshold:             slowQueryThreshold,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
