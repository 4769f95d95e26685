package log

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

// GormLogrus routes gorm's query log through logrus.
type GormLogrus struct {
	Log                   logrus.FieldLogger
	SlowThreshold         time.Duration
	SourceField           string
	SkipErrRecordNotFound bool
	LogLevel              gormlogger.LogLevel
}

func NewGormLogrus() *GormLogrus {
	return &GormLogrus{
		Log:                   Default.WithField("component", "gorm"),
		SkipErrRecordNotFound: true,
		LogLevel:              gormlogger.Warn,
		SlowThreshold:         200 * time.Millisecond,
	}
}

func (l *GormLogrus) LogMode(lv gormlogger.LogLevel) gormlogger.Interface {
	ret := *l
	ret.LogLevel = lv
	return &ret
}

func (l *GormLogrus) Info(ctx context.Context, s string, args ...interface{}) {
	if l.LogLevel >= gormlogger.Info {
		l.Log.Infof(s, args...)
	}
}

func (l *GormLogrus) Warn(ctx context.Context, s string, args ...interface{}) {
	if l.LogLevel >= gormlogger.Warn {
		l.Log.Warnf(s, args...)
	}
}

func (l *GormLogrus) Error(ctx context.Context, s string, args ...interface{}) {
	if l.LogLevel >= gormlogger.Error {
		l.Log.Errorf(s, args...)
	}
}

func (l *GormLogrus) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	fields := logrus.Fields{}
	if l.SourceField != "" {
		fields[l.SourceField] = utils.FileWithLineNum()
	}

	switch {
	case err != nil && l.LogLevel >= gormlogger.Error && !(errors.Is(err, gorm.ErrRecordNotFound) && l.SkipErrRecordNotFound):
		sql, rows := fc()
		fields[logrus.ErrorKey] = err
		fields["rows"] = rows
		l.Log.WithFields(fields).Errorf("[%s] %s", elapsed, sql)
	case l.SlowThreshold != 0 && elapsed > l.SlowThreshold && l.LogLevel >= gormlogger.Warn:
		sql, rows := fc()
		fields["rows"] = rows
		l.Log.WithFields(fields).Warnf("[slow sql] [%s] %s", elapsed, sql)
	case l.LogLevel == gormlogger.Info:
		sql, rows := fc()
		fields["rows"] = rows
		l.Log.WithFields(fields).Debugf("[%s] %s", elapsed, sql)
	}
}

var _ gormlogger.Interface = (*GormLogrus)(nil)
