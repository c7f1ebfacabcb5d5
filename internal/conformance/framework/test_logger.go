package framework

import (
	"strings"

	"github.com/sirupsen/logrus"
)

type TestLogger interface {
	TestStarted(id TestID)
	TestError(id TestID, err error)
	TestFinished(id TestID, failed bool, debugOutput CapturedOutput)
	TestSkipped(id TestID, reason string)
}

type nullTestLogger struct{}

func (n nullTestLogger) TestStarted(TestID)                        {}
func (n nullTestLogger) TestError(TestID, error)                   {}
func (n nullTestLogger) TestFinished(TestID, bool, CapturedOutput) {}
func (n nullTestLogger) TestSkipped(TestID, string)                {}

// LogrusTestLogger reports scenario progress through a logrus logger
type LogrusTestLogger struct {
	Log                  *logrus.Entry
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
}

func (l *LogrusTestLogger) TestStarted(id TestID) {
	l.Log.WithFields(logrus.Fields{"test": id.String()}).Debug("Started")
}

func (l *LogrusTestLogger) TestError(id TestID, err error) {
	for _, line := range strings.Split(err.Error(), "\n") {
		l.Log.WithFields(logrus.Fields{"test": id.String()}).Error(line)
	}
}

func (l *LogrusTestLogger) TestFinished(id TestID, failed bool, debugOutput CapturedOutput) {
	log := l.Log.WithFields(logrus.Fields{"test": id.String()})

	if failed {
		log.Warn("FAILED")
	} else {
		log.Info("PASSED")
	}

	if len(debugOutput) > 0 &&
		((failed && l.DebugOutputOnFailure) || (!failed && l.DebugOutputOnSuccess)) {
		for _, m := range debugOutput {
			log.WithFields(logrus.Fields{"at": m.Time.Format(timestampFormat)}).Info(m.Message)
		}
	}
}

func (l *LogrusTestLogger) TestSkipped(id TestID, reason string) {
	log := l.Log.WithFields(logrus.Fields{"test": id.String()})
	if reason == "" {
		log.Info("SKIPPED")
	} else {
		log.WithFields(logrus.Fields{"reason": reason}).Info("SKIPPED")
	}
}
