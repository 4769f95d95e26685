package nakama

import (
	"io"

	"github.com/heroiclabs/nakama-common/runtime"
	"github.com/sirupsen/logrus"
)

// runtimeHook forwards logrus entries to the Nakama runtime logger, so controller logs
// end up next to the rest of the server output.
type runtimeHook struct {
	logger runtime.Logger
}

func (h runtimeHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h runtimeHook) Fire(entry *logrus.Entry) error {
	logger := h.logger
	if len(entry.Data) > 0 {
		fields := make(map[string]interface{}, len(entry.Data))
		for k, v := range entry.Data {
			if err, ok := v.(error); ok {
				v = err.Error()
			}
			fields[k] = v
		}
		logger = logger.WithFields(fields)
	}

	switch entry.Level {
	case logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel:
		logger.Error("%s", entry.Message)
	case logrus.WarnLevel:
		logger.Warn("%s", entry.Message)
	case logrus.InfoLevel:
		logger.Info("%s", entry.Message)
	default:
		logger.Debug("%s", entry.Message)
	}
	return nil
}

// newRuntimeLogrus returns a logrus logger whose only sink is logger.
func newRuntimeLogrus(logger runtime.Logger) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.DebugLevel)
	l.AddHook(runtimeHook{logger: logger})
	return l
}
