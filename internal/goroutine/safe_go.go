package goroutine

import (
	"runtime/debug"

	"github.com/ignatzorin/cropmarket-backend/internal/logger"
)

// Logger интерфейс для логирования ошибок; *logrus.Logger ему удовлетворяет.
type Logger interface {
	Errorf(format string, args ...interface{})
}

// RecoveryHandler обрабатывает panic в горутинах
type RecoveryHandler struct {
	logger Logger
}

func NewRecoveryHandler(logger Logger) *RecoveryHandler {
	return &RecoveryHandler{logger: logger}
}

// SafeGo запускает горутину с обработкой panic
func (rh *RecoveryHandler) SafeGo(fn func()) {
	go rh.run(fn)
}

func (rh *RecoveryHandler) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			rh.log().Errorf("panic в горутине: %v\n%s", r, debug.Stack())
		}
	}()
	fn()
}

func (rh *RecoveryHandler) log() Logger {
	if rh.logger != nil {
		return rh.logger
	}
	if logger.Log != nil {
		return logger.Log
	}
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Errorf(string, ...interface{}) {}

// DefaultRecoveryHandler пишет в глобальный logrus логгер.
var DefaultRecoveryHandler = NewRecoveryHandler(nil)

// SafeGo - упрощенная функция для запуска безопасной горутины
func SafeGo(fn func()) {
	DefaultRecoveryHandler.SafeGo(fn)
}
