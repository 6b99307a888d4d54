package logging

import "strconv"

// Facade helpers on the root logger of the default hierarchy.
// Usage: logging.Verbose("read %d rows", n)

func Trace(format string, args ...any)   { root().logf(1, LevelTrace, format, args) }
func Debug(format string, args ...any)   { root().logf(1, LevelDebug, format, args) }
func Verbose(format string, args ...any) { root().logf(1, LevelVerbose, format, args) }
func Info(format string, args ...any)    { root().logf(1, LevelInfo, format, args) }
func Warning(format string, args ...any) { root().logf(1, LevelWarning, format, args) }
func Error(format string, args ...any)   { root().logf(1, LevelError, format, args) }

func root() *Adapter { return &Adapter{logger: defaultManager.root} }

// MaxTraceLevel is the highest TRACEn sub-logger managed by TraceSetAt.
const MaxTraceLevel = 5

// GetTraceLogger returns the "TRACE<n>.<name>" adapter of the default
// hierarchy. Enabling DEBUG on it enables trace output of verbosity n.
func GetTraceLogger(name string, n int) *Adapter {
	return defaultManager.GetTraceLogger(name, n)
}

func (m *Manager) GetTraceLogger(name string, n int) *Adapter {
	return m.GetLogger(traceLoggerName(name, n))
}

// TraceSetAt emulates a numeric trace verbosity through the hierarchy: the
// TRACE0..TRACE5 loggers of name at or below threshold are set to DEBUG, the
// rest to INFO. A negative threshold silences all of them.
func TraceSetAt(name string, threshold int) { defaultManager.TraceSetAt(name, threshold) }

func (m *Manager) TraceSetAt(name string, threshold int) {
	for i := 0; i <= MaxTraceLevel; i++ {
		level := LevelInfo
		if i <= threshold {
			level = LevelDebug
		}
		m.Logger(traceLoggerName(name, i)).SetLevel(level)
	}
}

func traceLoggerName(name string, n int) string {
	prefix := "TRACE" + strconv.Itoa(n)
	if name == "" {
		return prefix
	}
	return prefix + "." + name
}
