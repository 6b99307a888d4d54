package logging

import (
	"strconv"
	"strings"
	"sync"
)

// Level is a numeric severity. Larger is more severe; the scale matches the
// classic 10/20/30/40/50 ladder so foreign configurations translate directly.
type Level int

const (
	LevelNotSet   Level = 0
	LevelTrace    Level = 5
	LevelDebug    Level = 10
	LevelVerbose  Level = (LevelInfo + LevelDebug) / 2
	LevelInfo     Level = 20
	LevelWarning  Level = 30
	LevelError    Level = 40
	LevelCritical Level = 50

	LevelWarn  = LevelWarning
	LevelFatal = LevelCritical
)

// levelNames is the process-wide level-name table. It is seeded once with the
// standard names and the two extra severities.
var levelNames = struct {
	sync.RWMutex
	byLevel map[Level]string
	byName  map[string]Level
}{
	byLevel: map[Level]string{},
	byName:  map[string]Level{},
}

func init() {
	for _, e := range []struct {
		l Level
		n string
	}{
		{LevelNotSet, "NOTSET"},
		{LevelTrace, "TRACE"},
		{LevelDebug, "DEBUG"},
		{LevelVerbose, "VERBOSE"},
		{LevelInfo, "INFO"},
		{LevelWarning, "WARNING"},
		{LevelError, "ERROR"},
		{LevelCritical, "CRITICAL"},
	} {
		AddLevelName(e.l, e.n)
	}
	// Accepted on input only; LevelName never returns them.
	levelNames.byName["WARN"] = LevelWarning
	levelNames.byName["FATAL"] = LevelCritical
}

// AddLevelName associates name with level in the process-wide table.
func AddLevelName(level Level, name string) {
	levelNames.Lock()
	defer levelNames.Unlock()
	levelNames.byLevel[level] = name
	levelNames.byName[strings.ToUpper(name)] = level
}

// LevelName returns the registered name of level, or "Level N".
func LevelName(level Level) string {
	levelNames.RLock()
	n, ok := levelNames.byLevel[level]
	levelNames.RUnlock()
	if ok {
		return n
	}
	return "Level " + strconv.Itoa(int(level))
}

// ParseLevel accepts a registered name (any case) or a decimal number.
func ParseLevel(s string) (Level, error) {
	s = strings.TrimSpace(s)
	levelNames.RLock()
	l, ok := levelNames.byName[strings.ToUpper(s)]
	levelNames.RUnlock()
	if ok {
		return l, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return LevelNotSet, &UnknownLevelError{Name: s}
	}
	return Level(n), nil
}

func (l Level) String() string { return LevelName(l) }
