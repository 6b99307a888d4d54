package logging

// ConfigChange is delivered to observers whenever a logger's own level changes.
type ConfigChange struct {
	Logger   string
	OldLevel Level
	NewLevel Level
}

// Observer receives level-change notifications (Observer pattern).
// Implementations MUST be concurrency-safe.
type Observer interface {
	OnConfig(c ConfigChange)
}

// ObserverFunc adapter.
type ObserverFunc func(ConfigChange)

func (f ObserverFunc) OnConfig(c ConfigChange) { f(c) }
