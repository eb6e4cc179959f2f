package ports

// Sink for human-readable progress messages emitted during a suggestion
// run. Purely informational: implementations must never affect control
// flow, and the engine keeps running if messages are dropped.
type ProgressSink interface {
	Progress(message string)
}

// ProgressFunc adapts a plain function to the ProgressSink interface.
type ProgressFunc func(message string)

func (f ProgressFunc) Progress(message string) { f(message) }

// NopProgress discards all messages; the default for headless callers.
var NopProgress ProgressSink = ProgressFunc(func(string) {})
