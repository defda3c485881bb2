package logger

import "sync"

// Component names used with Get.
const (
	ComponentCompletion = "completion"
	ComponentLLM        = "llm"
	ComponentHTTPClient = "httpclient"
	ComponentConfig     = "config"
)

// overrides maps component name to a logger that replaces the derived one.
var overrides sync.Map

// Register makes Get(name) return l. Hosts use it to route one component
// elsewhere, tests to capture it.
func Register(name string, l *Logger) {
	overrides.Store(name, l)
}

// Get returns the logger for component name: the registered override if
// any, else the current global logger tagged with the component.
func Get(name string) *Logger {
	if l, ok := overrides.Load(name); ok {
		return l.(*Logger)
	}
	return GetGlobalLogger().WithComponent(name)
}

// Unregister drops the override for name.
func Unregister(name string) {
	overrides.Delete(name)
}
