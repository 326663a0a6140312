package js

import (
	"fmt"
	"strings"

	"github.com/chrisuehlinger/videostory/network"
)

// ScriptExecutor runs a loaded page's classic scripts in document order.
type ScriptExecutor struct {
	runtime *Runtime
	binder  *DOMBinder
}

// NewScriptExecutor creates an executor with a fresh DOM binder.
func NewScriptExecutor(runtime *Runtime) *ScriptExecutor {
	return &ScriptExecutor{
		runtime: runtime,
		binder:  NewDOMBinder(runtime),
	}
}

// Runtime returns the script runtime.
func (se *ScriptExecutor) Runtime() *Runtime {
	return se.runtime
}

// DOMBinder returns the binder used for the page document.
func (se *ScriptExecutor) DOMBinder() *DOMBinder {
	return se.binder
}

// SetupDocument binds the page document as the global document.
func (se *ScriptExecutor) SetupDocument(page *network.LoadedDocument) {
	se.binder.BindDocument(page.Document)
}

// ExecuteScripts runs every loadable script. A failing script does not stop
// the ones after it; all errors are returned.
func (se *ScriptExecutor) ExecuteScripts(page *network.LoadedDocument) []error {
	var errs []error
	for _, script := range page.RunnableScripts() {
		code := strings.TrimSpace(script.Content)
		if code == "" {
			continue
		}
		name := script.URL
		if script.Inline {
			name = fmt.Sprintf("inline#%d", script.Position)
		}
		if err := se.runtime.ExecuteScript(code, name); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
