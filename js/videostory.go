package js

import (
	"context"
	"errors"
	"fmt"

	"github.com/chrisuehlinger/videostory/network"
	"github.com/chrisuehlinger/videostory/story"
	"github.com/dop251/goja"
)

// Names of the globals shared with page scripts.
const (
	InsertFuncName  = "insertVideoStory"
	PendingListName = "pendingVideoStory"
)

// Bridge connects page scripts to a story.Mounter.
type Bridge struct {
	ctx     context.Context
	runtime *Runtime
	binder  *DOMBinder
	mounter *story.Mounter
	drained bool
}

// InstallBridge defines the insertVideoStory global unless a page script
// already defined it. Stories mounted from scripts load their data with ctx.
func InstallBridge(ctx context.Context, runtime *Runtime, binder *DOMBinder, mounter *story.Mounter) *Bridge {
	b := &Bridge{
		ctx:     ctx,
		runtime: runtime,
		binder:  binder,
		mounter: mounter,
	}
	vm := runtime.vm
	if existing := vm.Get(InsertFuncName); existing != nil && !goja.IsUndefined(existing) {
		tracer().Infof("%s already defined, keeping it", InsertFuncName)
		return b
	}
	vm.Set(InsertFuncName, b.insertVideoStory)
	return b
}

// insertVideoStory mounts one config and returns a promise for its data.
// A config that cannot be mounted throws.
func (b *Bridge) insertVideoStory(call goja.FunctionCall) goja.Value {
	vm := b.runtime.vm
	cfg, err := b.configFromValue(call.Argument(0))
	if err != nil {
		panic(vm.NewTypeError("%s: %v", InsertFuncName, err))
	}
	s, err := b.mounter.Mount(b.ctx, cfg)
	if err != nil {
		panic(vm.NewTypeError("%s: %v", InsertFuncName, err))
	}

	promise, resolve, reject := vm.NewPromise()
	s.Then(func(data network.Data, err error) {
		b.runtime.mu.Lock()
		defer b.runtime.mu.Unlock()
		if err != nil {
			reject(vm.NewGoError(err))
			return
		}
		resolve(map[string]interface{}(data))
	})
	return vm.ToValue(promise)
}

// DrainPending mounts the configs a page queued in pendingVideoStory before
// the bridge was installed. Only the first call reads the list; later calls
// return nil.
func (b *Bridge) DrainPending() ([]*story.Story, error) {
	if b.drained {
		return nil, nil
	}
	b.drained = true

	vm := b.runtime.vm
	pending := vm.Get(PendingListName)
	if pending == nil || goja.IsUndefined(pending) || goja.IsNull(pending) {
		return nil, nil
	}
	list, ok := pending.(*goja.Object)
	if !ok || list.ClassName() != "Array" {
		return nil, fmt.Errorf("%s is not an array", PendingListName)
	}

	var configs []story.Config
	for i := int64(0); i < list.Get("length").ToInteger(); i++ {
		cfg, err := b.configFromValue(list.Get(fmt.Sprint(i)))
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", PendingListName, i, err)
		}
		configs = append(configs, cfg)
	}
	tracer().Debugf("draining %d pending stories", len(configs))
	return b.mounter.Init(b.ctx, configs)
}

var errNotAConfig = errors.New("story config must be an object")

// configFromValue reads {elm, spreadSheetPaths} from a script value.
func (b *Bridge) configFromValue(v goja.Value) (story.Config, error) {
	var cfg story.Config
	obj, ok := v.(*goja.Object)
	if !ok || goja.IsNull(v) {
		return cfg, errNotAConfig
	}
	cfg.Elm = b.binder.GoElement(obj.Get("elm"))

	paths := obj.Get("spreadSheetPaths")
	if pathsObj, ok := paths.(*goja.Object); ok {
		cfg.SpreadSheetPaths = make(map[string]string)
		for _, key := range pathsObj.Keys() {
			cfg.SpreadSheetPaths[key] = pathsObj.Get(key).String()
		}
	}
	return cfg, nil
}
