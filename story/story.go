package story

import (
	"context"
	"errors"
	"fmt"

	"github.com/chrisuehlinger/videostory/dom"
	"github.com/chrisuehlinger/videostory/domutil"
	"github.com/chrisuehlinger/videostory/eventloop"
	"github.com/chrisuehlinger/videostory/network"
)

// IDPrefix starts the id of every story container.
const IDPrefix = "videoStory"

// Attributes set on the container by the default init step.
const (
	StateAttr = "data-story-state"
	ErrorAttr = "data-story-error"
)

var (
	// ErrNoPlaceholder is returned by Mount for a config without element.
	ErrNoPlaceholder = errors.New("story config has no placeholder element")

	// ErrDetachedPlaceholder is returned by Mount if the placeholder is not
	// in a tree and so cannot be replaced.
	ErrDetachedPlaceholder = errors.New("story placeholder has no parent")

	// ErrLoaderPanic finishes a story whose data loader panicked.
	ErrLoaderPanic = errors.New("story data loader panicked")
)

// Config describes one widget: the element to replace and the resources to
// load, keyed by name.
type Config struct {
	Elm              *dom.Element
	SpreadSheetPaths map[string]string
}

// DataLoader loads a set of named resources. *network.Loader implements it.
type DataLoader interface {
	LoadAll(ctx context.Context, paths map[string]string) (network.Data, error)
}

// InitFunc populates a story once its data has loaded. It runs on the
// event loop.
type InitFunc func(s *Story, data network.Data)

// FailFunc is called on the event loop when loading a story's data failed.
type FailFunc func(s *Story, err error)

// Option configures a Mounter.
type Option func(*Mounter)

// WithInit replaces the default init step.
func WithInit(fn InitFunc) Option {
	return func(m *Mounter) {
		if fn != nil {
			m.init = fn
		}
	}
}

// WithFailure replaces the default failure step.
func WithFailure(fn FailFunc) Option {
	return func(m *Mounter) {
		if fn != nil {
			m.fail = fn
		}
	}
}

// Mounter mounts stories into documents driven by one event loop.
type Mounter struct {
	loader  DataLoader
	loop    *eventloop.Loop
	init    InitFunc
	fail    FailFunc
	stories []*Story
}

// NewMounter creates a mounter that loads data with loader and runs init
// steps on loop.
func NewMounter(loader DataLoader, loop *eventloop.Loop, opts ...Option) *Mounter {
	m := &Mounter{
		loader: loader,
		loop:   loop,
		init:   MarkReady,
		fail:   MarkFailed,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Mount replaces cfg.Elm with a new story container and starts loading the
// story's data. The container is in the document when Mount returns; its
// content is up to the init step, which runs after the data arrived.
func (m *Mounter) Mount(ctx context.Context, cfg Config) (*Story, error) {
	if cfg.Elm == nil {
		return nil, ErrNoPlaceholder
	}
	if cfg.Elm.AsNode().ParentNode() == nil {
		return nil, ErrDetachedPlaceholder
	}

	s := &Story{
		id:   IDPrefix + domutil.UniqueID(),
		done: make(chan struct{}),
	}
	s.container = domutil.NewElm(cfg.Elm.OwnerDocument(), "div", nil).WithID(s.id)
	domutil.Extend(cfg.Elm).ReplaceWith(s.container)
	m.stories = append(m.stories, s)
	tracer().Debugf("mounted story %s", s.id)

	paths := make(map[string]string, len(cfg.SpreadSheetPaths))
	for k, v := range cfg.SpreadSheetPaths {
		paths[k] = v
	}
	m.loop.Go(func() eventloop.Task {
		data, err := m.load(ctx, paths)
		return func() { m.finish(s, data, err) }
	})
	return s, nil
}

// load calls the data loader, turning a panic into an error so that the
// story still finishes.
func (m *Mounter) load(ctx context.Context, paths map[string]string) (data network.Data, err error) {
	defer func() {
		if r := recover(); r != nil {
			data, err = nil, fmt.Errorf("%w: %v", ErrLoaderPanic, r)
		}
	}()
	return m.loader.LoadAll(ctx, paths)
}

// Init mounts configs in order. It stops at the first config that cannot
// be mounted and returns the stories mounted so far with the error.
func (m *Mounter) Init(ctx context.Context, configs []Config) ([]*Story, error) {
	stories := make([]*Story, 0, len(configs))
	for i, cfg := range configs {
		s, err := m.Mount(ctx, cfg)
		if err != nil {
			return stories, fmt.Errorf("story %d: %w", i, err)
		}
		stories = append(stories, s)
	}
	return stories, nil
}

// Stories returns every story mounted so far.
func (m *Mounter) Stories() []*Story {
	return m.stories
}

// Failed returns the mounted stories that finished with an error.
func (m *Mounter) Failed() []*Story {
	var failed []*Story
	for _, s := range m.stories {
		if s.Finished() && s.err != nil {
			failed = append(failed, s)
		}
	}
	return failed
}

func (m *Mounter) finish(s *Story, data network.Data, err error) {
	s.data, s.err = data, err
	if err != nil {
		tracer().Errorf("story %s: %v", s.id, err)
		m.fail(s, err)
	} else {
		m.init(s, data)
	}
	close(s.done)
	for _, fn := range s.then {
		fn(data, err)
	}
	s.then = nil
}

// Story is a mounted widget.
type Story struct {
	id        string
	container *domutil.Elm
	done      chan struct{}
	data      network.Data
	err       error
	then      []func(network.Data, error)
}

// ID returns the id of the story's container.
func (s *Story) ID() string {
	return s.id
}

// Container returns the element that replaced the placeholder.
func (s *Story) Container() *domutil.Elm {
	return s.container
}

// Done is closed after the init or failure step has run.
func (s *Story) Done() <-chan struct{} {
	return s.done
}

// Finished reports whether Done is closed.
func (s *Story) Finished() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Data returns the loaded data, or nil before Done or after a failure.
func (s *Story) Data() network.Data {
	if !s.Finished() {
		return nil
	}
	return s.data
}

// Err returns the load error, or nil before Done or after success.
func (s *Story) Err() error {
	if !s.Finished() {
		return nil
	}
	return s.err
}

// Then registers fn to run on the event loop once the story finished, after
// the init or failure step. If the story already finished, fn runs now.
func (s *Story) Then(fn func(data network.Data, err error)) {
	if s.Finished() {
		fn(s.data, s.err)
		return
	}
	s.then = append(s.then, fn)
}

// Wait blocks until the story finished or ctx is done. The event loop must
// be running on another goroutine, or have been run to completion, for the
// story to finish.
func (s *Story) Wait(ctx context.Context) (network.Data, error) {
	select {
	case <-s.done:
		return s.data, s.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// MarkReady is the default init step. It traces the data and sets the
// container's state attribute to "ready".
func MarkReady(s *Story, data network.Data) {
	tracer().Infof("story %s data: %v", s.id, data)
	s.container.Element().SetAttribute(StateAttr, "ready")
}

// MarkFailed is the default failure step. It sets the container's state
// attribute to "error" and records the message.
func MarkFailed(s *Story, err error) {
	el := s.container.Element()
	el.SetAttribute(StateAttr, "error")
	el.SetAttribute(ErrorAttr, err.Error())
}
