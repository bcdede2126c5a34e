package ml

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Registry holds every loaded disease model. Each model lives behind an
// atomic pointer so a retrained artifact can be swapped in whole while
// requests read the old one; a reader never observes a half-updated model.
type Registry struct {
	dir string
	log *zap.Logger

	mu     sync.RWMutex
	models map[string]*atomic.Pointer[LoadedModel]
}

func NewRegistry(dir string, log *zap.Logger) *Registry {
	return &Registry{
		dir:    dir,
		log:    log,
		models: make(map[string]*atomic.Pointer[LoadedModel]),
	}
}

// LoadAll loads every *.json artifact in the models directory. Any broken
// artifact fails the whole load: serving a partial model set at startup would
// hide a deployment inconsistency.
func (r *Registry) LoadAll() error {
	paths, err := filepath.Glob(filepath.Join(r.dir, "*.json"))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrArtifactLoad, err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("%w: no artifacts in %s", ErrArtifactLoad, r.dir)
	}
	for _, path := range paths {
		if err := r.loadFile(path); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) loadFile(path string) error {
	model, err := LoadArtifact(path)
	if err != nil {
		return err
	}

	r.mu.Lock()
	slot, ok := r.models[model.Disease]
	if !ok {
		slot = &atomic.Pointer[LoadedModel]{}
		r.models[model.Disease] = slot
	}
	r.mu.Unlock()

	slot.Store(model)
	r.log.Info("model loaded",
		zap.String("disease", model.Disease),
		zap.Int("features", model.ExpectedDim()),
		zap.String("path", path))
	return nil
}

// Get returns the current model for a disease.
func (r *Registry) Get(disease string) (*LoadedModel, bool) {
	r.mu.RLock()
	slot, ok := r.models[disease]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	model := slot.Load()
	return model, model != nil
}

// Diseases returns the loaded disease names, sorted.
func (r *Registry) Diseases() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Watch hot-reloads artifacts rewritten in the models directory until the
// context is canceled. A reload failure keeps the previous model serving and
// is only logged: bad redeploys must not take down a working model.
func (r *Registry) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(r.dir); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if !strings.HasSuffix(event.Name, ".json") {
					continue
				}
				if err := r.loadFile(event.Name); err != nil {
					r.log.Error("model reload failed, keeping previous model",
						zap.String("path", event.Name), zap.Error(err))
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				r.log.Error("model watcher error", zap.Error(err))
			}
		}
	}()
	return nil
}
