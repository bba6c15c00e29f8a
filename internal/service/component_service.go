package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"vuebridge-backend/internal/component"
	"vuebridge-backend/internal/config"
	"vuebridge-backend/internal/model"
	"vuebridge-backend/internal/storage"
	"vuebridge-backend/pkg/logger"
)

type ComponentService struct {
	registry *component.Registry
	engine   *component.Engine
	provider component.DefinitionProvider
	store    storage.ContentStore
}

// NewContentStore opens the configured content directory. When the
// directory cannot be used the service runs on an empty in-memory store.
func NewContentStore(cfg *config.Config) storage.ContentStore {
	var store storage.ContentStore = storage.NewDiskStorage(
		cfg.Component.ContentDir,
		cfg.Component.Extension,
		cfg.Component.CacheSize,
	)

	if err := store.Init(); err != nil {
		logger.Errorf("Failed to initialize component storage: %v", err)
		store = storage.NewMemoryStorage()
		store.Init()
	}
	return store
}

func NewComponentService(cfg *config.Config, registry *component.Registry, store storage.ContentStore) *ComponentService {
	settings := component.Settings{
		EscapeHTML:            cfg.JSON.EscapeHTML,
		DisallowUnknownFields: cfg.JSON.DisallowUnknownFields,
		IgnoreNullOnMerge:     cfg.JSON.IgnoreNullOnMerge,
	}

	return &ComponentService{
		registry: registry,
		engine:   component.NewEngine(registry, settings),
		provider: component.NewSectionProvider(settings),
		store:    store,
	}
}

// Update runs one update cycle of the named component.
func (s *ComponentService) Update(ctx context.Context, requestID, name string, req component.Request) (*component.Patch, error) {
	log := logger.WithFields(logger.Fields{
		"request_id": requestID,
		"component":  name,
		"method":     req.Method,
	})
	log.Debug("update started")

	start := time.Now()
	patch, err := s.engine.Update(ctx, name, req)
	elapsed := time.Since(start)

	if err != nil {
		kind := component.KindName(err)
		entry := log.WithFields(logger.Fields{"kind": kind, "duration": elapsed})
		switch kind {
		case "MethodExecutionFailed", "Internal":
			entry.Errorf("update failed: %v", err)
		default:
			entry.Warnf("update rejected: %v", err)
		}
		return nil, err
	}

	changed := make([]string, 0, len(patch.Update))
	for k := range patch.Update {
		changed = append(changed, k)
	}
	sort.Strings(changed)

	log.WithFields(logger.Fields{
		"duration":      elapsed,
		"changed":       changed,
		"script_length": len(patch.Script),
	}).Info("update completed")

	return patch, nil
}

// Definition resolves the client definition of the named component.
// A component without stored content gets an empty template.
func (s *ComponentService) Definition(name string) (*component.Definition, error) {
	t, err := s.registry.Lookup(name)
	if err != nil {
		return nil, err
	}

	content, err := s.store.Get(name)
	if err != nil {
		if !errors.Is(err, storage.ErrContentNotFound) {
			return nil, fmt.Errorf("load content of %q: %w", name, err)
		}
		logger.WithFields(logger.Fields{"component": name}).Warnf("no content stored, rendering empty template")
		content = nil
	}

	return s.provider.Definition(t, content)
}

// RenderScript writes the client descriptor of the named component to w.
// Nothing is written when the definition cannot be resolved.
func (s *ComponentService) RenderScript(name string, w io.Writer) error {
	def, err := s.Definition(name)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := component.WriteScript(&buf, def, s.engine.Settings()); err != nil {
		return err
	}

	_, err = buf.WriteTo(w)
	return err
}

// List summarizes the registered components and whether content is stored
// for each of them.
func (s *ComponentService) List() ([]model.ComponentSummary, error) {
	stored, err := s.store.List()
	if err != nil {
		return nil, fmt.Errorf("list stored content: %w", err)
	}
	hasContent := make(map[string]bool, len(stored))
	for _, name := range stored {
		hasContent[name] = true
	}

	names := s.registry.Names()
	summaries := make([]model.ComponentSummary, 0, len(names))

	for _, name := range names {
		t, err := s.registry.Lookup(name)
		if err != nil {
			continue
		}

		methods := make([]string, 0, len(t.Methods()))
		for _, m := range t.Methods() {
			methods = append(methods, m.Name)
		}

		summaries = append(summaries, model.ComponentSummary{
			Name:       name,
			VPath:      t.VPath(),
			Methods:    methods,
			HasContent: hasContent[name],
		})
	}

	return summaries, nil
}

// PutContent stores the raw content of a registered component. The next
// RenderScript picks it up.
func (s *ComponentService) PutContent(name string, content []byte) error {
	if _, err := s.registry.Lookup(name); err != nil {
		return err
	}
	if err := s.store.Put(name, content); err != nil {
		return err
	}

	logger.WithFields(logger.Fields{"component": name, "bytes": len(content)}).Info("content stored")
	return nil
}

func (s *ComponentService) DeleteContent(name string) error {
	if _, err := s.registry.Lookup(name); err != nil {
		return err
	}
	if err := s.store.Delete(name); err != nil {
		return err
	}

	logger.WithFields(logger.Fields{"component": name}).Info("content deleted")
	return nil
}
