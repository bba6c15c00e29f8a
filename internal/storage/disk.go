package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"vuebridge-backend/pkg/logger"
)

// DiskStorage reads component content from <dataDir>/<name><ext>. Recently
// used files are cached and reloaded when their modification time changes.
type DiskStorage struct {
	dataDir   string
	ext       string
	mu        sync.RWMutex
	cache     map[string]*cacheEntry
	cacheSize int
}

type cacheEntry struct {
	content  []byte
	modTime  time.Time
	lastUsed time.Time
}

func NewDiskStorage(dataDir, ext string, cacheSize int) *DiskStorage {
	if ext == "" {
		ext = ".vue"
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return &DiskStorage{
		dataDir:   dataDir,
		ext:       ext,
		cache:     make(map[string]*cacheEntry),
		cacheSize: cacheSize,
	}
}

func (d *DiskStorage) Init() error {
	if err := os.MkdirAll(d.dataDir, 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageInit, err)
	}

	names, err := d.List()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageInit, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, name := range names {
		if len(d.cache) >= d.cacheSize {
			break
		}

		entry, err := d.loadFromFile(name)
		if err != nil {
			logger.Errorf("Failed to load component %s: %v", name, err)
			continue
		}

		d.cache[name] = entry
	}

	logger.Infof("Component storage initialized at %s (%d cached)", d.dataDir, len(d.cache))
	return nil
}

func (d *DiskStorage) path(name string) string {
	return filepath.Join(d.dataDir, name+d.ext)
}

func (d *DiskStorage) loadFromFile(name string) (*cacheEntry, error) {
	path := d.path(name)

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return &cacheEntry{
		content:  content,
		modTime:  info.ModTime(),
		lastUsed: time.Now(),
	}, nil
}

func (d *DiskStorage) Get(name string) ([]byte, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	info, err := os.Stat(d.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			d.mu.Lock()
			delete(d.cache, name)
			d.mu.Unlock()
			return nil, fmt.Errorf("%w: %s", ErrContentNotFound, name)
		}
		return nil, fmt.Errorf("%w: %v", ErrFileOperation, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if entry, exists := d.cache[name]; exists && entry.modTime.Equal(info.ModTime()) {
		entry.lastUsed = time.Now()
		return append([]byte(nil), entry.content...), nil
	}

	entry, err := d.loadFromFile(name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrContentNotFound, name)
		}
		return nil, fmt.Errorf("%w: %v", ErrFileOperation, err)
	}

	d.cache[name] = entry
	d.evictCache()

	return append([]byte(nil), entry.content...), nil
}

func (d *DiskStorage) Put(name string, content []byte) error {
	if err := validateName(name); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	path := d.path(name)
	tempPath := path + ".tmp"

	if err := os.WriteFile(tempPath, content, 0644); err != nil {
		return fmt.Errorf("%w: %v", ErrFileOperation, err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("%w: %v", ErrFileOperation, err)
	}

	// drop the entry so the next Get picks up the new modification time
	delete(d.cache, name)
	return nil
}

func (d *DiskStorage) Delete(name string) error {
	if err := validateName(name); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	path := d.path(name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrContentNotFound, name)
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("%w: %v", ErrFileOperation, err)
	}

	delete(d.cache, name)
	return nil
}

func (d *DiskStorage) List() ([]string, error) {
	files, err := os.ReadDir(d.dataDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileOperation, err)
	}

	var names []string
	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) != d.ext {
			continue
		}
		names = append(names, strings.TrimSuffix(file.Name(), d.ext))
	}
	sort.Strings(names)

	return names, nil
}

func (d *DiskStorage) evictCache() {
	if len(d.cache) <= d.cacheSize {
		return
	}

	type usage struct {
		name     string
		lastUsed time.Time
	}

	var entries []usage
	for name, entry := range d.cache {
		entries = append(entries, usage{
			name:     name,
			lastUsed: entry.lastUsed,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].lastUsed.Before(entries[j].lastUsed)
	})

	toEvict := len(d.cache) - d.cacheSize
	for i := 0; i < toEvict; i++ {
		delete(d.cache, entries[i].name)
	}
}

func (d *DiskStorage) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.cache = make(map[string]*cacheEntry)
	return nil
}
