package storage

// ContentStore holds the raw content (template, style and script sections)
// of components, keyed by component name.
type ContentStore interface {
	Get(name string) ([]byte, error)
	Put(name string, content []byte) error
	Delete(name string) error
	List() ([]string, error)

	Init() error
	Close() error
}
