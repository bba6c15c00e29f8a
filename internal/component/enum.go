package component

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
)

var ErrUnknownMember = errors.New("unknown enumeration member")

// Enum is implemented, on the pointer receiver, by types whose values are
// addressed from the client by member name.
type Enum interface {
	ParseMember(name string) error
}

var enumType = reflect.TypeOf((*Enum)(nil)).Elem()

func isEnum(t reflect.Type) bool {
	return t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(enumType)
}

// Members maps member names of an enumeration to values.
type Members[T comparable] struct {
	byName map[string]T
	byVal  map[T]string
}

func NewMembers[T comparable](names map[string]T) Members[T] {
	m := Members[T]{
		byName: make(map[string]T, len(names)),
		byVal:  make(map[T]string, len(names)),
	}
	for name, v := range names {
		m.byName[name] = v
		m.byVal[v] = name
	}
	return m
}

// Parse matches name exactly against the declared member names.
func (m Members[T]) Parse(name string) (T, error) {
	v, ok := m.byName[name]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w %q", ErrUnknownMember, name)
	}
	return v, nil
}

// Name returns the member name of v, or "" if v is not a member.
func (m Members[T]) Name(v T) string {
	return m.byVal[v]
}

// Names returns the member names in sorted order.
func (m Members[T]) Names() []string {
	names := make([]string, 0, len(m.byName))
	for name := range m.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
