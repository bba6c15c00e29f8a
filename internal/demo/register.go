// Package demo holds the example components served by the binary.
package demo

import "vuebridge-backend/internal/component"

// Register adds the demo components to r.
func Register(r *component.Registry) error {
	if _, err := r.Register("counter", NewCounter, counterOptions()...); err != nil {
		return err
	}
	if _, err := r.Register("profile", NewProfile, profileOptions()...); err != nil {
		return err
	}
	return nil
}
