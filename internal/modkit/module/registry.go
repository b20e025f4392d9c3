// Package module is the process wide registry of module port sets, filled while the API mounts
package module

import "sync"

var registry sync.Map

// Register records the ports of module name, replacing earlier ones
func Register(name string, ports any) { registry.Store(name, ports) }

// PortsAs returns the ports of name when they are a T
func PortsAs[T any](name string) (T, bool) {
	v, _ := registry.Load(name)
	p, ok := v.(T)
	return p, ok
}

// Reset empties the registry between tests
func Reset() { registry.Clear() }
