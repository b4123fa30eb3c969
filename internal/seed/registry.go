package seed

import "benchtree/internal/registry"

// Builtins returns a registry pre-populated with the harness's built-in
// seeds.
func Builtins() *registry.Registry[Seed] {
	r := registry.New[Seed]()
	r.Register("dict", NewDictSeed)
	r.Register("file", NewFileSeed)
	return r
}
