// Package seed defines the pluggable data-source contract (spec.md
// §4.8 C2) and its two required built-ins: an inline list and a
// file-of-JSON-lines, grounded on ben/seed/dict_seed.py and
// ben/seed/file_seed.py.
package seed

import (
	"bufio"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"sync"
)

// Seed produces one value per Pick call. Pick must be safe under
// concurrent calls from all workers of a unit.
type Seed interface {
	Pick() any
}

// Constructor builds a Seed from its rendered args map.
type Constructor func(args map[string]any) (Seed, error)

// DictSeed holds an inline list of values and returns a uniform random
// choice on each Pick.
type DictSeed struct {
	mu     sync.Mutex
	rnd    *rand.Rand
	values []any
}

// NewDictSeed is a seed.Constructor for type "dict". args.values, a
// non-empty list, supplies the candidate pool.
func NewDictSeed(args map[string]any) (Seed, error) {
	values, _ := args["values"].([]any)
	if len(values) == 0 {
		return nil, fmt.Errorf("dict seed: args.values must be a non-empty list")
	}
	return &DictSeed{rnd: rand.New(rand.NewSource(rand.Int63())), values: values}, nil
}

// Pick returns a uniformly chosen element of the inline list.
func (s *DictSeed) Pick() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[s.rnd.Intn(len(s.values))]
}

// FileSeed loads one JSON value per line from a file once, at
// construction, and returns a uniform random choice on each Pick.
type FileSeed struct {
	mu     sync.Mutex
	rnd    *rand.Rand
	values []any
}

// NewFileSeed is a seed.Constructor for type "file". args.name is the
// path to a file containing one JSON value per line.
func NewFileSeed(args map[string]any) (Seed, error) {
	name, _ := args["name"].(string)
	if name == "" {
		return nil, fmt.Errorf("file seed: args.name is required")
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("file seed: open %s: %w", name, err)
	}
	defer f.Close()

	var values []any
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var v any
		if err := json.Unmarshal(line, &v); err != nil {
			return nil, fmt.Errorf("file seed: parse line in %s: %w", name, err)
		}
		values = append(values, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("file seed: read %s: %w", name, err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("file seed: %s contains no values", name)
	}

	return &FileSeed{rnd: rand.New(rand.NewSource(rand.Int63())), values: values}, nil
}

// Pick returns a uniformly chosen element of the loaded file.
func (s *FileSeed) Pick() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[s.rnd.Intn(len(s.values))]
}
