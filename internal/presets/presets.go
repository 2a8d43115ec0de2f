// Package presets maps short names to modifier sets loaded from a YAML file.
package presets

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"sync"

	"github.com/phambaophuc/image-transform/internal/geometry"
	"gopkg.in/yaml.v3"
)

var ErrPresetNotFound = errors.New("presets: preset not found")

// Entry is one preset as written in the file. Modifiers, when set, is a
// compact modifier string and takes precedence over the individual fields.
type Entry struct {
	Modifiers string `yaml:"modifiers"`
	Action    string `yaml:"action"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Crop      string `yaml:"crop"`
	Gravity   string `yaml:"gravity"`
	Format    string `yaml:"format"`
	Quality   int    `yaml:"quality"`
}

type file struct {
	Presets map[string]Entry `yaml:"presets"`
}

// Store holds the current preset set. It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	path    string
	presets map[string]geometry.Modifiers
}

func NewStore() *Store {
	return &Store{presets: map[string]geometry.Modifiers{}}
}

// Load reads and validates a preset file. On error the store keeps its
// previous contents.
func Load(path string) (*Store, error) {
	s := NewStore()
	s.path = path
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the store's file.
func (s *Store) Reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read presets file: %w", err)
	}

	parsed, err := Parse(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.presets = parsed
	s.mu.Unlock()
	return nil
}

// Parse decodes preset YAML and validates every entry.
func Parse(data []byte) (map[string]geometry.Modifiers, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse presets: %w", err)
	}

	out := make(map[string]geometry.Modifiers, len(f.Presets))
	for name, entry := range f.Presets {
		m, err := entry.modifiers()
		if err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
		if err := geometry.Validate(m); err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
		out[name] = m
	}
	return out, nil
}

func (e Entry) modifiers() (geometry.Modifiers, error) {
	if e.Modifiers != "" {
		return geometry.ParseModifierString(e.Modifiers)
	}
	return geometry.ParseFields(geometry.Fields{
		Action:  e.Action,
		Width:   itoa(e.Width),
		Height:  itoa(e.Height),
		Crop:    e.Crop,
		Gravity: e.Gravity,
		Format:  e.Format,
		Quality: itoa(e.Quality),
	})
}

func itoa(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func (s *Store) Get(name string) (geometry.Modifiers, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.presets[name]
	if !ok {
		return geometry.Modifiers{}, fmt.Errorf("%w: %q", ErrPresetNotFound, name)
	}
	return m, nil
}

// All returns a copy of every preset, keyed by name.
func (s *Store) All() map[string]geometry.Modifiers {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]geometry.Modifiers, len(s.presets))
	for name, m := range s.presets {
		out[name] = m
	}
	return out
}

func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.presets))
	for name := range s.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
