package models

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
)

var ErrIndexOutOfRange = errors.New("selection index out of range")

// SelectableImage is one entry of the selection set
type SelectableImage struct {
	path      string
	Selected  bool
	Processed bool
}

// NewSelectableImage creates an entry that is selected and not yet processed
func NewSelectableImage(path string) SelectableImage {
	return SelectableImage{path: path, Selected: true}
}

func (s SelectableImage) Path() string {
	return s.path
}

// DisplayName is the final path segment. Both '/' and the OS separator count.
func (s SelectableImage) DisplayName() string {
	return DisplayName(s.path)
}

func DisplayName(path string) string {
	idx := strings.LastIndexFunc(path, func(r rune) bool {
		return r == '/' || r == os.PathSeparator
	})
	return path[idx+1:]
}

// SelectionSet is the ordered list of images queued for processing.
// Duplicate paths are kept as separate entries.
type SelectionSet struct {
	mu      sync.RWMutex
	entries []SelectableImage
}

func NewSelectionSet() *SelectionSet {
	return &SelectionSet{}
}

// Replace discards the current entries and installs one entry per path.
func (s *SelectionSet) Replace(paths []string) {
	entries := make([]SelectableImage, 0, len(paths))
	for _, p := range paths {
		entries = append(entries, NewSelectableImage(p))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = entries
}

func (s *SelectionSet) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
}

func (s *SelectionSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Entries returns a copy of the current entries
func (s *SelectionSet) Entries() []SelectableImage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]SelectableImage, len(s.entries))
	copy(entries, s.entries)
	return entries
}

func (s *SelectionSet) At(index int) (SelectableImage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if index < 0 || index >= len(s.entries) {
		return SelectableImage{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	return s.entries[index], nil
}

func (s *SelectionSet) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	paths := make([]string, len(s.entries))
	for i, e := range s.entries {
		paths[i] = e.path
	}
	return paths
}

func (s *SelectionSet) SetSelected(index int, selected bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.entries) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	s.entries[index].Selected = selected
	return nil
}

// IndexedImage pairs an entry with its position in the set.
type IndexedImage struct {
	Index int
	Image SelectableImage
}

// Selected returns the selected entries in list order
func (s *SelectionSet) Selected() []IndexedImage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var selected []IndexedImage
	for i, e := range s.entries {
		if e.Selected {
			selected = append(selected, IndexedImage{Index: i, Image: e})
		}
	}
	return selected
}

// MarkProcessed flags the entry at index when it still holds path. A
// mismatch means the set was replaced while the batch ran.
func (s *SelectionSet) MarkProcessed(index int, path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.entries) || s.entries[index].path != path {
		return false
	}
	s.entries[index].Processed = true
	return true
}

// GetStats summarises the set for status display and logging
func (s *SelectionSet) GetStats() SelectionStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := SelectionStats{Total: len(s.entries)}
	for _, e := range s.entries {
		if e.Selected {
			stats.Selected++
		}
		if e.Processed {
			stats.Processed++
		}
	}
	return stats
}

type SelectionStats struct {
	Total     int
	Selected  int
	Processed int
}
