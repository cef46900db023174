package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"benchtrack/internal/domain"
)

// defaultCategories seed a fresh category file.
var defaultCategories = []string{"科技", "营销", "运营"}

// CategoryStore persists the material-library category list as a plain
// JSON array next to the database. Categories are labels matched
// against article tags; editing the list never touches articles.
type CategoryStore struct {
	mu   sync.Mutex
	path string
	list []string
}

// NewCategoryStore loads the category file at path, seeding defaults
// when the file does not exist yet.
func NewCategoryStore(path string) (*CategoryStore, error) {
	s := &CategoryStore{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		s.list = append([]string(nil), defaultCategories...)
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read categories: %w", err)
	}

	if err := json.Unmarshal(data, &s.list); err != nil {
		return nil, fmt.Errorf("parse categories: %w", err)
	}
	if len(s.list) == 0 {
		s.list = append([]string(nil), defaultCategories...)
	}
	return s, nil
}

// List returns a copy of the categories in stored order.
func (s *CategoryStore) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.list...)
}

// Add appends a category and persists the list. A name already present
// fails with ErrDuplicate.
func (s *CategoryStore) Add(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "" {
		return fmt.Errorf("category name: %w", domain.ErrEmptyField)
	}
	if s.index(name) >= 0 {
		return fmt.Errorf("category %q: %w", name, domain.ErrDuplicate)
	}

	s.list = append(s.list, name)
	return s.save()
}

// Rename replaces a category label. Articles keep their old tags; the
// store only manages the label list.
func (s *CategoryStore) Rename(old, new string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if new == "" {
		return fmt.Errorf("category name: %w", domain.ErrEmptyField)
	}
	i := s.index(old)
	if i < 0 {
		return fmt.Errorf("category %q: %w", old, domain.ErrNotFound)
	}
	if old != new && s.index(new) >= 0 {
		return fmt.Errorf("category %q: %w", new, domain.ErrDuplicate)
	}

	s.list[i] = new
	return s.save()
}

// Remove drops a category label.
func (s *CategoryStore) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(name)
	if i < 0 {
		return fmt.Errorf("category %q: %w", name, domain.ErrNotFound)
	}

	s.list = append(s.list[:i], s.list[i+1:]...)
	return s.save()
}

func (s *CategoryStore) index(name string) int {
	for i, c := range s.list {
		if c == name {
			return i
		}
	}
	return -1
}

func (s *CategoryStore) save() error {
	if dir := filepath.Dir(s.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create categories dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(s.list, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal categories: %w", err)
	}
	return os.WriteFile(s.path, data, 0644)
}
