package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"benchtrack/internal/domain"
)

func newTestCategoryStore(t *testing.T) (*CategoryStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "categories.json")
	s, err := NewCategoryStore(path)
	require.NoError(t, err)
	return s, path
}

func TestCategoryStoreDefaults(t *testing.T) {
	s, path := newTestCategoryStore(t)

	assert.Equal(t, []string{"科技", "营销", "运营"}, s.List())

	// Defaults are not written until the first mutation
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestCategoryStoreAdd(t *testing.T) {
	s, path := newTestCategoryStore(t)

	require.NoError(t, s.Add("设计"))
	assert.Equal(t, []string{"科技", "营销", "运营", "设计"}, s.List())

	// Persisted and reloadable
	reloaded, err := NewCategoryStore(path)
	require.NoError(t, err)
	assert.Equal(t, s.List(), reloaded.List())
}

func TestCategoryStoreAddDuplicate(t *testing.T) {
	s, _ := newTestCategoryStore(t)

	err := s.Add("科技")
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCategoryStoreAddEmpty(t *testing.T) {
	s, _ := newTestCategoryStore(t)

	err := s.Add("")
	assert.ErrorIs(t, err, domain.ErrEmptyField)
}

func TestCategoryStoreRename(t *testing.T) {
	s, _ := newTestCategoryStore(t)

	require.NoError(t, s.Rename("科技", "科技观察"))
	assert.Equal(t, []string{"科技观察", "营销", "运营"}, s.List())

	assert.ErrorIs(t, s.Rename("不存在", "x"), domain.ErrNotFound)
	assert.ErrorIs(t, s.Rename("营销", "运营"), domain.ErrDuplicate)
	assert.ErrorIs(t, s.Rename("营销", ""), domain.ErrEmptyField)

	// Renaming to itself is a no-op, not a duplicate
	require.NoError(t, s.Rename("营销", "营销"))
}

func TestCategoryStoreRemove(t *testing.T) {
	s, path := newTestCategoryStore(t)

	require.NoError(t, s.Remove("营销"))
	assert.Equal(t, []string{"科技", "运营"}, s.List())

	assert.ErrorIs(t, s.Remove("营销"), domain.ErrNotFound)

	reloaded, err := NewCategoryStore(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"科技", "运营"}, reloaded.List())
}

func TestCategoryStoreListIsCopy(t *testing.T) {
	s, _ := newTestCategoryStore(t)

	list := s.List()
	list[0] = "mutated"
	assert.Equal(t, "科技", s.List()[0])
}

func TestCategoryStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := NewCategoryStore(path)
	assert.Error(t, err)
}

func TestCategoryStoreEmptyFileSeedsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0644))

	s, err := NewCategoryStore(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"科技", "营销", "运营"}, s.List())
}
