package profile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pushfold/poker"
	"github.com/lox/pushfold/strategy"
)

const gtoTable = `{"2":{"10":{"SB":{"Open":{"AKS":"raise"}}}}}`

func writeProfile(t *testing.T, dir, name, data string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(data), 0o644))
}

func TestList(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeProfile(t, dir, "tight.json", gtoTable)
	writeProfile(t, dir, "gto.json", gtoTable)
	writeProfile(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "dir.json"), 0o755))

	names, err := NewStore(dir).List()
	require.NoError(t, err)
	assert.Equal(t, []string{"gto", "tight"}, names)
}

func TestListSkipsUnloadableNames(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeProfile(t, dir, "A.JSON", gtoTable)
	writeProfile(t, dir, "my profile.json", gtoTable)
	writeProfile(t, dir, ".json", gtoTable)
	writeProfile(t, dir, "tight.json", gtoTable)

	store := NewStore(dir)
	names, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"tight"}, names)

	for _, name := range names {
		_, err := store.Load(name)
		assert.NoError(t, err, name)
	}
}

func TestListMissingDir(t *testing.T) {
	t.Parallel()
	names, err := NewStore(filepath.Join(t.TempDir(), "absent")).List()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestLoad(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeProfile(t, dir, "gto.json", gtoTable)
	writeProfile(t, dir, "broken.json", `{"2":{"10":{"SB":{"Open":{"AKs":"raise"}}}}}`)
	store := NewStore(dir)

	assert.True(t, store.Exists("gto"))
	assert.False(t, store.Exists("missing"))
	assert.False(t, store.Exists("../gto"))

	active, err := store.Load("gto")
	require.NoError(t, err)
	assert.Equal(t, "gto", active.Name)
	assert.Equal(t, filepath.Join(dir, "gto.json"), active.Path)
	assert.False(t, active.ModTime.IsZero())
	_, err = active.Table.Lookup(strategy.Query{Players: 2, Depth: 10, Seat: poker.SmallBlind, Scenario: strategy.Open, Hand: "AKS"})
	assert.NoError(t, err)

	_, err = store.Load("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Load("../etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = store.Load("broken")
	var verr *strategy.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestSave(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "profiles")
	store := NewStore(dir)

	active, err := store.Save("mine", []byte(gtoTable))
	require.NoError(t, err)
	assert.Equal(t, "mine", active.Name)
	assert.NotNil(t, active.Table)

	data, err := os.ReadFile(filepath.Join(dir, "mine.json"))
	require.NoError(t, err)
	assert.JSONEq(t, gtoTable, string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files are left behind")

	_, err = store.Save("bad name", []byte(gtoTable))
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = store.Save("invalid", []byte(`{"4":{}}`))
	var verr *strategy.ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.False(t, store.Exists("invalid"))
}

func TestDefault(t *testing.T) {
	t.Parallel()

	t.Run("preferred", func(t *testing.T) {
		dir := t.TempDir()
		writeProfile(t, dir, "aggro.json", gtoTable)
		writeProfile(t, dir, "gto.json", gtoTable)
		active, err := NewStore(dir).Default("gto", "")
		require.NoError(t, err)
		assert.Equal(t, "gto", active.Name)
	})

	t.Run("first listed", func(t *testing.T) {
		dir := t.TempDir()
		writeProfile(t, dir, "zeta.json", gtoTable)
		writeProfile(t, dir, "aggro.json", gtoTable)
		active, err := NewStore(dir).Default("gto", "")
		require.NoError(t, err)
		assert.Equal(t, "aggro", active.Name)
	})

	t.Run("ignores stray files", func(t *testing.T) {
		dir := t.TempDir()
		writeProfile(t, dir, "A.JSON", gtoTable)
		writeProfile(t, dir, "my profile.json", gtoTable)
		writeProfile(t, dir, "tight.json", gtoTable)
		active, err := NewStore(dir).Default("gto", "")
		require.NoError(t, err)
		assert.Equal(t, "tight", active.Name)
	})

	t.Run("fallback file", func(t *testing.T) {
		fallback := filepath.Join(t.TempDir(), "ranges.json")
		require.NoError(t, os.WriteFile(fallback, []byte(gtoTable), 0o644))
		active, err := NewStore(filepath.Join(t.TempDir(), "none")).Default("gto", fallback)
		require.NoError(t, err)
		assert.Equal(t, "default", active.Name)
		assert.Equal(t, fallback, active.Path)
	})

	t.Run("nothing", func(t *testing.T) {
		_, err := NewStore(t.TempDir()).Default("gto", "")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestValidName(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"gto", "my-profile_2", "A"} {
		assert.NoError(t, ValidName(name), name)
	}
	for _, name := range []string{"", "a b", "../x", "x.json", "é"} {
		assert.ErrorIs(t, ValidName(name), ErrInvalidName, name)
	}
}
