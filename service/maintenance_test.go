package service

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"qastore/app/models"
	"qastore/app/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an embedded store on disk holding one post.
func setupTestDB(t *testing.T) string {
	dbPath := filepath.Join(t.TempDir(), "badger")
	db, err := openDB(dbPath)
	require.NoError(t, err)

	store := repositories.NewBadgerStore(db)
	require.NoError(t, store.Posts().Insert(context.Background(), &models.Post{
		ID: "1", PostTypeID: models.PostTypeQuestion, Title: "Backed up", Body: "body", CreationDate: "2020-01-01T00:00:00.000",
	}))
	require.NoError(t, store.Close(context.Background()))
	return dbPath
}

func readPost(t *testing.T, dbPath, id string) (*models.Post, error) {
	db, err := openDB(dbPath)
	require.NoError(t, err)
	store := repositories.NewBadgerStore(db)
	defer store.Close(context.Background())
	return store.Posts().GetByID(context.Background(), id)
}

func TestBackupAndRestore(t *testing.T) {
	dbPath := setupTestDB(t)
	backupDir := filepath.Join(t.TempDir(), "backups")

	var out bytes.Buffer
	backupFile, err := Backup(dbPath, backupDir, &out)
	require.NoError(t, err)
	assert.FileExists(t, backupFile)
	assert.Contains(t, out.String(), "Database backed up successfully")

	t.Run("declined restore keeps the database", func(t *testing.T) {
		out.Reset()
		err := Restore(dbPath, backupFile, strings.NewReader("n\n"), &out)
		assert.ErrorIs(t, err, ErrCancelled)
		assert.Contains(t, out.String(), "Operation cancelled")
		assert.DirExists(t, dbPath)
	})

	t.Run("restore into a fresh path", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "restored")
		out.Reset()
		require.NoError(t, Restore(target, backupFile, strings.NewReader(""), &out))
		assert.Contains(t, out.String(), "Database restored successfully")

		post, err := readPost(t, target, "1")
		require.NoError(t, err)
		assert.Equal(t, "Backed up", post.Title)
	})

	t.Run("confirmed restore replaces the database", func(t *testing.T) {
		out.Reset()
		require.NoError(t, Restore(dbPath, backupFile, strings.NewReader("y\n"), &out))
		post, err := readPost(t, dbPath, "1")
		require.NoError(t, err)
		assert.Equal(t, "Backed up", post.Title)
	})
}

func TestBackupErrors(t *testing.T) {
	_, err := Backup(filepath.Join(t.TempDir(), "missing"), t.TempDir(), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRestoreErrors(t *testing.T) {
	dir := t.TempDir()

	err := Restore(filepath.Join(dir, "db"), filepath.Join(dir, "missing.db"), strings.NewReader(""), &bytes.Buffer{})
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.db")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	err = Restore(filepath.Join(dir, "db"), empty, strings.NewReader(""), &bytes.Buffer{})
	assert.ErrorContains(t, err, "empty")
}

func TestClean(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantErr    error
		wantExists bool
		wantOutput string
	}{
		{"confirmed", "y\n", nil, false, "Database cleaned successfully"},
		{"upper case confirmation", "Y\n", nil, false, "Database cleaned successfully"},
		{"declined", "n\n", ErrCancelled, true, "Operation cancelled"},
		{"no answer", "", ErrCancelled, true, "Operation cancelled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dbPath := setupTestDB(t)
			var out bytes.Buffer

			err := Clean(dbPath, strings.NewReader(tt.input), &out)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Contains(t, out.String(), tt.wantOutput)
			_, statErr := os.Stat(dbPath)
			assert.Equal(t, tt.wantExists, statErr == nil)
		})
	}

	t.Run("already clean", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, Clean(filepath.Join(t.TempDir(), "missing"), strings.NewReader(""), &out))
		assert.Contains(t, out.String(), "already clean")
	})
}
