package storage

import (
	"coursetrack/internal/models"
	"coursetrack/internal/structures"
	"coursetrack/internal/testutil"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBackupManager(t *testing.T, keep int) (*BackupManager, *testutil.MockClock, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "backups")
	comp, err := NewZstdCompressor()
	require.NoError(t, err)
	clock := testutil.NewMockClock(time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC))
	conf := &structures.Config{Backup: structures.BackupConfig{Dir: dir, Keep: keep}}
	bm := NewBackupManager(conf, comp, clock, &testutil.MockLogger{})
	t.Cleanup(bm.Close)
	return bm, clock, dir
}

func TestBackupManager_WriteAndRead(t *testing.T) {
	bm, _, dir := newTestBackupManager(t, 5)

	name, err := bm.Write(sampleDocument())
	require.NoError(t, err)
	assert.Equal(t, "courses-20240103T100000.000.json.zst", name)
	_, err = os.Stat(filepath.Join(dir, name+".tmp"))
	assert.True(t, os.IsNotExist(err))

	doc, err := bm.Read(name)
	require.NoError(t, err)
	require.Len(t, doc.Courses, 1)
	assert.Equal(t, "Linear Algebra", doc.Courses[0].Name)
	assert.Equal(t, 1, doc.ActivityLog["2024-01-02"])
}

func TestBackupManager_KeepsNewest(t *testing.T) {
	bm, clock, _ := newTestBackupManager(t, 2)

	var names []string
	for i := 0; i < 4; i++ {
		name, err := bm.Write(models.NewDocument())
		require.NoError(t, err)
		names = append(names, name)
		clock.Advance(time.Hour)
	}

	listed, err := bm.List()
	require.NoError(t, err)
	assert.Equal(t, names[2:], listed)
}

func TestBackupManager_ZeroKeepRetainsAll(t *testing.T) {
	bm, clock, _ := newTestBackupManager(t, 0)
	for i := 0; i < 3; i++ {
		_, err := bm.Write(models.NewDocument())
		require.NoError(t, err)
		clock.Advance(time.Minute)
	}

	listed, err := bm.List()
	require.NoError(t, err)
	assert.Len(t, listed, 3)
}

func TestBackupManager_ReadRejectsTraversal(t *testing.T) {
	bm, _, _ := newTestBackupManager(t, 2)

	for _, name := range []string{"", "../courses.json", "sub/x.json.zst", ".."} {
		_, err := bm.Read(name)
		assert.ErrorIs(t, err, models.ErrInvalidInput, name)
	}
}

func TestBackupManager_ReadMissing(t *testing.T) {
	bm, _, _ := newTestBackupManager(t, 2)

	_, err := bm.Read("courses-20200101T000000.000.json.zst")
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestBackupManager_ReadCorrupt(t *testing.T) {
	bm, _, dir := newTestBackupManager(t, 2)
	require.NoError(t, os.MkdirAll(dir, 0755))
	name := "courses-20200101T000000.000.json.zst"
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("garbage"), 0644))

	_, err := bm.Read(name)
	assert.ErrorIs(t, err, models.ErrMalformedStorage)
}

func TestBackupManager_CompressError(t *testing.T) {
	dir := t.TempDir()
	comp := &testutil.MockCompressor{CompressFn: func([]byte) ([]byte, error) {
		return nil, errors.New("compress error")
	}}
	conf := &structures.Config{Backup: structures.BackupConfig{Dir: dir, Keep: 2}}
	bm := NewBackupManager(conf, comp, testutil.NewMockClock(time.Now()), &testutil.MockLogger{})

	_, err := bm.Write(models.NewDocument())
	assert.Error(t, err)

	bm.Close()
	assert.True(t, comp.Closed)
}
