package readingtime

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	fs := NewFileStore(path)

	loaded, err := fs.Load()
	require.NoError(t, err)
	require.Nil(t, loaded, "absent file reads as no session")

	s := &Session{StartTime: 1000, ElapsedTime: 5000, LastActiveTime: 6000}
	require.NoError(t, fs.Save(s))

	loaded, err = fs.Load()
	require.NoError(t, err)
	require.Equal(t, s, loaded)
}

func TestFileStoreCorruptRecordReadsAsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	loaded, err := NewFileStore(path).Load()
	require.NoError(t, err)
	require.Nil(t, loaded)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	m := NewMemoryStore()
	s := &Session{StartTime: 1, ElapsedTime: 2, LastActiveTime: 3}
	require.NoError(t, m.Save(s))

	s.ElapsedTime = 999
	loaded, err := m.Load()
	require.NoError(t, err)
	require.Equal(t, int64(2), loaded.ElapsedTime, "store must not alias the caller's pointer")

	loaded.ElapsedTime = 777
	again, _ := m.Load()
	require.Equal(t, int64(2), again.ElapsedTime)
}
