package audit

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wiruacademy/clubsite/pkg/logger"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	logger.InitNop()

	j, err := Open(filepath.Join(t.TempDir(), "audit", "events.log"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestJournalRecordAndReadAll(t *testing.T) {
	j := openTestJournal(t)

	j.Record(EventRoleChange, 1, 2, "user -> admin")
	j.Record(EventLoginFailed, 0, 0, "nobody@example.com")

	entries, err := j.ReadAll()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, EventRoleChange, entries[0].Event)
	assert.Equal(t, uint(1), entries[0].ActorID)
	assert.Equal(t, uint(2), entries[0].TargetID)
	assert.Equal(t, "user -> admin", entries[0].Detail)
	assert.False(t, entries[0].Timestamp.IsZero())

	assert.Equal(t, EventLoginFailed, entries[1].Event)
}

func TestJournalEmpty(t *testing.T) {
	j := openTestJournal(t)

	entries, err := j.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestJournalSurvivesReopen(t *testing.T) {
	logger.InitNop()
	path := filepath.Join(t.TempDir(), "events.log")

	j, err := Open(path)
	require.NoError(t, err)
	j.Record(EventAccessDenied, 3, 0, "document 17")
	require.NoError(t, j.Close())

	j, err = Open(path)
	require.NoError(t, err)
	defer j.Close()
	j.Record(EventAccessDenied, 4, 0, "document 18")

	entries, err := j.ReadAll()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, uint(3), entries[0].ActorID)
	assert.Equal(t, uint(4), entries[1].ActorID)
}

func TestJournalSkipsCorruptLines(t *testing.T) {
	logger.InitNop()
	path := filepath.Join(t.TempDir(), "events.log")
	require.NoError(t, os.WriteFile(path, []byte("not json\n"), 0o644))

	j, err := Open(path)
	require.NoError(t, err)
	defer j.Close()
	j.Record(EventRoleChange, 1, 2, "")

	entries, err := j.ReadAll()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, EventRoleChange, entries[0].Event)
}

func TestJournalNilIsNoop(t *testing.T) {
	var j *Journal

	j.Record(EventRoleChange, 1, 2, "")
	entries, err := j.ReadAll()
	assert.NoError(t, err)
	assert.Nil(t, entries)
	assert.NoError(t, j.Close())
}

func TestJournalConcurrentWrites(t *testing.T) {
	j := openTestJournal(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n uint) {
			defer wg.Done()
			j.Record(EventLoginFailed, n, 0, "burst")
		}(uint(i))
	}
	wg.Wait()

	entries, err := j.ReadAll()
	require.NoError(t, err)
	assert.Len(t, entries, 10)
}
