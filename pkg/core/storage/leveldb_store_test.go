package storage

import (
	"testing"

	"github.com/hellochain/hello-go/pkg/core/storage/dbconfig"
	"github.com/stretchr/testify/require"
)

func newLevelDBForTesting(t testing.TB) Store {
	ldbDir := t.TempDir()
	opts := dbconfig.LevelDBOptions{
		DataDirectoryPath: ldbDir,
	}
	newLevelStore, err := NewLevelDBStore(opts)
	require.Nil(t, err, "NewLevelDBStore error")
	return newLevelStore
}

func TestROLevelDB(t *testing.T) {
	ldbDir := t.TempDir()
	opts := dbconfig.LevelDBOptions{
		DataDirectoryPath: ldbDir,
		ReadOnly:          true,
	}

	// Set ReadOnly and no DB initialized -> error.
	_, err := NewLevelDBStore(opts)
	require.Error(t, err)

	// Initialize the DB and close it.
	opts.ReadOnly = false
	store, err := NewLevelDBStore(opts)
	require.NoError(t, err)
	require.NoError(t, store.Close())
	opts.ReadOnly = true

	store, err = NewLevelDBStore(opts)
	require.NoError(t, err)
	// Changes must be prohibited.
	putErr := store.PutChangeSet(map[string][]byte{"one": {1}})
	require.Error(t, putErr)
	require.NoError(t, store.Close())
}
