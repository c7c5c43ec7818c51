package ledgerdump_test

import (
	"errors"
	"testing"

	"github.com/hellochain/hello-go/internal/random"
	"github.com/hellochain/hello-go/pkg/core/ledger"
	"github.com/hellochain/hello-go/pkg/core/ledgerdump"
	"github.com/hellochain/hello-go/pkg/core/processor"
	"github.com/hellochain/hello-go/pkg/core/state"
	"github.com/hellochain/hello-go/pkg/core/storage"
	"github.com/hellochain/hello-go/pkg/io"
	"github.com/hellochain/hello-go/pkg/util"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newLedger(t *testing.T, program util.PublicKey) *ledger.Ledger {
	log := zaptest.NewLogger(t)
	l, err := ledger.New(storage.NewMemoryStore(), processor.New(log), ledger.Config{ProgramID: program}, log)
	require.NoError(t, err)
	return l
}

func TestLedger_DumpAndRestore(t *testing.T) {
	program := random.PublicKey()
	authority := random.PublicKey()
	store := random.PublicKey()

	l := newLedger(t, program)
	require.NoError(t, l.CreateAccount(store, program, state.HelloRecordSize))
	_, err := l.Airdrop(store, 42)
	require.NoError(t, err)
	_, err = l.Airdrop(authority, 7)
	require.NoError(t, err)
	_, err = l.Execute(ledger.NewHelloTransaction(program, authority, store, "hello"))
	require.NoError(t, err)

	w := io.NewBufBinWriter()
	n, err := ledgerdump.Dump(l, w.BinWriter)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)
	buf := w.Bytes()

	t.Run("positive", func(t *testing.T) {
		l2 := newLedger(t, program)
		var restored []util.PublicKey
		n, err := ledgerdump.Restore(l2, io.NewBinReaderFromBuf(buf), func(key util.PublicKey, _ *state.Account) error {
			restored = append(restored, key)
			return nil
		})
		require.NoError(t, err)
		require.EqualValues(t, 2, n)
		require.ElementsMatch(t, []util.PublicKey{authority, store}, restored)

		for _, key := range restored {
			expected, err := l.GetAccount(key)
			require.NoError(t, err)
			actual, err := l2.GetAccount(key)
			require.NoError(t, err)
			require.Equal(t, expected, actual)
		}
		acc, err := l2.GetAccount(store)
		require.NoError(t, err)
		rec, err := state.DecodeHelloRecordUnchecked(acc.Data)
		require.NoError(t, err)
		require.Equal(t, "hello", rec.Message)
		require.Equal(t, authority, rec.Owner)
	})

	t.Run("callback error", func(t *testing.T) {
		l2 := newLedger(t, program)
		errStop := errors.New("stop")
		n, err := ledgerdump.Restore(l2, io.NewBinReaderFromBuf(buf), func(util.PublicKey, *state.Account) error {
			return errStop
		})
		require.ErrorIs(t, err, errStop)
		require.EqualValues(t, 1, n)
	})

	t.Run("truncated", func(t *testing.T) {
		for _, size := range []int{0, 3, 4 + util.PublicKeySize, len(buf) - 1} {
			_, err := ledgerdump.Restore(newLedger(t, program), io.NewBinReaderFromBuf(buf[:size]), nil)
			require.Error(t, err, "size %d", size)
		}
	})

	t.Run("empty ledger", func(t *testing.T) {
		w := io.NewBufBinWriter()
		n, err := ledgerdump.Dump(newLedger(t, program), w.BinWriter)
		require.NoError(t, err)
		require.EqualValues(t, 0, n)
		require.Equal(t, []byte{0, 0, 0, 0}, w.Bytes())
	})
}
