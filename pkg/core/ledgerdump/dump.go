/*
Package ledgerdump implements export and import of ledger accounts in a
binary format: a U32LE number of accounts followed by the 32-byte key,
U32LE size and serialized state of every account.
*/
package ledgerdump

import (
	"fmt"

	"github.com/hellochain/hello-go/pkg/core/state"
	"github.com/hellochain/hello-go/pkg/io"
	"github.com/hellochain/hello-go/pkg/util"
)

// DumperRestorer is an interface to get/put accounts from/to.
type DumperRestorer interface {
	ForEachAccount(f func(key util.PublicKey, acc *state.Account) bool) error
	PutAccount(key util.PublicKey, acc *state.Account) error
}

// Dump writes all accounts of l to the provided writer. It returns the
// number of accounts written.
func Dump(l DumperRestorer, w *io.BinWriter) (uint32, error) {
	var (
		count uint32
		body  = io.NewBufBinWriter()
		buf   = io.NewBufBinWriter()
		ferr  error
	)
	err := l.ForEachAccount(func(key util.PublicKey, acc *state.Account) bool {
		buf.Reset()
		acc.EncodeBinary(buf.BinWriter)
		if buf.Err != nil {
			ferr = fmt.Errorf("can't encode account %s: %w", key, buf.Err)
			return false
		}
		bytes := buf.Bytes()
		body.WriteBytes(key[:])
		body.WriteU32LE(uint32(len(bytes)))
		body.WriteBytes(bytes)
		count++
		return body.Err == nil
	})
	if err == nil {
		err = ferr
	}
	if err == nil {
		err = body.Err
	}
	if err != nil {
		return 0, err
	}
	w.WriteU32LE(count)
	w.WriteBytes(body.Bytes())
	return count, w.Err
}

// Restore puts accounts from the provided reader into l. f is called after
// addition of every account.
func Restore(l DumperRestorer, r *io.BinReader, f func(key util.PublicKey, acc *state.Account) error) (uint32, error) {
	count := r.ReadU32LE()
	if r.Err != nil {
		return 0, r.Err
	}
	for i := uint32(0); i < count; i++ {
		var key util.PublicKey
		r.ReadBytes(key[:])
		size := r.ReadU32LE()
		if r.Err == nil && int(size) > r.Len() {
			return i, fmt.Errorf("account %d: size %d exceeds the remaining %d bytes", i, size, r.Len())
		}
		buf := make([]byte, size)
		r.ReadBytes(buf)
		if r.Err != nil {
			return i, fmt.Errorf("account %d: %w", i, r.Err)
		}

		acc := new(state.Account)
		ar := io.NewBinReaderFromBuf(buf)
		acc.DecodeBinary(ar)
		if ar.Err != nil {
			return i, fmt.Errorf("account %s: %w", key, ar.Err)
		}
		if ar.Len() != 0 {
			return i, fmt.Errorf("account %s: %d trailing bytes", key, ar.Len())
		}
		if err := l.PutAccount(key, acc); err != nil {
			return i, fmt.Errorf("failed to put account %s: %w", key, err)
		}
		if f != nil {
			if err := f(key, acc); err != nil {
				return i + 1, err
			}
		}
	}
	return count, nil
}
