package state

import (
	"github.com/hellochain/hello-go/pkg/io"
	"github.com/hellochain/hello-go/pkg/util"
)

// MaxAccountDataSize is the maximum size of account data.
const MaxAccountDataSize = 10 * 1024 * 1024

// Account is the persisted ledger state of an account.
type Account struct {
	Balance uint64
	// Owner is the program allowed to change Data.
	Owner util.PublicKey
	Data  []byte
}

// EncodeBinary implements the io.Serializable interface.
func (a *Account) EncodeBinary(w *io.BinWriter) {
	w.WriteU64LE(a.Balance)
	w.WriteBytes(a.Owner[:])
	w.WriteVarBytes(a.Data)
}

// DecodeBinary implements the io.Serializable interface.
func (a *Account) DecodeBinary(r *io.BinReader) {
	a.Balance = r.ReadU64LE()
	r.ReadBytes(a.Owner[:])
	a.Data = r.ReadVarBytes(MaxAccountDataSize)
}
