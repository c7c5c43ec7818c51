/*
Package account contains the runtime view of an account passed to the
program during an invocation.
*/
package account

import (
	"bytes"

	"github.com/hellochain/hello-go/pkg/util"
)

// Account is an account as seen by the program. IsSigner is set by the
// runtime after the transaction signatures are verified, the program trusts
// it.
type Account struct {
	Key        util.PublicKey
	IsSigner   bool
	IsWritable bool
	Balance    uint64
	// Owner is the program that owns the account.
	Owner util.PublicKey
	// Data is the account storage, the program can change its contents
	// but not its size.
	Data []byte
}

// Copy returns a deep copy of the account.
func (a *Account) Copy() *Account {
	cp := *a
	cp.Data = bytes.Clone(a.Data)
	return &cp
}

// Equals checks whether both accounts have the same keys, flags, balance
// and data.
func (a *Account) Equals(other *Account) bool {
	return a.Key == other.Key &&
		a.IsSigner == other.IsSigner &&
		a.IsWritable == other.IsWritable &&
		a.Balance == other.Balance &&
		a.Owner == other.Owner &&
		bytes.Equal(a.Data, other.Data)
}
