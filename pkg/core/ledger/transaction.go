package ledger

import (
	"github.com/hellochain/hello-go/pkg/core/instruction"
	"github.com/hellochain/hello-go/pkg/util"
)

// AccountMeta describes an account referenced by a transaction. IsSigner is
// set by the client after the transaction is signed by the account key.
type AccountMeta struct {
	Key        util.PublicKey `json:"key"`
	IsSigner   bool           `json:"signer"`
	IsWritable bool           `json:"writable"`
}

// Transaction is a single program invocation. Accounts are passed to the
// program in the given order.
type Transaction struct {
	Program  util.PublicKey `json:"program"`
	Accounts []AccountMeta  `json:"accounts"`
	Data     []byte         `json:"data"`
}

// NewHelloTransaction creates a transaction storing message in the storage
// account on behalf of the authority.
func NewHelloTransaction(program, authority, storage util.PublicKey, message string) *Transaction {
	return newTransaction(program, authority, storage, &instruction.Hello{Message: message})
}

// NewEraseTransaction creates a transaction moving the storage account
// balance to the authority.
func NewEraseTransaction(program, authority, storage util.PublicKey) *Transaction {
	return newTransaction(program, authority, storage, &instruction.Erase{})
}

func newTransaction(program, authority, storage util.PublicKey, ins instruction.Instruction) *Transaction {
	return &Transaction{
		Program: program,
		Accounts: []AccountMeta{
			{Key: authority, IsSigner: true, IsWritable: true},
			{Key: storage, IsWritable: true},
		},
		Data: instruction.Encode(ins),
	}
}

// Receipt is the result of transaction execution.
type Receipt struct {
	// Code is the program error code, programerr.CodeOK for success.
	Code     uint32           `json:"code"`
	Error    string           `json:"error,omitempty"`
	Balances []AccountBalance `json:"balances"`
}

// AccountBalance is the account balance after the transaction.
type AccountBalance struct {
	Key     util.PublicKey `json:"key"`
	Balance uint64         `json:"balance"`
}
