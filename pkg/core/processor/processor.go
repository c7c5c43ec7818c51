/*
Package processor implements the hello program state transitions.

The program works with two accounts: the authority (index 0) that must sign
the transaction and the storage account (index 1) holding a HelloRecord.
Hello overwrites the record with the authority key and a new message, Erase
moves the storage account balance to the authority. The instruction and the
stored record are decoded and all checks are done before anything is
written, so a failed invocation never changes any account.
*/
package processor

import (
	"fmt"
	"math"

	"github.com/hellochain/hello-go/pkg/core/account"
	"github.com/hellochain/hello-go/pkg/core/instruction"
	"github.com/hellochain/hello-go/pkg/core/programerr"
	"github.com/hellochain/hello-go/pkg/core/state"
	"github.com/hellochain/hello-go/pkg/util"
	"go.uber.org/zap"
)

const (
	authorityIndex = 0
	storageIndex   = 1
)

// Processor executes hello program instructions. It has no state of its
// own, accounts are owned by the caller.
type Processor struct {
	log *zap.Logger
}

// New returns a new Processor. nil logger disables logging.
func New(log *zap.Logger) *Processor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Processor{log: log}
}

// Process decodes the input and applies it to the accounts. The program
// identity is not used by the program itself, it's only logged.
func (p *Processor) Process(programID util.PublicKey, accounts []*account.Account, input []byte) error {
	ins, err := instruction.Decode(input)
	if err != nil {
		p.log.Debug("failed to decode instruction", zap.Stringer("program", programID), zap.Error(err))
		updateProcessedMetric("invalid", err)
		return err
	}

	p.log.Debug("processing instruction",
		zap.Stringer("program", programID),
		zap.Stringer("instruction", ins.Tag()),
		zap.Int("accounts", len(accounts)))

	switch ins := ins.(type) {
	case *instruction.Hello:
		err = p.processHello(accounts, ins.Message)
	case *instruction.Erase:
		err = p.processErase(accounts)
	default:
		err = fmt.Errorf("%w: unexpected %T", programerr.ErrInvalidInstruction, ins)
	}
	updateProcessedMetric(ins.Tag().String(), err)
	if err != nil {
		p.log.Debug("instruction failed", zap.Stringer("instruction", ins.Tag()), zap.Error(err))
	}
	return err
}

// processHello stores the message and the authority key in the storage
// account.
func (p *Processor) processHello(accounts []*account.Account, message string) error {
	authority, storage, err := signedAccounts(accounts)
	if err != nil {
		return err
	}

	rec, err := state.DecodeHelloRecordUnchecked(storage.Data)
	if err != nil {
		return err
	}
	rec.Owner = authority.Key
	rec.Message = message
	err = rec.Encode(storage.Data)
	if err != nil {
		return err
	}
	p.log.Debug("hello stored",
		zap.Stringer("storage", storage.Key),
		zap.Stringer("owner", rec.Owner),
		zap.Int("length", len(rec.Message)))
	return nil
}

// processErase moves the whole storage account balance to the authority.
// The storage data is not cleared.
func (p *Processor) processErase(accounts []*account.Account) error {
	authority, storage, err := signedAccounts(accounts)
	if err != nil {
		return err
	}

	if authority.Balance > math.MaxUint64-storage.Balance {
		return fmt.Errorf("%w: %d + %d", programerr.ErrArithmeticOverflow, authority.Balance, storage.Balance)
	}
	amount := storage.Balance
	authority.Balance += amount
	storage.Balance = 0
	p.log.Debug("storage balance reclaimed",
		zap.Stringer("storage", storage.Key),
		zap.Stringer("authority", authority.Key),
		zap.Uint64("amount", amount))
	return nil
}

// signedAccounts returns the authority and storage accounts checking that
// they are distinct and the authority has signed the transaction. Ownership
// of the storage account is not checked.
func signedAccounts(accounts []*account.Account) (*account.Account, *account.Account, error) {
	if len(accounts) <= storageIndex {
		return nil, nil, fmt.Errorf("%w: expected at least %d, got %d",
			programerr.ErrNotEnoughAccountKeys, storageIndex+1, len(accounts))
	}
	authority, storage := accounts[authorityIndex], accounts[storageIndex]
	if authority == storage || authority.Key == storage.Key {
		return nil, nil, fmt.Errorf("%w: %s", programerr.ErrAccountAliased, authority.Key)
	}
	if !authority.IsSigner {
		return nil, nil, fmt.Errorf("%w: %s", programerr.ErrMissingRequiredSignature, authority.Key)
	}
	return authority, storage, nil
}
