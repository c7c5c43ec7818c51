/*
Package ledger implements a local ledger hosting the hello program.

Ledger keeps accounts in a storage.Store, runs transactions against the
program and persists the resulting accounts atomically. A transaction that
fails leaves the store untouched. Ledger also enforces the runtime rules the
program relies on: only writable accounts may change, only the owning
program may change account data or debit an account, data size is fixed and
the total balance of the transaction accounts is preserved.
*/
package ledger

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"math/bits"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/hellochain/hello-go/pkg/core/account"
	"github.com/hellochain/hello-go/pkg/core/programerr"
	"github.com/hellochain/hello-go/pkg/core/state"
	"github.com/hellochain/hello-go/pkg/core/storage"
	"github.com/hellochain/hello-go/pkg/io"
	"github.com/hellochain/hello-go/pkg/util"
	"go.uber.org/zap"
)

// version is the ledger DB format version.
const version = "0.1.0"

// DefaultAccountCacheSize is the number of accounts cached when no other
// value is configured.
const DefaultAccountCacheSize = 1024

// Ledger errors.
var (
	ErrAccountNotFound      = errors.New("account not found")
	ErrAccountExists        = errors.New("account already exists")
	ErrUnknownProgram       = errors.New("unknown program")
	ErrNoAccounts           = errors.New("transaction has no accounts")
	ErrDuplicateAccount     = errors.New("duplicate account in transaction")
	ErrReadonlyModified     = errors.New("read-only account modified")
	ErrExternalDataModified = errors.New("data of an account not owned by the program modified")
	ErrExternalDebit        = errors.New("account not owned by the program debited")
	ErrDataSizeChanged      = errors.New("account data size changed")
	ErrUnbalanced           = errors.New("sum of account balances changed")
	ErrBalanceOverflow      = errors.New("balance overflow")
	ErrInvalidVersion       = errors.New("invalid ledger version")
)

// Executor runs a program instruction against accounts.
type Executor interface {
	Process(programID util.PublicKey, accounts []*account.Account, input []byte) error
}

// Config is the ledger configuration.
type Config struct {
	// ProgramID is the key the program is deployed at.
	ProgramID util.PublicKey
	// AccountCacheSize is the number of accounts kept in memory.
	AccountCacheSize int
}

// Ledger is a local single-program ledger.
type Ledger struct {
	lock     sync.Mutex
	store    storage.Store
	program  util.PublicKey
	executor Executor
	cache    *lru.Cache
	log      *zap.Logger
}

// New creates a ledger over the given store running transactions with the
// executor. The store format version is written on the first use and
// checked on the next ones.
func New(store storage.Store, executor Executor, cfg Config, log *zap.Logger) (*Ledger, error) {
	if log == nil {
		log = zap.NewNop()
	}
	size := cfg.AccountCacheSize
	if size <= 0 {
		size = DefaultAccountCacheSize
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("can't create account cache: %w", err)
	}
	l := &Ledger{
		store:    store,
		program:  cfg.ProgramID,
		executor: executor,
		cache:    cache,
		log:      log,
	}
	if err := l.checkVersion(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Ledger) checkVersion() error {
	ver, err := l.store.Get(storage.SYSVersion.Bytes())
	if errors.Is(err, storage.ErrKeyNotFound) {
		l.log.Info("initializing ledger", zap.String("version", version))
		return l.store.PutChangeSet(map[string][]byte{
			string(storage.SYSVersion.Bytes()): []byte(version),
		})
	}
	if err != nil {
		return fmt.Errorf("can't read ledger version: %w", err)
	}
	if string(ver) != version {
		return fmt.Errorf("%w: expected %s, got %s", ErrInvalidVersion, version, ver)
	}
	return nil
}

// ProgramID returns the key of the hosted program.
func (l *Ledger) ProgramID() util.PublicKey {
	return l.program
}

// GetAccount returns a copy of the account stored under the given key.
func (l *Ledger) GetAccount(key util.PublicKey) (*state.Account, error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	acc, err := l.getAccount(key)
	if err != nil {
		return nil, err
	}
	return copyState(acc), nil
}

// CreateAccount allocates a new account with zero-filled data of the given
// size owned by owner.
func (l *Ledger) CreateAccount(key, owner util.PublicKey, space int) error {
	if space < 0 || space > state.MaxAccountDataSize {
		return fmt.Errorf("invalid account size %d", space)
	}
	l.lock.Lock()
	defer l.lock.Unlock()
	_, err := l.getAccount(key)
	if err == nil {
		return fmt.Errorf("%w: %s", ErrAccountExists, key)
	}
	if !errors.Is(err, ErrAccountNotFound) {
		return err
	}
	acc := &state.Account{Owner: owner, Data: make([]byte, space)}
	err = l.putAccounts(map[util.PublicKey]*state.Account{key: acc})
	if err != nil {
		return err
	}
	accountsCreated.Inc()
	l.log.Info("account created",
		zap.Stringer("key", key),
		zap.Stringer("owner", owner),
		zap.Int("space", space))
	return nil
}

// Airdrop credits the account with amount, the account is created if it
// doesn't exist. It returns the new balance.
func (l *Ledger) Airdrop(key util.PublicKey, amount uint64) (uint64, error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	acc, err := l.getAccount(key)
	if errors.Is(err, ErrAccountNotFound) {
		acc, err = &state.Account{Data: []byte{}}, nil
	}
	if err != nil {
		return 0, err
	}
	if acc.Balance > math.MaxUint64-amount {
		return 0, fmt.Errorf("%w: %d + %d", ErrBalanceOverflow, acc.Balance, amount)
	}
	acc = copyState(acc)
	acc.Balance += amount
	err = l.putAccounts(map[util.PublicKey]*state.Account{key: acc})
	if err != nil {
		return 0, err
	}
	l.log.Info("airdrop", zap.Stringer("key", key), zap.Uint64("amount", amount), zap.Uint64("balance", acc.Balance))
	return acc.Balance, nil
}

// PutAccount stores acc under key replacing any existing state. No runtime
// rules are checked, it's used to restore dumped ledgers.
func (l *Ledger) PutAccount(key util.PublicKey, acc *state.Account) error {
	if len(acc.Data) > state.MaxAccountDataSize {
		return fmt.Errorf("invalid account size %d", len(acc.Data))
	}
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.putAccounts(map[util.PublicKey]*state.Account{key: copyState(acc)})
}

// ForEachAccount calls f for every stored account in key order until f
// returns false. Accounts passed to f must not be retained. The ledger is
// locked during the iteration, f must not call Ledger methods.
func (l *Ledger) ForEachAccount(f func(key util.PublicKey, acc *state.Account) bool) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	var ferr error
	l.store.Seek(storage.SeekRange{Prefix: storage.STAccount.Bytes()}, func(k, v []byte) bool {
		key, err := util.PublicKeyDecodeBytes(k[1:])
		if err != nil {
			ferr = fmt.Errorf("bad account key %x: %w", k, err)
			return false
		}
		acc := new(state.Account)
		r := io.NewBinReaderFromBuf(v)
		acc.DecodeBinary(r)
		if r.Err != nil {
			ferr = fmt.Errorf("can't decode account %s: %w", key, r.Err)
			return false
		}
		return f(key, acc)
	})
	return ferr
}

// Execute runs the transaction. Accounts are persisted only if the program
// succeeds and the runtime rules hold. The receipt is returned whenever the
// program was invoked, it carries the program error code in case of failure.
func (l *Ledger) Execute(tx *Transaction) (*Receipt, error) {
	err := l.validate(tx)
	if err != nil {
		updateExecutedMetric(err)
		return nil, err
	}

	l.lock.Lock()
	defer l.lock.Unlock()

	var (
		accs   = make([]*account.Account, len(tx.Accounts))
		before = make([]*account.Account, len(tx.Accounts))
	)
	for i, meta := range tx.Accounts {
		acc, err := l.getAccount(meta.Key)
		if errors.Is(err, ErrAccountNotFound) {
			acc, err = &state.Account{Data: []byte{}}, nil
		}
		if err != nil {
			updateExecutedMetric(err)
			return nil, err
		}
		accs[i] = &account.Account{
			Key:        meta.Key,
			IsSigner:   meta.IsSigner,
			IsWritable: meta.IsWritable,
			Balance:    acc.Balance,
			Owner:      acc.Owner,
			Data:       bytes.Clone(acc.Data),
		}
		before[i] = accs[i].Copy()
	}

	err = l.executor.Process(tx.Program, accs, tx.Data)
	if err == nil {
		err = l.checkChanges(before, accs)
	}
	if err == nil {
		err = l.commit(before, accs)
	}
	updateExecutedMetric(err)

	rcpt := &Receipt{Code: programerr.Code(err)}
	for i := range accs {
		b := accs[i].Balance
		if err != nil {
			b = before[i].Balance
		}
		rcpt.Balances = append(rcpt.Balances, AccountBalance{Key: accs[i].Key, Balance: b})
	}
	if err != nil {
		rcpt.Error = err.Error()
		l.log.Warn("transaction failed", zap.Stringer("program", tx.Program), zap.Error(err))
		return rcpt, err
	}
	l.log.Debug("transaction executed", zap.Stringer("program", tx.Program), zap.Int("accounts", len(accs)))
	return rcpt, nil
}

func (l *Ledger) validate(tx *Transaction) error {
	if tx.Program != l.program {
		return fmt.Errorf("%w: %s", ErrUnknownProgram, tx.Program)
	}
	if len(tx.Accounts) == 0 {
		return ErrNoAccounts
	}
	seen := make(map[util.PublicKey]struct{}, len(tx.Accounts))
	for _, meta := range tx.Accounts {
		if _, ok := seen[meta.Key]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateAccount, meta.Key)
		}
		seen[meta.Key] = struct{}{}
	}
	return nil
}

// checkChanges verifies the program has changed accounts according to the
// runtime rules.
func (l *Ledger) checkChanges(before, after []*account.Account) error {
	var preHi, preLo, postHi, postLo uint64
	for i := range before {
		pre, post := before[i], after[i]
		dataChanged := !bytes.Equal(pre.Data, post.Data)
		if !pre.IsWritable && (dataChanged || pre.Balance != post.Balance) {
			return fmt.Errorf("%w: %s", ErrReadonlyModified, pre.Key)
		}
		if len(pre.Data) != len(post.Data) {
			return fmt.Errorf("%w: %s", ErrDataSizeChanged, pre.Key)
		}
		if dataChanged && pre.Owner != l.program {
			return fmt.Errorf("%w: %s", ErrExternalDataModified, pre.Key)
		}
		if post.Balance < pre.Balance && pre.Owner != l.program {
			return fmt.Errorf("%w: %s", ErrExternalDebit, pre.Key)
		}
		var c uint64
		preLo, c = bits.Add64(preLo, pre.Balance, 0)
		preHi += c
		postLo, c = bits.Add64(postLo, post.Balance, 0)
		postHi += c
	}
	if preHi != postHi || preLo != postLo {
		return ErrUnbalanced
	}
	return nil
}

// commit persists changed accounts in a single store operation.
func (l *Ledger) commit(before, after []*account.Account) error {
	changed := make(map[util.PublicKey]*state.Account)
	for i := range after {
		if after[i].Equals(before[i]) {
			continue
		}
		changed[after[i].Key] = &state.Account{
			Balance: after[i].Balance,
			Owner:   after[i].Owner,
			Data:    after[i].Data,
		}
	}
	if len(changed) == 0 {
		return nil
	}
	return l.putAccounts(changed)
}

// getAccount returns the cached or stored account, callers must not modify
// it. Must be called with the lock held.
func (l *Ledger) getAccount(key util.PublicKey) (*state.Account, error) {
	if v, ok := l.cache.Get(key); ok {
		return v.(*state.Account), nil
	}
	data, err := l.store.Get(accountKey(key))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, key)
	}
	if err != nil {
		return nil, err
	}
	acc := new(state.Account)
	r := io.NewBinReaderFromBuf(data)
	acc.DecodeBinary(r)
	if r.Err != nil {
		return nil, fmt.Errorf("can't decode account %s: %w", key, r.Err)
	}
	l.cache.Add(key, acc)
	return acc, nil
}

// putAccounts stores accounts atomically and updates the cache. Must be
// called with the lock held.
func (l *Ledger) putAccounts(accs map[util.PublicKey]*state.Account) error {
	var (
		puts = make(map[string][]byte, len(accs))
		w    = io.NewBufBinWriter()
	)
	for key, acc := range accs {
		w.Reset()
		acc.EncodeBinary(w.BinWriter)
		if w.Err != nil {
			return fmt.Errorf("can't encode account %s: %w", key, w.Err)
		}
		puts[string(accountKey(key))] = bytes.Clone(w.Bytes())
	}
	err := l.store.PutChangeSet(puts)
	if err != nil {
		return fmt.Errorf("can't persist accounts: %w", err)
	}
	for key, acc := range accs {
		l.cache.Add(key, copyState(acc))
	}
	return nil
}

func accountKey(key util.PublicKey) []byte {
	k := make([]byte, 1+util.PublicKeySize)
	k[0] = byte(storage.STAccount)
	copy(k[1:], key[:])
	return k
}

func copyState(acc *state.Account) *state.Account {
	cp := *acc
	cp.Data = bytes.Clone(acc.Data)
	return &cp
}
