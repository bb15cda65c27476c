// Package kernel runs one EMV payment transaction against a card: application
// selection, processing options, record reading, the terminal decisions,
// GENERATE AC and offline data authentication.
package kernel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gregLibert/emv-kernel/pkg/capk"
	"github.com/gregLibert/emv-kernel/pkg/emv"
	"github.com/gregLibert/emv-kernel/pkg/iso7816"
	"github.com/gregLibert/emv-kernel/pkg/oda"
	"github.com/gregLibert/emv-kernel/pkg/terminal"
)

// Interface is the card interface the transaction runs on. It decides the
// directory selected first.
type Interface int

const (
	Contactless Interface = iota
	Contact
)

func (i Interface) String() string {
	if i == Contact {
		return "contact"
	}
	return "contactless"
}

// KeyStore finds CA public keys. *capk.Table satisfies it.
type KeyStore interface {
	Find(rid []byte, index byte) (capk.Key, bool)
}

// Option configures a Kernel.
type Option func(*Kernel)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(k *Kernel) { k.logger = l }
}

// WithInterface selects the card interface. The default is Contactless.
func WithInterface(i Interface) Option {
	return func(k *Kernel) { k.iface = i }
}

// WithTerminal sets the per-application terminal parameters. The default is
// terminal.Default().
func WithTerminal(c *terminal.Config) Option {
	return func(k *Kernel) { k.terminal = c }
}

// WithPolicy sets the certificate hash policy of offline data authentication.
func WithPolicy(p oda.Policy) Option {
	return func(k *Kernel) { k.policy = p }
}

// WithAmount sets the Amount, Authorised ('9F02').
func WithAmount(amount uint64) Option {
	return func(k *Kernel) { k.amount = &amount }
}

// WithOtherAmount sets the Amount, Other ('9F03').
func WithOtherAmount(amount uint64) Option {
	return func(k *Kernel) { k.otherAmount = &amount }
}

// WithTransactionType sets the Transaction Type ('9C').
func WithTransactionType(t byte) Option {
	return func(k *Kernel) { k.txType = &t }
}

// WithStoreOptions configures the transaction store, for instance its clock
// and random source.
func WithStoreOptions(opts ...emv.StoreOption) Option {
	return func(k *Kernel) { k.storeOpts = append(k.storeOpts, opts...) }
}

// Kernel drives transactions on one card. It is not safe for concurrent use.
type Kernel struct {
	client   *iso7816.Client
	keys     KeyStore
	terminal *terminal.Config
	iface    Interface
	policy   oda.Policy
	logger   *slog.Logger

	amount      *uint64
	otherAmount *uint64
	txType      *byte

	storeOpts []emv.StoreOption
	store     *emv.Store

	// per transaction
	state      State
	target     State
	candidates []emv.Candidate
	p1         byte
	pdolData   []byte
	cdol1Data  []byte
}

// New returns a kernel talking to card and authenticating with keys. It
// fails when the random source cannot seed the first transaction.
func New(card iso7816.Transmitter, keys KeyStore, opts ...Option) (*Kernel, error) {
	k := &Kernel{keys: keys}
	for _, opt := range opts {
		opt(k)
	}
	if k.logger == nil {
		k.logger = slog.Default()
	}
	if k.terminal == nil {
		k.terminal = terminal.Default()
	}

	k.client = iso7816.NewClient(card)
	k.client.Logger = k.logger
	store, err := emv.NewStore(k.storeOpts...)
	if err != nil {
		return nil, fmt.Errorf("transaction store: %w", err)
	}
	k.store = store
	return k, nil
}

// State returns the last state reached.
func (k *Kernel) State() State { return k.state }

// Store returns the store of the current or last transaction.
func (k *Kernel) Store() *emv.Store { return k.store }

// Run performs one transaction and returns the final tag store, TVR ('95')
// and TSI ('9B') included. Failed offline checks do not stop the
// transaction; they are TVR bits. Fatal failures are returned as *Error.
// Cancellation of ctx is checked between states.
func (k *Kernel) Run(ctx context.Context) (map[string][]byte, error) {
	k.state, k.target = StateIdle, StateDirectorySelected
	k.candidates, k.pdolData, k.cdol1Data = nil, nil, nil

	if err := k.store.Reset(); err != nil {
		return nil, k.fail(ErrProtocol, err)
	}

	if err := k.advance(ctx, StateDirectorySelected, k.selectDirectory); err != nil {
		return nil, err
	}
	if err := k.initiate(ctx); err != nil {
		return nil, err
	}

	steps := []struct {
		state State
		run   func(context.Context) error
	}{
		{StateRecordsRead, k.readRecords},
		{StateRestrictionsChecked, k.checkRestrictions},
		{StateCVMProcessed, k.processCVM},
		{StateRiskManaged, k.manageRisk},
		{StateActionAnalyzed, k.analyzeActions},
		{StateCryptogramObtained, k.generateAC},
		{StateOfflineAuthenticated, k.authenticate},
	}
	for _, s := range steps {
		if err := k.advance(ctx, s.state, s.run); err != nil {
			return nil, err
		}
	}

	k.enter(StateDone)
	k.logger.Info("transaction complete",
		"aid", fmt.Sprintf("%X", k.store.AID()),
		"cid", fmt.Sprintf("%X", k.store.Value("9F27")),
		"tvr", fmt.Sprintf("%X", k.store.TVR().Bytes()),
		"tsi", fmt.Sprintf("%X", k.store.TSI().Bytes()),
	)
	return k.store.Snapshot(), nil
}

// advance runs one step toward state and enters it on success.
func (k *Kernel) advance(ctx context.Context, state State, run func(context.Context) error) error {
	k.target = state
	if err := ctx.Err(); err != nil {
		return k.fail(ErrTransport, err)
	}
	if err := run(ctx); err != nil {
		return err
	}
	k.enter(state)
	return nil
}

func (k *Kernel) enter(state State) {
	k.state = state
	k.logger.Debug("state", "state", state.String())
}

// fail wraps err as a fatal failure of the current step. Errors that already
// are *Error pass through.
func (k *Kernel) fail(kind, err error) error {
	var kerr *Error
	if errors.As(err, &kerr) {
		return err
	}
	k.logger.Debug("transaction failed", "state", k.target.String(), "kind", kind, "err", err)
	return &Error{State: k.target, Kind: kind, Err: err, Snapshot: k.store.Snapshot()}
}
