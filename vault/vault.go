package vault

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"

	"github.com/TEENet-io/cardano-utxo/common"
	"github.com/TEENet-io/cardano-utxo/utxo"
)

var (
	ErrMissingID     = errors.New("record has no transaction id")
	ErrAlreadyExists = errors.New("record already exists")
	ErrNotFound      = errors.New("record not found")
	ErrNothingToLock = errors.New("requirement is zero, nothing to lock")
)

const (
	DEFAULT_LOCK_TIMEOUT         = 30 * time.Minute
	DEFAULT_FREQUENCY_TO_RELEASE = 1 * time.Minute
)

type Config struct {
	LockTimeout        time.Duration // how long a chosen record stays locked
	FrequencyToRelease time.Duration // how often expired locks are released
}

// Lock is a set of records chosen for one payment.
type Lock struct {
	ID        ethcommon.Hash
	Selection *utxo.Selection
	Expiry    time.Time
}

// Vault tracks the spendable records of an address
// and hands them out to payments.
type Vault struct {
	Address string
	cfg     Config
	backend Storage
	now     func() time.Time

	// prevent concurrent choose/release from picking the same records
	updateMu sync.Mutex
}

// NewVault uses any backend that implements Storage.
// Zero values in cfg are replaced by defaults.
func NewVault(address string, backend Storage, cfg *Config) *Vault {
	c := Config{}
	if cfg != nil {
		c = *cfg
	}
	if c.LockTimeout <= 0 {
		c.LockTimeout = DEFAULT_LOCK_TIMEOUT
	}
	if c.FrequencyToRelease <= 0 {
		c.FrequencyToRelease = DEFAULT_FREQUENCY_TO_RELEASE
	}
	return &Vault{
		Address: address,
		cfg:     c,
		backend: backend,
		now:     time.Now,
	}
}

// LockID derives the id of a lock: blake2b-256 over the nonce followed by
// "hash#index" of every record, in order. A fresh nonce per lock keeps a
// stale id from matching a later lock on the same records.
func LockID(nonce uuid.UUID, records []utxo.Record) ethcommon.Hash {
	h, _ := blake2b.New256(nil)
	h.Write(nonce[:])
	for _, r := range records {
		if r.ID != nil {
			h.Write([]byte(r.ID.String()))
		}
		h.Write([]byte{0})
	}
	return ethcommon.BytesToHash(h.Sum(nil))
}

// AddRecord adds a new spendable record.
// It returns ErrAlreadyExists if the outpoint is already tracked.
func (v *Vault) AddRecord(ctx context.Context, rec utxo.Record, blockNumber int64) error {
	if rec.ID == nil {
		return ErrMissingID
	}

	v.updateMu.Lock()
	defer v.updateMu.Unlock()

	old, err := v.backend.QueryByOutpoint(ctx, *rec.ID)
	if err != nil {
		return err
	}
	if old != nil {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, rec.ID)
	}

	if err := v.backend.InsertVaultRecord(ctx, VaultRecord{
		Record:      rec.Clone(),
		BlockNumber: blockNumber,
	}); err != nil {
		return err
	}
	logger.WithFields(logger.Fields{
		"address":  v.Address,
		"outpoint": rec.ID.String(),
		"lovelace": rec.Quantity,
		"assets":   len(rec.Assets.Keys()),
	}).Debug("record added to vault")
	return nil
}

// Usable returns the records that can be chosen, in insertion order.
func (v *Vault) Usable(ctx context.Context) ([]utxo.Record, error) {
	recs, err := v.backend.QueryAllUsable(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]utxo.Record, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Record)
	}
	return out, nil
}

// Balance sums all usable records.
func (v *Vault) Balance(ctx context.Context) (utxo.Record, error) {
	usable, err := v.Usable(ctx)
	if err != nil {
		return utxo.Record{}, err
	}
	return utxo.Combine(usable...)
}

// ChooseAndLock selects records covering target + threshold and locks
// them until the lock expires or is released.
// ok is false when the usable records are not enough.
func (v *Vault) ChooseAndLock(ctx context.Context, target, threshold utxo.Record) (*Lock, bool, error) {
	v.updateMu.Lock()
	defer v.updateMu.Unlock()

	newLogger := logger.WithFields(logger.Fields{
		"address":   v.Address,
		"target":    target.String(),
		"threshold": threshold.String(),
	})

	usable, err := v.Usable(ctx)
	if err != nil {
		newLogger.Errorf("failed to get usable records: %v", err)
		return nil, false, err
	}

	sel, ok, err := utxo.Select(usable, target, threshold)
	if err != nil {
		newLogger.Errorf("failed to select records: %v", err)
		return nil, false, err
	}
	if !ok {
		newLogger.Warn("not enough usable records")
		return nil, false, nil
	}
	if len(sel.Selected) == 0 {
		return nil, false, ErrNothingToLock
	}

	lock := &Lock{
		ID:        LockID(uuid.New(), sel.Selected),
		Selection: sel,
		Expiry:    v.now().Add(v.cfg.LockTimeout),
	}
	if err := v.backend.SetLockup(ctx, outpoints(sel.Selected), true, lock.Expiry.Unix(), lock.ID.Hex()); err != nil {
		newLogger.Errorf("failed to lock records: %v", err)
		return nil, false, err
	}

	newLogger.WithFields(logger.Fields{
		"lock":     common.Shorten(lock.ID.Hex(), 8),
		"selected": len(sel.Selected),
		"excess":   sel.Excess.String(),
	}).Info("records locked")
	return lock, true, nil
}

// ReleaseByExpire releases records whose lock has passed its timeout.
// It returns the number of released records.
func (v *Vault) ReleaseByExpire(ctx context.Context) (int, error) {
	v.updateMu.Lock()
	defer v.updateMu.Unlock()

	recs, err := v.backend.QueryExpiredAndLocked(ctx, v.now().Unix())
	if err != nil {
		return 0, err
	}
	if len(recs) == 0 {
		return 0, nil
	}
	if err := v.release(ctx, recs); err != nil {
		return 0, err
	}
	logger.WithField("count", len(recs)).Info("expired locks released")
	return len(recs), nil
}

// ReleaseByCommand releases a single record.
// It returns 0 if the record is not locked or already spent.
func (v *Vault) ReleaseByCommand(ctx context.Context, id utxo.TransactionID) (int, error) {
	v.updateMu.Lock()
	defer v.updateMu.Unlock()

	rec, err := v.backend.QueryByOutpoint(ctx, id)
	if err != nil {
		return 0, err
	}
	if rec == nil {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if !rec.Lockup || rec.Spent {
		return 0, nil
	}
	if err := v.release(ctx, []VaultRecord{*rec}); err != nil {
		return 0, err
	}
	return 1, nil
}

// ReleaseLock releases all records held by a lock.
func (v *Vault) ReleaseLock(ctx context.Context, lockID ethcommon.Hash) (int, error) {
	v.updateMu.Lock()
	defer v.updateMu.Unlock()

	recs, err := v.lockedBy(ctx, lockID)
	if err != nil {
		return 0, err
	}
	return len(recs), v.release(ctx, recs)
}

// MarkSpent marks the records held by a lock as spent; they will never be
// chosen again.
func (v *Vault) MarkSpent(ctx context.Context, lockID ethcommon.Hash) (int, error) {
	v.updateMu.Lock()
	defer v.updateMu.Unlock()

	recs, err := v.lockedBy(ctx, lockID)
	if err != nil {
		return 0, err
	}
	ids := make([]utxo.TransactionID, 0, len(recs))
	for _, r := range recs {
		ids = append(ids, *r.Record.ID)
	}
	if err := v.backend.SetSpent(ctx, ids, true); err != nil {
		return 0, err
	}
	logger.WithFields(logger.Fields{"lock": common.Shorten(lockID.Hex(), 8), "count": len(ids)}).Info("records spent")
	return len(ids), nil
}

// Start releases expired locks periodically until ctx is done.
func (v *Vault) Start(ctx context.Context) error {
	logger.WithField("address", v.Address).Info("vault started")
	defer logger.WithField("address", v.Address).Info("vault stopped")

	ticker := time.NewTicker(v.cfg.FrequencyToRelease)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := v.ReleaseByExpire(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				logger.Errorf("failed to release expired locks: %v", err)
			}
		}
	}
}

func (v *Vault) lockedBy(ctx context.Context, lockID ethcommon.Hash) ([]VaultRecord, error) {
	recs, err := v.backend.QueryByLinkedID(ctx, lockID.Hex())
	if err != nil {
		return nil, err
	}
	// spent records keep their linked id
	locked := recs[:0]
	for _, r := range recs {
		if !r.Spent {
			locked = append(locked, r)
		}
	}
	if len(locked) == 0 {
		return nil, fmt.Errorf("%w: lock %s", ErrNotFound, lockID.Hex())
	}
	return locked, nil
}

func (v *Vault) release(ctx context.Context, recs []VaultRecord) error {
	ids := make([]utxo.TransactionID, 0, len(recs))
	for _, r := range recs {
		ids = append(ids, *r.Record.ID)
	}
	return v.backend.SetLockup(ctx, ids, false, 0, "")
}

func outpoints(records []utxo.Record) []utxo.TransactionID {
	ids := make([]utxo.TransactionID, 0, len(records))
	for _, r := range records {
		ids = append(ids, *r.ID)
	}
	return ids
}
