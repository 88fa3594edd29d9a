package vault

import (
	"context"

	"github.com/TEENet-io/cardano-utxo/utxo"
)

// VaultRecord is a spendable output tracked by the vault.
type VaultRecord struct {
	Record      utxo.Record // value and identity, ID is never nil
	BlockNumber int64       // Block number (height) the output was seen in
	Lockup      bool        // Lockup status, default is false
	Spent       bool        // Spent status, default is false
	Timeout     int64       // Unix timestamp in seconds, set to 0 if untouched
	LinkedID    string      // id of the lock holding this output, "" if none
}

// Storage defines the database operations on VaultRecord.
// Records are always returned in insertion order.
type Storage interface {
	// InsertVaultRecord inserts a new record with its assets.
	InsertVaultRecord(ctx context.Context, rec VaultRecord) error

	// QueryAllUsable returns the records that are neither locked nor spent.
	QueryAllUsable(ctx context.Context) ([]VaultRecord, error)

	// QueryByOutpoint returns the record with the given id, nil if none.
	QueryByOutpoint(ctx context.Context, id utxo.TransactionID) (*VaultRecord, error)

	// QueryByLinkedID returns the records held by a lock.
	QueryByLinkedID(ctx context.Context, linkedID string) ([]VaultRecord, error)

	// QueryExpiredAndLocked returns the locked records whose timeout < t.
	QueryExpiredAndLocked(ctx context.Context, t int64) ([]VaultRecord, error)

	// SetLockup updates lockup, timeout and linked id of all ids at once.
	SetLockup(ctx context.Context, ids []utxo.TransactionID, lockup bool, timeout int64, linkedID string) error

	// SetSpent sets the spent status of all ids at once.
	SetSpent(ctx context.Context, ids []utxo.TransactionID, spent bool) error

	Close() error
}
