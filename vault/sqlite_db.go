package vault

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/TEENet-io/cardano-utxo/database"
	"github.com/TEENet-io/cardano-utxo/utxo"
)

var (
	ErrInvalidAddress = errors.New("vault address may only contain letters, digits and '_'")

	tableSuffix = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
)

// SQLiteStorage implements Storage for SQLite.
// Every address gets its own pair of tables.
type SQLiteStorage struct {
	db         *sql.DB
	stmts      *database.StmtCache
	utxoTable  string
	assetTable string
}

// NewSQLiteStorage opens (or creates) the vault tables for address
// in the SQLite database file at dbFilePath.
func NewSQLiteStorage(ctx context.Context, dbFilePath string, address string) (*SQLiteStorage, error) {
	if !tableSuffix.MatchString(address) {
		return nil, ErrInvalidAddress
	}

	sep := "?"
	if strings.Contains(dbFilePath, "?") {
		sep = "&"
	}
	db, err := sql.Open("sqlite3", dbFilePath+sep+"_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	// one connection: sqlite has a single writer and ":memory:" databases
	// are per connection
	db.SetMaxOpenConns(1)

	s := &SQLiteStorage{
		db:         db,
		stmts:      database.NewStmtCache(db),
		utxoTable:  "vault_utxo_" + address,
		assetTable: "vault_asset_" + address,
	}
	if _, err := db.ExecContext(ctx, schema(s.utxoTable, s.assetTable)); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStorage) Close() error {
	return errors.Join(s.stmts.Clear(), s.db.Close())
}

func (s *SQLiteStorage) InsertVaultRecord(ctx context.Context, rec VaultRecord) error {
	if rec.Record.ID == nil {
		return ErrMissingID
	}
	insRecord, err := s.stmts.Prepare(ctx, insertRecord(s.utxoTable))
	if err != nil {
		return err
	}
	insAsset, err := s.stmts.Prepare(ctx, insertAsset(s.assetTable))
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	id := rec.Record.ID
	if _, err := tx.StmtContext(ctx, insRecord).ExecContext(ctx,
		id.Hash,
		id.Index,
		strconv.FormatUint(rec.Record.Quantity, 10),
		rec.BlockNumber,
		rec.Lockup,
		rec.Spent,
		rec.Timeout,
		rec.LinkedID,
	); err != nil {
		return err
	}
	for _, k := range rec.Record.Assets.Keys() {
		if _, err := tx.StmtContext(ctx, insAsset).ExecContext(ctx,
			id.Hash,
			id.Index,
			k.PolicyID,
			k.AssetName,
			strconv.FormatUint(rec.Record.Assets[k], 10),
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStorage) QueryAllUsable(ctx context.Context) ([]VaultRecord, error) {
	return s.query(ctx, whereUsable)
}

func (s *SQLiteStorage) QueryByOutpoint(ctx context.Context, id utxo.TransactionID) (*VaultRecord, error) {
	recs, err := s.query(ctx, whereOutpoint, id.Hash, id.Index)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return &recs[0], nil
}

func (s *SQLiteStorage) QueryByLinkedID(ctx context.Context, linkedID string) ([]VaultRecord, error) {
	return s.query(ctx, whereLinkedID, linkedID)
}

// QueryExpiredAndLocked retrieves records whose lockup status is true and
// have expired. t is the unix timepoint in seconds.
func (s *SQLiteStorage) QueryExpiredAndLocked(ctx context.Context, t int64) ([]VaultRecord, error) {
	return s.query(ctx, whereExpiredAndLock, t)
}

func (s *SQLiteStorage) SetLockup(ctx context.Context, ids []utxo.TransactionID, lockup bool, timeout int64, linkedID string) error {
	stmt, err := s.stmts.Prepare(ctx, updateLockup(s.utxoTable))
	if err != nil {
		return err
	}
	return s.updateAll(ctx, stmt, ids, func(id utxo.TransactionID) []any {
		return []any{lockup, timeout, linkedID, id.Hash, id.Index}
	})
}

func (s *SQLiteStorage) SetSpent(ctx context.Context, ids []utxo.TransactionID, spent bool) error {
	stmt, err := s.stmts.Prepare(ctx, updateSpent(s.utxoTable))
	if err != nil {
		return err
	}
	return s.updateAll(ctx, stmt, ids, func(id utxo.TransactionID) []any {
		return []any{spent, id.Hash, id.Index}
	})
}

// updateAll runs stmt once per id in a single transaction.
// It fails if any id does not exist.
func (s *SQLiteStorage) updateAll(ctx context.Context, stmt *sql.Stmt, ids []utxo.TransactionID, args func(utxo.TransactionID) []any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	txStmt := tx.StmtContext(ctx, stmt)
	for _, id := range ids {
		res, err := txStmt.ExecContext(ctx, args(id)...)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStorage) query(ctx context.Context, where string, args ...any) ([]VaultRecord, error) {
	recs, err := s.queryRecords(ctx, where, args...)
	if err != nil || len(recs) == 0 {
		return recs, err
	}

	byID := make(map[utxo.TransactionID]*VaultRecord, len(recs))
	for i := range recs {
		byID[*recs[i].Record.ID] = &recs[i]
	}
	if err := s.attachAssets(ctx, byID, where, args...); err != nil {
		return nil, err
	}
	return recs, nil
}

func (s *SQLiteStorage) queryRecords(ctx context.Context, where string, args ...any) ([]VaultRecord, error) {
	stmt, err := s.stmts.Prepare(ctx, queryRecords(s.utxoTable, where))
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []VaultRecord
	for rows.Next() {
		var (
			rec      VaultRecord
			id       utxo.TransactionID
			lovelace string
		)
		if err := rows.Scan(
			&id.Hash,
			&id.Index,
			&lovelace,
			&rec.BlockNumber,
			&rec.Lockup,
			&rec.Spent,
			&rec.Timeout,
			&rec.LinkedID,
		); err != nil {
			return nil, err
		}
		q, err := strconv.ParseUint(lovelace, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupted lovelace of %s: %w", id, err)
		}
		rec.Record = utxo.Record{ID: &id, Quantity: q, Assets: utxo.Assets{}}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (s *SQLiteStorage) attachAssets(ctx context.Context, byID map[utxo.TransactionID]*VaultRecord, where string, args ...any) error {
	stmt, err := s.stmts.Prepare(ctx, queryAssets(s.utxoTable, s.assetTable, where))
	if err != nil {
		return err
	}
	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id       utxo.TransactionID
			asset    utxo.AssetID
			quantity string
		)
		if err := rows.Scan(&id.Hash, &id.Index, &asset.PolicyID, &asset.AssetName, &quantity); err != nil {
			return err
		}
		q, err := strconv.ParseUint(quantity, 10, 64)
		if err != nil {
			return fmt.Errorf("corrupted quantity of %s %s: %w", id, asset, err)
		}
		// rows may have changed between the two queries
		if rec, ok := byID[id]; ok {
			rec.Record.InsertAsset(asset, q)
		}
	}
	return rows.Err()
}
