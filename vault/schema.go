package vault

import "fmt"

// Quantities are stored as decimal TEXT: sqlite integers are signed and
// cannot hold the upper half of the uint64 range.
func schema(utxoTable, assetTable string) string {
	return fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %[1]s (
		tx_hash TEXT NOT NULL,
		idx INTEGER NOT NULL,
		lovelace TEXT NOT NULL,
		block_number INTEGER NOT NULL,
		lockup BOOLEAN NOT NULL DEFAULT FALSE,
		spent BOOLEAN NOT NULL DEFAULT FALSE,
		timeout INTEGER NOT NULL DEFAULT 0,
		linked_id TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (tx_hash, idx),
		CONSTRAINT chk_tx_hash CHECK (tx_hash != ''),
		CONSTRAINT chk_idx CHECK (idx >= 0)
	);
	CREATE INDEX IF NOT EXISTS idx_%[1]s_linked_id ON %[1]s (linked_id);
	CREATE TABLE IF NOT EXISTS %[2]s (
		tx_hash TEXT NOT NULL,
		idx INTEGER NOT NULL,
		policy_id TEXT NOT NULL,
		asset_name TEXT NOT NULL,
		quantity TEXT NOT NULL,
		PRIMARY KEY (tx_hash, idx, policy_id, asset_name),
		FOREIGN KEY (tx_hash, idx) REFERENCES %[1]s (tx_hash, idx) ON DELETE CASCADE
	);
	`, utxoTable, assetTable)
}

const (
	selectRecordColumns = `u.tx_hash, u.idx, u.lovelace, u.block_number, u.lockup, u.spent, u.timeout, u.linked_id`

	whereUsable         = `u.lockup = 0 AND u.spent = 0`
	whereOutpoint       = `u.tx_hash = ? AND u.idx = ?`
	whereLinkedID       = `u.linked_id = ?`
	whereExpiredAndLock = `u.lockup = 1 AND u.spent = 0 AND u.timeout < ?`
)

func queryRecords(utxoTable, where string) string {
	return fmt.Sprintf(`SELECT %s FROM %s u WHERE %s ORDER BY u.rowid;`,
		selectRecordColumns, utxoTable, where)
}

func queryAssets(utxoTable, assetTable, where string) string {
	return fmt.Sprintf(`SELECT a.tx_hash, a.idx, a.policy_id, a.asset_name, a.quantity
	FROM %s a JOIN %s u ON a.tx_hash = u.tx_hash AND a.idx = u.idx
	WHERE %s;`, assetTable, utxoTable, where)
}

func insertRecord(utxoTable string) string {
	return fmt.Sprintf(`INSERT INTO %s (tx_hash, idx, lovelace, block_number, lockup, spent, timeout, linked_id)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?);`, utxoTable)
}

func insertAsset(assetTable string) string {
	return fmt.Sprintf(`INSERT INTO %s (tx_hash, idx, policy_id, asset_name, quantity)
	VALUES (?, ?, ?, ?, ?);`, assetTable)
}

func updateLockup(utxoTable string) string {
	return fmt.Sprintf(`UPDATE %s SET lockup = ?, timeout = ?, linked_id = ? WHERE tx_hash = ? AND idx = ?;`, utxoTable)
}

func updateSpent(utxoTable string) string {
	return fmt.Sprintf(`UPDATE %s SET spent = ? WHERE tx_hash = ? AND idx = ?;`, utxoTable)
}
