package vault

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TEENet-io/cardano-utxo/common"
	"github.com/TEENet-io/cardano-utxo/utxo"
)

const testAddress = "addr_test1"

func newStorage(t *testing.T) *SQLiteStorage {
	st, err := NewSQLiteStorage(context.Background(), ":memory:", testAddress)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func randRecord(lovelace uint64, assets map[utxo.AssetID]uint64) utxo.Record {
	r := utxo.Zero()
	r.ID = &utxo.TransactionID{Hash: common.RandTxHash(), Index: 0}
	r.Quantity = lovelace
	for k, v := range assets {
		r.InsertAsset(k, v)
	}
	return r
}

var (
	tokenA = utxo.AssetID{PolicyID: "policy1", AssetName: "aname1"}
	tokenB = utxo.AssetID{PolicyID: "policy2", AssetName: "aname2"}
)

func TestInsertAndQuery(t *testing.T) {
	ctx := context.Background()
	st := newStorage(t)

	rec := randRecord(math.MaxUint64, map[utxo.AssetID]uint64{tokenA: math.MaxUint64, tokenB: 3})
	require.NoError(t, st.InsertVaultRecord(ctx, VaultRecord{Record: rec, BlockNumber: 42}))

	got, err := st.QueryByOutpoint(ctx, *rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(42), got.BlockNumber)
	assert.False(t, got.Lockup)
	assert.False(t, got.Spent)
	assert.True(t, rec.Equal(got.Record))
	assert.True(t, rec.SameIdentity(got.Record))

	missing, err := st.QueryByOutpoint(ctx, utxo.TransactionID{Hash: "nope"})
	assert.NoError(t, err)
	assert.Nil(t, missing)

	// primary key
	err = st.InsertVaultRecord(ctx, VaultRecord{Record: rec})
	assert.Error(t, err)

	err = st.InsertVaultRecord(ctx, VaultRecord{Record: utxo.Zero()})
	assert.ErrorIs(t, err, ErrMissingID)
}

func TestQueryAllUsableKeepsOrder(t *testing.T) {
	ctx := context.Background()
	st := newStorage(t)

	var recs []utxo.Record
	for i := 0; i < 5; i++ {
		r := randRecord(uint64(100-i), map[utxo.AssetID]uint64{tokenA: uint64(i + 1)})
		recs = append(recs, r)
		require.NoError(t, st.InsertVaultRecord(ctx, VaultRecord{Record: r}))
	}

	require.NoError(t, st.SetLockup(ctx, []utxo.TransactionID{*recs[1].ID}, true, 10, "lock"))
	require.NoError(t, st.SetSpent(ctx, []utxo.TransactionID{*recs[3].ID}, true))

	usable, err := st.QueryAllUsable(ctx)
	require.NoError(t, err)
	require.Len(t, usable, 3)
	for i, want := range []utxo.Record{recs[0], recs[2], recs[4]} {
		assert.Equal(t, *want.ID, *usable[i].Record.ID)
		assert.True(t, want.Equal(usable[i].Record))
	}

	linked, err := st.QueryByLinkedID(ctx, "lock")
	require.NoError(t, err)
	require.Len(t, linked, 1)
	assert.Equal(t, int64(10), linked[0].Timeout)
	assert.True(t, linked[0].Lockup)
}

func TestQueryExpiredAndLocked(t *testing.T) {
	ctx := context.Background()
	st := newStorage(t)

	a, b, c := randRecord(1, nil), randRecord(2, nil), randRecord(3, nil)
	for _, r := range []utxo.Record{a, b, c} {
		require.NoError(t, st.InsertVaultRecord(ctx, VaultRecord{Record: r}))
	}
	require.NoError(t, st.SetLockup(ctx, []utxo.TransactionID{*a.ID}, true, 100, "x"))
	require.NoError(t, st.SetLockup(ctx, []utxo.TransactionID{*b.ID}, true, 200, "y"))

	expired, err := st.QueryExpiredAndLocked(ctx, 150)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, *a.ID, *expired[0].Record.ID)

	// spent records are never released
	require.NoError(t, st.SetSpent(ctx, []utxo.TransactionID{*b.ID}, true))
	expired, err = st.QueryExpiredAndLocked(ctx, 300)
	require.NoError(t, err)
	require.Len(t, expired, 1)
}

func TestSetLockupIsAtomic(t *testing.T) {
	ctx := context.Background()
	st := newStorage(t)

	a := randRecord(1, nil)
	require.NoError(t, st.InsertVaultRecord(ctx, VaultRecord{Record: a}))

	err := st.SetLockup(ctx, []utxo.TransactionID{*a.ID, {Hash: "missing"}}, true, 1, "z")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := st.QueryByOutpoint(ctx, *a.ID)
	require.NoError(t, err)
	assert.False(t, got.Lockup)
	assert.Equal(t, "", got.LinkedID)
}

func TestStorageFile(t *testing.T) {
	ctx := context.Background()
	file := filepath.Join(t.TempDir(), "vault.db")

	st, err := NewSQLiteStorage(ctx, file, testAddress)
	require.NoError(t, err)
	rec := randRecord(7, map[utxo.AssetID]uint64{tokenB: 9})
	require.NoError(t, st.InsertVaultRecord(ctx, VaultRecord{Record: rec}))
	require.NoError(t, st.Close())

	_, err = os.Stat(file)
	require.NoError(t, err)

	// tables survive reopening, and other addresses do not see them
	st, err = NewSQLiteStorage(ctx, file, testAddress)
	require.NoError(t, err)
	defer st.Close()
	usable, err := st.QueryAllUsable(ctx)
	require.NoError(t, err)
	require.Len(t, usable, 1)
	assert.True(t, rec.Equal(usable[0].Record))

	other, err := NewSQLiteStorage(ctx, file, "addr_test2")
	require.NoError(t, err)
	defer other.Close()
	usable, err = other.QueryAllUsable(ctx)
	require.NoError(t, err)
	assert.Empty(t, usable)
}

func TestInvalidAddress(t *testing.T) {
	_, err := NewSQLiteStorage(context.Background(), ":memory:", "addr; DROP TABLE x")
	assert.ErrorIs(t, err, ErrInvalidAddress)
}
