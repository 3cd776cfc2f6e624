package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT UNIQUE NOT NULL,
		name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createPurchaseTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE purchases (
		id TEXT PRIMARY KEY,
		code TEXT UNIQUE NOT NULL,
		user_id TEXT NOT NULL,
		term TEXT NOT NULL,
		status TEXT NOT NULL,
		processing_step INTEGER NOT NULL DEFAULT 0,
		amount TEXT NOT NULL,
		buyer_name TEXT,
		asaas_payment_id TEXT,
		paid_at DATETIME,
		search_result_id TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}
