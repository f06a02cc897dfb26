package database

import (
	"log"
)

// Close shuts down the connection pool. Idempotent: safe to call during
// shutdown even if Connect never succeeded.
func (db *PostgresDB) Close() {
	if db.Pool == nil {
		return
	}

	log.Println("[DATABASE] Closing connection pool...")
	db.Pool.Close()
	db.Pool = nil
}
