package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Txrmarcos/offuscate-relay/internal/config"
	"github.com/Txrmarcos/offuscate-relay/internal/logger"
)

// notesSchema is the donor-side vault layout. The table is append-only per
// owner except for the queued and spent flag flips; the commitment is the
// natural key. queued means the relay accepted the note for redemption;
// spent is set only once a status lookup confirms the redemption completed.
const notesSchema = `CREATE TABLE IF NOT EXISTS notes (
	owner_id         TEXT NOT NULL,
	commitment       TEXT NOT NULL,
	secret           TEXT NOT NULL,
	nullifier_secret TEXT NOT NULL,
	secret_hash      TEXT NOT NULL,
	nullifier        TEXT NOT NULL,
	amount           INTEGER NOT NULL,
	created_at       TIMESTAMP NOT NULL,
	queued           BOOLEAN NOT NULL DEFAULT FALSE,
	spent            BOOLEAN NOT NULL DEFAULT FALSE,
	PRIMARY KEY (owner_id, commitment)
);`

// LocalDB is the donor-side SQLite vault connection. A separate type from
// [DB] so the server-side Postgres repositories cannot be constructed over
// the local file by mistake.
type LocalDB struct {
	*sql.DB
	logger *logger.Logger
}

// NewConnectSQLite opens (creating if necessary) the donor's local note
// vault database and ensures the schema exists.
func NewConnectSQLite(ctx context.Context, cfg config.NotesDB, log *logger.Logger) (*LocalDB, error) {
	// db will be in file
	if err := createLocalDBFileIfNotExists(cfg.DSN); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error creating database file")
		return nil, fmt.Errorf("error creating database file")
	}

	conn, err := sql.Open("sqlite3", cfg.DSN)
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database")
		return nil, fmt.Errorf("error opening connection to DB")
	}

	// ping database
	err = conn.PingContext(ctx)
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database (ping)")
		return nil, err
	}

	if _, err = conn.ExecContext(ctx, notesSchema); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error creating notes schema")
		return nil, fmt.Errorf("error creating notes schema: %w", err)
	}
	log.Debug().Str("func", "NewConnectSQLite").Msg("connected to notes database successfully")

	// construct a LocalDB struct
	db := &LocalDB{
		DB:     conn,
		logger: log,
	}

	return db, nil
}

func createLocalDBFileIfNotExists(dbFile string) error {
	if _, err := os.Stat(dbFile); os.IsNotExist(err) {
		// if not found - create
		f, err := os.Create(dbFile)
		if err != nil {
			return fmt.Errorf("error creating DB file: %w", err)
		}
		f.Close()
	}

	// file already exists
	return nil
}
