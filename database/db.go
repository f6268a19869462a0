package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate"
	migratedb "github.com/golang-migrate/migrate/database"
	"github.com/golang-migrate/migrate/database/mysql"
	"github.com/golang-migrate/migrate/database/postgres"
	"github.com/golang-migrate/migrate/database/sqlite3"
	_ "github.com/golang-migrate/migrate/source/file"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sisu-network/lib/log"
	"github.com/sisu-network/txconfirm/config"
	"github.com/sisu-network/txconfirm/types"
	"go.uber.org/atomic"
)

type Database interface {
	Init() error
	Close() error

	// SaveTxResults stores every resolved record. Pending records are skipped and records that were
	// already saved are left untouched.
	SaveTxResults(chain string, records []*types.TxSyncResult) error

	// LoadTxResult returns nil when the tx has no saved result.
	LoadTxResult(chain string, hash types.TxHash) (*types.TxSyncResult, error)
}

var inMemoryCount atomic.Int64

type queries struct {
	insert string
	load   string
}

var queriesByDriver = map[string]queries{
	config.DbDriverMysql: {
		insert: "INSERT IGNORE INTO tx_results (chain, tx_hash, message_count, code, tx_log, block_height, events) VALUES (?, ?, ?, ?, ?, ?, ?)",
		load:   "SELECT message_count, code, tx_log, block_height, events FROM tx_results WHERE chain=? AND tx_hash=?",
	},
	config.DbDriverSqlite: {
		insert: "INSERT OR IGNORE INTO tx_results (chain, tx_hash, message_count, code, tx_log, block_height, events) VALUES (?, ?, ?, ?, ?, ?, ?)",
		load:   "SELECT message_count, code, tx_log, block_height, events FROM tx_results WHERE chain=? AND tx_hash=?",
	},
	config.DbDriverPostgres: {
		insert: "INSERT INTO tx_results (chain, tx_hash, message_count, code, tx_log, block_height, events) VALUES ($1, $2, $3, $4, $5, $6, $7) ON CONFLICT DO NOTHING",
		load:   "SELECT message_count, code, tx_log, block_height, events FROM tx_results WHERE chain=$1 AND tx_hash=$2",
	},
}

type DefaultDatabase struct {
	cfg     *config.Config
	db      *sql.DB
	queries queries
}

type dbLogger struct {
}

func (loggger *dbLogger) Printf(format string, v ...interface{}) {
	log.Verbosef(format, v...)
}

func (loggger *dbLogger) Verbose() bool {
	return true
}

func NewDb(cfg *config.Config) Database {
	return &DefaultDatabase{
		cfg: cfg,
	}
}

func (d *DefaultDatabase) driver() string {
	if d.cfg.InMemory {
		return config.DbDriverSqlite
	}
	if d.cfg.DbDriver == "" {
		return config.DbDriverMysql
	}

	return d.cfg.DbDriver
}

func (d *DefaultDatabase) Connect() error {
	driver := d.driver()
	q, ok := queriesByDriver[driver]
	if !ok {
		return fmt.Errorf("unsupported db driver %s", driver)
	}
	d.queries = q

	var err error
	switch driver {
	case config.DbDriverSqlite:
		d.db, err = d.connectSqlite()
	case config.DbDriverPostgres:
		d.db, err = d.connectPostgres()
	default:
		d.db, err = d.connectMysql()
	}
	if err != nil {
		return err
	}

	log.Info("Db is connected successfully, driver = ", driver)
	return nil
}

func (d *DefaultDatabase) connectSqlite() (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s.db", d.cfg.DbSchema)
	if d.cfg.InMemory {
		// Each in-memory instance gets its own named database shared by its pool.
		dsn = fmt.Sprintf("file:txconfirm-%d?mode=memory&cache=shared", inMemoryCount.Inc())
	}

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	conn.SetMaxOpenConns(1)

	return conn, nil
}

func (d *DefaultDatabase) connectMysql() (*sql.DB, error) {
	host := d.cfg.DbHost
	if host == "" {
		return nil, fmt.Errorf("DB host cannot be empty")
	}

	username := d.cfg.DbUsername
	password := d.cfg.DbPassword
	schema := d.cfg.DbSchema
	port := d.cfg.DbPort

	// Connect to the db
	url := fmt.Sprintf("%s:%s@tcp(%s:%d)/", username, password, host, port)
	conn, err := sql.Open("mysql", url)
	if err != nil {
		return nil, err
	}
	_, err = conn.Exec("CREATE DATABASE IF NOT EXISTS " + schema)
	conn.Close()
	if err != nil {
		return nil, err
	}

	return sql.Open("mysql", fmt.Sprintf("%s:%s@tcp(%s:%d)/%s", username, password, host, port, schema))
}

func (d *DefaultDatabase) connectPostgres() (*sql.DB, error) {
	if d.cfg.DbHost == "" {
		return nil, fmt.Errorf("DB host cannot be empty")
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		d.cfg.DbHost, d.cfg.DbPort, d.cfg.DbUsername, d.cfg.DbPassword, d.cfg.DbSchema)

	return sql.Open("postgres", dsn)
}

func (d *DefaultDatabase) DoMigration() error {
	driverName := d.driver()

	var driver migratedb.Driver
	var err error
	switch driverName {
	case config.DbDriverSqlite:
		driver, err = sqlite3.WithInstance(d.db, &sqlite3.Config{})
	case config.DbDriverPostgres:
		driver, err = postgres.WithInstance(d.db, &postgres.Config{})
	default:
		driver, err = mysql.WithInstance(d.db, &mysql.Config{})
	}
	if err != nil {
		return err
	}

	tmpDir, err := MigrationsTempDir(driverName)
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmpDir)

	m, err := migrate.NewWithDatabaseInstance("file://"+tmpDir, driverName, driver)
	if err != nil {
		return err
	}

	m.Log = &dbLogger{}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}

	return nil
}

func (d *DefaultDatabase) Init() error {
	err := d.Connect()
	if err != nil {
		log.Error("Failed to connect to DB. Err =", err)
		return err
	}

	return d.DoMigration()
}

func (d *DefaultDatabase) Close() error {
	if d.db == nil {
		return nil
	}

	return d.db.Close()
}

func (d *DefaultDatabase) SaveTxResults(chain string, records []*types.TxSyncResult) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}

	for _, record := range records {
		if !record.IsResolved() {
			continue
		}

		events, err := json.Marshal(record.Events)
		if err != nil {
			tx.Rollback()
			return err
		}

		_, err = tx.Exec(d.queries.insert, chain, record.Hash.String(), record.Status.MessageCount,
			record.Code, record.Log, record.Height, string(events))
		if err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

func (d *DefaultDatabase) LoadTxResult(chain string, hash types.TxHash) (*types.TxSyncResult, error) {
	rows, err := d.db.Query(d.queries.load, chain, hash.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	var (
		messageCount int
		code         uint32
		txLog        sql.NullString
		height       int64
		eventsJson   sql.NullString
	)
	if err := rows.Scan(&messageCount, &code, &txLog, &height, &eventsJson); err != nil {
		return nil, err
	}

	events := make([]types.Event, 0)
	if eventsJson.Valid && eventsJson.String != "" {
		if err := json.Unmarshal([]byte(eventsJson.String), &events); err != nil {
			return nil, err
		}
	}

	record := types.NewTxSyncResult(hash, messageCount)
	record.Resolve(height, code, txLog.String, events)

	return record, nil
}
