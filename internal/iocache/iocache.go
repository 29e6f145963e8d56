package iocache

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/Dark-Matter98/ai-repository-leaderboard/internal/contract"
	"github.com/Dark-Matter98/ai-repository-leaderboard/schema"
)

// embeddingTable is the name of the table for embedding vector caching.
const embeddingTable = "embedding_cache"

// Global Manager instance for main logic.
var (
	Manager   = &StoreManagerImpl{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// StoreManagerImpl manages the embedding cache, run history and snapshot
// stores.
type StoreManagerImpl struct {
	sync.RWMutex // Protects the store pointers during initialization
	embedding    contract.CacheStore
	history      contract.HistoryStore
	snapshots    contract.SnapshotStore
}

var _ contract.StoreManager = &StoreManagerImpl{} // Compile-time check

// GetEmbeddingStore returns the embedding CacheStore.
func (mgr *StoreManagerImpl) GetEmbeddingStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.embedding
}

// GetHistoryStore returns the run HistoryStore.
func (mgr *StoreManagerImpl) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}

// GetSnapshotStore returns the leaderboard SnapshotStore.
func (mgr *StoreManagerImpl) GetSnapshotStore() contract.SnapshotStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.snapshots
}

// InitStores initializes the global store manager from the validated config.
// The history backend may be empty to disable run tracking.
func InitStores(cfg *contract.Config) error {
	var initErr error

	initOnce.Do(func() {
		// This function body runs exactly once, even with concurrent calls.
		var err error

		// Initialize the embedding cache store only if a backend is configured
		var embeddingStore contract.CacheStore
		if cfg.CacheBackend != "" {
			embeddingStore, err = NewCacheStore(embeddingTable, cfg.CacheBackend, cfg.CacheDBConnect)
			if err != nil {
				initErr = fmt.Errorf("failed to initialize embedding cache: %w", err)
				return
			}
		}

		// Initialize the run history store only if a backend is configured
		var historyStore contract.HistoryStore
		if cfg.HistoryBackend != "" {
			historyStore, err = NewHistoryStore(cfg.HistoryBackend, cfg.HistoryDBConnect)
			if err != nil {
				if embeddingStore != nil {
					_ = embeddingStore.Close()
				}
				initErr = fmt.Errorf("failed to initialize run history: %w", err)
				return
			}
		}

		snapshotStore, err := NewFileSnapshotStore(cfg.DataDir)
		if err != nil {
			if embeddingStore != nil {
				_ = embeddingStore.Close()
			}
			if historyStore != nil {
				_ = historyStore.Close()
			}
			initErr = fmt.Errorf("failed to initialize snapshot store: %w", err)
			return
		}

		// Assign to global manager
		Manager.Lock()
		defer Manager.Unlock()
		Manager.embedding = embeddingStore
		Manager.history = historyStore
		Manager.snapshots = snapshotStore
	})

	// After once.Do, initErr will contain any error from the initialization block.
	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.embedding != nil {
			_ = Manager.embedding.Close()
		}
		if Manager.history != nil {
			_ = Manager.history.Close()
		}
	})
}

// ClearCache clears the embedding cache for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the table.
// For NoneBackend, it does nothing.
func ClearCache(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend:
		return clearSQLTable("mysql", connStr, embeddingTable)

	case schema.PostgreSQLBackend:
		return clearSQLTable("pgx", connStr, embeddingTable)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported cache backend for clearing: %s", backend)
	}
}

// ClearHistory clears run history for the specified backend.
func ClearHistory(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend:
		return clearSQLTable("mysql", connStr, runsTable)

	case schema.PostgreSQLBackend:
		return clearSQLTable("pgx", connStr, runsTable)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported history backend for clearing: %s", backend)
	}
}

// clearSQLTable connects to the SQL database and drops the table if it exists.
func clearSQLTable(driverName, connStr, tableName string) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", tableName)
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}

	return nil
}
