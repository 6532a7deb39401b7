package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/AgusMolinaCode/crypto-ledger/internal/config"
	"github.com/AgusMolinaCode/crypto-ledger/internal/database"
)

// Store agrupa los repositorios del almacenamiento elegido por configuración
type Store struct {
	Driver       string
	Transactions TransactionRepository
	Users        UserRepository
	close        func(context.Context) error
}

// Open inicializa el almacenamiento indicado en cfg.StorageDriver
func Open(ctx context.Context, cfg *config.AppConfig) (*Store, error) {
	switch cfg.StorageDriver {
	case config.DriverMemory, "":
		slog.Warn("Usando almacenamiento en memoria: las transacciones se pierden al reiniciar")
		return NewMemoryStore(), nil

	case config.DriverMongo:
		client, db, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return &Store{
			Driver:       config.DriverMongo,
			Transactions: NewMongoTransactionRepository(db),
			Users:        NewMongoUserRepository(db),
			close:        client.Disconnect,
		}, nil

	case config.DriverSQLite, config.DriverPostgres:
		dialect := database.DialectSQLite
		if cfg.StorageDriver == config.DriverPostgres {
			dialect = database.DialectPostgres
		}
		db, err := database.OpenSQL(ctx, dialect, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		slog.Info("Base de datos SQL inicializada", "dialect", dialect)
		return &Store{
			Driver:       cfg.StorageDriver,
			Transactions: NewSQLTransactionRepository(db, dialect),
			Users:        NewSQLUserRepository(db, dialect),
			close:        func(context.Context) error { return db.Close() },
		}, nil

	default:
		return nil, fmt.Errorf("driver de almacenamiento desconocido: %s", cfg.StorageDriver)
	}
}

// NewMemoryStore crea un almacenamiento volátil
func NewMemoryStore() *Store {
	return &Store{
		Driver:       config.DriverMemory,
		Transactions: NewMemoryTransactionRepository(),
		Users:        NewMemoryUserRepository(),
	}
}

// Close libera la conexión del almacenamiento
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}
