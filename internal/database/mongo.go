package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Nombres de las colecciones
const (
	UsersCollection        = "users"
	TransactionsCollection = "transactions"
)

// ConnectMongo abre el cliente, verifica la conexión y asegura los índices.
// El llamador es responsable de ejecutar Disconnect sobre el cliente devuelto.
func ConnectMongo(ctx context.Context, uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(10).
		SetServerSelectionTimeout(5 * time.Second).
		SetSocketTimeout(45 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("error al conectar a MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("MongoDB no responde: %w", err)
	}

	db := client.Database(dbName)
	if err := ensureMongoIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	slog.Info("Conectado a MongoDB", "database", dbName)
	return client, db, nil
}

func ensureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(TransactionsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "coinSymbol", Value: 1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "timestamp", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("error al crear índices de transacciones: %w", err)
	}

	_, err = db.Collection(UsersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("error al crear índice de usuarios: %w", err)
	}
	return nil
}
