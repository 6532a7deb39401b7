package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/AgusMolinaCode/crypto-ledger/internal/database"
	"github.com/AgusMolinaCode/crypto-ledger/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoTransactionRepository guarda las transacciones en una colección de MongoDB
type MongoTransactionRepository struct {
	coll *mongo.Collection
}

func NewMongoTransactionRepository(db *mongo.Database) *MongoTransactionRepository {
	return &MongoTransactionRepository{coll: db.Collection(database.TransactionsCollection)}
}

func (r *MongoTransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	prepareForInsert(tx)
	if _, err := r.coll.InsertOne(ctx, tx); err != nil {
		return fmt.Errorf("error al insertar la transacción: %w", err)
	}
	return nil
}

func (r *MongoTransactionRepository) FindByOwner(ctx context.Context, userID string) ([]models.Transaction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	return r.find(ctx, bson.D{{Key: "userId", Value: userID}}, opts)
}

func (r *MongoTransactionRepository) ListByOwner(ctx context.Context, userID string, limit, skip int) ([]models.Transaction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	if skip > 0 {
		opts.SetSkip(int64(skip))
	}
	return r.find(ctx, bson.D{{Key: "userId", Value: userID}}, opts)
}

func (r *MongoTransactionRepository) FindByID(ctx context.Context, id string) (*models.Transaction, error) {
	var tx models.Transaction
	err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&tx)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	tx.Timestamp = tx.Timestamp.UTC()
	return &tx, nil
}

func (r *MongoTransactionRepository) ToggleVerified(ctx context.Context, id string) (*models.Transaction, error) {
	// Pipeline de actualización: verified = !verified en una sola operación
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{{Key: "verified", Value: bson.D{{Key: "$not", Value: "$verified"}}}}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var tx models.Transaction
	err := r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id}}, update, opts).Decode(&tx)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error al actualizar la transacción: %w", err)
	}
	tx.Timestamp = tx.Timestamp.UTC()
	return &tx, nil
}

func (r *MongoTransactionRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return false, fmt.Errorf("error al eliminar la transacción: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoTransactionRepository) DistinctSymbols(ctx context.Context) ([]string, error) {
	values, err := r.coll.Distinct(ctx, "coinSymbol", bson.D{})
	if err != nil {
		return nil, err
	}
	symbols := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			symbols = append(symbols, s)
		}
	}
	sort.Strings(symbols)
	return symbols, nil
}

func (r *MongoTransactionRepository) find(ctx context.Context, filter bson.D, opts *options.FindOptions) ([]models.Transaction, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var transactions []models.Transaction
	if err := cursor.All(ctx, &transactions); err != nil {
		return nil, err
	}
	for i := range transactions {
		transactions[i].Timestamp = transactions[i].Timestamp.UTC()
	}
	return transactions, nil
}

// MongoUserRepository guarda los usuarios en MongoDB
type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(database.UsersCollection)}
}

func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = models.GenerateID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = models.Now()
	}
	_, err := r.coll.InsertOne(ctx, user)
	return err
}

func (r *MongoUserRepository) First(ctx context.Context) (*models.User, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return r.findOne(ctx, bson.D{}, opts)
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.D, opts ...*options.FindOneOptions) (*models.User, error) {
	var user models.User
	err := r.coll.FindOne(ctx, filter, opts...).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	user.CreatedAt = user.CreatedAt.UTC()
	return &user, nil
}
