package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/retailrewards/rewards-backend/internal/models"
	"github.com/retailrewards/rewards-backend/internal/repositories"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure TransactionRepository implements the interface
var _ repositories.TransactionRepository = (*TransactionRepository)(nil)

// transactionDocument is the stored shape of a transaction. Amounts are kept
// as Decimal128 so cents survive the round trip.
type transactionDocument struct {
	ID              int64                `bson:"_id"`
	CustomerID      int64                `bson:"customerId"`
	Amount          primitive.Decimal128 `bson:"amount"`
	TransactionDate time.Time            `bson:"transactionDate"`
	CreatedAt       time.Time            `bson:"createdAt"`
}

func toDocument(t *models.Transaction) (transactionDocument, error) {
	amount, err := primitive.ParseDecimal128(t.Amount.String())
	if err != nil {
		return transactionDocument{}, fmt.Errorf("invalid amount %s: %w", t.Amount, err)
	}
	return transactionDocument{
		ID:              t.ID,
		CustomerID:      t.CustomerID,
		Amount:          amount,
		TransactionDate: t.TransactionDate,
		CreatedAt:       t.CreatedAt,
	}, nil
}

func (d transactionDocument) toModel() (*models.Transaction, error) {
	amount, err := decimal.NewFromString(d.Amount.String())
	if err != nil {
		return nil, fmt.Errorf("transaction %d has invalid amount %s: %w", d.ID, d.Amount, err)
	}
	return &models.Transaction{
		ID:              d.ID,
		CustomerID:      d.CustomerID,
		Amount:          amount,
		TransactionDate: d.TransactionDate.UTC(),
		CreatedAt:       d.CreatedAt.UTC(),
	}, nil
}

// TransactionRepository handles MongoDB operations for Transaction
type TransactionRepository struct {
	collection *mongo.Collection
	ids        *sequence
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(db *mongo.Database) *TransactionRepository {
	return &TransactionRepository{
		collection: db.Collection("transactions"),
		ids:        newSequence(db, "transactions"),
	}
}

// Create inserts a new transaction
func (r *TransactionRepository) Create(ctx context.Context, transaction *models.Transaction) error {
	return r.CreateMany(ctx, []*models.Transaction{transaction})
}

// CreateMany inserts several transactions with consecutive IDs
func (r *TransactionRepository) CreateMany(ctx context.Context, transactions []*models.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	first, err := r.ids.next(ctx, int64(len(transactions)))
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(transactions))
	for i, transaction := range transactions {
		transaction.ID = first + int64(i)
		if transaction.CreatedAt.IsZero() {
			transaction.CreatedAt = now
		}
		doc, err := toDocument(transaction)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}

	_, err = r.collection.InsertMany(ctx, docs)
	return err
}

// FindByCustomerIDAndDateRange finds a customer's transactions between start and end inclusive
func (r *TransactionRepository) FindByCustomerIDAndDateRange(ctx context.Context, customerID int64, start, end time.Time) ([]*models.Transaction, error) {
	return r.find(ctx, bson.M{
		"customerId":      customerID,
		"transactionDate": bson.M{"$gte": start, "$lte": end},
	})
}

// FindByDateRange finds all transactions between start and end inclusive
func (r *TransactionRepository) FindByDateRange(ctx context.Context, start, end time.Time) ([]*models.Transaction, error) {
	return r.find(ctx, bson.M{
		"transactionDate": bson.M{"$gte": start, "$lte": end},
	})
}

// Count counts all transactions
func (r *TransactionRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

func (r *TransactionRepository) find(ctx context.Context, filter bson.M) ([]*models.Transaction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "transactionDate", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []transactionDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	transactions := make([]*models.Transaction, 0, len(docs))
	for _, doc := range docs {
		transaction, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}
	return transactions, nil
}
