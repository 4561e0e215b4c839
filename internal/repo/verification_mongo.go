package repo

import (
	"context"
	"errors"

	"github.com/rogerio-castellano/safekart/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoVerificationRepository struct {
	coll      *mongo.Collection
	customers *MongoCustomerRepository
}

func NewMongoVerificationRepository(db *mongo.Database) *MongoVerificationRepository {
	return &MongoVerificationRepository{
		coll:      db.Collection("verifications"),
		customers: NewMongoCustomerRepository(db),
	}
}

func (r *MongoVerificationRepository) Create(ctx context.Context, v models.Verification) (models.Verification, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	v.Customer = nil
	if _, err := r.coll.InsertOne(ctx, v); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.Verification{}, ErrDuplicatedValueUnique
		}
		return models.Verification{}, err
	}
	return v, nil
}

func (r *MongoVerificationRepository) GetByID(ctx context.Context, id string) (models.Verification, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var v models.Verification
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Verification{}, ErrVerificationNotFound
	}
	return v, err
}

func (r *MongoVerificationRepository) ListWithCustomers(ctx context.Context) ([]models.Verification, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}))
	if err != nil {
		return nil, err
	}
	verifications := []models.Verification{}
	if err := cur.All(ctx, &verifications); err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var ids []string
	for _, v := range verifications {
		if v.CustomerID != "" && !seen[v.CustomerID] {
			seen[v.CustomerID] = true
			ids = append(ids, v.CustomerID)
		}
	}
	customers, err := r.customers.getMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range verifications {
		if c, ok := customers[verifications[i].CustomerID]; ok {
			verifications[i].Customer = &c
		}
	}
	return verifications, nil
}

func (r *MongoVerificationRepository) Redeem(ctx context.Context, id string, limit int) (models.Verification, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	after := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var v models.Verification
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "scan_count": bson.M{"$lt": limit}},
		bson.M{"$inc": bson.M{"scan_count": 1}},
		after,
	).Decode(&v)
	if err == nil {
		return v, true, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.Verification{}, false, err
	}

	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"expired_scans": 1}},
		after,
	).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Verification{}, false, ErrVerificationNotFound
	}
	if err != nil {
		return models.Verification{}, false, err
	}
	return v, false, nil
}
