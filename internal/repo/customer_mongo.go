package repo

import (
	"context"
	"errors"

	"github.com/rogerio-castellano/safekart/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoCustomerRepository struct {
	coll *mongo.Collection
}

func NewMongoCustomerRepository(db *mongo.Database) *MongoCustomerRepository {
	return &MongoCustomerRepository{coll: db.Collection("customers")}
}

func (r *MongoCustomerRepository) Create(ctx context.Context, c models.Customer) (models.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, c); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.Customer{}, ErrDuplicatedValueUnique
		}
		return models.Customer{}, err
	}
	return c, nil
}

func (r *MongoCustomerRepository) GetByID(ctx context.Context, id string) (models.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var c models.Customer
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Customer{}, ErrCustomerNotFound
	}
	return c, err
}

func (r *MongoCustomerRepository) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{})
	return int(n), err
}

// getMany resolves ids in one round trip; missing ids are simply absent from the map.
func (r *MongoCustomerRepository) getMany(ctx context.Context, ids []string) (map[string]models.Customer, error) {
	out := make(map[string]models.Customer, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var customers []models.Customer
	if err := cur.All(ctx, &customers); err != nil {
		return nil, err
	}
	for _, c := range customers {
		out[c.ID] = c
	}
	return out, nil
}
