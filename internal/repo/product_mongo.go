package repo

import (
	"context"
	"errors"
	"regexp"

	"github.com/rogerio-castellano/safekart/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoProductRepository struct {
	coll *mongo.Collection
}

func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{coll: db.Collection("products")}
}

func (r *MongoProductRepository) Create(ctx context.Context, p models.Product) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.Product{}, ErrDuplicatedValueUnique
		}
		return models.Product{}, err
	}
	return p, nil
}

func (r *MongoProductRepository) Update(ctx context.Context, p models.Product) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"name": p.Name, "weight": p.Weight, "mrp": p.MRP}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"barcode": p.Barcode}, update)
	if err != nil {
		return models.Product{}, err
	}
	if res.MatchedCount == 0 {
		return models.Product{}, ErrProductNotFound
	}
	return p, nil
}

func (r *MongoProductRepository) GetByBarcode(ctx context.Context, barcode string) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var p models.Product
	err := r.coll.FindOne(ctx, bson.M{"barcode": barcode}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

func (r *MongoProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoProductRepository) SearchByName(ctx context.Context, query string) ([]models.Product, error) {
	filter := bson.M{"name": bson.M{"$regex": regexp.QuoteMeta(query), "$options": "i"}}
	return r.find(ctx, filter)
}

func (r *MongoProductRepository) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{})
	return int(n), err
}

func (r *MongoProductRepository) find(ctx context.Context, filter bson.M) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "barcode", Value: 1}}))
	if err != nil {
		return nil, err
	}

	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}
