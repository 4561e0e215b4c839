package repo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoMetricsRepository struct {
	db *mongo.Database
}

func NewMongoMetricsRepository(db *mongo.Database) *MongoMetricsRepository {
	return &MongoMetricsRepository{db: db}
}

func (r *MongoMetricsRepository) GetDashboardMetrics(ctx context.Context) (Metrics, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var m Metrics

	products, err := r.db.Collection("products").CountDocuments(ctx, bson.M{})
	if err != nil {
		return m, fmt.Errorf("failed to count products: %w", err)
	}
	customers, err := r.db.Collection("customers").CountDocuments(ctx, bson.M{})
	if err != nil {
		return m, fmt.Errorf("failed to count customers: %w", err)
	}
	m.TotalProducts = int(products)
	m.TotalCustomers = int(customers)

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"total":   bson.M{"$sum": 1},
			"passed":  bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$status", "PASS"}}, 1, 0}}},
			"scans":   bson.M{"$sum": "$scan_count"},
			"expired": bson.M{"$sum": "$expired_scans"},
		}}},
	}
	cur, err := r.db.Collection("verifications").Aggregate(ctx, pipeline)
	if err != nil {
		return m, fmt.Errorf("failed to aggregate verifications: %w", err)
	}

	var groups []struct {
		Total   int `bson:"total"`
		Passed  int `bson:"passed"`
		Scans   int `bson:"scans"`
		Expired int `bson:"expired"`
	}
	if err := cur.All(ctx, &groups); err != nil {
		return m, fmt.Errorf("failed to decode verification totals: %w", err)
	}
	if len(groups) > 0 {
		m.TotalVerifications = groups[0].Total
		m.Passed = groups[0].Passed
		m.TotalScans = groups[0].Scans
		m.ExpiredScans = groups[0].Expired
	}

	m.finalize()
	return m, nil
}
