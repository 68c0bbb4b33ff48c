package criteria

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MatchStage wraps the rendered chain in a $match aggregation stage.
func MatchStage(c *Criteria) (bson.D, error) {
	doc, err := c.Document()
	if err != nil {
		return nil, err
	}
	return bson.D{{Key: "$match", Value: doc}}, nil
}

// Pipeline builds an aggregation pipeline that starts with the $match stage
// of c, followed by stages. An empty filter produces no $match stage.
func Pipeline(c *Criteria, stages ...bson.D) (mongo.Pipeline, error) {
	pipeline := mongo.Pipeline{}
	doc, err := c.Document()
	if err != nil {
		return nil, err
	}
	if len(doc) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: doc}})
	}
	return append(pipeline, stages...), nil
}

// FindOptions produces FindOptions with pagination and sort. Zero values
// leave the corresponding option unset.
func FindOptions(skip, limit int64, sort bson.D) *options.FindOptions {
	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(limit)
	}
	if skip > 0 {
		opts.SetSkip(skip)
	}
	if len(sort) > 0 {
		opts.SetSort(sort)
	}
	return opts
}

// Find renders c and runs it against coll.
func Find(ctx context.Context, coll *mongo.Collection, c *Criteria, opts ...*options.FindOptions) (*mongo.Cursor, error) {
	filter, err := c.Document()
	if err != nil {
		return nil, err
	}
	return coll.Find(ctx, filter, opts...)
}

func FindOne(ctx context.Context, coll *mongo.Collection, c *Criteria, opts ...*options.FindOneOptions) (*mongo.SingleResult, error) {
	filter, err := c.Document()
	if err != nil {
		return nil, err
	}
	return coll.FindOne(ctx, filter, opts...), nil
}

func Count(ctx context.Context, coll *mongo.Collection, c *Criteria, opts ...*options.CountOptions) (int64, error) {
	filter, err := c.Document()
	if err != nil {
		return 0, err
	}
	return coll.CountDocuments(ctx, filter, opts...)
}

// ExtJSON renders c as MongoDB extended JSON, relaxed unless canonical is set.
func ExtJSON(c *Criteria, canonical bool) (string, error) {
	doc, err := c.Document()
	if err != nil {
		return "", err
	}
	b, err := bson.MarshalExtJSON(doc, canonical, false)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
