// Command sparemigrate backfills the plant field on legacy spare-part
// records created before plants existed. Records with no plant (or an
// empty one) are assigned the given plant; everything else is left
// untouched.
//
// Usage:
//
//	sparemigrate -uri mongodb://localhost:27017 -db sparetrack -plant Foundry
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/plantfloor/sparetrack/internal/domain/models"
)

func main() {
	uri := flag.String("uri", "mongodb://localhost:27017", "MongoDB connection URI")
	dbName := flag.String("db", "sparetrack", "database name")
	plant := flag.String("plant", models.DefaultPlant, "plant assigned to records missing one")
	dryRun := flag.Bool("dry-run", false, "count affected records without writing")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	if !models.ValidPlant(*plant) {
		logger.Fatal("unknown plant", zap.String("plant", *plant))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(*uri))
	if err != nil {
		logger.Fatal("mongo connect failed", zap.Error(err))
	}
	defer client.Disconnect(context.Background())

	c := client.Database(*dbName).Collection("spareparts")
	filter := bson.M{"$or": []bson.M{
		{"plant": bson.M{"$exists": false}},
		{"plant": ""},
	}}

	if *dryRun {
		n, err := c.CountDocuments(ctx, filter)
		if err != nil {
			logger.Fatal("count failed", zap.Error(err))
		}
		logger.Info("dry run", zap.Int64("records_missing_plant", n))
		return
	}

	res, err := c.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"plant": *plant}})
	if err != nil {
		logger.Fatal("backfill failed", zap.Error(err))
	}

	logger.Info("backfill complete",
		zap.String("plant", *plant),
		zap.Int64("updated", res.ModifiedCount))
}
