// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/plantfloor/sparetrack/internal/app/system/sync"
	"github.com/plantfloor/sparetrack/internal/app/system/timeouts"
)

// ConnectDB establishes the MongoDB connection and creates the live
// synchronizers. Feeds are attached later in Startup, once indexes
// exist.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return DBDeps{}, err
	}

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase))

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
		SpareParts:    sync.NewParts(logger),
		Settings:      sync.NewSettings(logger),
	}, nil
}

// EnsureSchema creates the indexes the stores rely on.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase

	spareparts := []mongo.IndexModel{
		{Keys: bson.D{{Key: "plant", Value: 1}, {Key: "order_date", Value: -1}}},
		{Keys: bson.D{{Key: "name_ci", Value: 1}}},
		{Keys: bson.D{{Key: "import_batch_id", Value: 1}}},
	}
	if _, err := db.Collection("spareparts").Indexes().CreateMany(ctx, spareparts); err != nil {
		return err
	}

	users := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email_ci", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := db.Collection("users").Indexes().CreateMany(ctx, users); err != nil {
		return err
	}

	settings := []mongo.IndexModel{
		{Keys: bson.D{{Key: "key", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := db.Collection("app_settings").Indexes().CreateMany(ctx, settings); err != nil {
		return err
	}

	logger.Info("MongoDB indexes ensured")
	return nil
}
