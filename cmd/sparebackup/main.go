// Command sparebackup dumps the spare-part collection to a JSON file,
// for off-site snapshots and pre-migration backups.
//
// Usage:
//
//	sparebackup -uri mongodb://localhost:27017 -db sparetrack -out backup.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	sparepartstore "github.com/plantfloor/sparetrack/internal/app/store/spareparts"
)

func main() {
	uri := flag.String("uri", "mongodb://localhost:27017", "MongoDB connection URI")
	dbName := flag.String("db", "sparetrack", "database name")
	out := flag.String("out", "spareparts-backup.json", "output file path")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(*uri))
	if err != nil {
		logger.Fatal("mongo connect failed", zap.Error(err))
	}
	defer client.Disconnect(context.Background())

	parts, err := sparepartstore.New(client.Database(*dbName)).Snapshot(ctx)
	if err != nil {
		logger.Fatal("snapshot failed", zap.Error(err))
	}

	f, err := os.Create(*out)
	if err != nil {
		logger.Fatal("create output file failed", zap.Error(err))
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(parts); err != nil {
		logger.Fatal("encode failed", zap.Error(err))
	}

	logger.Info("backup written",
		zap.String("file", *out),
		zap.Int("records", len(parts)))
}
