package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"slices"
	"time"

	"campus-incidents/internal/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Drops the collections written by cmd/seed so the seeder can be rerun.
func main() {
	withHistory := flag.Bool("history", false, "also drop audit_logs and kpi_snapshots")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 1. Connect to MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(cfg.DBName)

	// 2. List Collections
	existing, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		log.Fatalf("Failed to list collections: %v", err)
	}
	fmt.Println("Found collections:", existing)

	targets := []string{
		cfg.TrafficCollection,
		cfg.SuspiciousCollection,
		cfg.FeedbackCollection,
		"report_details",
		"users",
	}
	if *withHistory {
		targets = append(targets, "audit_logs", "kpi_snapshots")
	}

	// 3. Drop seeded collections
	for _, name := range targets {
		if !slices.Contains(existing, name) {
			continue
		}
		fmt.Printf("Dropping collection: %s\n", name)
		if err := db.Collection(name).Drop(ctx); err != nil {
			log.Printf("Failed to drop collection %s: %v\n", name, err)
		} else {
			fmt.Printf("Successfully dropped %s\n", name)
		}
	}

	fmt.Println("Cleanup complete.")
}
