package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"campus-incidents/internal/config"
	"campus-incidents/internal/database"
	"campus-incidents/internal/incident"
	"campus-incidents/internal/logger"
	"campus-incidents/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

const (
	usersCollection   = "users"
	detailsCollection = "report_details"
)

type seedUser struct {
	Key           string `json:"key"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Role          string `json:"role"`
	EmailVerified bool   `json:"email_verified"`
}

type seedReport struct {
	Collection        string            `json:"collection"`
	Type              string            `json:"type"`
	Status            string            `json:"status"`
	Reporter          string            `json:"reporter"`
	HoursAgo          int               `json:"hours_ago"`
	Location          *incident.Location `json:"location"`
	LocationLabel     string            `json:"location_label"`
	InlineDescription string            `json:"inline_description"`
	Details           map[string]any    `json:"details"`
}

type seedFeedback struct {
	Type     string `json:"type"`
	Rating   int    `json:"rating"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
	User     string `json:"user"`
	HoursAgo int    `json:"hours_ago"`
}

// Helper to read JSON
func readJSON(path string, v interface{}) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

func seed(ctx context.Context, db *database.MongodbDB, cfg *config.Config, logger *zap.Logger) error {
	var (
		users     []seedUser
		reports   []seedReport
		feedbacks []seedFeedback
	)
	// Data Paths (Assuming running from repository root)
	if err := readJSON("cmd/seed/data/users.json", &users); err != nil {
		return fmt.Errorf("failed to read users: %w", err)
	}
	if err := readJSON("cmd/seed/data/reports.json", &reports); err != nil {
		return fmt.Errorf("failed to read reports: %w", err)
	}
	if err := readJSON("cmd/seed/data/feedback.json", &feedbacks); err != nil {
		return fmt.Errorf("failed to read feedback: %w", err)
	}

	now := time.Now().UTC()

	// 1. Users
	userIDs := make(map[string]primitive.ObjectID, len(users))
	var officer *seedUser
	for i, u := range users {
		id := primitive.NewObjectID()
		userIDs[u.Key] = id
		_, err := db.Collection(usersCollection).InsertOne(ctx, bson.M{
			"_id":            id,
			"email":          u.Email,
			"name":           u.Name,
			"role":           u.Role,
			"email_verified": u.EmailVerified,
			"created_at":     now,
		})
		if err != nil {
			return fmt.Errorf("failed to insert user %s: %w", u.Email, err)
		}
		if u.Role == utils.RoleAuthority || u.Role == utils.RoleAdmin {
			officer = &users[i]
		}
	}
	logger.Info("Seeded users", zap.Int("count", len(users)))

	// 2. Reports and their description documents
	collections := map[string]string{
		"traffic":    cfg.TrafficCollection,
		"suspicious": cfg.SuspiciousCollection,
	}
	for _, r := range reports {
		coll, ok := collections[r.Collection]
		if !ok {
			logger.Warn("Skipping report with unknown collection", zap.String("collection", r.Collection))
			continue
		}

		doc := bson.M{
			"_id":        primitive.NewObjectID(),
			"type":       r.Type,
			"created_at": now.Add(-time.Duration(r.HoursAgo) * time.Hour),
		}
		if r.Status != "" {
			doc["status"] = r.Status
		}
		if id, ok := userIDs[r.Reporter]; ok {
			doc["reporter"] = incident.Pointer(usersCollection, id)
		}
		if r.Location != nil {
			doc["location"] = r.Location
		}
		if r.LocationLabel != "" {
			doc["location_label"] = r.LocationLabel
		}

		switch {
		case r.InlineDescription != "":
			doc["description"] = incident.Inline(r.InlineDescription)
		case r.Details != nil:
			detailID := primitive.NewObjectID()
			details := bson.M{"_id": detailID}
			for k, v := range r.Details {
				details[k] = v
			}
			if _, err := db.Collection(detailsCollection).InsertOne(ctx, details); err != nil {
				return fmt.Errorf("failed to insert report details: %w", err)
			}
			doc["description"] = incident.Pointer(detailsCollection, detailID)
		}

		if _, err := db.Collection(coll).InsertOne(ctx, doc); err != nil {
			return fmt.Errorf("failed to insert report into %s: %w", coll, err)
		}
	}
	logger.Info("Seeded reports", zap.Int("count", len(reports)))

	// 3. Feedback
	for _, f := range feedbacks {
		doc := bson.M{
			"_id":       primitive.NewObjectID(),
			"rating":    f.Rating,
			"subject":   f.Subject,
			"message":   f.Message,
			"createdAt": now.Add(-time.Duration(f.HoursAgo) * time.Hour),
		}
		if f.Type != "" {
			doc["type"] = f.Type
		}
		if id, ok := userIDs[f.User]; ok {
			doc["userRef"] = incident.Pointer(usersCollection, id)
			for _, u := range users {
				if u.Key == f.User {
					doc["userEmail"] = u.Email
				}
			}
		}
		if _, err := db.Collection(cfg.FeedbackCollection).InsertOne(ctx, doc); err != nil {
			return fmt.Errorf("failed to insert feedback: %w", err)
		}
	}
	logger.Info("Seeded feedback", zap.Int("count", len(feedbacks)))

	// 4. Dev token for the staff account
	if officer != nil {
		utils.SetSecret(cfg.JWTSecret)
		token, err := utils.GenerateToken(userIDs[officer.Key].Hex(), officer.Email, officer.Role, officer.EmailVerified, 72*time.Hour)
		if err != nil {
			return fmt.Errorf("failed to generate token: %w", err)
		}
		fmt.Printf("\nDev token for %s (%s):\n%s\n\n", officer.Email, officer.Role, token)
	}
	return nil
}

// Seed runs the database seeding
func Seed(lc fx.Lifecycle, db *database.MongodbDB, cfg *config.Config, logger *zap.Logger, shutdowner fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				exitCode := 0
				defer func() {
					if err := shutdowner.Shutdown(fx.ExitCode(exitCode)); err != nil {
						logger.Error("Failed to shutdown", zap.Error(err))
					}
				}()

				logger.Info("Starting database seeding from JSON...")
				ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
				defer cancel()

				if err := seed(ctx, db, cfg, logger); err != nil {
					logger.Error("Seeding failed", zap.Error(err))
					exitCode = 1
					return
				}
				logger.Info("Seeding completed")
			}()
			return nil
		},
	})
}

func main() {
	fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			database.NewDatabase,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(Seed),
	).Run()
}
