package cron

import (
	"context"
	"log"
	"time"

	"distro-go/internal/config"
	"distro-go/internal/database"
	"distro-go/internal/models"

	"github.com/go-co-op/gocron"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var scheduler *gocron.Scheduler

// Start launches the background scheduler. Jobs only run when CRON_ENABLED
// is set, so a fleet of instances does not roll targets over repeatedly.
func Start() {
	if !config.Cfg.Cron.Enabled {
		log.Println("[Cron] Disabled")
		return
	}

	scheduler = gocron.NewScheduler(time.UTC)

	// First of every month, shortly after midnight.
	scheduler.Cron("5 0 1 * *").Do(RolloverTargets)

	scheduler.StartAsync()
	log.Println("✓ Cron scheduler started")
}

// Stop halts the scheduler.
func Stop() {
	if scheduler != nil {
		scheduler.Stop()
	}
}

// RolloverTargets seeds the new month's target document for every active
// seller, carrying last month's target forward with a fresh achievement.
func RolloverTargets() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	now := time.Now()
	month := now.Format("January")
	lastMonth := now.AddDate(0, -1, 0).Format("January")

	users := database.GetMongoCollection(models.ColUsers)
	cursor, err := users.Find(ctx, bson.M{"job_type": models.JobSeller, "is_active": true})
	if err != nil {
		log.Printf("[Cron] Target rollover failed to list sellers: %v", err)
		return
	}
	defer cursor.Close(ctx)

	var sellers []models.User
	if err := cursor.All(ctx, &sellers); err != nil {
		log.Printf("[Cron] Target rollover failed to decode sellers: %v", err)
		return
	}

	targets := database.GetMongoCollection(models.ColEmployeeTargets)
	rolled := 0
	for _, seller := range sellers {
		target := float64(models.DefaultMonthlyTarget)

		var previous models.EmployeeTarget
		err := targets.FindOne(ctx, bson.M{
			"employee_no": seller.EmployeeNo,
			"month":       lastMonth,
		}).Decode(&previous)
		if err == nil && previous.Target > 0 {
			target = previous.Target
		}

		_, err = targets.UpdateOne(ctx,
			bson.M{"employee_no": seller.EmployeeNo, "month": month},
			bson.M{"$setOnInsert": bson.M{
				"target":      target,
				"achievement": 0.0,
				"system_date": now.Format("2006-01-02"),
			}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			log.Printf("[Cron] Target rollover failed for %s: %v", seller.EmployeeNo, err)
			continue
		}
		rolled++
	}

	log.Printf("[Cron] Target rollover done for %s: %d sellers", month, rolled)
}
