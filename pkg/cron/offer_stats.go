package cron

import (
	"log"
	"time"

	"offeralert_backend/internal/model"
	"offeralert_backend/pkg/database"

	"github.com/robfig/cron/v3"
)

func InitOfferStatsCron() {
	c := cron.New()

	// Rolling counters reset at midnight; weekly on Monday, monthly on the 1st.
	_, err := c.AddFunc("0 0 * * *", func() {
		resetOfferCounters("daily_clicks", "last_daily_reset")
	})

	_, err = c.AddFunc("0 0 * * 1", func() {
		resetOfferCounters("weekly_clicks", "last_weekly_reset")
	})

	_, err = c.AddFunc("0 0 1 * *", func() {
		resetOfferCounters("monthly_clicks", "last_monthly_reset")
	})

	if err != nil {
		log.Printf("Could not initialize offer stats cron: %v", err)
		return
	}

	c.Start()
}

func resetOfferCounters(counterColumn, resetColumn string) {
	log.Printf("Resetting %s on offer stats...", counterColumn)

	err := database.GetDB().Model(&model.OfferStats{}).
		Where(counterColumn + " > 0").
		Updates(map[string]interface{}{
			counterColumn: 0,
			resetColumn:   time.Now(),
		}).Error

	if err != nil {
		log.Printf("Error resetting %s: %v", counterColumn, err)
	}
}
