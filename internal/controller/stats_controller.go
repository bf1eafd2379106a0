package controller

import (
	"time"

	"offeralert_backend/internal/model"
	"offeralert_backend/pkg/database"
	"offeralert_backend/pkg/utils/jwt"

	"github.com/gofiber/fiber/v2"
)

// DashboardStats aggregates an influencer's dashboard numbers.
type DashboardStats struct {
	TotalOffers   int64          `json:"total_offers"`
	ActiveOffers  int64          `json:"active_offers"`
	TotalClicks   int64          `json:"total_clicks"`
	TopOffers     []TopOffer     `json:"top_offers"`
	DailyStats    []DailyStat    `json:"daily_stats"`
	CategoryStats []CategoryStat `json:"category_stats"`
}

type TopOffer struct {
	ID        uint   `json:"id"`
	BrandName string `json:"brand_name"`
	Code      string `json:"code"`
	Category  string `json:"category"`
	Clicks    int64  `json:"clicks"`
}

type DailyStat struct {
	Date      string `json:"date"`
	Clicks    int64  `json:"clicks"`
	NewOffers int64  `json:"new_offers"`
}

type CategoryStat struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
	Clicks   int64  `json:"clicks"`
}

// GetDashboardStats returns the influencer dashboard aggregates.
func GetDashboardStats(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	db := database.GetDB()

	var stats DashboardStats

	db.Model(&model.PromoCode{}).
		Where("user_id = ?", claims.UserID).
		Count(&stats.TotalOffers)

	db.Model(&model.PromoCode{}).
		Where("user_id = ? AND (expiration_date IS NULL OR expiration_date >= ?)",
			claims.UserID, time.Now().Format("2006-01-02")).
		Count(&stats.ActiveOffers)

	db.Model(&model.OfferClick{}).
		Joins("JOIN promo_codes ON offer_clicks.promo_code_id = promo_codes.id").
		Where("promo_codes.user_id = ?", claims.UserID).
		Count(&stats.TotalClicks)

	// Five most clicked offers
	db.Table("promo_codes").
		Select("promo_codes.id, promo_codes.brand_name, promo_codes.code, promo_codes.category, COUNT(offer_clicks.id) as clicks").
		Joins("LEFT JOIN offer_clicks ON promo_codes.id = offer_clicks.promo_code_id").
		Where("promo_codes.user_id = ? AND promo_codes.deleted_at IS NULL", claims.UserID).
		Group("promo_codes.id").
		Order("clicks desc").
		Limit(5).
		Scan(&stats.TopOffers)

	// Last 7 days
	for i := 6; i >= 0; i-- {
		day := time.Now().AddDate(0, 0, -i)
		dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		dayEnd := dayStart.Add(24 * time.Hour)

		var daily DailyStat
		daily.Date = dayStart.Format("2006-01-02")

		db.Model(&model.OfferClick{}).
			Joins("JOIN promo_codes ON offer_clicks.promo_code_id = promo_codes.id").
			Where("promo_codes.user_id = ? AND offer_clicks.clicked_at >= ? AND offer_clicks.clicked_at < ?",
				claims.UserID, dayStart, dayEnd).
			Count(&daily.Clicks)

		db.Model(&model.PromoCode{}).
			Where("user_id = ? AND created_at >= ? AND created_at < ?", claims.UserID, dayStart, dayEnd).
			Count(&daily.NewOffers)

		stats.DailyStats = append(stats.DailyStats, daily)
	}

	db.Table("promo_codes").
		Select("promo_codes.category, COUNT(DISTINCT promo_codes.id) as count, COUNT(offer_clicks.id) as clicks").
		Joins("LEFT JOIN offer_clicks ON promo_codes.id = offer_clicks.promo_code_id").
		Where("promo_codes.user_id = ? AND promo_codes.deleted_at IS NULL", claims.UserID).
		Group("promo_codes.category").
		Scan(&stats.CategoryStats)

	return c.JSON(stats)
}

// RecordOfferClick counts an affiliate-link click and returns the link to
// redirect to. Repeat clicks from one IP within 24h count as non-unique.
func RecordOfferClick(c *fiber.Ctx) error {
	id := c.Params("id")

	var promoCode model.PromoCode
	if err := database.GetDB().First(&promoCode, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Promo code not found",
		})
	}

	click := model.OfferClick{
		PromoCodeID: promoCode.ID,
		IP:          c.IP(),
		SessionID:   c.Get("X-Session-ID"),
		UserAgent:   c.Get("User-Agent"),
		ClickedAt:   time.Now(),
	}

	if claims, ok := c.Locals("user").(*jwt.Claims); ok {
		click.UserID = &claims.UserID
	}

	if err := database.GetDB().Create(&click).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not record click",
		})
	}

	return c.JSON(fiber.Map{
		"affiliate_link": promoCode.AffiliateLink,
	})
}
