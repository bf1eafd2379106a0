package main

import (
	"context"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"offeralert_backend/internal/controller"
	"offeralert_backend/internal/middleware"
	"offeralert_backend/internal/model"
	"offeralert_backend/pkg/config"
	"offeralert_backend/pkg/cron"
	"offeralert_backend/pkg/database"
	"offeralert_backend/pkg/email"
	"offeralert_backend/pkg/livesync"
	"offeralert_backend/pkg/redis"
	"offeralert_backend/pkg/seed"
	"offeralert_backend/pkg/subscription"
)

func setupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Auth Routes
	auth := api.Group("/auth")
	auth.Post("/register", controller.Register)
	auth.Post("/login", controller.Login)

	// Public offer directory
	offers := api.Group("/offers")
	offers.Get("/", controller.ListAllPromoCodes)
	offers.Get("/categories", controller.ListCategories)
	offers.Get("/stream", controller.StreamOffers)
	offers.Get("/brand/:brand_slug", controller.ListBrandPromoCodes)
	offers.Post("/:id/click", controller.RecordOfferClick)

	// Public influencer pages
	api.Get("/i/:username", controller.ListInfluencerPromoCodes)
	api.Post("/influencers/:influencer_id/follow", controller.FollowInfluencer)

	// Public brand inquiry form
	api.Post("/influencers/:influencer_id/inquiries", controller.CreateInquiry)

	// Protected Routes
	protected := api.Group("/", middleware.AuthMiddleware())
	protected.Get("/me", controller.GetMe)

	// Protected promo code routes with offer limit checks
	promoCodes := protected.Group("/promo-codes")
	promoCodes.Get("/my", controller.ListMyPromoCodes)
	promoCodes.Get("/usage", controller.GetMyOfferUsage)
	promoCodes.Post("/", middleware.CheckOfferLimit(), controller.CreatePromoCode)
	promoCodes.Put("/:id", middleware.CheckPromoCodeOwnership(), controller.UpdatePromoCode)
	promoCodes.Delete("/:id", middleware.CheckPromoCodeOwnership(), controller.DeletePromoCode)
	promoCodes.Post("/:id/logo", middleware.CheckPromoCodeOwnership(), controller.UploadBrandLogo)

	// Dashboard routes
	dashboard := api.Group("/dashboard", middleware.AuthMiddleware())
	dashboard.Get("/stats", controller.GetDashboardStats)

	// Settings routes
	settings := api.Group("/settings", middleware.AuthMiddleware())
	settings.Get("/profile", controller.GetProfile)
	settings.Put("/profile", controller.UpdateProfile)
	settings.Put("/password", controller.ChangePassword)
	settings.Post("/avatar", controller.UploadAvatar)

	// Protected inquiry routes
	inquiries := protected.Group("/inquiries")
	inquiries.Get("/", controller.GetMyInquiries)
	inquiries.Put("/:id/status", controller.UpdateInquiryStatus)
	inquiries.Put("/:id/read", controller.MarkInquiryAsRead)

	// Follower routes
	protected.Get("/followers", controller.GetMyFollowers)

	// Agency routes
	agency := protected.Group("/agency")
	agency.Post("/influencers", controller.AddManagedInfluencer)
	agency.Get("/influencers", controller.ListManagedInfluencers)
	agency.Delete("/influencers/:influencer_id", controller.RemoveManagedInfluencer)

	// Subscription routes
	subscriptions := api.Group("/subscriptions")
	subscriptions.Get("/plans", controller.ListPlans)

	subProtected := subscriptions.Use(middleware.AuthMiddleware())
	subProtected.Post("/subscribe", controller.Subscribe)
	subProtected.Post("/cancel", controller.CancelSubscription)
	subProtected.Get("/my", controller.GetMySubscription)

	// Stripe webhook
	api.Post("/webhook", controller.HandleStripeWebhook)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	if err := email.InitEmailService(os.Getenv("RESEND_API_KEY")); err != nil {
		log.Fatal("Could not initialize email service:", err)
	}

	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL is not set in .env")
	}

	database.InitDB(cfg.Database.URL)
	err := database.MigrateDatabase(
		&model.User{},
		&model.Plan{},
		&model.UserSubscription{},
		&model.PromoCode{},
		&model.OfferClick{},
		&model.OfferStats{},
		&model.Inquiry{},
		&model.Follower{},
		&model.AgencyInfluencer{},
		&model.LoginHistory{},
	)
	if err != nil {
		log.Printf("Migration warning: %v", err)
	}

	seed.SeedPlans(database.GetDB())
	seed.SeedDemoAccounts(database.GetDB())

	// Live sync: in-process hub fed by redis pub/sub so every instance
	// sees writes made on any other instance.
	redisClient := redis.NewClient(cfg.Redis)
	if err := redisClient.Ping(context.Background()); err != nil {
		log.Fatal("Could not connect to redis:", err)
	}
	defer redisClient.Close()

	hub := livesync.NewHub()
	bridge := livesync.NewBridge(redisClient.GetClient(), hub)
	go bridge.Run(context.Background())

	resolver := subscription.NewResolver(database.GetDB(), subscription.StripeBilling{}, cfg.Features.OfferLimitBypass)
	gate := subscription.NewGate(cfg.Features.OfferLimitBypass)

	middleware.InitAccessControl(resolver, gate)
	controller.InitAuthController()
	controller.InitInquiryController()
	controller.InitPromoCodeController(bridge, resolver, gate)
	controller.InitSubscriptionController(resolver)
	controller.InitStreamController(hub)

	cron.InitSubscriptionExpiryCron()
	cron.InitOfferStatsCron()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New())

	setupRoutes(app)

	log.Printf("Server is running on port %s", cfg.Server.Port)
	log.Fatal(app.Listen(":" + cfg.Server.Port))
}
