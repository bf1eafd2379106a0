package controller

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/customer"
	stripesub "github.com/stripe/stripe-go/v74/subscription"
	"github.com/stripe/stripe-go/v74/webhook"

	"offeralert_backend/internal/model"
	"offeralert_backend/pkg/database"
	"offeralert_backend/pkg/email"
	subs "offeralert_backend/pkg/subscription"
	"offeralert_backend/pkg/utils/jwt"
)

type SubscriptionInput struct {
	PlanID string `json:"plan_id" validate:"required"`
}

var statusResolver *subs.Resolver

func InitSubscriptionController(r *subs.Resolver) {
	statusResolver = r
}

func ListPlans(c *fiber.Ctx) error {
	var plans []model.Plan
	if err := database.DB.Order("max_offers asc").Find(&plans).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch subscription plans",
			"code":  "retrieval_error",
		})
	}

	return c.JSON(plans)
}

func Subscribe(c *fiber.Ctx) error {
	input := new(SubscriptionInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	claims := c.Locals("user").(*jwt.Claims)

	var plan model.Plan
	if err := database.DB.First(&plan, "stripe_price_id = ?", input.PlanID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Subscription plan not found",
		})
	}

	var user model.User
	if err := database.DB.First(&user, claims.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	if user.IsFakeAccount {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Demo accounts cannot purchase subscriptions",
		})
	}

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	if user.StripeCustomerID == "" {
		customerParams := &stripe.CustomerParams{
			Email: stripe.String(user.Email),
			Name:  stripe.String(user.DisplayName),
		}

		stripeCustomer, err := customer.New(customerParams)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not create Stripe customer",
			})
		}

		user.StripeCustomerID = stripeCustomer.ID
		if err := database.DB.Model(&user).Update("stripe_customer_id", stripeCustomer.ID).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not save Stripe customer",
			})
		}
	}

	subscriptionParams := &stripe.SubscriptionParams{
		Customer: stripe.String(user.StripeCustomerID),
		Items: []*stripe.SubscriptionItemsParams{
			{
				Price: stripe.String(plan.StripePriceID),
			},
		},
	}

	stripeSubscription, err := stripesub.New(subscriptionParams)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create subscription",
		})
	}

	expiresAt := time.Unix(stripeSubscription.CurrentPeriodEnd, 0).Format(time.RFC3339)

	userSubscription := model.UserSubscription{
		UserID:      claims.UserID,
		PlanID:      plan.ID,
		Status:      "active",
		StripeSubID: stripeSubscription.ID,
		ExpiresAt:   expiresAt,
	}

	if err := database.DB.Create(&userSubscription).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save subscription",
		})
	}

	if email.GlobalEmailService != nil {
		expires, _ := time.Parse(time.RFC3339, userSubscription.ExpiresAt)
		err := email.GlobalEmailService.SendSubscriptionStartedEmail(
			user.Email,
			user.DisplayName,
			plan.Name,
			plan.Duration,
			plan.Price,
			"USD",
			plan.MaxOffers,
			expires,
			false,
		)
		if err != nil {
			log.Printf("Could not send subscription email: %v", err)
		}
	}

	return c.JSON(fiber.Map{
		"message":      "Subscription created successfully",
		"subscription": userSubscription,
	})
}

func CancelSubscription(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var userSub model.UserSubscription
	if err := database.DB.Where("user_id = ? AND status = ?", claims.UserID, "active").
		Preload("User").
		Preload("Plan").
		First(&userSub).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No active subscription found",
		})
	}

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	// Cancel at period end: the tier stays active until the period closes.
	_, err := stripesub.Update(userSub.StripeSubID, &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(true),
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not cancel Stripe subscription",
		})
	}

	userSub.Status = "cancelled"
	if err := database.DB.Save(&userSub).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update subscription status",
		})
	}

	if email.GlobalEmailService != nil {
		expiresAt, _ := time.Parse(time.RFC3339, userSub.ExpiresAt)
		err := email.GlobalEmailService.SendSubscriptionCancelledEmail(
			userSub.User.Email,
			userSub.User.DisplayName,
			userSub.Plan.Name,
			expiresAt,
		)
		if err != nil {
			log.Printf("Could not send subscription cancellation email: %v", err)
		}
	}

	return c.JSON(fiber.Map{
		"message": "Subscription cancelled, your plan stays active until the period ends",
	})
}

// GetMySubscription returns the resolver-backed live status. When the
// billing provider is unreachable, the last-known local subscription row is
// returned instead, flagged so the dashboard can show an error toast.
func GetMySubscription(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	status, err := statusResolver.Resolve(claims.UserID)
	if err != nil {
		if !errors.Is(err, subs.ErrStatusCheck) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}

		cached := fiber.Map{
			"error": "Could not reach the billing provider",
			"code":  "status_check_error",
		}
		var userSub model.UserSubscription
		if err := database.DB.Where("user_id = ? AND status = ?", claims.UserID, "active").
			Preload("Plan").First(&userSub).Error; err == nil {
			cached["cached"] = fiber.Map{
				"tier":       userSub.Plan.Tier,
				"expires_at": userSub.ExpiresAt,
			}
		}
		return c.Status(fiber.StatusBadGateway).JSON(cached)
	}

	return c.JSON(status)
}

func HandleStripeWebhook(c *fiber.Ctx) error {
	webhookSecret := os.Getenv("STRIPE_WEBHOOK_SECRET")

	payload := c.Body()
	signatureHeader := c.Get("Stripe-Signature")

	event, err := webhook.ConstructEvent(payload, signatureHeader, webhookSecret)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook signature",
		})
	}

	log.Printf("Processing Stripe webhook event: %s", event.Type)

	switch event.Type {
	case "customer.subscription.deleted":
		var subData struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(event.Data.Raw, &subData); err != nil {
			return c.Status(fiber.StatusBadRequest).Send(nil)
		}

		log.Printf("Processing subscription deletion: %s", subData.ID)

		var userSub model.UserSubscription
		if err := database.DB.Where("stripe_sub_id = ?", subData.ID).
			Preload("User").
			Preload("Plan").
			First(&userSub).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not find subscription",
			})
		}

		// Back to Starter: the row is kept, only marked expired.
		if err := database.DB.Model(&userSub).Update("status", "expired").Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not update subscription status",
			})
		}

		log.Printf("Subscription %s expired, account is back on the Starter tier", subData.ID)

	case "customer.subscription.updated":
		var subData struct {
			ID               string `json:"id"`
			CurrentPeriodEnd int64  `json:"current_period_end"`
		}
		if err := json.Unmarshal(event.Data.Raw, &subData); err != nil {
			return c.Status(fiber.StatusBadRequest).Send(nil)
		}

		log.Printf("Processing subscription update: %s", subData.ID)

		expiresAt := time.Unix(subData.CurrentPeriodEnd, 0).Format(time.RFC3339)

		if err := database.DB.Model(&model.UserSubscription{}).
			Where("stripe_sub_id = ?", subData.ID).
			Update("expires_at", expiresAt).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not update subscription expiry",
			})
		}

		log.Printf("Subscription %s updated successfully", subData.ID)

	case "invoice.payment_failed":
		var invoiceData struct {
			Subscription string `json:"subscription"`
		}
		if err := json.Unmarshal(event.Data.Raw, &invoiceData); err != nil {
			return c.Status(fiber.StatusBadRequest).Send(nil)
		}

		if invoiceData.Subscription == "" {
			break
		}

		log.Printf("Payment failed for subscription %s", invoiceData.Subscription)

		if err := database.DB.Model(&model.UserSubscription{}).
			Where("stripe_sub_id = ?", invoiceData.Subscription).
			Update("status", "expired").Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not update subscription status",
			})
		}
	}

	return c.SendStatus(fiber.StatusOK)
}
