package middleware

import (
	"errors"
	"fmt"

	"offeralert_backend/internal/model"
	"offeralert_backend/pkg/database"
	"offeralert_backend/pkg/subscription"
	"offeralert_backend/pkg/utils/jwt"

	"github.com/gofiber/fiber/v2"
)

var (
	resolver *subscription.Resolver
	gate     *subscription.Gate
)

// InitAccessControl wires the resolver and gate built in main into the
// limit-check middleware.
func InitAccessControl(r *subscription.Resolver, g *subscription.Gate) {
	resolver = r
	gate = g
}

// CheckPromoCodeOwnership rejects writes against offers owned by someone else.
func CheckPromoCodeOwnership() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := c.Locals("user").(*jwt.Claims)
		promoCodeID := c.Params("id")

		var promoCode model.PromoCode
		if err := database.GetDB().First(&promoCode, promoCodeID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Promo code not found",
			})
		}

		if promoCode.UserID != claims.UserID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "You don't have permission to access this promo code",
			})
		}

		return c.Next()
	}
}

// CheckOfferLimit gates offer creation on the caller's tier. This check is
// advisory; CreatePromoCode re-counts inside its transaction, which is the
// authoritative guard against concurrent creates.
func CheckOfferLimit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := c.Locals("user").(*jwt.Claims)

		status, err := resolver.Resolve(claims.UserID)
		if err != nil {
			if errors.Is(err, subscription.ErrStatusCheck) {
				return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
					"error": "Could not verify your subscription. Please try again.",
					"code":  "status_check_error",
				})
			}
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}

		var offerCount int64
		if err := database.GetDB().Model(&model.PromoCode{}).
			Where("user_id = ?", claims.UserID).
			Count(&offerCount).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not count your offers",
				"code":  "retrieval_error",
			})
		}

		decision := gate.CanCreateOffer(int(offerCount), status)
		if !decision.Allowed {
			resp := fiber.Map{
				"error":         "You have reached your offer limit. Please upgrade your plan.",
				"code":          decision.Reason,
				"current_count": offerCount,
				"max_offers":    subscription.GetTierLimits(status.Tier).MaxOffers,
			}
			if decision.NextTier != "" {
				limits := subscription.GetTierLimits(decision.NextTier)
				resp["next_tier"] = decision.NextTier
				resp["upgrade_message"] = fmt.Sprintf("Upgrade to %s (%s) for more offers.",
					decision.NextTier, limits.DisplayPrice)
			}
			return c.Status(fiber.StatusForbidden).JSON(resp)
		}

		return c.Next()
	}
}
