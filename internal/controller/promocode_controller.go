package controller

import (
	"context"
	"log"
	"time"

	"offeralert_backend/internal/model"
	"offeralert_backend/pkg/database"
	"offeralert_backend/pkg/email"
	"offeralert_backend/pkg/livesync"
	"offeralert_backend/pkg/subscription"
	"offeralert_backend/pkg/utils/jwt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	offerBridge   *livesync.Bridge
	offerResolver *subscription.Resolver
	offerGate     *subscription.Gate
)

// InitPromoCodeController wires the live-sync bridge and the limit gate
// built in main.
func InitPromoCodeController(bridge *livesync.Bridge, r *subscription.Resolver, g *subscription.Gate) {
	offerBridge = bridge
	offerResolver = r
	offerGate = g
}

type PromoCodeInput struct {
	BrandName      string              `json:"brand_name" validate:"required"`
	Code           string              `json:"code" validate:"required"`
	Description    string              `json:"description"`
	Category       model.OfferCategory `json:"category" validate:"required"`
	AffiliateLink  string              `json:"affiliate_link"`
	BrandLogo      string              `json:"brand_logo"`
	ExpirationDate string              `json:"expiration_date"` // YYYY-MM-DD, optional
}

func (in *PromoCodeInput) expiration() (*datatypes.Date, error) {
	if in.ExpirationDate == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", in.ExpirationDate)
	if err != nil {
		return nil, err
	}
	date := datatypes.Date(parsed)
	return &date, nil
}

func publishOfferEvent(kind livesync.ChangeKind, record model.PromoCode) {
	if offerBridge == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := offerBridge.Publish(ctx, livesync.Event{Kind: kind, Record: record}); err != nil {
		log.Printf("Could not publish %s event for promo code %d: %v", kind, record.ID, err)
	}
}

// CreatePromoCode creates a new offer. The offer-limit middleware has
// already approved the request, but that check races against concurrent
// creates, so the count is repeated here while holding a row lock on the
// owner.
func CreatePromoCode(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	input := new(PromoCodeInput)

	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if !model.IsValidCategory(input.Category) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown category",
		})
	}

	expiration, err := input.expiration()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid expiration date, expected YYYY-MM-DD",
		})
	}

	promoCode := model.PromoCode{
		UserID:         claims.UserID,
		BrandName:      input.BrandName,
		Code:           input.Code,
		Description:    input.Description,
		Category:       input.Category,
		AffiliateLink:  input.AffiliateLink,
		BrandLogo:      input.BrandLogo,
		ExpirationDate: expiration,
	}

	tx := database.GetDB().Begin()

	var owner model.User
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&owner, claims.UserID).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	status, err := offerResolver.ResolveUser(&owner)
	if err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Could not verify your subscription. Please try again.",
			"code":  "status_check_error",
		})
	}

	var offerCount int64
	if err := tx.Model(&model.PromoCode{}).
		Where("user_id = ?", claims.UserID).
		Count(&offerCount).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not count your offers",
			"code":  "retrieval_error",
		})
	}

	if decision := offerGate.CanCreateOffer(int(offerCount), status); !decision.Allowed {
		tx.Rollback()
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":     "You have reached your offer limit. Please upgrade your plan.",
			"code":      decision.Reason,
			"next_tier": decision.NextTier,
		})
	}

	if err := tx.Create(&promoCode).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create promo code",
		})
	}

	if err := tx.Commit().Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not complete the promo code creation",
		})
	}

	publishOfferEvent(livesync.Insert, promoCode)
	go notifyFollowers(owner, promoCode)

	return c.Status(fiber.StatusCreated).JSON(promoCode)
}

// notifyFollowers emails everyone subscribed to this influencer's alerts.
func notifyFollowers(owner model.User, promoCode model.PromoCode) {
	if email.GlobalEmailService == nil {
		return
	}

	var followers []model.Follower
	if err := database.GetDB().Where("influencer_id = ?", owner.ID).Find(&followers).Error; err != nil {
		log.Printf("Could not fetch followers for offer alert: %v", err)
		return
	}

	for _, follower := range followers {
		err := email.GlobalEmailService.SendNewOfferAlert(
			follower.Email,
			follower.Name,
			owner.DisplayName,
			promoCode.BrandName,
			promoCode.Code,
			promoCode.Description,
		)
		if err != nil {
			log.Printf("Could not send offer alert to %s: %v", follower.Email, err)
		}
	}
}

// UpdatePromoCode edits an offer owned by the caller.
func UpdatePromoCode(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	id := c.Params("id")
	input := new(PromoCodeInput)

	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if !model.IsValidCategory(input.Category) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown category",
		})
	}

	expiration, err := input.expiration()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid expiration date, expected YYYY-MM-DD",
		})
	}

	var promoCode model.PromoCode
	if err := database.GetDB().First(&promoCode, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Promo code not found",
		})
	}

	if promoCode.UserID != claims.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Not authorized to update this promo code",
		})
	}

	promoCode.BrandName = input.BrandName
	promoCode.Code = input.Code
	promoCode.Description = input.Description
	promoCode.Category = input.Category
	promoCode.AffiliateLink = input.AffiliateLink
	promoCode.BrandLogo = input.BrandLogo
	promoCode.ExpirationDate = expiration

	if err := database.GetDB().Save(&promoCode).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update promo code",
		})
	}

	publishOfferEvent(livesync.Update, promoCode)

	return c.JSON(promoCode)
}

// DeletePromoCode removes an offer owned by the caller.
func DeletePromoCode(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	id := c.Params("id")

	var promoCode model.PromoCode
	if err := database.GetDB().First(&promoCode, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Promo code not found",
		})
	}

	if promoCode.UserID != claims.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Not authorized to delete this promo code",
		})
	}

	if err := database.GetDB().Delete(&promoCode).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete promo code",
		})
	}

	publishOfferEvent(livesync.Delete, promoCode)

	return c.SendStatus(fiber.StatusNoContent)
}

// ListAllPromoCodes is the public feed, newest first, optionally filtered
// by category.
func ListAllPromoCodes(c *fiber.Ctx) error {
	query := database.GetDB().Model(&model.PromoCode{}).Order("created_at desc")

	if category := c.Query("category"); category != "" {
		if !model.IsValidCategory(model.OfferCategory(category)) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unknown category",
			})
		}
		query = query.Where("category = ?", category)
	}

	var promoCodes []model.PromoCode
	if err := query.Find(&promoCodes).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch promo codes",
			"code":  "retrieval_error",
		})
	}

	return c.JSON(promoCodes)
}

// ListMyPromoCodes lists the caller's own offers, newest first.
func ListMyPromoCodes(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var promoCodes []model.PromoCode
	if err := database.GetDB().Where("user_id = ?", claims.UserID).
		Order("created_at desc").
		Find(&promoCodes).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch promo codes",
			"code":  "retrieval_error",
		})
	}

	return c.JSON(promoCodes)
}

// ListInfluencerPromoCodes lists a public profile's offers by username.
func ListInfluencerPromoCodes(c *fiber.Ctx) error {
	username := c.Params("username")

	var user model.User
	if err := database.GetDB().Where("username = ?", username).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Influencer not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch influencer",
		})
	}

	var promoCodes []model.PromoCode
	if err := database.GetDB().Where("user_id = ?", user.ID).
		Order("created_at desc").
		Find(&promoCodes).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch promo codes",
			"code":  "retrieval_error",
		})
	}

	return c.JSON(fiber.Map{
		"influencer":  user.GetPublicProfile(),
		"promo_codes": promoCodes,
	})
}

// ListBrandPromoCodes lists every influencer's offers for one brand.
func ListBrandPromoCodes(c *fiber.Ctx) error {
	brandSlug := c.Params("brand_slug")

	var promoCodes []model.PromoCode
	if err := database.GetDB().Where("brand_slug = ?", brandSlug).
		Order("created_at desc").
		Find(&promoCodes).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch promo codes",
			"code":  "retrieval_error",
		})
	}

	return c.JSON(promoCodes)
}

// ListCategories serves the fixed category list for offer forms.
func ListCategories(c *fiber.Ctx) error {
	return c.JSON(model.OfferCategories)
}

// GetMyOfferUsage reports the caller's count against their tier limit.
func GetMyOfferUsage(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	status, err := offerResolver.Resolve(claims.UserID)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Could not verify your subscription",
			"code":  "status_check_error",
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

	limits := subscription.GetTierLimits(status.Tier)
	decision := offerGate.CanCreateOffer(int(offerCount), status)

	return c.JSON(fiber.Map{
		"tier":          status.Tier,
		"is_exempt":     status.IsExempt,
		"offer_count":   offerCount,
		"max_offers":    limits.MaxOffers,
		"can_create":    decision.Allowed,
		"next_tier":     decision.NextTier,
		"display_price": limits.DisplayPrice,
	})
}
