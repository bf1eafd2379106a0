package controller

import (
	"net/mail"
	"strconv"
	"strings"

	"offeralert_backend/internal/model"
	"offeralert_backend/pkg/database"
	"offeralert_backend/pkg/utils/jwt"

	"github.com/gofiber/fiber/v2"
)

type FollowInput struct {
	Name  string `json:"name"`
	Email string `json:"email" validate:"required,email"`
}

const (
	SourceOfferPage   = "Offer Page"
	SourceProfilePage = "Profile Page"
)

func determineFollowSource(c *fiber.Ctx) string {
	referer := c.Get("Referer")
	pathParts := strings.Split(referer, "/")

	// Offer pages live under /offers/...
	if len(pathParts) >= 2 && pathParts[1] == "offers" {
		return SourceOfferPage
	}
	return SourceProfilePage
}

// FollowInfluencer signs a reader up for an influencer's new-offer alerts.
func FollowInfluencer(c *fiber.Ctx) error {
	influencerIDStr := c.Params("influencer_id")
	influencerID, err := strconv.ParseUint(influencerIDStr, 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid influencer ID",
		})
	}

	var influencer model.User
	if err := database.DB.First(&influencer, influencerID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Influencer not found",
		})
	}

	var input FollowInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input format",
		})
	}

	if _, err := mail.ParseAddress(input.Email); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid email format",
		})
	}

	// One signup per email per influencer
	var existing model.Follower
	if err := database.GetDB().
		Where("influencer_id = ? AND email = ?", influencerID, input.Email).
		First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "You already follow this influencer",
		})
	}

	follower := model.Follower{
		InfluencerID: uint(influencerID),
		Name:         input.Name,
		Email:        input.Email,
		Source:       determineFollowSource(c),
	}

	if err := database.GetDB().Create(&follower).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save follower",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "You will now get alerts for new offers",
	})
}

// GetMyFollowers lists the caller's followers.
func GetMyFollowers(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var followers []model.Follower
	if err := database.GetDB().
		Where("influencer_id = ?", claims.UserID).
		Order("subscribed_at desc").
		Find(&followers).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch followers",
			"code":  "retrieval_error",
		})
	}

	return c.JSON(followers)
}
