package controller

import (
	"crypto/rand"
	"encoding/hex"

	"offeralert_backend/internal/model"
	"offeralert_backend/pkg/database"
	"offeralert_backend/pkg/utils/jwt"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type AddManagedInfluencerInput struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"display_name" validate:"required"`
}

func generateTempPassword() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// AddManagedInfluencer creates an influencer account under the agency's
// management with a temporary password.
func AddManagedInfluencer(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	input := new(AddManagedInfluencerInput)

	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var existing model.User
	if err := database.GetDB().Where("email = ?", input.Email).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email already exists",
		})
	}

	tempPassword, err := generateTempPassword()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not generate password",
		})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not hash password",
		})
	}

	influencer := model.User{
		Email:       input.Email,
		Password:    string(hashed),
		Username:    generateUsername(input.DisplayName),
		DisplayName: input.DisplayName,
	}

	tx := database.GetDB().Begin()

	if err := tx.Create(&influencer).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create influencer account",
		})
	}

	link := model.AgencyInfluencer{
		AgencyID:     claims.UserID,
		InfluencerID: influencer.ID,
		Managed:      true,
		TempPassword: string(hashed),
	}

	if err := tx.Create(&link).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not link influencer to agency",
		})
	}

	if err := tx.Commit().Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not complete influencer creation",
		})
	}

	// The temp password is returned once; it is only stored hashed.
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"influencer":    influencer.GetPublicProfile(),
		"temp_password": tempPassword,
	})
}

// ListManagedInfluencers lists the agency's managed accounts.
func ListManagedInfluencers(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var links []model.AgencyInfluencer
	if err := database.GetDB().
		Where("agency_id = ? AND managed = ?", claims.UserID, true).
		Preload("Influencer").
		Find(&links).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch managed influencers",
			"code":  "retrieval_error",
		})
	}

	result := make([]fiber.Map, 0, len(links))
	for _, link := range links {
		result = append(result, fiber.Map{
			"id":         link.ID,
			"influencer": link.Influencer.GetPublicProfile(),
			"managed":    link.Managed,
			"since":      link.CreatedAt,
		})
	}

	return c.JSON(result)
}

// RemoveManagedInfluencer releases an influencer from agency management.
// The influencer account itself is kept.
func RemoveManagedInfluencer(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	influencerID := c.Params("influencer_id")

	var link model.AgencyInfluencer
	if err := database.GetDB().
		Where("agency_id = ? AND influencer_id = ?", claims.UserID, influencerID).
		First(&link).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Managed influencer not found",
		})
	}

	if err := database.GetDB().Delete(&link).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not remove managed influencer",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
