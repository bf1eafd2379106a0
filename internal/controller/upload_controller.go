package controller

import (
	"log"
	"strings"

	"offeralert_backend/internal/model"
	"offeralert_backend/pkg/database"
	"offeralert_backend/pkg/livesync"
	"offeralert_backend/pkg/utils/cloudflare"
	"offeralert_backend/pkg/utils/image"
	"offeralert_backend/pkg/utils/jwt"
	"offeralert_backend/pkg/utils/validation"

	"github.com/gofiber/fiber/v2"
)

// UploadBrandLogo attaches a logo image to one of the caller's promo codes.
func UploadBrandLogo(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	promoCodeID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid promo code ID",
		})
	}

	var promoCode model.PromoCode
	if err := database.GetDB().
		Where("id = ? AND user_id = ?", promoCodeID, claims.UserID).
		First(&promoCode).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Promo code not found",
		})
	}

	var user model.User
	if err := database.GetDB().First(&user, claims.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	file, err := c.FormFile("logo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file uploaded",
		})
	}

	if err := validation.ValidateImage(file); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	processed, contentType, err := image.ProcessImage(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to process image",
		})
	}

	if promoCode.BrandLogo != "" {
		if err := cloudflare.DeleteImage(promoCode.BrandLogo); err != nil {
			log.Printf("Failed to delete old brand logo: %v", err)
		}
	}

	result, err := cloudflare.UploadBrandLogo(cloudflare.UploadLogoConfig{
		Data:        processed,
		ContentType: contentType,
		Ext:         "." + strings.TrimPrefix(contentType, "image/"),
		Username:    user.Username,
		BrandName:   promoCode.BrandName,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to upload logo",
		})
	}

	promoCode.BrandLogo = result.URL
	if err := database.GetDB().Save(&promoCode).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update promo code",
		})
	}

	publishOfferEvent(livesync.Update, promoCode)

	return c.JSON(fiber.Map{
		"message": "Logo uploaded successfully",
		"logo":    result.URL,
	})
}
