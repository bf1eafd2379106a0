package controller

import (
	"log"
	"strconv"
	"time"

	"offeralert_backend/internal/model"
	"offeralert_backend/pkg/database"
	"offeralert_backend/pkg/email"
	"offeralert_backend/pkg/utils/jwt"

	"github.com/gofiber/fiber/v2"
)

type InquiryInput struct {
	BrandName   string `json:"brand_name" validate:"required"`
	ContactName string `json:"contact_name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Message     string `json:"message"`
	PromoCodeID *uint  `json:"promo_code_id"`
}

func InitInquiryController() {}

// CreateInquiry lets a brand contact an influencer about a collaboration.
func CreateInquiry(c *fiber.Ctx) error {
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

	input := new(InquiryInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	inquiry := model.Inquiry{
		InfluencerID: uint(influencerID),
		PromoCodeID:  input.PromoCodeID,
		BrandName:    input.BrandName,
		ContactName:  input.ContactName,
		Email:        input.Email,
		Message:      input.Message,
		Status:       "new",
	}

	if err := database.GetDB().Create(&inquiry).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create inquiry",
		})
	}

	if email.GlobalEmailService != nil {
		err := email.GlobalEmailService.SendInquiryNotificationEmail(
			influencer.Email,
			influencer.DisplayName,
			input.BrandName,
			input.ContactName,
			input.Email,
			input.Message,
		)
		if err != nil {
			log.Printf("Could not send inquiry notification email: %v", err)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Your inquiry has been sent. The influencer will contact you soon.",
	})
}

func GetMyInquiries(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var inquiries []model.Inquiry
	query := database.GetDB().
		Where("influencer_id = ?", claims.UserID).
		Preload("PromoCode")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if readStatus := c.Query("read"); readStatus != "" {
		query = query.Where("read_status = ?", readStatus == "true")
	}

	if sortBy := c.Query("sort"); sortBy != "" {
		query = query.Order(sortBy)
	} else {
		query = query.Order("created_at desc")
	}

	if err := query.Find(&inquiries).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch inquiries",
			"code":  "retrieval_error",
		})
	}

	return c.JSON(inquiries)
}

func UpdateInquiryStatus(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	inquiryID := c.Params("id")

	var inquiry model.Inquiry
	if err := database.GetDB().First(&inquiry, inquiryID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Inquiry not found",
		})
	}

	if inquiry.InfluencerID != claims.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Not authorized to update this inquiry",
		})
	}

	var input struct {
		Status string `json:"status" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	switch input.Status {
	case "new", "contacted", "closed":
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown status",
		})
	}

	updates := map[string]interface{}{"status": input.Status}
	if input.Status == "contacted" && inquiry.ContactedAt == nil {
		now := time.Now()
		updates["contacted_at"] = now
	}

	if err := database.GetDB().Model(&inquiry).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update inquiry",
		})
	}

	return c.JSON(inquiry)
}

func MarkInquiryAsRead(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	inquiryID := c.Params("id")

	var inquiry model.Inquiry
	if err := database.GetDB().First(&inquiry, inquiryID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Inquiry not found",
		})
	}

	if inquiry.InfluencerID != claims.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Not authorized to update this inquiry",
		})
	}

	if err := database.GetDB().Model(&inquiry).Update("read_status", true).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update inquiry",
		})
	}

	return c.JSON(inquiry)
}
