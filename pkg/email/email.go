// pkg/email/email.go
package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"time"
)

type EmailService struct {
	apiKey    string
	from      string
	templates *template.Template
}

type EmailData struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Html    string `json:"html"`
}

// Template data structures
type WelcomeEmailData struct {
	Name string
}

type NewOfferAlertData struct {
	FollowerName   string
	InfluencerName string
	BrandName      string
	Code           string
	Description    string
}

type InquiryNotificationData struct {
	InfluencerName string
	BrandName      string
	ContactName    string
	ContactEmail   string
	Message        string
}

type SubscriptionEmailData struct {
	DisplayName string
	PlanName    string
	Duration    int
	Price       float64
	Currency    string
	MaxOffers   int
	ExpiresAt   time.Time
	IsRenewal   bool
}

type SubscriptionCancelledData struct {
	DisplayName string
	PlanName    string
	ExpiresAt   time.Time
}

type SubscriptionExpiryWarningData struct {
	DisplayName string
	PlanName    string
	DaysLeft    int
	ExpiryDate  time.Time
}

func NewEmailService(apiKey string) (*EmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("error loading email templates: %v", err)
	}

	return &EmailService{
		apiKey:    apiKey,
		from:      "Offer Alert <noreply@offeralert.io>",
		templates: templates,
	}, nil
}

func (s *EmailService) sendTemplateEmail(to, subject, templateName string, data interface{}) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return fmt.Errorf("template execution error: %v", err)
	}

	emailData := EmailData{
		From:    s.from,
		To:      to,
		Subject: subject,
		Html:    body.String(),
	}

	jsonData, err := json.Marshal(emailData)
	if err != nil {
		return fmt.Errorf("error marshaling email data: %v", err)
	}

	req, err := http.NewRequest("POST", "https://api.resend.com/emails", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("error creating request: %v", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error sending email: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("resend API error: %s", string(respBody))
	}

	log.Printf("Sent %q to %s", subject, to)
	return nil
}

// Email sending methods
func (s *EmailService) SendWelcomeEmail(email, name string) error {
	data := WelcomeEmailData{
		Name: name,
	}
	return s.sendTemplateEmail(email, "Welcome to Offer Alert! 🎉", "welcome.html", data)
}

func (s *EmailService) SendNewOfferAlert(
	followerEmail, followerName, influencerName, brandName, code, description string,
) error {
	data := NewOfferAlertData{
		FollowerName:   followerName,
		InfluencerName: influencerName,
		BrandName:      brandName,
		Code:           code,
		Description:    description,
	}
	subject := fmt.Sprintf("%s just shared a new %s offer! 🏷️", influencerName, brandName)
	return s.sendTemplateEmail(followerEmail, subject, "new_offer_alert.html", data)
}

func (s *EmailService) SendInquiryNotificationEmail(
	influencerEmail, influencerName, brandName, contactName, contactEmail, message string,
) error {
	data := InquiryNotificationData{
		InfluencerName: influencerName,
		BrandName:      brandName,
		ContactName:    contactName,
		ContactEmail:   contactEmail,
		Message:        message,
	}
	return s.sendTemplateEmail(influencerEmail, "New Brand Inquiry! 📋", "inquiry_notification.html", data)
}

func (s *EmailService) SendSubscriptionStartedEmail(
	email string,
	displayName string,
	planName string,
	duration int,
	price float64,
	currency string,
	maxOffers int,
	expiresAt time.Time,
	isRenewal bool,
) error {
	data := SubscriptionEmailData{
		DisplayName: displayName,
		PlanName:    planName,
		Duration:    duration,
		Price:       price,
		Currency:    currency,
		MaxOffers:   maxOffers,
		ExpiresAt:   expiresAt,
		IsRenewal:   isRenewal,
	}

	subject := "Welcome to Offer Alert Premium! 🎉"
	if isRenewal {
		subject = "Your Offer Alert Subscription Has Been Renewed 🔄"
	}

	return s.sendTemplateEmail(email, subject, "subscription_started.html", data)
}

func (s *EmailService) SendSubscriptionCancelledEmail(email, displayName, planName string, expiresAt time.Time) error {
	data := SubscriptionCancelledData{
		DisplayName: displayName,
		PlanName:    planName,
		ExpiresAt:   expiresAt,
	}
	return s.sendTemplateEmail(email, "Your Subscription Has Been Cancelled", "subscription_cancelled.html", data)
}

func (s *EmailService) SendSubscriptionExpiryWarning(
	email, displayName, planName string,
	expiryDate time.Time,
	daysLeft int,
) error {
	data := SubscriptionExpiryWarningData{
		DisplayName: displayName,
		PlanName:    planName,
		DaysLeft:    daysLeft,
		ExpiryDate:  expiryDate,
	}
	return s.sendTemplateEmail(
		email,
		fmt.Sprintf("Your Subscription Expires in %d Days ⚠️", daysLeft),
		"subscription_expiry_warning.html",
		data,
	)
}
