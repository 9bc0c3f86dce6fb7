// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/storyweave/storyweave-backend/internal/config"
	"github.com/storyweave/storyweave-backend/internal/models"
	"github.com/storyweave/storyweave-backend/internal/utils"
)

// NotificationService writes in-app notifications keyed by wallet address
// and mirrors the important ones to email. Notification failures never fail
// the ledger operation that triggered them.
type NotificationService struct {
	db     *gorm.DB
	config *config.Config
}

type emailTemplate struct {
	Subject string
	Body    string
}

func NewNotificationService(db *gorm.DB, config *config.Config) *NotificationService {
	return &NotificationService{
		db:     db,
		config: config,
	}
}

// NotifyContributionSubmitted tells the asset creator a contribution is
// waiting for review.
func (s *NotificationService) NotifyContributionSubmitted(asset *models.Asset, contribution *models.Contribution) error {
	notification := &models.Notification{
		RecipientAddress: asset.CreatorAddress,
		Type:             "contribution_submitted",
		Title:            "New contribution awaiting review",
		Message:          fmt.Sprintf("%s submitted '%s' to your asset '%s'", contribution.ContributorAddress, contribution.Title, asset.Name),
		RelatedResource:  &contribution.ID,
	}

	if err := s.db.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	s.emailByWallet(asset.CreatorAddress, notification.Title, "contribution_submitted", map[string]interface{}{
		"AssetName":   asset.Name,
		"Title":       contribution.Title,
		"Contributor": contribution.ContributorAddress,
		"ReviewURL":   fmt.Sprintf("%s/assets/%s/contributions", s.config.Frontend.BaseURL, asset.ID),
	})

	return nil
}

// NotifyContributionDecided tells the contributor how their submission was
// decided.
func (s *NotificationService) NotifyContributionDecided(asset *models.Asset, contribution *models.Contribution) error {
	var title, message, tmpl string
	if contribution.Status == models.ContributionStatusApproved {
		pct := 0.0
		if contribution.RoyaltyPercentage != nil {
			pct = *contribution.RoyaltyPercentage
		}
		title = "Contribution approved"
		message = fmt.Sprintf("'%s' was approved with a %.2f%% royalty share of '%s'", contribution.Title, pct, asset.Name)
		tmpl = "contribution_approved"
	} else {
		title = "Contribution rejected"
		message = fmt.Sprintf("'%s' was not accepted into '%s'", contribution.Title, asset.Name)
		tmpl = "contribution_rejected"
	}

	notification := &models.Notification{
		RecipientAddress: contribution.ContributorAddress,
		Type:             tmpl,
		Title:            title,
		Message:          message,
		RelatedResource:  &contribution.ID,
	}

	if err := s.db.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	s.emailByWallet(contribution.ContributorAddress, title, tmpl, map[string]interface{}{
		"AssetName": asset.Name,
		"Title":     contribution.Title,
		"AssetURL":  fmt.Sprintf("%s/assets/%s", s.config.Frontend.BaseURL, asset.ID),
	})

	return nil
}

// NotifyDistribution tells every recipient of a distribution run their share
// was paid out.
func (s *NotificationService) NotifyDistribution(split *models.RoyaltySplit, distribution *models.Distribution) error {
	recipients, _ := distribution.Allocations["recipients"].([]map[string]interface{})

	notify := func(address string, amount float64) {
		notification := &models.Notification{
			RecipientAddress: address,
			Type:             "revenue_distributed",
			Title:            "Royalty payout",
			Message:          fmt.Sprintf("You received $%.2f from '%s'", amount, split.AssetName),
			RelatedResource:  &distribution.ID,
		}
		if err := s.db.Create(notification).Error; err != nil {
			logrus.WithError(err).Warn("Failed to create distribution notification")
		}
	}

	notify(split.CreatorAddress, distribution.CreatorAmount)
	for _, r := range recipients {
		address, _ := r["address"].(string)
		amount, _ := r["amount"].(float64)
		if address != "" {
			notify(address, amount)
		}
	}

	return nil
}

func (s *NotificationService) GetNotifications(recipientAddress string, params utils.PaginationParams) ([]models.Notification, int64, error) {
	query := s.db.Model(&models.Notification{}).Where("recipient_address = ?", recipientAddress)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at"})
	query = utils.ApplyPagination(query, params)

	var notifications []models.Notification
	if err := query.Find(&notifications).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	return notifications, total, nil
}

func (s *NotificationService) MarkRead(recipientAddress string, notificationID string) error {
	now := time.Now()
	res := s.db.Model(&models.Notification{}).
		Where("id = ? AND recipient_address = ?", notificationID, recipientAddress).
		Update("read_at", now)
	if res.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("notification not found")
	}
	return nil
}

// emailByWallet looks up the recipient's account email and sends in the
// background. Unregistered wallets just skip the email.
func (s *NotificationService) emailByWallet(walletAddress, subject, templateName string, data map[string]interface{}) {
	var user models.User
	if err := s.db.Where("wallet_address = ?", walletAddress).First(&user).Error; err != nil {
		return
	}

	go func() {
		tmpl := s.getEmailTemplate(templateName)
		body, err := s.renderTemplate(tmpl.Body, data)
		if err != nil {
			logrus.WithError(err).Warn("Failed to render email template")
			return
		}
		if err := s.sendEmail(user.Email, subject, body); err != nil {
			logrus.WithError(err).Warn("Failed to send notification email")
		}
	}()
}

func (s *NotificationService) getEmailTemplate(name string) emailTemplate {
	templates := map[string]emailTemplate{
		"contribution_submitted": {
			Subject: "New contribution awaiting review",
			Body:    `<p>Hi,</p><p>{{.Contributor}} submitted <strong>{{.Title}}</strong> to your asset <strong>{{.AssetName}}</strong>.</p><p><a href="{{.ReviewURL}}">Review it now</a></p>`,
		},
		"contribution_approved": {
			Subject: "Your contribution was approved",
			Body:    `<p>Hi,</p><p>Your contribution <strong>{{.Title}}</strong> to <strong>{{.AssetName}}</strong> was approved.</p><p><a href="{{.AssetURL}}">View the asset</a></p>`,
		},
		"contribution_rejected": {
			Subject: "Your contribution was not accepted",
			Body:    `<p>Hi,</p><p>Your contribution <strong>{{.Title}}</strong> to <strong>{{.AssetName}}</strong> was not accepted this time.</p>`,
		},
	}

	if t, ok := templates[name]; ok {
		return t
	}
	return emailTemplate{Subject: "StoryWeave notification", Body: `<p>{{.Message}}</p>`}
}

func (s *NotificationService) renderTemplate(body string, data map[string]interface{}) (string, error) {
	tmpl, err := template.New("email").Parse(body)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *NotificationService) sendEmail(to, subject, body string) error {
	if s.config.Email.SMTPHost == "" {
		logrus.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).Debug("SMTP not configured, skipping email")
		return nil
	}

	from := fmt.Sprintf("%s <%s>", s.config.Email.FromName, s.config.Email.FromEmail)
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		from, to, subject, body)

	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)
	addr := s.config.Email.SMTPHost + ":" + s.config.Email.SMTPPort

	return smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, []byte(msg))
}
