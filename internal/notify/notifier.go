// internal/notify/notifier.go
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	apperrors "cert-tracker/internal/common/errors"
	"cert-tracker/internal/common/logger"
	"cert-tracker/internal/common/metrics"
	"cert-tracker/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
)

const (
	Component = "notify"

	ChannelEmail = "email"
	ChannelSNS   = "sns"

	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)

const (
	approvalSubject = "Certification approved: {{certification}}"
	approvalBody    = "Hello {{eid}},\n\nYour proof for {{certification}} was approved on {{approvedAt}} " +
		"and your record is now marked as Passed.\n\nAccentTrack"
)

type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Config struct {
	EmailEnabled bool
	FromEmail    string
	// Domain is appended to the eid to build the recipient address.
	Domain     string
	SNSEnabled bool
	TopicARN   string
}

// Notifier announces approved certifications by email and on a topic.
// Send failures are logged and reported, never returned.
type Notifier struct {
	config *Config
	ses    SESService
	sns    SNSService
	logger logger.Logger
}

// New builds a Notifier. A nil client disables its channel.
func New(config *Config, sesClient SESService, snsClient SNSService, log logger.Logger) *Notifier {
	return &Notifier{
		config: config,
		ses:    sesClient,
		sns:    snsClient,
		logger: log.WithFields(map[string]interface{}{"component": Component}),
	}
}

// NotifyApproval sends n on every enabled channel and returns one result per channel.
func (n *Notifier) NotifyApproval(ctx context.Context, a models.ApprovalNotification) []models.NotificationResult {
	if a.ApprovedAt.IsZero() {
		a.ApprovedAt = time.Now().UTC()
	}

	results := []models.NotificationResult{
		n.sendEmail(ctx, a),
		n.publish(ctx, a),
	}
	for _, r := range results {
		metrics.NotificationsSent.WithLabelValues(r.Channel, r.Status).Inc()
	}
	return results
}

func (n *Notifier) sendEmail(ctx context.Context, a models.ApprovalNotification) models.NotificationResult {
	result := models.NotificationResult{Channel: ChannelEmail, Status: StatusDisabled}
	if n == nil || !n.config.EmailEnabled || n.ses == nil {
		return result
	}

	msg := approvalEmail(n.config, a)
	out, err := n.ses.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{ToAddresses: msg.To},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(msg.Subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(msg.Body)},
			},
		},
		Source: aws.String(msg.From),
	})
	if err != nil {
		fields := apperrors.NewNotificationSendFailedError(ChannelEmail, err).LogFields()
		fields["eid"] = a.EID
		n.logger.Error("approval email failed", fields)
		result.Status, result.Error = StatusFailed, err.Error()
		return result
	}

	result.Status = StatusSent
	if out != nil && out.MessageId != nil {
		result.MessageID = *out.MessageId
	}
	return result
}

func (n *Notifier) publish(ctx context.Context, a models.ApprovalNotification) models.NotificationResult {
	result := models.NotificationResult{Channel: ChannelSNS, Status: StatusDisabled}
	if n == nil || !n.config.SNSEnabled || n.sns == nil || n.config.TopicARN == "" {
		return result
	}

	payload, err := json.Marshal(a)
	if err != nil {
		result.Status, result.Error = StatusFailed, err.Error()
		return result
	}

	out, err := n.sns.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.config.TopicARN),
		Message:  aws.String(string(payload)),
		Subject:  aws.String("certification.approved"),
		MessageAttributes: map[string]snstypes.MessageAttributeValue{
			"eid": {DataType: aws.String("String"), StringValue: aws.String(a.EID)},
		},
	})
	if err != nil {
		fields := apperrors.NewNotificationSendFailedError(ChannelSNS, err).LogFields()
		fields["topic"] = n.config.TopicARN
		n.logger.Error("approval publish failed", fields)
		result.Status, result.Error = StatusFailed, err.Error()
		return result
	}

	result.Status = StatusSent
	if out != nil && out.MessageId != nil {
		result.MessageID = *out.MessageId
	}
	return result
}

func approvalEmail(cfg *Config, a models.ApprovalNotification) models.EmailMessage {
	data := map[string]string{
		"eid":           a.EID,
		"certification": a.Certification,
		"approvedAt":    a.ApprovedAt.Format("2006-01-02"),
	}
	return models.EmailMessage{
		To:      []string{recipient(a.EID, cfg.Domain)},
		From:    cfg.FromEmail,
		Subject: renderTemplate(approvalSubject, data),
		Body:    renderTemplate(approvalBody, data),
	}
}

func recipient(eid, domain string) string {
	if strings.Contains(eid, "@") || domain == "" {
		return eid
	}
	return fmt.Sprintf("%s@%s", eid, strings.TrimPrefix(domain, "@"))
}

func renderTemplate(tmpl string, data map[string]string) string {
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
