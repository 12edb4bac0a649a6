package classifier

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/d0ughnat/Fruad-detection/internal/notification"
)

// Service classifies text for a user and raises alerts on high-risk results.
type Service struct {
	classifier Classifier
	notifier   notification.Notifier
	logger     *slog.Logger
}

// NewService wires a classifier to a notifier.
func NewService(c Classifier, n notification.Notifier, logger *slog.Logger) *Service {
	return &Service{classifier: c, notifier: n, logger: logger}
}

// Analyze classifies text on behalf of the given recipient address.
func (s *Service) Analyze(ctx context.Context, recipient, text string) (Report, error) {
	report, err := s.classifier.Classify(ctx, strings.TrimSpace(text))
	if err != nil {
		return Report{}, err
	}
	if report.HighRisk() && s.notifier != nil {
		msg := notification.Message{
			Kind:        notification.KindHighRiskClassification,
			Destination: recipient,
			Body:        fmt.Sprintf("risk=%s classification=%s confidence=%s", report.RiskLevel, report.Classification, report.Confidence),
		}
		if err := s.notifier.Send(ctx, msg); err != nil {
			s.logger.Warn("classifier.notify.failed", slog.String("recipient", recipient), slog.Any("error", err))
		}
	}
	return report, nil
}
