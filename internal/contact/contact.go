// internal/contact/contact.go
package contact

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"cravebakery/internal/notify"

	"golang.org/x/time/rate"
)

// Submission is a storefront contact form message.
type Submission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Recorder records best-effort analytics events.
type Recorder interface {
	Record(ctx context.Context, event string, payload interface{}) error
}

// Service validates and records contact form submissions.
type Service interface {
	Submit(ctx context.Context, submission Submission) error
}

type service struct {
	recorder    Recorder
	sink        notify.Sink
	rateLimiter *rate.Limiter
}

func NewService(recorder Recorder, sink notify.Sink) Service {
	return &service{
		recorder:    recorder,
		sink:        sink,
		rateLimiter: rate.NewLimiter(rate.Every(1*time.Minute), 5),
	}
}

func (s *service) Submit(ctx context.Context, submission Submission) error {
	if !s.rateLimiter.Allow() {
		return fmt.Errorf("rate limit exceeded")
	}

	if strings.TrimSpace(submission.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if !strings.Contains(submission.Email, "@") {
		return fmt.Errorf("a valid email is required")
	}
	if strings.TrimSpace(submission.Message) == "" {
		return fmt.Errorf("message is required")
	}

	if err := s.recorder.Record(ctx, "contact_form_submission", submission); err != nil {
		// Recording is best-effort, but a lost contact message is worth a log line.
		log.Printf("failed to record contact submission: %v", err)
	}

	s.sink.Notify("Message sent successfully! We'll get back to you soon.", notify.SeveritySuccess)
	return nil
}
