package contact

import (
	"context"
	"errors"
	"testing"

	"cravebakery/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRecorder struct {
	err    error
	events []string
}

func (r *stubRecorder) Record(_ context.Context, event string, _ interface{}) error {
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, event)
	return nil
}

type stubSink struct {
	messages []string
}

func (s *stubSink) Notify(message string, _ notify.Severity) {
	s.messages = append(s.messages, message)
}

func TestSubmitRecordsEvent(t *testing.T) {
	recorder := &stubRecorder{}
	sink := &stubSink{}
	svc := NewService(recorder, sink)

	err := svc.Submit(context.Background(), Submission{
		Name:    "Asha",
		Email:   "asha@example.com",
		Message: "Do you take custom cake orders?",
	})
	require.NoError(t, err)

	require.Len(t, recorder.events, 1)
	assert.Equal(t, "contact_form_submission", recorder.events[0])
	require.Len(t, sink.messages, 1)
	assert.Contains(t, sink.messages[0], "Message sent")
}

func TestSubmitValidation(t *testing.T) {
	svc := NewService(&stubRecorder{}, &stubSink{})
	ctx := context.Background()

	assert.Error(t, svc.Submit(ctx, Submission{Email: "a@b.c", Message: "hi"}))
	assert.Error(t, svc.Submit(ctx, Submission{Name: "Asha", Email: "not-an-email", Message: "hi"}))
	assert.Error(t, svc.Submit(ctx, Submission{Name: "Asha", Email: "a@b.c", Message: "  "}))
}

func TestSubmitToleratesRecorderFailure(t *testing.T) {
	recorder := &stubRecorder{err: errors.New("analytics backend down")}
	sink := &stubSink{}
	svc := NewService(recorder, sink)

	err := svc.Submit(context.Background(), Submission{
		Name:    "Asha",
		Email:   "asha@example.com",
		Message: "hello",
	})
	assert.NoError(t, err, "recording is best-effort")
	assert.Len(t, sink.messages, 1)
}
