package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"math-routing-agent/internal/dto"
	"math-routing-agent/internal/models"
	"math-routing-agent/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeFeedback struct {
	recordResult *service.RecordResult
	recordErr    error
	trainResult  *service.RecordResult
	trainErr     error
	records      []*models.FeedbackRecord
	listErr      error

	lastHelpful   bool
	lastCorrected string
}

func (f *fakeFeedback) Record(_ context.Context, _, _ string, helpful bool, correctedAnswer, _ string) (*service.RecordResult, error) {
	f.lastHelpful = helpful
	f.lastCorrected = correctedAnswer
	if f.recordErr != nil {
		return nil, f.recordErr
	}
	return f.recordResult, nil
}

func (f *fakeFeedback) Train(_ context.Context, _, _, _ string) (*service.RecordResult, error) {
	return f.trainResult, f.trainErr
}

func (f *fakeFeedback) List(_ context.Context) ([]*models.FeedbackRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.records, nil
}

func newFeedbackApp(feedback *fakeFeedback) *fiber.App {
	app := fiber.New()
	h := NewFeedbackHandler(feedback, zap.NewNop())
	app.Post("/api/feedback", h.Submit)
	app.Get("/api/feedback/all", h.List)
	app.Post("/api/feedback/train", h.Train)
	return app
}

func boolPtr(b bool) *bool { return &b }

func TestSubmit_Helpful(t *testing.T) {
	id := uuid.New()
	feedback := &fakeFeedback{recordResult: &service.RecordResult{FeedbackID: id}}
	app := newFeedbackApp(feedback)

	resp := postJSON(t, app, "/api/feedback", dto.FeedbackRequest{
		Question: "2 + 2",
		Answer:   "4",
		Helpful:  boolPtr(true),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[dto.FeedbackResponse](t, resp)
	assert.True(t, body.OK)
	assert.Equal(t, id.String(), body.ID)
	assert.False(t, body.Trained)
	assert.True(t, feedback.lastHelpful)
}

func TestSubmit_CorrectionReportsTrained(t *testing.T) {
	feedback := &fakeFeedback{recordResult: &service.RecordResult{
		FeedbackID: uuid.New(),
		Trained:    true,
	}}
	app := newFeedbackApp(feedback)

	resp := postJSON(t, app, "/api/feedback", dto.FeedbackRequest{
		Question:        "2 + 2",
		Answer:          "5",
		Helpful:         boolPtr(false),
		CorrectedAnswer: "2 + 2 = 4",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[dto.FeedbackResponse](t, resp)
	assert.True(t, body.Trained)
	assert.Equal(t, "2 + 2 = 4", feedback.lastCorrected)
}

func TestSubmit_MissingFields(t *testing.T) {
	app := newFeedbackApp(&fakeFeedback{})

	// helpful flag absent
	resp := postJSON(t, app, "/api/feedback", dto.FeedbackRequest{Question: "2 + 2"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// question absent
	resp = postJSON(t, app, "/api/feedback", dto.FeedbackRequest{Helpful: boolPtr(true)})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSubmit_StoreFailure(t *testing.T) {
	app := newFeedbackApp(&fakeFeedback{recordErr: errors.New("connection refused")})

	resp := postJSON(t, app, "/api/feedback", dto.FeedbackRequest{
		Question: "2 + 2",
		Helpful:  boolPtr(true),
	})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestTrain_Success(t *testing.T) {
	id := uuid.New()
	feedback := &fakeFeedback{trainResult: &service.RecordResult{FeedbackID: id, Trained: true}}
	app := newFeedbackApp(feedback)

	resp := postJSON(t, app, "/api/feedback/train", dto.TrainRequest{
		Question:        "derivative of x^4",
		CorrectedAnswer: "4x^3",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[dto.TrainResponse](t, resp)
	assert.True(t, body.OK)
	assert.True(t, body.Trained)
	assert.Equal(t, id.String(), body.FeedbackID)
}

func TestTrain_MissingCorrectedAnswer(t *testing.T) {
	app := newFeedbackApp(&fakeFeedback{})

	resp := postJSON(t, app, "/api/feedback/train", dto.TrainRequest{Question: "2 + 2"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTrain_UpsertFailureReportsFeedbackID(t *testing.T) {
	id := uuid.New()
	feedback := &fakeFeedback{
		trainResult: &service.RecordResult{FeedbackID: id},
		trainErr:    errors.New("embedding service down"),
	}
	app := newFeedbackApp(feedback)

	resp := postJSON(t, app, "/api/feedback/train", dto.TrainRequest{
		Question:        "2 + 2",
		CorrectedAnswer: "4",
	})
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	body := decodeBody[map[string]string](t, resp)
	assert.Equal(t, id.String(), body["feedback_id"])
}

func TestList_ReturnsRecordsNewestFirst(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	feedback := &fakeFeedback{records: []*models.FeedbackRecord{
		{
			ID:        uuid.New(),
			Question:  "2 + 2",
			Helpful:   false,
			CreatedAt: now,
		},
		{
			ID:        uuid.New(),
			Question:  "derivative of x^2",
			Helpful:   true,
			CreatedAt: now.Add(-time.Hour),
		},
	}}
	app := newFeedbackApp(feedback)

	req := httptest.NewRequest(http.MethodGet, "/api/feedback/all", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[dto.FeedbackListResponse](t, resp)
	assert.True(t, body.OK)
	require.Len(t, body.Feedback, 2)
	assert.Equal(t, "2 + 2", body.Feedback[0].Question)
	assert.Equal(t, now.Format(time.RFC3339), body.Feedback[0].CreatedAt)
}

func TestList_Failure(t *testing.T) {
	app := newFeedbackApp(&fakeFeedback{listErr: errors.New("connection lost")})

	req := httptest.NewRequest(http.MethodGet, "/api/feedback/all", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
