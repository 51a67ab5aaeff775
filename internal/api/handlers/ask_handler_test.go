package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"math-routing-agent/internal/dto"
	"math-routing-agent/internal/models"
	"math-routing-agent/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRouter struct {
	record   *models.AnswerRecord
	err      error
	question string
}

func (f *fakeRouter) Route(_ context.Context, question string) (*models.AnswerRecord, error) {
	f.question = question
	if f.err != nil {
		return nil, f.err
	}
	return f.record, nil
}

func newAskApp(router *fakeRouter) *fiber.App {
	app := fiber.New()
	h := NewAskHandler(router, zap.NewNop())
	app.Post("/api/ask", h.Ask)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestAsk_Success(t *testing.T) {
	router := &fakeRouter{record: &models.AnswerRecord{
		Source:     models.SourceKnowledgeBase,
		Text:       "The square root of 16 is 4.",
		Confidence: 0.93,
	}}
	app := newAskApp(router)

	resp := postJSON(t, app, "/api/ask", dto.AskRequest{Question: "What is the square root of 16?"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[dto.AskResponse](t, resp)
	assert.Equal(t, "knowledge_base", body.Source)
	assert.Equal(t, "The square root of 16 is 4.", body.Text)
	assert.InDelta(t, 0.93, body.Confidence, 1e-9)
	assert.Equal(t, "What is the square root of 16?", router.question)
}

func TestAsk_EmptyQuestion(t *testing.T) {
	app := newAskApp(&fakeRouter{err: service.ErrEmptyQuestion})

	resp := postJSON(t, app, "/api/ask", dto.AskRequest{Question: ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAsk_AllStagesExhausted(t *testing.T) {
	app := newAskApp(&fakeRouter{err: service.ErrAllStagesExhausted})

	resp := postJSON(t, app, "/api/ask", dto.AskRequest{Question: "prove the pythagoras theorem"})
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)

	body := decodeBody[map[string]string](t, resp)
	assert.Contains(t, body["error"], "every solving strategy failed")
}

func TestAsk_InvalidBody(t *testing.T) {
	app := newAskApp(&fakeRouter{})

	req := httptest.NewRequest(http.MethodPost, "/api/ask", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAsk_UnexpectedError(t *testing.T) {
	app := newAskApp(&fakeRouter{err: errors.New("database unreachable")})

	resp := postJSON(t, app, "/api/ask", dto.AskRequest{Question: "2 + 2"})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
