package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizwire/server/internal/boardgen"
	"github.com/quizwire/server/internal/models"
	"github.com/quizwire/server/internal/registry"
)

type recordingNotifier struct {
	codes []string
}

func (n *recordingNotifier) BoardLoaded(code string) {
	n.codes = append(n.codes, code)
}

func newTestHandler(t *testing.T) (*Handler, *registry.Registry, *recordingNotifier) {
	t.Helper()
	reg := registry.New(clockwork.NewFakeClock(), registry.Config{MaxPlayers: 12, RoomExpiry: time.Hour})
	notifier := &recordingNotifier{}
	return NewHandler(reg, nil, notifier), reg, notifier
}

func serve(h *Handler, req *http.Request) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h, reg, _ := newTestHandler(t)
	reg.CreateRoom("host", models.GameSettings{})

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(1), body["rooms"])
}

func TestUploadBoardInstallsAndNotifies(t *testing.T) {
	h, reg, notifier := newTestHandler(t)
	room := reg.CreateRoom("host", models.GameSettings{})

	raw, err := json.Marshal(boardgen.SampleBoard())
	require.NoError(t, err)

	rec := serve(h, httptest.NewRequest(http.MethodPut, "/api/board/"+room.Code, bytes.NewReader(raw)))
	require.Equal(t, http.StatusOK, rec.Code)

	got, ok := reg.GetRoom(room.Code)
	require.True(t, ok)
	require.NotNil(t, got.Board)
	assert.Len(t, got.Board.Categories, models.CategoriesPerBoard)
	assert.Equal(t, []string{room.Code}, notifier.codes)
}

func TestUploadBoardRejectsBadShape(t *testing.T) {
	h, reg, notifier := newTestHandler(t)
	room := reg.CreateRoom("host", models.GameSettings{})

	bad := boardgen.SampleBoard()
	bad.Categories = bad.Categories[:3]
	raw, err := json.Marshal(bad)
	require.NoError(t, err)

	rec := serve(h, httptest.NewRequest(http.MethodPut, "/api/board/"+room.Code, bytes.NewReader(raw)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, notifier.codes)

	got, _ := reg.GetRoom(room.Code)
	assert.Nil(t, got.Board)
}

func TestUploadBoardUnknownRoom(t *testing.T) {
	h, _, _ := newTestHandler(t)

	raw, err := json.Marshal(boardgen.SampleBoard())
	require.NoError(t, err)

	rec := serve(h, httptest.NewRequest(http.MethodPut, "/api/board/XXXXX", bytes.NewReader(raw)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetBoard(t *testing.T) {
	h, reg, _ := newTestHandler(t)
	room := reg.CreateRoom("host", models.GameSettings{})
	require.NoError(t, reg.SetBoard(room.Code, boardgen.ToBoard(boardgen.SampleBoard())))

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/api/board/"+room.Code, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body boardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Board)
	assert.Len(t, body.Board.Categories, models.CategoriesPerBoard)

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/api/board/XXXXX", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSampleBoardEndpoint(t *testing.T) {
	h, reg, notifier := newTestHandler(t)
	room := reg.CreateRoom("host", models.GameSettings{})

	payload := []byte(`{"roomCode":"` + room.Code + `"}`)
	rec := serve(h, httptest.NewRequest(http.MethodPost, "/api/board/sample", bytes.NewReader(payload)))
	require.Equal(t, http.StatusOK, rec.Code)

	got, _ := reg.GetRoom(room.Code)
	require.NotNil(t, got.Board)
	assert.Equal(t, []string{room.Code}, notifier.codes)
}

func TestSampleBoardWithoutRoom(t *testing.T) {
	h, _, notifier := newTestHandler(t)

	rec := serve(h, httptest.NewRequest(http.MethodPost, "/api/board/sample", bytes.NewReader([]byte(`{}`))))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, notifier.codes)

	var body boardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Board)
}

func TestGenerateUnconfigured(t *testing.T) {
	h, _, _ := newTestHandler(t)

	rec := serve(h, httptest.NewRequest(http.MethodPost, "/api/board/generate", bytes.NewReader([]byte(`{}`))))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMethodGuards(t *testing.T) {
	h, _, _ := newTestHandler(t)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/api/board/generate", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = serve(h, httptest.NewRequest(http.MethodDelete, "/api/board/ABCDE", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
