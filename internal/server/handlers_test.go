package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/darsh196/learnzone/internal/config"
	"github.com/darsh196/learnzone/internal/inventory"
	lessondomain "github.com/darsh196/learnzone/internal/lesson/domain"
	orderdomain "github.com/darsh196/learnzone/internal/order/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLessonService struct {
	lessons    []lessondomain.Response
	getErr     error
	updateErr  error
	lastUpdate lessondomain.UpdateRequest
}

func (f *fakeLessonService) List(ctx context.Context) ([]lessondomain.Response, error) {
	_ = ctx
	return f.lessons, nil
}

func (f *fakeLessonService) Get(ctx context.Context, id int64) (*lessondomain.Response, error) {
	_ = ctx
	if f.getErr != nil {
		return nil, f.getErr
	}
	for i := range f.lessons {
		if f.lessons[i].ID == id {
			return &f.lessons[i], nil
		}
	}
	return nil, lessondomain.ErrNotFound
}

func (f *fakeLessonService) Search(ctx context.Context, keyword string) ([]lessondomain.Response, error) {
	_ = ctx
	if keyword == "" {
		return f.lessons, nil
	}
	var matched []lessondomain.Response
	for _, lesson := range f.lessons {
		if lesson.Subject == keyword {
			matched = append(matched, lesson)
		}
	}
	return matched, nil
}

func (f *fakeLessonService) Update(ctx context.Context, req lessondomain.UpdateRequest) (*lessondomain.Response, error) {
	_ = ctx
	f.lastUpdate = req
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.Get(ctx, req.ID)
}

type fakeOrderService struct {
	placeErr    error
	lastRequest orderdomain.PlaceOrderRequest
	placed      int
}

func (f *fakeOrderService) PlaceOrder(ctx context.Context, req orderdomain.PlaceOrderRequest) (*orderdomain.Response, error) {
	_ = ctx
	f.lastRequest = req
	if f.placeErr != nil {
		return nil, f.placeErr
	}
	f.placed++
	return &orderdomain.Response{
		ID:        "1834989137181147136",
		LessonIDs: req.LessonIDs,
		Customer:  req.Customer,
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}, nil
}

func (f *fakeOrderService) List(ctx context.Context) ([]orderdomain.Response, error) {
	_ = ctx
	return nil, nil
}

func newTestServer(t *testing.T, lessonSvc lessondomain.Service, orderSvc orderdomain.Service) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	return NewServer(ServerParams{
		Gin:       engine,
		Cfg:       config.Config{PublicDir: t.TempDir(), ImagesDir: t.TempDir()},
		LessonSvc: lessonSvc,
		OrderSvc:  orderSvc,
	})
}

func catalogFixture() []lessondomain.Response {
	return []lessondomain.Response{
		{ID: 1, Subject: "Mathematics", Location: "Hendon", Price: 100, Currency: "GBP", AvailableInventory: 5},
		{ID: 2, Subject: "English", Location: "Colindale", Price: 80, Currency: "GBP", AvailableInventory: 3},
	}
}

func TestListLessonsReturnsBareArray(t *testing.T) {
	srv := newTestServer(t, &fakeLessonService{lessons: catalogFixture()}, &fakeOrderService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/lessons", nil)
	srv.Engine().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 2)
	assert.Equal(t, "Mathematics", body[0]["subject"])
}

func TestGetLessonNotFound(t *testing.T) {
	srv := newTestServer(t, &fakeLessonService{lessons: catalogFixture()}, &fakeOrderService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/lessons/99", nil)
	srv.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetLessonInvalidID(t *testing.T) {
	srv := newTestServer(t, &fakeLessonService{lessons: catalogFixture()}, &fakeOrderService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/lessons/abc", nil)
	srv.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateLessonPassesOnlyProvidedFields(t *testing.T) {
	lessonSvc := &fakeLessonService{lessons: catalogFixture()}
	srv := newTestServer(t, lessonSvc, &fakeOrderService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/lessons/1", bytes.NewBufferString(`{"availableInventory": 4}`))
	req.Header.Set("Content-Type", "application/json")
	srv.Engine().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, lessonSvc.lastUpdate.AvailableInventory)
	assert.Equal(t, 4, *lessonSvc.lastUpdate.AvailableInventory)
	assert.Nil(t, lessonSvc.lastUpdate.Subject)
	assert.Nil(t, lessonSvc.lastUpdate.Price)
}

func TestUpdateLessonInvalidBody(t *testing.T) {
	srv := newTestServer(t, &fakeLessonService{lessons: catalogFixture()}, &fakeOrderService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/lessons/1", bytes.NewBufferString(`not json`))
	req.Header.Set("Content-Type", "application/json")
	srv.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchUsesQueryParam(t *testing.T) {
	srv := newTestServer(t, &fakeLessonService{lessons: catalogFixture()}, &fakeOrderService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/search?q=English", nil)
	srv.Engine().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "English", body[0]["subject"])
}

func TestPlaceOrderCreated(t *testing.T) {
	orderSvc := &fakeOrderService{}
	srv := newTestServer(t, &fakeLessonService{}, orderSvc)

	payload := `{"name": "Alice", "phone": "0123456789", "lessonIDs": [1, 2, 2]}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	srv.Engine().ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Order saved", body["message"])
	assert.Equal(t, "1834989137181147136", body["orderId"])

	assert.Equal(t, []int64{1, 2, 2}, orderSvc.lastRequest.LessonIDs)
	assert.Equal(t, "Alice", orderSvc.lastRequest.Customer["name"])
	_, hasLessonIDs := orderSvc.lastRequest.Customer["lessonIDs"]
	assert.False(t, hasLessonIDs)
}

func TestPlaceOrderEmptyBodyAccepted(t *testing.T) {
	orderSvc := &fakeOrderService{}
	srv := newTestServer(t, &fakeLessonService{}, orderSvc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	srv.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, orderSvc.placed)
	assert.Empty(t, orderSvc.lastRequest.LessonIDs)
}

func TestPlaceOrderRejectsMalformedLessonIDs(t *testing.T) {
	srv := newTestServer(t, &fakeLessonService{}, &fakeOrderService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString(`{"lessonIDs": ["one"]}`))
	req.Header.Set("Content-Type", "application/json")
	srv.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlaceOrderExhaustedMapsToConflict(t *testing.T) {
	orderSvc := &fakeOrderService{
		placeErr: &orderdomain.PlaceOrderError{LessonID: 2, Err: inventory.ErrLessonExhausted},
	}
	srv := newTestServer(t, &fakeLessonService{}, orderSvc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString(`{"lessonIDs": [2]}`))
	req.Header.Set("Content-Type", "application/json")
	srv.Engine().ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)

	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "lesson_exhausted", body.Error.Type)
	assert.Equal(t, int64(2), body.Error.LessonID)
}

func TestPlaceOrderUnknownLessonMapsToNotFound(t *testing.T) {
	orderSvc := &fakeOrderService{
		placeErr: &orderdomain.PlaceOrderError{LessonID: 99, Err: inventory.ErrLessonNotFound},
	}
	srv := newTestServer(t, &fakeLessonService{}, orderSvc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString(`{"lessonIDs": [99]}`))
	req.Header.Set("Content-Type", "application/json")
	srv.Engine().ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)

	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "lesson_not_found", body.Error.Type)
	assert.Equal(t, int64(99), body.Error.LessonID)
}

func TestGetImageMissing(t *testing.T) {
	srv := newTestServer(t, &fakeLessonService{}, &fakeOrderService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/images/unknown.png", nil)
	srv.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Image not found")
}

func TestGetImageServesFile(t *testing.T) {
	srv := newTestServer(t, &fakeLessonService{}, &fakeOrderService{})

	imagePath := filepath.Join(srv.cfg.ImagesDir, "mathematics.png")
	require.NoError(t, os.WriteFile(imagePath, []byte("png-bytes"), 0o644))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/images/mathematics.png", nil)
	srv.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png-bytes", rec.Body.String())
}

func TestGetImageRejectsTraversal(t *testing.T) {
	srv := newTestServer(t, &fakeLessonService{}, &fakeOrderService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/images/..%2Fsecret.txt", nil)
	srv.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFallbackServesIndex(t *testing.T) {
	srv := newTestServer(t, &fakeLessonService{}, &fakeOrderService{})

	indexPath := filepath.Join(srv.cfg.PublicDir, "index.html")
	require.NoError(t, os.WriteFile(indexPath, []byte("<html>learnzone</html>"), 0o644))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/some/client/route", nil)
	srv.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "learnzone")
}
