package save

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"frag-golang/internal/service/fragment"
	"frag-golang/internal/storage"
)

type MockSaver struct {
	mock.Mock
}

func (m *MockSaver) SaveFragments(ctx context.Context, orderNum string, productID int64, drafts []storage.Fragment) ([]*storage.Fragment, error) {
	args := m.Called(ctx, orderNum, productID, drafts)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	fragments, ok := args.Get(0).([]*storage.Fragment)
	if !ok {
		return nil, fmt.Errorf("expected []*storage.Fragment, got %T", args.Get(0))
	}

	return fragments, args.Error(1)
}

const validBody = `{
	"order_num": "Q6-100",
	"product_id": 10,
	"fragments": [
		{"quantity": 40, "date": "2026-03-02"},
		{"quantity": 60, "date": "2026-03-03"}
	]
}`

func newSaveRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/fragments/save", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestSaveOrderFragments_Success(t *testing.T) {
	mockSaver := new(MockSaver)

	final := []*storage.Fragment{
		{ID: "1-1-111", Quantity: 40},
		{ID: "1-2-111", Quantity: 60},
	}

	mockSaver.On("SaveFragments", mock.Anything, "Q6-100", int64(10), mock.Anything).Return(final, nil)

	handler := SaveOrderFragments(slog.Default(), mockSaver)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, newSaveRequest(validBody))

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp.Fragments, 2)
	assert.Empty(t, resp.Error)

	mockSaver.AssertExpectations(t)
}

func TestSaveOrderFragments_InvalidJSON(t *testing.T) {
	mockSaver := new(MockSaver)

	handler := SaveOrderFragments(slog.Default(), mockSaver)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, newSaveRequest(`{broken`))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	mockSaver.AssertNotCalled(t, "SaveFragments", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSaveOrderFragments_MissingProduct(t *testing.T) {
	mockSaver := new(MockSaver)

	handler := SaveOrderFragments(slog.Default(), mockSaver)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, newSaveRequest(`{"order_num": "Q6-100"}`))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	mockSaver.AssertNotCalled(t, "SaveFragments", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSaveOrderFragments_ValidationError(t *testing.T) {
	mockSaver := new(MockSaver)

	mockSaver.On("SaveFragments", mock.Anything, "Q6-100", int64(10), mock.Anything).
		Return(nil, fmt.Errorf("%w: 110 из 100", fragment.ErrExcessTotal))

	handler := SaveOrderFragments(slog.Default(), mockSaver)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, newSaveRequest(validBody))

	// Ошибка ввода — отказ с текстом, без частичного сохранения
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "больше количества изделия")
}

func TestSaveOrderFragments_StorageError(t *testing.T) {
	mockSaver := new(MockSaver)

	mockSaver.On("SaveFragments", mock.Anything, "Q6-100", int64(10), mock.Anything).
		Return(nil, assert.AnError)

	handler := SaveOrderFragments(slog.Default(), mockSaver)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, newSaveRequest(validBody))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "попробуйте ещё раз")
}

func TestSaveOrderFragments_DuplicateIdempotencyKey(t *testing.T) {
	mockSaver := new(MockSaver)

	final := []*storage.Fragment{{ID: "1-1-111", Quantity: 100}}
	mockSaver.On("SaveFragments", mock.Anything, "Q6-100", int64(10), mock.Anything).Return(final, nil).Once()

	handler := SaveOrderFragments(slog.Default(), mockSaver)
	key := uuid.NewString()

	req := newSaveRequest(validBody)
	req.Header.Set("Idempotency-Key", key)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	// Повторная отправка того же ключа отклоняется, второго сохранения нет
	req = newSaveRequest(validBody)
	req.Header.Set("Idempotency-Key", key)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusConflict, rr.Code)

	mockSaver.AssertNumberOfCalls(t, "SaveFragments", 1)
}

func TestSaveOrderFragments_KeyReleasedAfterValidationError(t *testing.T) {
	mockSaver := new(MockSaver)

	mockSaver.On("SaveFragments", mock.Anything, "Q6-100", int64(10), mock.Anything).
		Return(nil, fragment.ErrShortTotal).Once()
	mockSaver.On("SaveFragments", mock.Anything, "Q6-100", int64(10), mock.Anything).
		Return([]*storage.Fragment{{ID: "1-1-111"}}, nil).Once()

	handler := SaveOrderFragments(slog.Default(), mockSaver)
	key := uuid.NewString()

	req := newSaveRequest(validBody)
	req.Header.Set("Idempotency-Key", key)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// После исправимой ошибки форму можно отправить с тем же ключом
	req = newSaveRequest(validBody)
	req.Header.Set("Idempotency-Key", key)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	mockSaver.AssertNumberOfCalls(t, "SaveFragments", 2)
}

func TestSaveOrderFragments_BadIdempotencyKey(t *testing.T) {
	mockSaver := new(MockSaver)

	handler := SaveOrderFragments(slog.Default(), mockSaver)

	req := newSaveRequest(validBody)
	req.Header.Set("Idempotency-Key", "not-a-uuid")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	mockSaver.AssertNotCalled(t, "SaveFragments", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
