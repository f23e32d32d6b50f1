package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"orderdesk/internal/apperr"
	"orderdesk/internal/domain"
	"orderdesk/internal/logx"
)

type stubRegistry struct {
	getFn     func(ctx context.Context, id int64) (*domain.Driver, error)
	listFn    func(ctx context.Context) ([]domain.Driver, error)
	createFn  func(ctx context.Context, d *domain.Driver) (int64, error)
	updateFn  func(ctx context.Context, u domain.PartialDriverUpdate) (bool, error)
	offlineFn func(ctx context.Context, id int64, offline bool) error
	deleteFn  func(ctx context.Context, id int64) error
}

func (s *stubRegistry) Get(ctx context.Context, id int64) (*domain.Driver, error) {
	return s.getFn(ctx, id)
}

func (s *stubRegistry) List(ctx context.Context) ([]domain.Driver, error) {
	return s.listFn(ctx)
}

func (s *stubRegistry) Create(ctx context.Context, d *domain.Driver) (int64, error) {
	return s.createFn(ctx, d)
}

func (s *stubRegistry) UpdatePartial(ctx context.Context, u domain.PartialDriverUpdate) (bool, error) {
	return s.updateFn(ctx, u)
}

func (s *stubRegistry) SetManuallyOffline(ctx context.Context, id int64, offline bool) error {
	return s.offlineFn(ctx, id, offline)
}

func (s *stubRegistry) Delete(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

func withDriverID(req *http.Request, id string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestDriverHandler_List_ReportsEffectiveStatus(t *testing.T) {
	t.Parallel()

	reg := &stubRegistry{
		listFn: func(context.Context) ([]domain.Driver, error) {
			return []domain.Driver{
				{ID: 1, Name: "Ruben", Phone: "+31612345678"},
				{ID: 2, Name: "Femke", Phone: "+31687654321", ActiveDeliveries: 2},
				{ID: 3, Name: "Daan", Phone: "+31611122233", ManuallyOffline: true, ActiveDeliveries: 1},
			}, nil
		},
	}
	h := NewDriverHandler(logx.Nop(), reg, &stubDispatch{})

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/drivers", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp []driverDTO
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.Len(t, resp, 3)
	require.Equal(t, domain.DriverAvailable, resp[0].Status)
	require.Equal(t, domain.DriverBusy, resp[1].Status)
	require.Equal(t, domain.DriverOffline, resp[2].Status, "manual offline wins over busy")
}

func TestDriverHandler_Candidates_OK(t *testing.T) {
	t.Parallel()

	d := &stubDispatch{
		candidatesFn: func(context.Context) ([]domain.Driver, error) {
			return []domain.Driver{{ID: 2, Name: "Femke", ActiveDeliveries: 1}}, nil
		},
	}
	h := NewDriverHandler(logx.Nop(), &stubRegistry{}, d)

	rr := httptest.NewRecorder()
	h.Candidates(rr, httptest.NewRequest(http.MethodGet, "/drivers/candidates", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp []driverDTO
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.Len(t, resp, 1)
	require.Equal(t, domain.DriverBusy, resp[0].Status, "busy drivers stay in the candidate list")
}

func TestDriverHandler_Create_OK(t *testing.T) {
	t.Parallel()

	reg := &stubRegistry{
		createFn: func(_ context.Context, d *domain.Driver) (int64, error) {
			require.Equal(t, "Ruben", d.Name)
			require.Equal(t, "+31612345678", d.Phone)
			return 7, nil
		},
	}
	h := NewDriverHandler(logx.Nop(), reg, &stubDispatch{})

	body := `{"name":"Ruben","phone":"+31612345678"}`
	rr := httptest.NewRecorder()
	h.Create(rr, httptest.NewRequest(http.MethodPost, "/driver", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rr.Code)
	require.Equal(t, "/driver/7", rr.Header().Get("Location"))
}

func TestDriverHandler_Create_BadPhone(t *testing.T) {
	t.Parallel()

	h := NewDriverHandler(logx.Nop(), &stubRegistry{}, &stubDispatch{})

	body := `{"name":"Ruben","phone":"0612345678"}`
	rr := httptest.NewRecorder()
	h.Create(rr, httptest.NewRequest(http.MethodPost, "/driver", strings.NewReader(body)))

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDriverHandler_Create_DuplicatePhone(t *testing.T) {
	t.Parallel()

	reg := &stubRegistry{
		createFn: func(context.Context, *domain.Driver) (int64, error) {
			return 0, apperr.ErrConflict
		},
	}
	h := NewDriverHandler(logx.Nop(), reg, &stubDispatch{})

	body := `{"name":"Ruben","phone":"+31612345678"}`
	rr := httptest.NewRecorder()
	h.Create(rr, httptest.NewRequest(http.MethodPost, "/driver", strings.NewReader(body)))

	require.Equal(t, http.StatusConflict, rr.Code)
}

func TestDriverHandler_Update_NotFound(t *testing.T) {
	t.Parallel()

	reg := &stubRegistry{
		updateFn: func(context.Context, domain.PartialDriverUpdate) (bool, error) {
			return false, nil
		},
	}
	h := NewDriverHandler(logx.Nop(), reg, &stubDispatch{})

	body := `{"id":99,"name":"New Name"}`
	rr := httptest.NewRecorder()
	h.Update(rr, httptest.NewRequest(http.MethodPut, "/driver", strings.NewReader(body)))

	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDriverHandler_SetOffline_OK(t *testing.T) {
	t.Parallel()

	var gotID int64
	var gotOffline bool
	reg := &stubRegistry{
		offlineFn: func(_ context.Context, id int64, offline bool) error {
			gotID, gotOffline = id, offline
			return nil
		},
	}
	h := NewDriverHandler(logx.Nop(), reg, &stubDispatch{})

	body := `{"offline":true}`
	req := withDriverID(httptest.NewRequest(http.MethodPost, "/driver/3/offline", strings.NewReader(body)), "3")
	rr := httptest.NewRecorder()
	h.SetOffline(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, int64(3), gotID)
	require.True(t, gotOffline)
}

func TestDriverHandler_Delete_ActiveDeliveriesConflict(t *testing.T) {
	t.Parallel()

	reg := &stubRegistry{
		deleteFn: func(context.Context, int64) error { return apperr.ErrConflict },
	}
	h := NewDriverHandler(logx.Nop(), reg, &stubDispatch{})

	req := withDriverID(httptest.NewRequest(http.MethodDelete, "/driver/3", nil), "3")
	rr := httptest.NewRecorder()
	h.Delete(rr, req)

	require.Equal(t, http.StatusConflict, rr.Code)
}

func TestDriverHandler_Delete_OK(t *testing.T) {
	t.Parallel()

	reg := &stubRegistry{
		deleteFn: func(context.Context, int64) error { return nil },
	}
	h := NewDriverHandler(logx.Nop(), reg, &stubDispatch{})

	req := withDriverID(httptest.NewRequest(http.MethodDelete, "/driver/3", nil), "3")
	rr := httptest.NewRecorder()
	h.Delete(rr, req)

	require.Equal(t, http.StatusNoContent, rr.Code)
}
