package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/svgholder/svgholder/common/apperrors"
	"github.com/svgholder/svgholder/common/logger"
	"github.com/svgholder/svgholder/common/models"
	"github.com/svgholder/svgholder/common/validation"
)

// fakeService provides canned service behavior for handler tests
type fakeService struct {
	svg  *models.Svg
	svgs []*models.Svg
	err  error

	gotName        string
	gotDescription string
	gotFile        *validation.Upload
	gotID          string
	gotQuery       string
}

func (f *fakeService) Create(ctx context.Context, name, description string, file *validation.Upload) (*models.Svg, error) {
	f.gotName, f.gotDescription, f.gotFile = name, description, file
	return f.svg, f.err
}

func (f *fakeService) List(ctx context.Context) ([]*models.Svg, error) {
	return f.svgs, f.err
}

func (f *fakeService) Get(ctx context.Context, id string) (*models.Svg, error) {
	f.gotID = id
	return f.svg, f.err
}

func (f *fakeService) Search(ctx context.Context, q string) ([]*models.Svg, error) {
	f.gotQuery = q
	return f.svgs, f.err
}

func (f *fakeService) Update(ctx context.Context, id, name, description string) (*models.Svg, error) {
	f.gotID, f.gotName, f.gotDescription = id, name, description
	return f.svg, f.err
}

func (f *fakeService) Delete(ctx context.Context, id string) error {
	f.gotID = id
	return f.err
}

func newTestApp(svc SvgService, production bool) *echo.Echo {
	log := logger.New("error", "text")

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log, production)

	h := NewSvgHandler(svc, log)
	svgs := e.Group("/api/svgs")
	svgs.GET("", h.ListSvgs)
	svgs.GET("/search", h.SearchSvgs)
	svgs.GET("/:id", h.GetSvg)
	svgs.POST("", h.CreateSvg)
	svgs.PUT("/:id", h.UpdateSvg)
	svgs.DELETE("/:id", h.DeleteSvg)
	e.GET("/api/health", Health)

	return e
}

func doRequest(t *testing.T, e *echo.Echo, req *http.Request) (*httptest.ResponseRecorder, models.Response) {
	t.Helper()

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var body models.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func sampleSvg() *models.Svg {
	now := time.Now().UTC()
	return &models.Svg{
		ID:           uuid.New(),
		Name:         "Logo",
		Description:  "A logo",
		Content:      `<svg width="10"></svg>`,
		FileSize:     120,
		OriginalName: "logo.svg",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestListSvgs_OK(t *testing.T) {
	svc := &fakeService{svgs: []*models.Svg{sampleSvg()}}
	e := newTestApp(svc, false)

	rec, body := doRequest(t, e, httptest.NewRequest(http.MethodGet, "/api/svgs", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
	assert.NotNil(t, body.Data)
}

func TestListSvgs_EmptyListIsArray(t *testing.T) {
	svc := &fakeService{svgs: nil}
	e := newTestApp(svc, false)

	rec, _ := doRequest(t, e, httptest.NewRequest(http.MethodGet, "/api/svgs", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data":[]`)
}

func TestListSvgs_InternalError(t *testing.T) {
	svc := &fakeService{err: apperrors.Internal("Failed to fetch SVGs", assert.AnError)}
	e := newTestApp(svc, false)

	rec, body := doRequest(t, e, httptest.NewRequest(http.MethodGet, "/api/svgs", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, body.Success)
	assert.Equal(t, "Failed to fetch SVGs", body.Message)
	assert.NotEmpty(t, body.Error, "detail is exposed outside production")
}

func TestListSvgs_InternalErrorRedactedInProduction(t *testing.T) {
	svc := &fakeService{err: apperrors.Internal("Failed to fetch SVGs", assert.AnError)}
	e := newTestApp(svc, true)

	rec, body := doRequest(t, e, httptest.NewRequest(http.MethodGet, "/api/svgs", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, body.Error, "detail is redacted in production")
}

func TestSearchSvgs_MissingQuery(t *testing.T) {
	svc := &fakeService{err: apperrors.Validation("Search query is required")}
	e := newTestApp(svc, false)

	rec, body := doRequest(t, e, httptest.NewRequest(http.MethodGet, "/api/svgs/search", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, body.Success)
	assert.Equal(t, "Search query is required", body.Message)
}

func TestSearchSvgs_PassesQuery(t *testing.T) {
	svc := &fakeService{svgs: []*models.Svg{}}
	e := newTestApp(svc, false)

	rec, _ := doRequest(t, e, httptest.NewRequest(http.MethodGet, "/api/svgs/search?q=logo", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "logo", svc.gotQuery)
}

func TestGetSvg_NotFound(t *testing.T) {
	svc := &fakeService{err: apperrors.NotFound("SVG not found")}
	e := newTestApp(svc, false)

	rec, body := doRequest(t, e, httptest.NewRequest(http.MethodGet, "/api/svgs/definitely-not-a-uuid", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "SVG not found", body.Message)
}

func TestCreateSvg_Multipart(t *testing.T) {
	svc := &fakeService{svg: sampleSvg()}
	e := newTestApp(svc, false)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("name", "Logo"))
	require.NoError(t, w.WriteField("description", "A logo"))
	part, err := w.CreateFormFile("svgFile", "logo.svg")
	require.NoError(t, err)
	_, err = part.Write([]byte(`<svg width="10"></svg>`))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/svgs", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	rec, body := doRequest(t, e, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, body.Success)
	assert.Equal(t, "SVG uploaded successfully", body.Message)
	assert.Equal(t, "Logo", svc.gotName)
	require.NotNil(t, svc.gotFile)
	assert.Equal(t, "logo.svg", svc.gotFile.Filename)
	assert.Contains(t, string(svc.gotFile.Data), "<svg")
}

func TestCreateSvg_MissingFile(t *testing.T) {
	svc := &fakeService{err: apperrors.Validation(validation.MsgCreateFieldsRequired)}
	e := newTestApp(svc, false)

	form := strings.NewReader("name=Logo&description=A+logo")
	req := httptest.NewRequest(http.MethodPost, "/api/svgs", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec, body := doRequest(t, e, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, validation.MsgCreateFieldsRequired, body.Message)
	assert.Nil(t, svc.gotFile)
}

func TestUpdateSvg_JSONBody(t *testing.T) {
	svc := &fakeService{svg: sampleSvg()}
	e := newTestApp(svc, false)

	req := httptest.NewRequest(http.MethodPut, "/api/svgs/"+svc.svg.ID.String(),
		strings.NewReader(`{"name":"Logo2","description":"A logo"}`))
	req.Header.Set("Content-Type", "application/json")

	rec, body := doRequest(t, e, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "SVG updated successfully", body.Message)
	assert.Equal(t, "Logo2", svc.gotName)
	assert.Equal(t, svc.svg.ID.String(), svc.gotID)
}

func TestDeleteSvg_OK(t *testing.T) {
	svc := &fakeService{}
	e := newTestApp(svc, false)

	id := uuid.NewString()
	rec, body := doRequest(t, e, httptest.NewRequest(http.MethodDelete, "/api/svgs/"+id, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
	assert.Equal(t, "SVG deleted successfully", body.Message)
	assert.Equal(t, id, svc.gotID)
}

func TestDeleteSvg_NotFound(t *testing.T) {
	svc := &fakeService{err: apperrors.NotFound("SVG not found")}
	e := newTestApp(svc, false)

	rec, body := doRequest(t, e, httptest.NewRequest(http.MethodDelete, "/api/svgs/"+uuid.NewString(), nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, body.Success)
}

func TestUnmatchedRoute(t *testing.T) {
	e := newTestApp(&fakeService{}, false)

	rec, body := doRequest(t, e, httptest.NewRequest(http.MethodGet, "/api/nonsense", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", body.Message)
}

func TestMethodNotAllowedMapsToRouteNotFound(t *testing.T) {
	e := newTestApp(&fakeService{}, false)

	rec, body := doRequest(t, e, httptest.NewRequest(http.MethodPatch, "/api/svgs/"+uuid.NewString(), nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", body.Message)
}

func TestBodyLimitMapsToFileTooLarge(t *testing.T) {
	e := newTestApp(&fakeService{}, false)
	e.Use(middleware.BodyLimit("1K"))

	req := httptest.NewRequest(http.MethodPost, "/api/svgs", bytes.NewReader(make([]byte, 2048)))
	rec, body := doRequest(t, e, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, validation.MsgFileTooLarge, body.Message)
}

func TestHealth(t *testing.T) {
	e := newTestApp(&fakeService{}, false)

	rec, body := doRequest(t, e, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
	assert.Equal(t, "SVG Holder API is running", body.Message)
}
