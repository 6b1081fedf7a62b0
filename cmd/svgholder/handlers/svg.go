package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/svgholder/svgholder/common/logger"
	"github.com/svgholder/svgholder/common/models"
	"github.com/svgholder/svgholder/common/validation"
)

// SvgService is the slice of the service layer the handlers need
type SvgService interface {
	Create(ctx context.Context, name, description string, file *validation.Upload) (*models.Svg, error)
	List(ctx context.Context) ([]*models.Svg, error)
	Get(ctx context.Context, id string) (*models.Svg, error)
	Search(ctx context.Context, q string) ([]*models.Svg, error)
	Update(ctx context.Context, id, name, description string) (*models.Svg, error)
	Delete(ctx context.Context, id string) error
}

// SvgHandler handles SVG record operations
type SvgHandler struct {
	svc SvgService
	log *logger.Logger
}

// NewSvgHandler creates a new SVG handler
func NewSvgHandler(svc SvgService, log *logger.Logger) *SvgHandler {
	return &SvgHandler{
		svc: svc,
		log: log,
	}
}

// ListSvgs returns all records, newest first
// GET /api/svgs
func (h *SvgHandler) ListSvgs(c echo.Context) error {
	svgs, err := h.svc.List(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.OK(svgList(svgs)))
}

// SearchSvgs returns records matching the q parameter
// GET /api/svgs/search?q=...
func (h *SvgHandler) SearchSvgs(c echo.Context) error {
	svgs, err := h.svc.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.OK(svgList(svgs)))
}

// GetSvg returns a single record by id
// GET /api/svgs/:id
func (h *SvgHandler) GetSvg(c echo.Context) error {
	svg, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.OK(svg))
}

// CreateSvg stores a new upload
// POST /api/svgs (multipart: name, description, svgFile)
func (h *SvgHandler) CreateSvg(c echo.Context) error {
	name := c.FormValue("name")
	description := c.FormValue("description")

	file, err := readUpload(c, "svgFile")
	if err != nil {
		return err
	}

	svg, err := h.svc.Create(c.Request().Context(), name, description, file)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, models.OKWithMessage(svg, "SVG uploaded successfully"))
}

type updateRequest struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
}

// UpdateSvg changes name and description of a record
// PUT /api/svgs/:id
func (h *SvgHandler) UpdateSvg(c echo.Context) error {
	var req updateRequest
	// A body that doesn't bind yields empty fields, which validation
	// rejects with the required-fields message.
	_ = c.Bind(&req)

	svg, err := h.svc.Update(c.Request().Context(), c.Param("id"), req.Name, req.Description)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.OKWithMessage(svg, "SVG updated successfully"))
}

// DeleteSvg removes a record
// DELETE /api/svgs/:id
func (h *SvgHandler) DeleteSvg(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "SVG deleted successfully",
	})
}

// readUpload buffers the attached file. A missing file returns (nil,
// nil); validation decides whether that is an error. Reading stops one
// byte past the cap so an oversized upload is rejected without
// buffering it whole.
func readUpload(c echo.Context, field string) (*validation.Upload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, nil
	}

	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, models.MaxFileSize+1))
	if err != nil {
		return nil, err
	}

	return &validation.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Data:        data,
	}, nil
}

// svgList keeps empty results as [] rather than null in the envelope
func svgList(svgs []*models.Svg) []*models.Svg {
	if svgs == nil {
		return []*models.Svg{}
	}
	return svgs
}
