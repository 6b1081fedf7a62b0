// Package validation enforces upload constraints before any record is
// created or updated. Checks run in a fixed order and the first
// failure wins; validation is all-or-nothing before any store
// mutation.
package validation

import (
	"strings"

	"github.com/svgholder/svgholder/common/apperrors"
	"github.com/svgholder/svgholder/common/models"
)

// User-facing rejection messages.
const (
	MsgCreateFieldsRequired = "Name, description, and SVG file are required"
	MsgUpdateFieldsRequired = "Name and description are required"
	MsgOnlySvgAllowed       = "Only SVG files are allowed"
	MsgFileTooLarge         = "File size too large. Maximum size is 5MB."
	MsgInvalidSvgContent    = "Invalid SVG file content"
)

// SvgMediaType is the declared media type accepted for uploads.
const SvgMediaType = "image/svg+xml"

// Upload is a candidate file as received at the transport edge.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

// CreateInput is the validated result of a create request.
type CreateInput struct {
	Name         string
	Description  string
	Content      string
	FileSize     int64
	OriginalName string
}

// ValidateCreate checks a create request and returns the trimmed,
// decoded input ready for insertion.
func ValidateCreate(name, description string, file *Upload) (*CreateInput, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)

	if name == "" || description == "" || file == nil {
		return nil, apperrors.Validation(MsgCreateFieldsRequired)
	}

	if !IsSvgFile(file.ContentType, file.Filename) {
		return nil, apperrors.Validation(MsgOnlySvgAllowed)
	}

	if file.Size > models.MaxFileSize || int64(len(file.Data)) > models.MaxFileSize {
		return nil, apperrors.Validation(MsgFileTooLarge)
	}

	content := string(file.Data)
	if !strings.Contains(content, "<svg") {
		return nil, apperrors.Validation(MsgInvalidSvgContent)
	}

	return &CreateInput{
		Name:         name,
		Description:  description,
		Content:      content,
		FileSize:     file.Size,
		OriginalName: file.Filename,
	}, nil
}

// ValidateUpdate checks an update request and returns the trimmed
// name and description.
func ValidateUpdate(name, description string) (string, string, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)

	if name == "" || description == "" {
		return "", "", apperrors.Validation(MsgUpdateFieldsRequired)
	}

	return name, description, nil
}

// IsSvgFile reports whether the declared media type or the filename
// identifies an SVG upload.
func IsSvgFile(contentType, filename string) bool {
	return contentType == SvgMediaType ||
		strings.HasSuffix(strings.ToLower(filename), ".svg")
}
