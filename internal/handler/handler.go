package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/prohmpiriya/canteen-storefront/internal/apiclient"
	"github.com/prohmpiriya/canteen-storefront/internal/domain"
	"github.com/prohmpiriya/canteen-storefront/pkg/response"
)

var errInvalidID = errors.New("invalid id")

// handleError converts domain and backend errors to HTTP responses. prefix
// is prepended to the notification, e.g. "Checkout failed: ".
func handleError(c *gin.Context, err error, prefix string) {
	msg := prefix + apiclient.Message(err)

	var apiErr *apiclient.APIError
	switch {
	case errors.Is(err, errInvalidID):
		response.Error(c, http.StatusBadRequest, "INVALID_ID", msg, "")
	case errors.Is(err, errImageTooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, "IMAGE_TOO_LARGE", msg, "")
	case domain.IsValidationError(err):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", msg, "")
	case domain.IsConflictError(err):
		response.Error(c, http.StatusConflict, "CONFLICT", msg, "")
	case domain.IsNotFoundError(err):
		response.NotFound(c, msg)
	case errors.As(err, &apiErr):
		handleAPIError(c, apiErr, msg)
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", msg, "")
	}
}

// fieldErrorView is one invalid field, listed in backend order
type fieldErrorView struct {
	Field    string   `json:"field"`
	Messages []string `json:"messages"`
}

func handleAPIError(c *gin.Context, err *apiclient.APIError, msg string) {
	switch err.Kind {
	case apiclient.KindValidation:
		fields := make([]fieldErrorView, len(err.Fields))
		for i, f := range err.Fields {
			fields[i] = fieldErrorView{Field: f.Field, Messages: f.Messages}
		}
		response.ValidationError(c, msg, fields)
	case apiclient.KindUnauthorized:
		response.Unauthorized(c, msg)
	case apiclient.KindForbidden:
		response.Error(c, http.StatusForbidden, "FORBIDDEN", msg, "")
	case apiclient.KindNotFound:
		response.NotFound(c, msg)
	case apiclient.KindDomain:
		status := err.Status
		if status < 400 || status >= 500 {
			status = http.StatusBadRequest
		}
		response.Error(c, status, "REQUEST_REJECTED", msg, "")
	case apiclient.KindTransport:
		response.Error(c, http.StatusBadGateway, "BACKEND_UNREACHABLE", msg, "")
	default:
		response.Error(c, http.StatusBadGateway, "BACKEND_ERROR", msg, "")
	}
}

// fail records err on span and renders it
func fail(c *gin.Context, span trace.Span, err error, prefix string) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	handleError(c, err, prefix)
}

func intParam(c *gin.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

func pageQuery(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// pageMeta is the meta block of a paginated view
type pageMeta struct {
	Page        int              `json:"page"`
	Loading     bool             `json:"loading"`
	Placeholder bool             `json:"placeholder"`
	HasNext     bool             `json:"has_next"`
	HasPrev     bool             `json:"has_prev"`
	Pagination  *domain.PageMeta `json:"pagination,omitempty"`
}

func newPageMeta[T any](page int, data *domain.Page[T], loading, placeholder bool) pageMeta {
	meta := pageMeta{Page: page, Loading: loading, Placeholder: placeholder}
	if data != nil {
		meta.HasNext = data.HasNext()
		meta.HasPrev = data.HasPrev()
		meta.Pagination = &data.Meta
	}
	return meta
}

func pageData[T any](data *domain.Page[T]) []T {
	if data == nil || data.Data == nil {
		return []T{}
	}
	return data.Data
}
