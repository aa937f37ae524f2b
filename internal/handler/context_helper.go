package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-portal/internal/middleware"
	"github.com/noah-isme/school-portal/internal/models"
	"github.com/noah-isme/school-portal/internal/resource"
	appErrors "github.com/noah-isme/school-portal/pkg/errors"
	"github.com/noah-isme/school-portal/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// criteriaFromQuery reads ?search= and every filter the schema knows.
func criteriaFromQuery(c *gin.Context, filters []string) resource.Criteria {
	criteria := resource.Criteria{
		Search:  strings.TrimSpace(c.Query("search")),
		Filters: make(map[string]string, len(filters)),
	}
	for _, name := range filters {
		if value := strings.TrimSpace(c.Query(name)); value != "" {
			criteria.Filters[name] = value
		}
	}
	return criteria
}

// pageFromQuery returns zero size when no limit was requested.
func pageFromQuery(c *gin.Context) (int, int, error) {
	page := 1
	if raw := c.Query("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return 0, 0, appErrors.Clone(appErrors.ErrValidation, "page must be a positive integer")
		}
		page = v
	}
	size := 0
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return 0, 0, appErrors.Clone(appErrors.ErrValidation, "limit must be a positive integer")
		}
		size = v
	}
	return page, size, nil
}

// writeError maps resource errors onto the API error envelope.
func writeError(c *gin.Context, err error) {
	var validation *resource.ValidationError
	if errors.As(err, &validation) {
		response.Error(c, appErrors.WithFields(appErrors.Clone(appErrors.ErrValidation, validation.Error()), validation.Fields))
		return
	}
	var missing *resource.NotFoundError
	if errors.As(err, &missing) {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, missing.Error()))
		return
	}
	var rejected *resource.RejectedError
	if errors.As(err, &rejected) {
		message := fmt.Sprintf("backend rejected %s %s with status %d", rejected.Resource, rejected.Op, rejected.Status)
		response.Error(c, appErrors.Wrap(err, appErrors.ErrUpstreamRejected.Code, http.StatusBadGateway, message))
		return
	}
	response.Error(c, err)
}

func invalidPayload(c *gin.Context, err error) {
	response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
}
