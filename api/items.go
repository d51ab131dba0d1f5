package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/Aidin1998/itemsvc/common/apiutil"
	"github.com/Aidin1998/itemsvc/internal/items"
	"github.com/Aidin1998/itemsvc/pkg/models"
	"github.com/Aidin1998/itemsvc/pkg/validation"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ping handles the liveness check
func (s *Server) ping(c *gin.Context) {
	c.JSON(http.StatusOK, models.PingResponse{OK: true})
}

// listItems returns every item in insertion order
func (s *Server) listItems(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.List(c.Request.Context()))
}

// createItem validates the payload and stores a new item
func (s *Server) createItem(c *gin.Context) {
	var req models.CreateItemRequest
	if !s.bindJSON(c, &req) || !s.validate(c, req) {
		return
	}

	var name string
	if req.Name != nil {
		name = s.validator.SanitizeName(*req.Name)
	}

	item := s.store.Create(c.Request.Context(), name, req.Price.Decimal())
	s.metrics.ItemsCreated.Inc()
	c.JSON(http.StatusCreated, item)
}

// getItem returns a single item
func (s *Server) getItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		apiutil.WriteEmptyStatus(c, http.StatusNotFound)
		return
	}

	item, err := s.store.Get(c.Request.Context(), id)
	if err != nil {
		s.writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// updateItem replaces the supplied fields of an item. The payload is
// validated before the id is looked up.
func (s *Server) updateItem(c *gin.Context) {
	var req models.UpdateItemRequest
	if !s.bindJSON(c, &req) || !s.validate(c, req) {
		return
	}

	id, ok := parseID(c)
	if !ok {
		apiutil.WriteEmptyStatus(c, http.StatusNotFound)
		return
	}

	patch := req.Patch()
	if patch.Name != nil {
		name := s.validator.SanitizeName(*patch.Name)
		patch.Name = &name
	}

	item, err := s.store.Update(c.Request.Context(), id, patch)
	if err != nil {
		s.writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// deleteItem removes an item
func (s *Server) deleteItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		apiutil.WriteEmptyStatus(c, http.StatusNotFound)
		return
	}

	if err := s.store.Delete(c.Request.Context(), id); err != nil {
		s.writeStoreError(c, err)
		return
	}
	s.metrics.ItemsDeleted.Inc()
	c.Status(http.StatusNoContent)
}

// parseID reads the :id path parameter. Anything that is not an integer can
// never match a stored item.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// bindJSON decodes the request body into obj. An empty body decodes as {}.
// A field of the wrong JSON type is reported against that field.
func (s *Server) bindJSON(c *gin.Context, obj interface{}) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	s.logger.Debug("Rejected request body", zap.String("path", c.FullPath()), zap.Error(err))
	if fe, ok := validation.DecodeError(err); ok {
		s.metrics.ValidationFailures.WithLabelValues(fe.Field).Inc()
		apiutil.WriteErrorResponse(c, http.StatusBadRequest, fe)
		return false
	}
	s.metrics.ValidationFailures.WithLabelValues("body").Inc()
	apiutil.WriteErrorResponse(c, http.StatusBadRequest, validation.FieldError{
		Field:   "body",
		Message: "Request body must be a JSON object",
	})
	return false
}

// validate runs struct validation and writes the error envelope on failure
func (s *Server) validate(c *gin.Context, obj interface{}) bool {
	err := s.validator.ValidateStruct(obj)
	if err == nil {
		return true
	}

	var fieldErrs validation.FieldErrors
	if !errors.As(err, &fieldErrs) {
		s.logger.Error("Validator failed", zap.Error(err))
		apiutil.WriteEmptyStatus(c, http.StatusInternalServerError)
		return false
	}

	for _, fe := range fieldErrs {
		s.metrics.ValidationFailures.WithLabelValues(fe.Field).Inc()
	}
	apiutil.WriteErrorResponse(c, http.StatusBadRequest, fieldErrs...)
	return false
}

// writeStoreError maps store errors to HTTP responses
func (s *Server) writeStoreError(c *gin.Context, err error) {
	if errors.Is(err, items.ErrNotFound) {
		apiutil.WriteEmptyStatus(c, http.StatusNotFound)
		return
	}
	s.logger.Error("Item store failed", zap.Error(err))
	apiutil.WriteEmptyStatus(c, http.StatusInternalServerError)
}
