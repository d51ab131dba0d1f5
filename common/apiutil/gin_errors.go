package apiutil

import (
	"github.com/Aidin1998/itemsvc/pkg/validation"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the error envelope returned on rejected payloads
//
// Example:
//
//	{
//	  "errors": [
//	    { "field": "price", "message": "Field \"price\" cannot be negative" }
//	  ]
//	}
type ErrorResponse struct {
	Errors []validation.FieldError `json:"errors"`
}

// WriteErrorResponse writes the error envelope and aborts the chain
func WriteErrorResponse(c *gin.Context, status int, errs ...validation.FieldError) {
	if errs == nil {
		errs = []validation.FieldError{}
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Errors: errs})
}

// WriteEmptyStatus aborts with a bare status code and no body
func WriteEmptyStatus(c *gin.Context, status int) {
	c.AbortWithStatus(status)
}
