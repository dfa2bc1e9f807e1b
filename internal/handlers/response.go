package handlers

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/retailrewards/rewards-backend/internal/models"
	"github.com/retailrewards/rewards-backend/internal/services"
	"github.com/sirupsen/logrus"
)

var fieldLabels = map[string]string{
	"customerId":      "Customer ID",
	"amount":          "Amount",
	"transactionDate": "Transaction date",
	"name":            "Name",
	"email":           "Email",
}

// RegisterJSONFieldNames makes binding errors report JSON field names
// instead of Go struct field names
func RegisterJSONFieldNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
}

func errorBody(status int, message string, fields map[string]string) models.ErrorResponse {
	return models.ErrorResponse{
		Status:    status,
		Message:   message,
		Errors:    fields,
		Timestamp: time.Now().UTC(),
	}
}

func abortWithError(c *gin.Context, status int, message string, fields map[string]string) {
	c.AbortWithStatusJSON(status, errorBody(status, message, fields))
}

// respondError maps a service error to its HTTP representation
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	var notFound *services.NotFoundError
	var invalid *services.ValidationError
	switch {
	case errors.As(err, &notFound):
		abortWithError(c, http.StatusNotFound, notFound.Error(), nil)
	case errors.As(err, &invalid):
		abortWithError(c, http.StatusBadRequest, invalid.Message, invalid.Fields)
	default:
		logger.WithError(err).WithField("path", c.FullPath()).Error("Request failed")
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred", nil)
	}
}

// respondBindError reports a request body that could not be decoded or
// failed its binding rules
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		abortWithError(c, http.StatusBadRequest, "Validation failed", validationFields(verrs))
		return
	}
	abortWithError(c, http.StatusBadRequest, "Malformed request body", map[string]string{"body": err.Error()})
}

func validationFields(verrs validator.ValidationErrors) map[string]string {
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		label, ok := fieldLabels[fe.Field()]
		if !ok {
			label = fe.Field()
		}
		switch fe.Tag() {
		case "required":
			fields[fe.Field()] = label + " is required"
		case "email":
			fields[fe.Field()] = label + " must be a valid email address"
		default:
			fields[fe.Field()] = label + " failed " + fe.Tag() + " validation"
		}
	}
	return fields
}
