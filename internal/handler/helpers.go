package handler

import (
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hudsonargollo/gastronomOS-sub008/internal/apierror"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/engine"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/middleware"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// callerIDs extracts the authenticated user and tenant UUIDs from the JWT
// claims set by the auth middleware.
func callerIDs(c *gin.Context) (userID, tenantID uuid.UUID) {
	claims := middleware.GetClaims(c)
	userID, _ = uuid.Parse(claims.UserID)
	tenantID, _ = uuid.Parse(claims.TenantID)
	return userID, tenantID
}

// writeEngineError maps allocation engine errors onto HTTP statuses for the
// standard (non-envelope) endpoints.
func writeEngineError(c *gin.Context, err error) {
	switch {
	case engine.IsNotFound(err):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case engine.IsAuthorization(err):
		c.JSON(http.StatusForbidden, apierror.New(err.Error()))
	case engine.IsValidation(err):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	default:
		_ = c.Error(err)
	}
}
