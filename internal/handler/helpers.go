package handler

import (
	"errors"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"machineshop/internal/apierror"
	"machineshop/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
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

	// Report fields by their JSON name.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
}

// normalizable requests trim their free-text fields before validation so
// that whitespace-only values fail the required tags.
type normalizable interface {
	Normalizar()
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	return validateRequest(c, req)
}

// bindOptional is bindAndValidate for endpoints whose body may be omitted.
// An empty body, chunked or not, leaves req at its zero value.
func bindOptional(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	return validateRequest(c, req)
}

func validateRequest(c *gin.Context, req interface{}) bool {
	if n, ok := req.(normalizable); ok {
		n.Normalizar()
	}
	if err := validate.Struct(req); err != nil {
		var ves validator.ValidationErrors
		if !errors.As(err, &ves) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return false
		}
		fields := make(map[string]string, len(ves))
		for _, fe := range ves {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// parseID reads a positive numeric path parameter. Writes 400 and returns
// false when it is malformed.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return 0, false
	}
	return uint(id), true
}

// respondError maps service errors onto HTTP statuses. Anything unknown is
// handed to the ErrorHandler middleware, which answers 500.
func respondError(c *gin.Context, err error) {
	var ref *service.ReferenciaInvalidaError
	switch {
	case errors.As(err, &ref):
		c.JSON(http.StatusBadRequest, apierror.NewCampo(ref.Mensaje, ref.Campo))
	case errors.Is(err, service.ErrNoEncontrado):
		c.JSON(http.StatusNotFound, apierror.New(service.Mensaje(err)))
	case errors.Is(err, service.ErrConflicto):
		c.JSON(http.StatusConflict, apierror.New(service.Mensaje(err)))
	case errors.Is(err, service.ErrValidacion):
		c.JSON(http.StatusBadRequest, apierror.New(service.Mensaje(err)))
	case errors.Is(err, service.ErrAlmacenamientoNoConfigurado):
		c.JSON(http.StatusServiceUnavailable, apierror.New("El almacenamiento de dibujos no está configurado."))
	default:
		_ = c.Error(err)
	}
}
