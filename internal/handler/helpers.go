package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/middleware"
	"finance-tracker/internal/storage"
	val "finance-tracker/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// messages overrides the default text of a failed rule, keyed "field.tag".
type messages map[string]string

// bindJSON decodes the body; an empty body counts as {} so that validation
// can report every missing field. Only a body that is not a JSON object
// answers 400: values of the wrong type come back as field messages.
func bindJSON(c *gin.Context, req any) (*domain.ValidationError, bool) {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return nil, true
	}
	err := c.ShouldBindBodyWithJSON(req)
	if err == nil || errors.Is(err, io.EOF) {
		return nil, true
	}

	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) && !errors.Is(err, io.ErrUnexpectedEOF) {
		body, _ := c.Get(gin.BodyBytesKey)
		raw, _ := body.([]byte)
		if verr, err := decodeFields(raw, req); err == nil {
			return verr, true
		}
	}
	slog.Debug("Invalid JSON", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusBadRequest, gin.H{"message": "JSON inválido"})
	return nil, false
}

// decodeFields decodes a JSON object into req one field at a time, leaving
// fields whose value has the wrong type zeroed and reporting them.
func decodeFields(body []byte, req any) (*domain.ValidationError, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}

	rv := reflect.ValueOf(req).Elem()
	rv.Set(reflect.Zero(rv.Type()))
	verr := domain.NewValidationError()
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Type().Field(i)
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		value, ok := raw[name]
		if !f.IsExported() || name == "" || name == "-" || !ok {
			continue
		}
		field := rv.Field(i)
		if err := json.Unmarshal(value, field.Addr().Interface()); err != nil {
			field.Set(reflect.Zero(f.Type))
			verr.Add(name, typeMessage(name, f.Type))
		}
	}
	return verr, nil
}

func typeMessage(field string, t reflect.Type) string {
	switch {
	case t == reflect.TypeOf(domain.AmountInput("")), t == reflect.TypeOf(domain.IDInput("")):
		return fmt.Sprintf("O campo %s deve ser um número.", field)
	case t.Kind() == reflect.String, t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.String:
		return fmt.Sprintf("O campo %s deve ser um texto.", field)
	default:
		return fmt.Sprintf("O campo %s é inválido.", field)
	}
}

// validateStruct collects every violated rule, one list of messages per json
// field. Fields already reported by bindJSON keep only that message.
func validateStruct(v any, msgs messages, bound *domain.ValidationError) *domain.ValidationError {
	verr := domain.NewValidationError()
	verr.Merge(bound)
	if err := val.Validate.Struct(v); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			verr.Add("_", err.Error())
			return verr
		}
		for _, e := range fieldErrs {
			if !bound.Empty() && len(bound.Fields[e.Field()]) > 0 {
				continue
			}
			verr.Add(e.Field(), fieldErrorToString(e, msgs))
		}
	}
	return verr
}

func fieldErrorToString(e validator.FieldError, msgs messages) string {
	if m, ok := msgs[e.Field()+"."+e.Tag()]; ok {
		return m
	}
	switch e.Tag() {
	case "required", "notblank":
		if m, ok := msgs[e.Field()+".required"]; ok {
			return m
		}
		return fmt.Sprintf("O campo %s é obrigatório.", e.Field())
	case "max":
		return fmt.Sprintf("O campo %s não pode ter mais de %s caracteres.", e.Field(), e.Param())
	case "min":
		return fmt.Sprintf("O campo %s deve ter pelo menos %s caracteres.", e.Field(), e.Param())
	case "email":
		return fmt.Sprintf("O campo %s deve ser um endereço de e-mail válido.", e.Field())
	case "isodate":
		return fmt.Sprintf("O campo %s deve ser uma data válida (AAAA-MM-DD).", e.Field())
	case "yearmonth":
		return fmt.Sprintf("O campo %s deve estar no formato AAAA-MM.", e.Field())
	case "money", "numeric":
		return fmt.Sprintf("O campo %s deve ser um número.", e.Field())
	default:
		return fmt.Sprintf("O campo %s é inválido.", e.Field())
	}
}

// respondError maps domain and storage errors onto HTTP.
func respondError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	var cerr *domain.ConflictError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": firstMessage(verr), "errors": verr.Fields})
	case errors.As(err, &cerr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"message": cerr.Message,
			"errors":  map[string][]string{cerr.Field: {cerr.Message}},
		})
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Registro não encontrado."})
	default:
		slog.Error("Request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erro interno do servidor"})
	}
}

// firstMessage picks the message of the alphabetically first field.
func firstMessage(verr *domain.ValidationError) string {
	first := ""
	for f := range verr.Fields {
		if first == "" || f < first {
			first = f
		}
	}
	if first == "" || len(verr.Fields[first]) == 0 {
		return "Os dados informados são inválidos."
	}
	return verr.Fields[first][0]
}

func currentUserID(c *gin.Context) (int64, bool) {
	userIDVal, ok := c.Get(middleware.UserIDKey)
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "user_id missing"})
		return 0, false
	}
	userID, ok := userIDVal.(int64)
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "invalid user_id"})
		return 0, false
	}
	return userID, true
}

func currentTokenID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(middleware.TokenIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// pathID answers 404 itself for ids that cannot name a row.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		respondError(c, storage.ErrNotFound)
		return 0, false
	}
	return id, true
}

func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

type monthQuery struct {
	Month string `json:"month" validate:"omitempty,yearmonth"`
}

// monthParam reads ?month=YYYY-MM; absent gives nil.
func monthParam(c *gin.Context) (*domain.Month, bool) {
	q := monthQuery{Month: strings.TrimSpace(c.Query("month"))}
	if verr := validateStruct(q, nil, nil); !verr.Empty() {
		respondError(c, verr)
		return nil, false
	}
	if q.Month == "" {
		return nil, true
	}
	m, err := domain.ParseMonth(q.Month)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return &m, true
}

type SearchRequest struct {
	Search string `json:"search"`
}

func searchTerm(c *gin.Context) (string, bool) {
	var req SearchRequest
	verr, ok := bindJSON(c, &req)
	if !ok {
		return "", false
	}
	if !verr.Empty() {
		respondError(c, verr)
		return "", false
	}
	return domain.CleanText(req.Search), true
}
