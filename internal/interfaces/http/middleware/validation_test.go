package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paul-kim93/ablcrossborder/internal/interfaces/http/dto"
)

type createProductInput struct {
	SellerID    string `json:"seller_id" binding:"required,uuid"`
	Name        string `json:"name" binding:"required,min=1,max=100"`
	SupplyPrice string `json:"supply_price" binding:"required"`
}

func TestHandleValidationError(t *testing.T) {
	SetupValidator()

	router := gin.New()
	router.POST("/products", func(c *gin.Context) {
		var input createProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	t.Run("reports each failed field by json name", func(t *testing.T) {
		body := strings.NewReader(`{"seller_id": "not-a-uuid", "name": ""}`)
		req := httptest.NewRequest("POST", "/products", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Len(t, resp.Error.Details, 3)

		fields := make([]string, 0, len(resp.Error.Details))
		for _, d := range resp.Error.Details {
			fields = append(fields, d.Field)
		}
		assert.Contains(t, fields, "seller_id")
		assert.Contains(t, fields, "name")
		assert.Contains(t, fields, "supply_price")
	})

	t.Run("valid input passes binding", func(t *testing.T) {
		body := strings.NewReader(`{
			"seller_id": "6f1f9f1e-4871-4f3a-9a86-0a1c2f9e7b11",
			"name": "Canned peaches",
			"supply_price": "4.50"
		}`)
		req := httptest.NewRequest("POST", "/products", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestValidationMessage(t *testing.T) {
	type input struct {
		Required string `binding:"required"`
		MinStr   string `binding:"min=5"`
		UUID     string `binding:"uuid"`
		OneOf    string `binding:"oneof=add subtract"`
		GT       int    `binding:"gt=0"`
	}

	v := validator.New()
	err := v.Struct(input{MinStr: "ab", UUID: "nope", OneOf: "divide", GT: -1})
	require.Error(t, err)

	want := map[string]string{
		"Required": "This field is required",
		"MinStr":   "Must be at least 5 characters",
		"UUID":     "Invalid UUID format",
		"OneOf":    "Must be one of: add subtract",
		"GT":       "Must be greater than 0",
	}

	validationErrs := err.(validator.ValidationErrors)
	require.Len(t, validationErrs, len(want))
	for _, e := range validationErrs {
		assert.Equal(t, want[e.StructField()], validationMessage(e), e.StructField())
	}
}
