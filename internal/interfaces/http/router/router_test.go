package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func ok(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func do(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	engine.ServeHTTP(w, req)
	return w
}

func TestRouter(t *testing.T) {
	t.Run("mounts groups under versioned prefix", func(t *testing.T) {
		engine := gin.New()
		group := NewDomainGroup("dashboard", "/dashboard")
		group.GET("/summary", ok)

		NewRouter(engine).Register(group).Setup()

		assert.Equal(t, http.StatusOK, do(engine, "GET", "/api/v1/dashboard/summary").Code)
		assert.Equal(t, http.StatusNotFound, do(engine, "GET", "/dashboard/summary").Code)
	})

	t.Run("api version is configurable", func(t *testing.T) {
		engine := gin.New()
		group := NewDomainGroup("ledger", "/ledger")
		group.POST("/orders", ok)

		NewRouter(engine, WithAPIVersion("v2")).Register(group).Setup()

		assert.Equal(t, http.StatusOK, do(engine, "POST", "/api/v2/ledger/orders").Code)
	})

	t.Run("registers multiple groups", func(t *testing.T) {
		engine := gin.New()
		catalog := NewDomainGroup("catalog", "/catalog")
		catalog.GET("/sellers", ok)
		shipments := NewDomainGroup("shipments", "/shipments")
		shipments.PUT("/:id/price", ok)

		NewRouter(engine).Register(catalog).Register(shipments).Setup()

		assert.Equal(t, http.StatusOK, do(engine, "GET", "/api/v1/catalog/sellers").Code)
		assert.Equal(t, http.StatusOK, do(engine, "PUT", "/api/v1/shipments/42/price").Code)
	})
}

func TestDomainGroup(t *testing.T) {
	t.Run("exposes its name", func(t *testing.T) {
		g := NewDomainGroup("costing", "/costing")
		assert.Equal(t, "costing", g.Name())
	})

	t.Run("supports all registered methods", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test")
		g.GET("/r", ok).POST("/r", ok).PUT("/r", ok).DELETE("/r", ok)

		NewRouter(engine).Register(g).Setup()

		for _, method := range []string{"GET", "POST", "PUT", "DELETE"} {
			assert.Equal(t, http.StatusOK, do(engine, method, "/api/v1/test/r").Code, method)
		}
	})

	t.Run("applies group middleware before handlers", func(t *testing.T) {
		engine := gin.New()
		var order []string
		g := NewDomainGroup("test", "/test")
		g.Use(func(c *gin.Context) {
			order = append(order, "middleware")
			c.Next()
		})
		g.GET("/r", func(c *gin.Context) {
			order = append(order, "handler")
			c.String(http.StatusOK, "ok")
		})

		NewRouter(engine).Register(g).Setup()

		do(engine, "GET", "/api/v1/test/r")
		assert.Equal(t, []string{"middleware", "handler"}, order)
	})

	t.Run("group middleware does not leak into other groups", func(t *testing.T) {
		engine := gin.New()
		guarded := NewDomainGroup("guarded", "/guarded")
		guarded.Use(func(c *gin.Context) {
			c.AbortWithStatus(http.StatusForbidden)
		})
		guarded.GET("/r", ok)
		open := NewDomainGroup("open", "/open")
		open.GET("/r", ok)

		NewRouter(engine).Register(guarded).Register(open).Setup()

		assert.Equal(t, http.StatusForbidden, do(engine, "GET", "/api/v1/guarded/r").Code)
		assert.Equal(t, http.StatusOK, do(engine, "GET", "/api/v1/open/r").Code)
	})
}
