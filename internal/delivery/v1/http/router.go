package http

import (
	"fmt"
	"net/http"
	"time"

	_ "github.com/DRSN-tech/product-api/docs" // Импорт сгенерированных файлов
	"github.com/DRSN-tech/product-api/internal/usecase"
	"github.com/DRSN-tech/product-api/pkg/logger"
	"github.com/DRSN-tech/product-api/pkg/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

// RouterOptions параметры маршрутов, не относящиеся к usecase.
type RouterOptions struct {
	DefaultPerPage int
	SwaggerHost    string
	Health         func(r *http.Request) error // nil: всегда здоров
}

func (r *Router) Init(prUC usecase.ProductUC, opts RouterOptions) {
	r.router.Use(middleware.RequestID)
	r.router.Use(middleware.RealIP)
	r.router.Use(r.requestLogger)
	r.router.Use(middleware.Recoverer)
	r.router.Use(metrics.Middleware)

	r.router.Get("/healthz", healthHandler(opts.Health))
	r.router.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s/swagger/doc.json", opts.SwaggerHost)), // ссылка на JSON
	))

	prHandler := NewProductHandler(prUC, r.logger, opts.DefaultPerPage)
	r.router.Route(productsPath, func(pr chi.Router) {
		registerProductRoutes(pr, prHandler)
	})
}

func registerProductRoutes(router chi.Router, prHandler *ProductHandler) {
	router.Get("/", prHandler.listProducts)
	router.Get("/all", prHandler.listAllProducts)
	router.Post("/", prHandler.createProduct)
	router.Get("/{id}", prHandler.getProduct)
	router.Put("/{id}", prHandler.updateProduct)
	router.Delete("/{id}", prHandler.deleteProduct)
}

func healthHandler(check func(r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r); err != nil {
				WriteSuccess(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		WriteSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func (r *Router) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)

		next.ServeHTTP(ww, req)

		r.logger.Debugf("%s %s %d %dB %s request_id=%s",
			req.Method, req.URL.Path, ww.Status(), ww.BytesWritten(), time.Since(start), middleware.GetReqID(req.Context()))
	})
}
