package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"souq/docs" //this is required to generate swagger docs
	"souq/internal/auth"
	"souq/internal/catalog"
	"souq/internal/domain/companies"
	"souq/internal/domain/products"
	"souq/internal/forms"
	"souq/internal/pagecache"
	"souq/internal/ratelimiter"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

// catalogService is what the handlers need from catalog.Service.
type catalogService interface {
	GetCompanies(ctx context.Context) []*companies.Company
	GetProducts(ctx context.Context) ([]*products.Product, error)
	GetCompanyWithProducts(ctx context.Context, slug, search string) (*catalog.CompanyWithProducts, error)
	GetCompanyBySlug(ctx context.Context, slug string) (*companies.Company, error)
	GetProductBySlug(ctx context.Context, slug string) (*products.Product, error)
	GetCompany(ctx context.Context, id int64) (*companies.Company, error)
	GetProduct(ctx context.Context, id int64) (*products.Product, error)
	Stats(ctx context.Context) (catalog.Stats, error)

	AddCompany(ctx context.Context, in catalog.CompanyInput) catalog.Result
	UpdateCompany(ctx context.Context, id int64, in catalog.CompanyInput) catalog.Result
	DeleteCompany(ctx context.Context, id int64) catalog.Result
	AddProduct(ctx context.Context, in catalog.ProductInput) catalog.Result
	UpdateProduct(ctx context.Context, id int64, in catalog.ProductInput) catalog.Result
	DeleteProductAndImages(ctx context.Context, id int64) catalog.Result

	SweepFileDeletions(ctx context.Context) (int, error)
}

type application struct {
	config        config
	logger        *zap.SugaredLogger
	catalog       catalogService
	submitter     *forms.Submitter
	uploader      forms.Uploader
	pages         pagecache.Cache
	authenticator auth.Authenticator
	rateLimiter   *ratelimiter.FixedWindowRateLimiter
	metrics       *metrics
	registry      *prometheus.Registry
}

type config struct {
	addr        string
	env         string
	apiURL      string
	db          dbConfig
	files       fileHostConfig
	redis       redisConfig
	auth        authConfig
	rateLimiter rateLimiterConfig
	sweep       time.Duration
}

type dbConfig struct {
	addr        string
	maxConns    int32
	maxIdleTime time.Duration
}

type fileHostConfig struct {
	kind          string
	cloudinaryURL string
	folder        string
	s3Bucket      string
	s3BaseURL     string
	awsEndpoint   string
}

type redisConfig struct {
	addr     string
	password string
	ttl      time.Duration
}

type authConfig struct {
	basic basicConfig
	token tokenConfig
}

type basicConfig struct {
	user     string
	passHash string
}

type tokenConfig struct {
	secret string
	exp    time.Duration
	iss    string
}

type rateLimiterConfig struct {
	requestsPerTimeFrame int
	timeFrame            time.Duration
	enabled              bool
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if app.metrics != nil {
		r.Use(app.metrics.middleware)
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "X-Cache"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	//Set a timeout value on the request context (ctx), that will signal through ctx.Done() that the request has timed out and further processing should be stopped
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/", app.rootRedirectHandler)
	if app.registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)
		docsURL := fmt.Sprintf("%s/v1/swagger/doc.json", app.config.apiURL)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))
		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

		r.Route("/authentication", func(r chi.Router) {
			r.Use(app.RateLimiterMiddleware)
			r.Post("/token", app.createTokenHandler)
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/slug", app.slugPreviewHandler)
		r.With(app.AdminAuthMiddleware, app.RateLimiterMiddleware).Post("/uploads", app.uploadImagesHandler)
	})

	r.Route("/{locale}", func(r chi.Router) {
		r.Use(app.LocaleMiddleware)

		r.Group(func(r chi.Router) {
			r.Use(pagecache.Middleware(app.pages, app.logger))
			r.Get("/", app.companiesPageHandler)
			r.Route("/company/{slug}", func(r chi.Router) {
				r.Get("/", app.companyPageHandler)
				r.Get("/products", app.companyProductsPageHandler)
				r.Get("/products/{productSlug}", app.productPageHandler)
			})
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Use(app.AdminAuthMiddleware)
			cached := pagecache.Middleware(app.pages, app.logger)

			r.With(cached).Get("/", app.dashboardHandler)

			r.Route("/companies", func(r chi.Router) {
				r.With(cached).Get("/", app.dashboardCompaniesHandler)
				r.Post("/", app.addCompanyHandler)
				r.Get("/{id}", app.companyFormHandler)
				r.Put("/{id}", app.updateCompanyHandler)
				r.Delete("/{id}", app.deleteCompanyHandler)
			})

			r.Route("/products", func(r chi.Router) {
				r.With(cached).Get("/", app.dashboardProductsHandler)
				r.With(app.RateLimiterMiddleware).Post("/", app.addProductHandler)
				r.Get("/{id}", app.productFormHandler)
				r.With(app.RateLimiterMiddleware).Put("/{id}", app.updateProductHandler)
				r.Delete("/{id}", app.deleteProductHandler)
			})
		})
	})

	return r
}

func (app *application) run(mux http.Handler) error {
	// Docs
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.apiURL
	docs.SwaggerInfo.BasePath = "/"

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 60,
		ReadTimeout:  time.Second * 30,
		IdleTimeout:  time.Minute,
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	app.startBackground(ctx)

	// Implementing graceful shutdown
	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())
		stop()

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
