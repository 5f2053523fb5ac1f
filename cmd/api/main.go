package main

import (
	"context"
	"expvar"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"souq/internal/auth"
	"souq/internal/catalog"
	"souq/internal/db"
	"souq/internal/domain/storage"
	"souq/internal/filehost"
	"souq/internal/forms"
	"souq/internal/pagecache"
	"souq/internal/ratelimiter"
	"souq/internal/uploads"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a new zap logger with color.
func NewLogger() (*zap.SugaredLogger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder // This adds color to log levels (INFO, WARN, ERROR)

	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)
	core := zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), zapcore.InfoLevel)

	return zap.New(core).Sugar(), nil
}

func getString(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func getInt(logger *zap.SugaredLogger, key string, fallback int) int {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		logger.Warnw("invalid integer, using default", "key", key, "value", val, "default", fallback)
		return fallback
	}
	return n
}

func getBool(logger *zap.SugaredLogger, key string, fallback bool) bool {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		logger.Warnw("invalid boolean, using default", "key", key, "value", val, "default", fallback)
		return fallback
	}
	return b
}

func getDuration(logger *zap.SugaredLogger, key string, fallback time.Duration) time.Duration {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		logger.Warnw("invalid duration, using default", "key", key, "value", val, "default", fallback)
		return fallback
	}
	return d
}

func loadConfig(logger *zap.SugaredLogger) config {
	return config{
		addr:   getString("ADDR", ":8080"),
		env:    getString("ENV", "development"),
		apiURL: getString("EXTERNAL_URL", "localhost:8080"),
		db: dbConfig{
			addr:        os.Getenv("DB_ADDR"),
			maxConns:    int32(getInt(logger, "DB_MAX_CONNS", 10)),
			maxIdleTime: getDuration(logger, "DB_MAX_IDLE_TIME", 15*time.Minute),
		},
		files: fileHostConfig{
			kind:          getString("FILE_HOST", "cloudinary"),
			cloudinaryURL: os.Getenv("CLOUDINARY_URL"),
			folder:        getString("FILE_FOLDER", "souq"),
			s3Bucket:      os.Getenv("S3_BUCKET"),
			s3BaseURL:     os.Getenv("S3_PUBLIC_BASE_URL"),
			awsEndpoint:   os.Getenv("AWS_ENDPOINT"),
		},
		redis: redisConfig{
			addr:     os.Getenv("REDIS_ADDR"),
			password: os.Getenv("REDIS_PASSWORD"),
			ttl:      getDuration(logger, "PAGE_CACHE_TTL", time.Hour),
		},
		auth: authConfig{
			basic: basicConfig{
				user:     os.Getenv("ADMIN_USER"),
				passHash: os.Getenv("ADMIN_PASSWORD_HASH"),
			},
			token: tokenConfig{
				secret: os.Getenv("AUTH_TOKEN_SECRET"),
				exp:    getDuration(logger, "AUTH_TOKEN_EXP", 12*time.Hour),
				iss:    "souq",
			},
		},
		rateLimiter: rateLimiterConfig{
			requestsPerTimeFrame: getInt(logger, "RATELIMITER_REQUESTS_COUNT", 20),
			timeFrame:            5 * time.Second,
			enabled:              getBool(logger, "RATE_LIMITER_ENABLED", true),
		},
		sweep: getDuration(logger, "FILE_SWEEP_INTERVAL", 5*time.Minute),
	}
}

func newFileHost(ctx context.Context, cfg fileHostConfig) (filehost.Host, error) {
	switch cfg.kind {
	case "cloudinary":
		return filehost.NewCloudinary(cfg.cloudinaryURL, cfg.folder)
	case "s3":
		return filehost.NewS3(ctx, cfg.s3Bucket, cfg.s3BaseURL, cfg.folder, cfg.awsEndpoint)
	}
	return nil, fmt.Errorf("unknown FILE_HOST %q", cfg.kind)
}

func newPageCache(ctx context.Context, cfg redisConfig, logger *zap.SugaredLogger) (pagecache.Cache, error) {
	if cfg.addr == "" {
		logger.Infow("REDIS_ADDR not set, using in-memory page cache")
		return pagecache.NewMemory(cfg.ttl), nil
	}
	client, err := pagecache.NewRedisClient(ctx, cfg.addr, cfg.password)
	if err != nil {
		return nil, err
	}
	return pagecache.NewRedis(client, cfg.ttl), nil
}

var version = "1.0.0"

//	@title			Souq API
//	@description	Bilingual storefront and admin dashboard for companies and their products.

//	@BasePath					/
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						Authorization
//	@securityDefinitions.basic	BasicAuth

func main() {
	logger, err := NewLogger()
	if err != nil {
		fmt.Println("Error creating logger:", err)
		return
	}
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Warnw("no .env file loaded, using process environment", "err", err)
	}

	cfg := loadConfig(logger)
	if cfg.auth.token.secret == "" {
		logger.Fatal("AUTH_TOKEN_SECRET is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Database
	pool, err := db.New(ctx, db.Config{
		Addr:        cfg.db.addr,
		MaxConns:    cfg.db.maxConns,
		MaxIdleTime: cfg.db.maxIdleTime,
		AppName:     "souq-api",
	})
	if err != nil {
		logger.Fatal(err)
	}
	defer pool.Close()
	logger.Info("database connection pool established")

	applied, err := db.Migrate(ctx, pool)
	if err != nil {
		logger.Fatal(err)
	}
	if len(applied) > 0 {
		logger.Infow("migrations applied", "files", applied)
	}

	//storage
	store := storage.NewContainer(pool)

	host, err := newFileHost(ctx, cfg.files)
	if err != nil {
		logger.Fatal(err)
	}

	pages, err := newPageCache(ctx, cfg.redis, logger)
	if err != nil {
		logger.Fatal(err)
	}

	validator, err := forms.NewValidator()
	if err != nil {
		logger.Fatal(err)
	}
	uploader := uploads.NewService(host).WithOrphans(store.FileDeletions)

	// Rate limiter
	rateLimiter := ratelimiter.NewFixedWindowLimiter(
		cfg.rateLimiter.requestsPerTimeFrame,
		cfg.rateLimiter.timeFrame,
	)

	// Authenticator
	jwtAuthenticator := auth.NewJWTAuthenticator(
		cfg.auth.token.secret,
		cfg.auth.token.iss,
		cfg.auth.token.iss,
		cfg.auth.token.exp,
	)

	registry, httpMetrics := newRegistry()

	app := &application{
		config:        cfg,
		logger:        logger,
		catalog:       catalog.NewService(store, host, pages, logger),
		submitter:     forms.NewSubmitter(validator, uploader, logger),
		uploader:      uploader,
		pages:         pages,
		authenticator: jwtAuthenticator,
		rateLimiter:   rateLimiter,
		metrics:       httpMetrics,
		registry:      registry,
	}

	//Metrics collected http://localhost:8080/v1/debug/vars
	expvar.NewString("version").Set(version)
	expvar.Publish("database", expvar.Func(func() any {
		return pool.Stat().TotalConns()
	}))
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.mount()

	logger.Fatal(app.run(mux))
}
