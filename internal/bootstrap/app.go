package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"

	"cloud.google.com/go/datastore"
	"github.com/hashicorp/go-multierror"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/locvowork/sheettable/internal/config"
	"github.com/locvowork/sheettable/internal/database"
	"github.com/locvowork/sheettable/internal/handler"
	"github.com/locvowork/sheettable/internal/logger"
	"github.com/locvowork/sheettable/internal/report"
	"github.com/olivere/elastic/v7"
)

type App struct {
	Echo      *echo.Echo
	DB        *sql.DB
	Elastic   *elastic.Client
	Datastore *datastore.Client
	Reports   *report.Service
}

func NewApp() *App {
	e := echo.New()
	e.HideBanner = true
	return &App{Echo: e}
}

func (a *App) Initialize(ctx context.Context) error {
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}
	cfg := config.DefaultEnvConfig

	logger.InitLogging(cfg.LOG_FILE_PATH)
	logger.SetLevel(cfg.LOG_LEVEL)
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	catalog, err := report.LoadCatalog(cfg.REPORTS_FILE)
	if err != nil {
		return fmt.Errorf("failed to load report catalog: %w", err)
	}
	a.Reports = report.NewService(catalog, report.Options{
		RowsPerSheet:      cfg.ROWS_PER_SHEET,
		EmptyTableMessage: cfg.EMPTY_TABLE_MESSAGE,
	})

	if err := a.initBackends(ctx, cfg); err != nil {
		return err
	}

	a.RegisterMiddlewares()
	a.RegisterRoutes(handler.NewReportHandler(a.Reports))
	return nil
}

// initBackends connects the data stores that are configured and registers
// them as report sources.
func (a *App) initBackends(ctx context.Context, cfg config.EnvConfig) error {
	if cfg.DB_NAME != "" {
		db, err := database.NewPostgresDB(ctx, database.Config{
			Host:            cfg.DB_HOST,
			Port:            cfg.DB_PORT,
			User:            cfg.DB_USER,
			Password:        cfg.DB_PASSWORD,
			DBName:          cfg.DB_NAME,
			SSLMode:         cfg.DB_SSL_MODE,
			MaxOpenConns:    cfg.DB_MAX_OPEN_CONNS,
			MaxIdleConns:    cfg.DB_MAX_IDLE_CONNS,
			ConnMaxLifetime: cfg.DB_CONN_MAX_LIFETIME,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		a.DB = db
		a.Reports.RegisterSource(report.SourceSQL, report.SQLSource(db))
	}

	if cfg.ELASTIC_URL != "" {
		client, err := elastic.NewClient(
			elastic.SetURL(cfg.ELASTIC_URL),
			elastic.SetSniff(false),
		)
		if err != nil {
			return fmt.Errorf("failed to initialize elasticsearch client: %w", err)
		}
		a.Elastic = client
		a.Reports.RegisterSource(report.SourceElastic, report.ElasticSource(client))
	}

	if cfg.GCP_PROJECT_ID != "" {
		if host := os.Getenv("DATASTORE_EMULATOR_HOST"); host != "" {
			logger.InfoLog(ctx, "Using Datastore emulator at %s", host)
		}
		client, err := datastore.NewClient(ctx, cfg.GCP_PROJECT_ID)
		if err != nil {
			// Datastore reports fail individually; the rest keep working.
			logger.ErrorLog(ctx, "failed to initialize datastore client: %v", err)
		} else {
			a.Datastore = client
			a.Reports.RegisterSource(report.SourceDatastore, report.DatastoreSource(client))
		}
	}
	return nil
}

func (a *App) RegisterMiddlewares() {
	a.Echo.Use(middleware.RequestID())
	a.Echo.Use(handler.RequestContext())
	a.Echo.Use(middleware.Logger())
	a.Echo.Use(middleware.Recover())
	a.Echo.Use(middleware.CORS())
}

func (a *App) RegisterRoutes(reportHandler *handler.ReportHandler) {
	a.Echo.GET("/health", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	reportGroup := a.Echo.Group("/reports")
	reportGroup.GET("", reportHandler.ListHandler)
	reportGroup.GET("/:name/export", reportHandler.ExportHandler)
}

func (a *App) Run() error {
	defer a.Close()
	err := a.Echo.Start(":" + config.DefaultEnvConfig.APP_PORT)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Close releases the backend connections.
func (a *App) Close() error {
	var result *multierror.Error
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if a.Elastic != nil {
		a.Elastic.Stop()
	}
	if a.Datastore != nil {
		if err := a.Datastore.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
