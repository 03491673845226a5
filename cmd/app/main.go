package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"routeplanner/cmd"
	"routeplanner/internal/adapters/in/gps"
	inhttp "routeplanner/internal/adapters/in/http"
	"routeplanner/internal/adapters/out/postgres"
	"routeplanner/internal/adapters/out/postgres/routerepo"
	"routeplanner/internal/jobs"
	"routeplanner/internal/metrics"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := mustConnectDB(configs)

	app, err := cmd.NewCompositionRoot(configs, gormDB)
	if err != nil {
		log.Fatalf("Failed to build composition root: %v", err)
	}

	collector := metrics.NewCollector()

	subscriber, err := gps.NewSubscriber(
		configs.NATSUrl,
		app.RouteUoWFactory(),
		app.CreateRecordProgressCommandHandler(),
		collector,
		logger,
	)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer subscriber.Close()
	if err = subscriber.Start(configs.NATSGPSSubject); err != nil {
		log.Fatalf("Failed to subscribe to GPS subject: %v", err)
	}

	jobManager := jobs.NewJobManager(
		app.CreateRefreshETAsCommandHandler(),
		configs.ETARefreshSchedule,
		collector,
		logger,
	)
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, collector, configs.HTTPPort, logger)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:                 goDotEnvVariable("HTTP_PORT"),
		DBHost:                   goDotEnvVariable("DB_HOST"),
		DBPort:                   goDotEnvVariable("DB_PORT"),
		DBUser:                   goDotEnvVariable("DB_USER"),
		DBPassword:               goDotEnvVariable("DB_PASSWORD"),
		DBName:                   goDotEnvVariable("DB_NAME"),
		DBSslMode:                goDotEnvVariable("DB_SSLMODE"),
		NATSUrl:                  goDotEnvVariable("NATS_URL"),
		NATSGPSSubject:           goDotEnvVariable("NATS_GPS_SUBJECT"),
		WorkdayStart:             goDotEnvVariable("ROUTE_WORKDAY_START"),
		AverageSpeedKmph:         goDotEnvVariable("AVERAGE_SPEED_KMPH"),
		ETARefreshSchedule:       goDotEnvVariable("ETA_REFRESH_SCHEDULE"),
		PastPlannedDateTolerance: goDotEnvVariable("PAST_PLANNED_DATE_TOLERANCE"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func mustConnectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = gormDB.AutoMigrate(
		&routerepo.RouteDTO{},
		&routerepo.StopDTO{},
		&postgres.MachineDTO{},
		&postgres.OperatorDTO{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	return gormDB
}

func startWebServer(app *cmd.CompositionRoot, collector *metrics.Collector, port string, logger *slog.Logger) {
	handlers := inhttp.Handlers{
		CreateRoute:       app.CreateCreateRouteCommandHandler(),
		AddStop:           app.CreateAddStopCommandHandler(),
		RemoveStop:        app.CreateRemoveStopCommandHandler(),
		ReorderStops:      app.CreateReorderStopsCommandHandler(),
		OptimizeRoute:     app.CreateOptimizeRouteCommandHandler(),
		RecordProgress:    app.CreateRecordProgressCommandHandler(),
		UpdateStopNotes:   app.CreateUpdateStopNotesCommandHandler(),
		CompleteRoute:     app.CreateCompleteRouteCommandHandler(),
		DeleteRoute:       app.CreateDeleteRouteCommandHandler(),
		GetRoute:          app.CreateGetRouteQueryHandler(),
		GetOperatorRoutes: app.CreateGetOperatorRoutesQueryHandler(),
	}

	server := inhttp.NewServer(handlers, collector)

	e := echo.New()
	server.RegisterRoutes(e)
	e.GET("/metrics", echo.WrapHandler(collector.Handler()))

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil {
			logger.Info("web server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("Failed to shut down web server: %v", err)
	}
}
