// CrewSense Core - Crew Telemetry Platform
//
// This is the main entry point for the CrewSense Core application.
// CrewSense ingests live biometric and environmental telemetry from
// wearable sensor units, classifies each unit's safety status, and
// streams state changes to command dashboards in real time. It also
// reconstructs still images from raw sensor sample buffers and indexes
// video captures uploaded from the field.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/crewsense/crewsense-core/migrations"

	"github.com/crewsense/crewsense-core/internal/api"
	"github.com/crewsense/crewsense-core/internal/infrastructure/config"
	"github.com/crewsense/crewsense-core/internal/infrastructure/database"
	"github.com/crewsense/crewsense-core/internal/infrastructure/influxdb"
	"github.com/crewsense/crewsense-core/internal/infrastructure/logging"
	"github.com/crewsense/crewsense-core/internal/infrastructure/mqtt"
	"github.com/crewsense/crewsense-core/internal/ingest"
	"github.com/crewsense/crewsense-core/internal/media"
	"github.com/crewsense/crewsense-core/internal/telemetry"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting CrewSense Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Media pipeline: blob storage plus the SQLite-backed index
	blobs, err := media.NewBlobStore(cfg.Media.Dir)
	if err != nil {
		return fmt.Errorf("initialising blob store: %w", err)
	}
	mediaStore := media.NewStore(media.NewSQLiteRepository(db.DB), blobs, media.Options{
		Frame: media.FrameSpec{
			Width:    cfg.Media.Image.Width,
			Height:   cfg.Media.Image.Height,
			PadShort: cfg.Media.Image.PadShortBuffers,
		},
		MaxVideoBytes: cfg.Media.MaxVideoBytes(),
	})
	mediaStore.SetLogger(log)
	log.Info("media pipeline initialised",
		"dir", cfg.Media.Dir,
		"frame", fmt.Sprintf("%dx%d", cfg.Media.Image.Width, cfg.Media.Image.Height),
		"max_video_mb", cfg.Media.MaxVideoMB,
	)

	// In-memory unit state store
	units := telemetry.NewStore()

	// WebSocket hub is created ahead of the API server so the ingest
	// gateway can broadcast through it regardless of transport.
	hub := api.NewHub(cfg.WebSocket, log)

	gateway := ingest.NewGateway(units, mediaStore, hub)
	gateway.SetLogger(log)

	// Connect to MQTT broker (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		mqttClient.SetLogger(log)
		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})

		// Bridge unit telemetry topics into the gateway and publish merged
		// readings back out as retained state.
		bridge := ingest.NewBridge(gateway, byte(cfg.MQTT.QoS))
		if attachErr := bridge.Attach(mqttClient); attachErr != nil {
			return fmt.Errorf("attaching MQTT ingest bridge: %w", attachErr)
		}
		gateway.SetPublisher(ingest.NewStatePublisher(mqttClient))
		log.Info("MQTT ingest bridge attached")
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		gateway.SetVitalsSink(influxClient)
	} else {
		log.Info("InfluxDB disabled")
	}

	// Start API server
	server, err := api.New(api.Deps{
		Config:      cfg.API,
		WS:          cfg.WebSocket,
		Logger:      log,
		Units:       units,
		Media:       mediaStore,
		Gateway:     gateway,
		MediaDir:    blobs.Root(),
		ExternalHub: hub,
		Version:     version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := server.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		log.Info("stopping API server")
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started", "host", cfg.API.Host, "port", cfg.API.Port)

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, server, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// API server, InfluxDB (if enabled), MQTT (if enabled), database.

	log.Info("CrewSense Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses CREWSENSE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("CREWSENSE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies infrastructure connections are healthy.
// The MQTT and InfluxDB clients may be nil when disabled.
func healthCheck(ctx context.Context, db *database.DB, server *api.Server, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if err := server.HealthCheck(ctx); err != nil {
		return fmt.Errorf("api: %w", err)
	}

	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}
