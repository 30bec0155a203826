package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vitalboard/internal/ingest"
	"vitalboard/internal/logger"
	"vitalboard/internal/repository"
	"vitalboard/internal/repository/db"

	"github.com/spf13/viper"
)

const defaultSimTick = 10 * time.Second

// The ingestor is the write side of the sensor store: it subscribes to the
// device broker (or runs the dev simulator) and inserts readings. Kept as a
// separate binary so the dashboard service stays read-only.
func main() {
	log := logger.Get(logger.InfoLevel)

	if err := loadConfig(); err != nil {
		log.Fatalw("error reading config", "err", err)
	}

	store, err := db.InitDB(viper.GetString("db.path"))
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			log.Fatalw("failed to close sqlite", "err", cerr)
		}
	}()

	repos := repository.NewRepository(store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if viper.GetBool("ingest.simulate") {
		sim := ingest.NewSimulator(repos.Readings, log, viper.GetString("ingest.device_id"))
		go sim.Run(ctx, simTick())
	} else {
		sub := ingest.NewSubscriber(ingest.MQTTConfig{
			BrokerURL: viper.GetString("mqtt.broker_url"),
			ClientID:  viper.GetString("mqtt.client_id"),
			Topic:     viper.GetString("mqtt.topic"),
		}, repos.Readings, log)
		go func() {
			if err := sub.Start(ctx); err != nil {
				log.Fatalw("ingestor failed", "err", err)
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down ingestor...")
	cancel()
}

func loadConfig() error {
	viper.AddConfigPath("configs")
	viper.SetConfigName("config")
	viper.SetDefault("db.path", "vitalboard.db")
	viper.SetDefault("mqtt.broker_url", "tcp://localhost:1883")
	return viper.ReadInConfig()
}

func simTick() time.Duration {
	if d := viper.GetDuration("ingest.sim_tick"); d > 0 {
		return d
	}
	return defaultSimTick
}
