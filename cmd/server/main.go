package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/archassist/archgames-backend/internal/app"
	"github.com/archassist/archgames-backend/internal/observability"
)

func main() {
	a, err := app.New()
	if err != nil {
		fmt.Printf("Failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	shutdown := observability.InitOTel(context.Background(), a.Log, observability.OtelConfig{
		ServiceName: "archgames-backend",
		Environment: a.Cfg.Environment,
		Version:     a.Cfg.Version,
	})
	if shutdown != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				a.Log.Warn("OTel shutdown failed", "error", err)
			}
		}()
	}

	a.Start()

	a.Log.Info("Server listening", "port", a.Cfg.Port)
	if err := a.Run(":" + a.Cfg.Port); err != nil {
		a.Log.Error("Server failed", "error", err)
	}
}
