package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"obracalc-backend/lib/configutil"
	"obracalc-backend/lib/pricing"
	"obracalc-backend/lib/pricing/scrape"
	"obracalc-backend/lib/pricing/static"
	"obracalc-backend/lib/serviceutil"
	"obracalc-backend/lib/telemetry"
	"obracalc-backend/services/pricefinder"
)

func main() {
	ctx := serviceutil.SignalContext()

	config, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}

	t, err := telemetry.SetupFromEnv(ctx, "pricefinder")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	defer t.Shutdown(context.Background())
	telemetry.InstrumentPerfStats(ctx)

	engine := pricing.NewEngine(duration(config.CacheTtl, time.Minute*15))

	order := config.Providers
	if len(order) == 0 {
		order = []string{"serp", "static-catalog"}
	}
	for _, name := range order {
		switch name {
		case "serp":
			if config.Scrape.SearchUrl == "" {
				slog.Warn("skipping serp provider, no search_url configured")
				continue
			}
			engine.RegisterProvider(scrape.New(scrape.Options{
				SearchURL:  config.Scrape.SearchUrl,
				QueryParam: config.Scrape.QueryParam,
				Timeout:    duration(config.Scrape.Timeout, 0),
				CacheTTL:   duration(config.Scrape.CacheTtl, 0),
			}))
		case "static-catalog":
			engine.RegisterProvider(static.New())
		default:
			serviceutil.Fatal("unknown provider in config", fmt.Errorf("no provider named %q", name))
		}
	}

	service := pricefinder.NewService(engine)

	port := config.Port
	if port == 0 {
		port = 8330
	}
	go serviceutil.StartHttpServer(port, service.Router())

	<-ctx.Done()
}

func duration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		serviceutil.Fatal("invalid duration in config", err)
	}
	return d
}
