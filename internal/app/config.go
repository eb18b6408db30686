package app

import (
	"github.com/leap-pm/ads-service/internal/platform/envutil"
	"github.com/leap-pm/ads-service/internal/services"
)

type Config struct {
	Port        string
	MetricsAddr string
	Tracking    services.TrackingConfig
}

func LoadConfig() Config {
	return Config{
		Port:        envutil.String("PORT", "8080"),
		MetricsAddr: envutil.String("METRICS_ADDR", ":9464"),
		Tracking:    services.TrackingConfigFromEnv(),
	}
}
