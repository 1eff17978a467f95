package services

import (
	"log/slog"

	"fcbox-relay/internal/config"
	"fcbox-relay/internal/interfaces"
	"fcbox-relay/internal/services/mock"
	"fcbox-relay/internal/services/real"
)

// CreateVendor creates the appropriate vendor gateway based on configuration.
func CreateVendor(cfg *config.Config, logger *slog.Logger) (interfaces.LockerVendor, error) {
	if cfg.Vendor.StandaloneMode {
		// Standalone mode: canned data, no outbound traffic
		return mock.NewMockVendor(logger)
	}
	return real.NewFcboxClient(cfg.Vendor.BaseURL, logger), nil
}
