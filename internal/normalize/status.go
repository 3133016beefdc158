package normalize

import (
	"log/slog"
	"strings"

	"github.com/vare7/cloud-db-inventory/internal/inventory"
)

type statusRule struct {
	substrs []string
	status  inventory.Status
}

// Rules are evaluated top to bottom; the first rule with any matching
// substring decides. Unmatched input is available.
var (
	azureStatusRules = []statusRule{
		{[]string{"stopped", "deallocated"}, inventory.StatusStopped},
		{[]string{"ready", "running"}, inventory.StatusAvailable},
		{[]string{"maintenance", "upgrading", "updating"}, inventory.StatusMaintenance},
		{[]string{"warning", "error", "failed"}, inventory.StatusWarning},
	}
	genericStatusRules = []statusRule{
		{[]string{"stopped"}, inventory.StatusStopped},
		{[]string{"ready"}, inventory.StatusReady},
		{[]string{"maintenance", "upgrading", "updating"}, inventory.StatusMaintenance},
		{[]string{"warning", "error", "failed", "stopping"}, inventory.StatusWarning},
	}
)

// MapStatus coerces an exporter status string into the canonical set.
// An empty input is treated as "available".
func MapStatus(raw string, provider inventory.Provider) inventory.Status {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		s = DefaultStatus
	}

	rules := genericStatusRules
	if provider == inventory.ProviderAzure {
		rules = azureStatusRules
	}

	status := inventory.StatusAvailable
	for _, r := range rules {
		if containsAny(s, r.substrs) {
			status = r.status
			break
		}
	}

	slog.Debug("status mapped", "raw", raw, "provider", provider, "status", status)
	return status
}

func containsAny(s string, substrs []string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
