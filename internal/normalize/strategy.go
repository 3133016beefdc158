package normalize

import (
	"log/slog"

	"github.com/vare7/cloud-db-inventory/internal/inventory"
)

// strategy is the closed set of extraction variants.
type strategy int

const (
	// strategyGeneric handles AWS exports and any CSV using generic column names.
	strategyGeneric strategy = iota
	// strategyAzure is the generic extraction plus tenant resolution.
	strategyAzure
	// strategyAzureSimple handles portal exports keyed by name + type columns.
	strategyAzureSimple
)

func (s strategy) String() string {
	switch s {
	case strategyAzure:
		return "azure"
	case strategyAzureSimple:
		return "azure-simple"
	default:
		return "generic"
	}
}

// selectStrategy picks the extraction variant for one row.
func selectStrategy(provider inventory.Provider, row Row) strategy {
	if provider != inventory.ProviderAzure {
		return strategyGeneric
	}
	if row.First(simpleNameAliases) != "" && row.First(dbTypeAliases) != "" {
		return strategyAzureSimple
	}
	return strategyAzure
}

// Draft is an extracted record that has not yet passed the required-field
// check or validation. Absent lists optional fields that fell back to a default.
type Draft struct {
	Record inventory.Record
	Absent []string
}

// Missing returns the mandatory fields the draft lacks, in fixed order.
func (d Draft) Missing() []string {
	var missing []string
	if d.Record.Service == "" {
		missing = append(missing, "service")
	}
	if d.Record.Region == "" {
		missing = append(missing, "region")
	}
	return missing
}

// extract resolves every logical field of row for provider.
func (s strategy) extract(row Row, provider inventory.Provider) Draft {
	d := Draft{Record: inventory.Record{Provider: provider}}
	rec := &d.Record

	service := row.First(serviceAliases)
	engine := row.First(engineAliases)
	region := row.First(regionAliases)
	endpoint := row.First(endpointAliases)

	if s == strategyAzureSimple {
		service = row.FirstOr(simpleNameAliases, service)
		engine = CanonicalAzureEngine(row.FirstOr(dbTypeAliases, engine))
		region = row.FirstOr(locationAliases, region)
		endpoint = row.FirstOr(fqdnAliases, endpoint)
	}

	rec.Service = service
	rec.Region = region

	rec.Engine = engine
	if rec.Engine == "" {
		rec.Engine = DefaultEngine
		d.Absent = append(d.Absent, "engine")
	}

	rec.Endpoint = endpoint
	if rec.Endpoint == "" {
		rec.Endpoint = service
		d.Absent = append(d.Absent, "endpoint")
	}

	storage, ok := row.Lookup(storageAliases)
	gb, parsed := parseStorageGB(storage)
	if !parsed {
		d.Absent = append(d.Absent, "storage_gb")
		if ok {
			slog.Debug("storage defaulted to 0", "raw", storage, "service", service)
		}
	}
	rec.StorageGB = gb

	status, ok := row.Lookup(statusAliases)
	if !ok {
		d.Absent = append(d.Absent, "status")
	}
	rec.Status = MapStatus(status, provider)

	rec.Subscription = row.First(subscriptionAliases)
	if rec.Subscription == "" {
		rec.Subscription = DefaultSubscription
		d.Absent = append(d.Absent, "subscription")
	}

	rec.Tags = SplitTags(row.First(tagAliases))
	rec.Version = row.First(versionAliases)
	if rec.Version == "" {
		d.Absent = append(d.Absent, "version")
	}

	if s != strategyGeneric {
		rec.AzureTenant = row.First(tenantAliases)
	}

	rec.Details = inventory.Details{
		AvailabilityZone:      row.First(availabilityZoneAliases),
		AutoScaling:           row.First(autoScalingAliases),
		IOPS:                  row.First(iopsAliases),
		HighAvailabilityState: row.First(haStateAliases),
		Replica:               row.First(replicaAliases),
		BackupRetentionDays:   row.First(backupRetentionAliases),
		GeoRedundantBackup:    row.First(geoBackupAliases),
	}

	return d
}
