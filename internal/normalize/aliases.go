package normalize

// Alias lists per logical field. Order is precedence: the first alias with a
// non-empty value wins. Keys are compared after NormalizeKey.
var (
	serviceAliases = []string{
		"service", "service_name", "db_service", "type", "resource & subscription", "name",
		"dbinstanceidentifier", "db_instance_identifier", "db_instance_id", "db_identifier",
		"database", "dbname",
	}
	engineAliases = []string{"engine", "engine_type", "db_engine", "database_engine", "db_type"}
	regionAliases = []string{"region", "location", "availability_zone"}

	endpointAliases = []string{
		"endpoint", "endpointaddress", "endpoint_address", "endpoint.address", "address",
		"hostname", "host", "server_name", "server", "fqdn",
	}
	storageAliases = []string{
		"storage_gb", "storagegb", "storage", "allocated_storage", "allocatedstorage", "size_gb",
	}
	statusAliases = []string{
		"status", "state", "db_instance_status", "dbinstancestatus", "availability",
	}
	subscriptionAliases = []string{
		"subscription", "account_id", "owner", "owner_team", "team", "department", "resource & subscription",
	}
	tagAliases     = []string{"tags", "tag", "labels"}
	versionAliases = []string{
		"version", "dbversion", "engine_version", "engineversion", "db_version", "server_version",
	}
	tenantAliases = []string{"azure_tenant", "tenantid", "tenant_id", "tenant"}

	// Azure simple mode columns.
	simpleNameAliases = []string{"name"}
	dbTypeAliases     = []string{"db_type", "dbtype", "type"}
	locationAliases   = []string{"location"}
	fqdnAliases       = []string{"fqdn"}
)

// detailAliases maps each descriptive attribute to its aliases.
var (
	availabilityZoneAliases = []string{"availability_zone", "availabilityzone", "az", "zone"}
	autoScalingAliases      = []string{"auto_scaling", "autoscaling", "storage_autogrow", "auto_grow"}
	iopsAliases             = []string{"iops", "provisioned_iops", "provisionediops"}
	haStateAliases          = []string{"high_availability_state", "high_availability", "ha_state", "multi_az"}
	replicaAliases          = []string{"replica", "replicas", "read_replica", "replication_role"}
	backupRetentionAliases  = []string{
		"backup_retention_days", "backupretentionperiod", "backup_retention_period", "backup_retention",
	}
	geoBackupAliases = []string{"geo_redundant_backup", "georedundantbackup", "geo_backup"}
)

// Defaults for fields that degrade instead of rejecting the row.
const (
	DefaultEngine       = "unknown"
	DefaultSubscription = "unknown"
	DefaultStatus       = "available"
)

// RequiredColumns lists the header names that can satisfy each mandatory
// field, for operator hints when a file yields no records.
func RequiredColumns() map[string][]string {
	return map[string][]string{
		"service": serviceAliases,
		"region":  regionAliases,
	}
}
