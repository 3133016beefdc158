package core

import "testing"

func TestEngineFamily(t *testing.T) {
	tests := map[string]string{
		"postgres":                      FamilyPostgres,
		"aurora-postgresql":             FamilyPostgres,
		"Azure Database for PostgreSQL": FamilyPostgres,
		"MySQL":                         FamilyMySQL,
		"aurora-mysql":                  FamilyMySQL,
		"sqlserver-se":                  FamilyMSSQL,
		"Microsoft SQL Server":          FamilyMSSQL,
		"mssql":                         FamilyMSSQL,
		"MariaDB":                       "mariadb",
		"":                              "unknown",
	}
	for in, want := range tests {
		if got := EngineFamily(in); got != want {
			t.Errorf("EngineFamily(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"15.4", "13.11", 1},
		{"8.0.35", "8.0.4", 1},
		{"8.0", "8.0.1", -1},
		{"5.7.mysql_aurora.2", "5.7.mysql_aurora.10", -1},
		{"12", "12", 0},
		{"", "1", -1},
		{"abc", "0", 0},
	}
	for _, tt := range tests {
		if got := compareVersions(tt.a, tt.b); got != tt.want {
			t.Errorf("compareVersions(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestMajorVersion(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"15.4", 15, true},
		{"13", 13, true},
		{"11 (aurora)", 11, true},
		{"v12.1", 0, false},
		{"   ", 0, false},
	}
	for _, tt := range tests {
		got, ok := majorVersion(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("majorVersion(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestUpgradeReason(t *testing.T) {
	tests := []struct {
		family  string
		version string
		upgrade bool
	}{
		{FamilyPostgres, "", true},
		{FamilyPostgres, "12.15", true},
		{FamilyPostgres, "13.4", false},
		{FamilyPostgres, "16", false},
		{FamilyPostgres, "latest", true},
		{FamilyMySQL, "5.7.44", true},
		{FamilyMySQL, "8.0.35", false},
		{FamilyMySQL, "eight", true},
		{FamilyMSSQL, "SQL Server 2016 SP3", true},
		{FamilyMSSQL, "2019 Enterprise", false},
		{FamilyMSSQL, "15.00.4236.7", true},
		{"mariadb", "", false},
		{"unknown", "1.0", false},
	}
	for _, tt := range tests {
		got := upgradeReason(tt.family, tt.version) != ""
		if got != tt.upgrade {
			t.Errorf("upgradeReason(%q, %q) flagged=%v, want %v", tt.family, tt.version, got, tt.upgrade)
		}
	}

	if got := upgradeReason(FamilyMySQL, ""); got != "Version unknown" {
		t.Errorf("empty version reason = %q", got)
	}
}
