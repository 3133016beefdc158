package core

import (
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// Engine families tracked by metrics and upgrade checks.
const (
	FamilyPostgres = "postgres"
	FamilyMySQL    = "mysql"
	FamilyMSSQL    = "mssql"
)

var trackedFamilies = []string{FamilyPostgres, FamilyMySQL, FamilyMSSQL}

// EngineFamily folds engine spellings such as "aurora-postgresql" or
// "Microsoft SQL Server" into a family name. Untracked engines return their
// lowercased name, and an empty engine returns "unknown".
func EngineFamily(engine string) string {
	n := strings.ToLower(strings.TrimSpace(engine))
	switch {
	case strings.Contains(n, "postgre"):
		return FamilyPostgres
	case strings.Contains(n, "mysql"):
		return FamilyMySQL
	case strings.Contains(n, "mssql"), strings.Contains(n, "sql server"), strings.Contains(n, "sqlserver"):
		return FamilyMSSQL
	case n == "":
		return "unknown"
	}
	return n
}

func isTracked(family string) bool {
	return slices.Contains(trackedFamilies, family)
}

// versionKey splits a dotted version into numbers for ordering. A part that
// is not a number contributes its digits, or 0 when it has none, so
// "8.0.mysql_aurora.3" sorts as 8.0.3.
func versionKey(v string) []int {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ".")
	key := make([]int, len(parts))
	for i, p := range parts {
		if n, err := strconv.Atoi(strings.TrimSpace(p)); err == nil {
			key[i] = n
			continue
		}
		digits := strings.Map(func(r rune) rune {
			if unicode.IsDigit(r) {
				return r
			}
			return -1
		}, p)
		if n, err := strconv.Atoi(digits); err == nil {
			key[i] = n
		}
	}
	return key
}

// compareVersions orders versions numerically part by part; a version that is
// a prefix of another sorts first.
func compareVersions(a, b string) int {
	return slices.Compare(versionKey(a), versionKey(b))
}

// majorVersion returns the leading number of v. Postgres versions may be
// written "13" or "13 (Aurora)", so without a dot the first word is used.
func majorVersion(v string) (int, bool) {
	var head string
	if strings.Contains(v, ".") {
		head = strings.SplitN(v, ".", 2)[0]
	} else {
		fields := strings.Fields(v)
		if len(fields) == 0 {
			return 0, false
		}
		head = fields[0]
	}
	n, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil {
		return 0, false
	}
	return n, true
}

var supportedMSSQLReleases = []string{"2017", "2019", "2022", "2025"}

// upgradeReason reports why a record of the given family and version needs an
// upgrade, or "" when it does not. Untracked families never need one.
func upgradeReason(family, version string) string {
	if !isTracked(family) {
		return ""
	}
	v := strings.ToLower(strings.TrimSpace(version))
	if v == "" {
		return "Version unknown"
	}

	switch family {
	case FamilyPostgres:
		major, ok := majorVersion(v)
		if !ok {
			return "Unrecognized PostgreSQL version " + version
		}
		if major < 13 {
			return "PostgreSQL " + version + " is older than 13"
		}
	case FamilyMySQL:
		major, ok := majorVersion(v)
		if !ok {
			return "Unrecognized MySQL version " + version
		}
		if major < 8 {
			return "MySQL " + version + " is older than 8.0"
		}
	case FamilyMSSQL:
		for _, rel := range supportedMSSQLReleases {
			if strings.Contains(v, rel) {
				return ""
			}
		}
		return "SQL Server " + version + " is older than 2017"
	}
	return ""
}
