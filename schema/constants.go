package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for snapshot history.
	DatabaseBackend string

	// CheckScope represents the level a threshold applies to.
	CheckScope string
)

// Ordinal scale bounds and weight tolerance.
const (
	MinOrdinal      = 0
	MaxOrdinal      = 4
	WeightTolerance = 1e-6
)

// DateLayout is the wire and storage format of assessment dates.
const DateLayout = "2006-01-02"

// All output modes supported.
const (
	CSVOut  OutputMode = "csv"
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
)

// All store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All check scopes supported.
const (
	OverallScope CheckScope = "overall"
	RoleScope    CheckScope = "role"
	DriverScope  CheckScope = "driver"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:  {},
	TextOut: {},
	JSONOut: {},
}

// ValidStoreBackends lists all valid store backends.
var ValidStoreBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidCheckScopes lists all valid check scopes.
var ValidCheckScopes = map[CheckScope]struct{}{
	OverallScope: {},
	RoleScope:    {},
	DriverScope:  {},
}
