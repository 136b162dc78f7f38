package database

import "fmt"

// Supported drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds database connection settings
type Config struct {
	// Driver is either "sqlite" or "postgres"
	Driver string

	// DSN is a file path for sqlite or a connection string for postgres
	DSN string

	// Namespace separates independent sessions sharing one database
	Namespace string

	// Pool settings, applied to postgres only
	MaxOpenConns int
	MaxIdleConns int
}

// DefaultConfig returns a local sqlite configuration
func DefaultConfig() Config {
	return Config{
		Driver:       DriverSQLite,
		DSN:          "scoretracker.db",
		Namespace:    "default",
		MaxOpenConns: 10,
		MaxIdleConns: 2,
	}
}

func (c Config) validate() error {
	switch c.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Driver)
	}
	if c.DSN == "" {
		return fmt.Errorf("database dsn is required")
	}
	return nil
}
