package database

// Config holds configuration for the feature store backend.
type Config struct {
	// Driver is the database driver (sqlite, mysql).
	Driver string `mapstructure:"driver" default:"sqlite"`
	// Name is the database name. For sqlite an empty name or ":memory:" selects a
	// private in-memory database; any other value is a file path.
	Name string `mapstructure:"name" default:":memory:"`
	// Host is the database host.
	Host string `mapstructure:"host" default:"localhost"`
	// Port is the database port.
	Port int `mapstructure:"port" default:"3306"`
	// User is the database user.
	User string `mapstructure:"user" default:"root"`
	// Password is the database password.
	Password string `mapstructure:"password" default:""`
	// TimeoutSeconds bounds connection setup and I/O for networked drivers.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// IsValidDriver checks if the configured driver is supported.
func (c Config) IsValidDriver() bool {
	switch c.Driver {
	case DriverSQLite, DriverMySQL:
		return true
	default:
		return false
	}
}
