// internal/config/database.go
package config

import (
	"fmt"
	"strings"
)

// DSN builds the key=value connection string for the Postgres driver.
func (d *DatabaseConfig) DSN() string {
	pairs := []string{
		"host=" + d.Host,
		"port=" + d.Port,
		"user=" + d.User,
		"password=" + d.Password,
		"dbname=" + d.Database,
		"sslmode=" + d.SSLMode,
	}
	return strings.Join(pairs, " ")
}

// Addr is the host:port form for startup logs, without credentials.
func (d *DatabaseConfig) Addr() string {
	return fmt.Sprintf("%s:%s", d.Host, d.Port)
}
