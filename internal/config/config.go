// Package config provides configuration for the tracking server via
// command-line flags with environment variable overrides.
package config

import (
	"flag"
	"os"
)

type ServerConfig struct {
	Address     string
	DatabaseDSN string
	AuditFile   string
	AuditURL    string
}

func NewServerConfig() (*ServerConfig, error) {
	config := &ServerConfig{
		Address:     "localhost:5001",
		DatabaseDSN: "",
		AuditFile:   "",
		AuditURL:    "",
	}

	address := flag.String("a", config.Address, "address")
	databaseDSN := flag.String("d", config.DatabaseDSN, "database dsn, empty selects in-memory storage")
	auditFile := flag.String("audit-file", config.AuditFile, "path to the audit log file")
	auditURL := flag.String("audit-url", config.AuditURL, "url to post audit events to")
	flag.Parse()

	envVars := map[string]*string{
		"ADDRESS":      address,
		"DATABASE_DSN": databaseDSN,
		"AUDIT_FILE":   auditFile,
		"AUDIT_URL":    auditURL,
	}

	for envVar, flag := range envVars {
		if envValue := os.Getenv(envVar); envValue != "" {
			*flag = envValue
		}
	}

	config.Address = *address
	config.DatabaseDSN = *databaseDSN
	config.AuditFile = *auditFile
	config.AuditURL = *auditURL

	return config, nil
}
