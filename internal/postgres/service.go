package postgres

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/lib/pq"
)

// ServiceEntry represents a PostgreSQL service configuration
type ServiceEntry struct {
	Name     string
	Host     string
	Port     string
	DBName   string
	User     string
	Password string
	SSLMode  string
	Options  map[string]string
}

// ParsePGServiceFile parses the first pg_service.conf found in the standard locations
func ParsePGServiceFile() ([]ServiceEntry, error) {
	for _, path := range servicePaths() {
		if _, err := os.Stat(path); err == nil {
			return parseServiceFileAt(path)
		}
	}
	return nil, fmt.Errorf("no pg_service.conf found in standard locations")
}

// servicePaths returns possible pg_service.conf locations in lookup order
func servicePaths() []string {
	var paths []string

	if envPath := os.Getenv("PGSERVICEFILE"); envPath != "" {
		paths = append(paths, envPath)
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".pg_service.conf"))
	}
	if sysconf := os.Getenv("PGSYSCONFDIR"); sysconf != "" {
		paths = append(paths, filepath.Join(sysconf, "pg_service.conf"))
	}
	return append(paths, "/etc/pg_service.conf", "/etc/postgresql-common/pg_service.conf")
}

// ServiceFilePath returns the first existing pg_service.conf, or "" if none exists
func ServiceFilePath() string {
	for _, path := range servicePaths() {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func parseServiceFileAt(path string) ([]ServiceEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var services []ServiceEntry
	var current *ServiceEntry

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// [servicename]
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			if current != nil {
				services = append(services, *current)
			}
			current = &ServiceEntry{
				Name:    strings.TrimSuffix(strings.TrimPrefix(line, "["), "]"),
				Options: make(map[string]string),
			}
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if current == nil || !ok {
			continue
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)

		switch key {
		case "host":
			current.Host = value
		case "port":
			current.Port = value
		case "dbname":
			current.DBName = value
		case "user":
			current.User = value
		case "password":
			current.Password = value
		case "sslmode":
			current.SSLMode = value
		default:
			current.Options[key] = value
		}
	}

	if current != nil {
		services = append(services, *current)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return services, nil
}

// ConnectionString returns a lib/pq key/value connection string for the service.
// Extra options are written in key order.
func (s *ServiceEntry) ConnectionString() string {
	var parts []string
	add := func(key, value string) {
		if value != "" {
			parts = append(parts, key+"="+quoteValue(value))
		}
	}

	add("host", s.Host)
	add("port", s.Port)
	add("dbname", s.DBName)
	add("user", s.User)
	add("password", s.Password)
	if s.SSLMode != "" {
		add("sslmode", s.SSLMode)
	} else {
		add("sslmode", "prefer")
	}

	keys := make([]string, 0, len(s.Options))
	for k := range s.Options {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		add(k, s.Options[k])
	}

	return strings.Join(parts, " ")
}

// quoteValue quotes a connection string value containing spaces, quotes or backslashes
func quoteValue(v string) string {
	if !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// FindService finds a service by name
func FindService(services []ServiceEntry, name string) (*ServiceEntry, error) {
	for _, s := range services {
		if s.Name == name {
			return &s, nil
		}
	}
	return nil, fmt.Errorf("service '%s' not found", name)
}

// DSN resolves target to a connection string. A postgres:// URL is
// converted by lib/pq; anything else names a pg_service.conf entry.
func DSN(target string) (string, error) {
	if strings.HasPrefix(target, "postgres://") || strings.HasPrefix(target, "postgresql://") {
		dsn, err := pq.ParseURL(target)
		if err != nil {
			return "", fmt.Errorf("invalid connection URL: %w", err)
		}
		return dsn, nil
	}
	if target == "" {
		return "", fmt.Errorf("no service or connection URL given")
	}

	services, err := ParsePGServiceFile()
	if err != nil {
		return "", err
	}
	service, err := FindService(services, target)
	if err != nil {
		return "", err
	}
	return service.ConnectionString(), nil
}

// Open connects to target and verifies the connection
func Open(ctx context.Context, target string) (*sql.DB, error) {
	dsn, err := DSN(target)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s: %w", target, err)
	}
	return db, nil
}
