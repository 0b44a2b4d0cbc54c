package postgres

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeServiceFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pg_service.conf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("PGSERVICEFILE", path)
	return path
}

func TestParsePGServiceFile(t *testing.T) {
	writeServiceFile(t, `# Test pg_service.conf

[testdb]
host=localhost
port=5432
dbname=testdb
user=testuser
password=testpass
sslmode=require

[another]
host=192.168.1.100
port=5433
dbname=anotherdb
user=anotheruser
`)

	services, err := ParsePGServiceFile()
	require.NoError(t, err)
	require.Len(t, services, 2)

	assert.Equal(t, ServiceEntry{
		Name:     "testdb",
		Host:     "localhost",
		Port:     "5432",
		DBName:   "testdb",
		User:     "testuser",
		Password: "testpass",
		SSLMode:  "require",
		Options:  map[string]string{},
	}, services[0])
	assert.Equal(t, "another", services[1].Name)
	assert.Equal(t, "192.168.1.100", services[1].Host)
}

func TestParsePGServiceFileEmpty(t *testing.T) {
	writeServiceFile(t, "# Empty file with only comments\n")

	services, err := ParsePGServiceFile()
	require.NoError(t, err)
	assert.Empty(t, services)
}

func TestParsePGServiceFileWithOptions(t *testing.T) {
	path := writeServiceFile(t, `[myservice]
host=localhost
dbname=mydb
connect_timeout=10
application_name=myapp
garbage line
`)

	services, err := ParsePGServiceFile()
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.Equal(t, "10", services[0].Options["connect_timeout"])
	assert.Equal(t, "myapp", services[0].Options["application_name"])
	assert.Len(t, services[0].Options, 2)
	assert.Equal(t, path, ServiceFilePath())
}

func TestServiceConnectionString(t *testing.T) {
	service := ServiceEntry{
		Name:     "test",
		Host:     "localhost",
		Port:     "5432",
		DBName:   "testdb",
		User:     "user",
		Password: "it's secret",
		SSLMode:  "disable",
		Options:  map[string]string{"connect_timeout": "10", "application_name": "sfgeo"},
	}

	assert.Equal(t,
		`host=localhost port=5432 dbname=testdb user=user password='it\'s secret' sslmode=disable application_name=sfgeo connect_timeout=10`,
		service.ConnectionString())
}

func TestServiceConnectionStringDefaults(t *testing.T) {
	service := ServiceEntry{Name: "minimal", Host: "localhost", DBName: "mydb"}

	connStr := service.ConnectionString()
	assert.True(t, strings.HasSuffix(connStr, "sslmode=prefer"), connStr)
}

func TestFindService(t *testing.T) {
	services := []ServiceEntry{
		{Name: "first", Host: "host1"},
		{Name: "second", Host: "host2"},
		{Name: "third", Host: "host3"},
	}

	found, err := FindService(services, "second")
	require.NoError(t, err)
	assert.Equal(t, "host2", found.Host)

	_, err = FindService(services, "nonexistent")
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	writeServiceFile(t, "[gis]\nhost=db.example.org\ndbname=gis\n")

	dsn, err := DSN("gis")
	require.NoError(t, err)
	assert.Equal(t, "host=db.example.org dbname=gis sslmode=prefer", dsn)

	dsn, err = DSN("postgres://bob@localhost:5432/roads?sslmode=disable")
	require.NoError(t, err)
	assert.Contains(t, dsn, "dbname=roads")
	assert.Contains(t, dsn, "user=bob")
	assert.Contains(t, dsn, "sslmode=disable")

	_, err = DSN("missing")
	assert.Error(t, err)

	_, err = DSN("")
	assert.Error(t, err)
}
