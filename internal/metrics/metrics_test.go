package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(ElementsTotal.WithLabelValues("decode", "point"))
	ElementsTotal.WithLabelValues("decode", "point").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(ElementsTotal.WithLabelValues("decode", "point")))

	before = testutil.ToFloat64(FailuresTotal.WithLabelValues("shape"))
	FailuresTotal.WithLabelValues("shape").Add(2)
	assert.Equal(t, before+2, testutil.ToFloat64(FailuresTotal.WithLabelValues("shape")))
}

func TestWriteTextfile(t *testing.T) {
	AbsentTotal.WithLabelValues("encode").Inc()

	path := filepath.Join(t.TempDir(), "sfgeo.prom")
	require.NoError(t, WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "sfgeo_codec_absent_total")
	assert.Contains(t, string(data), `direction="encode"`)
}

func TestWriteTextfileBadDirectory(t *testing.T) {
	err := WriteTextfile(filepath.Join(t.TempDir(), "missing", "sfgeo.prom"))
	assert.Error(t, err)
}
