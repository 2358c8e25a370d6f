package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/thirdparty/internal/fsops"
)

// gauges gathers every sample as "name{label}" -> value.
func gauges(t *testing.T, r *Recorder) map[string]float64 {
	t.Helper()
	families, err := r.registry.Gather()
	require.NoError(t, err)

	out := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			for _, lp := range m.GetLabel() {
				key += "{" + lp.GetValue() + "}"
			}
			out[key] = m.GetGauge().GetValue()
		}
	}
	return out
}

func TestRecorder_Observe(t *testing.T) {
	r := NewRecorder()
	r.Observe(Summary{
		Modules:      3,
		Licenses:     map[string]int{"Apache-2.0": 4, "MIT": 1},
		Dependencies: 5,
		Unresolved:   1,
		Removed:      2,
	})

	got := gauges(t, r)
	assert.Equal(t, 3.0, got["thirdparty_modules_merged"])
	assert.Equal(t, 5.0, got["thirdparty_dependencies"])
	assert.Equal(t, 1.0, got["thirdparty_unresolved_dependencies"])
	assert.Equal(t, 2.0, got["thirdparty_pruned_associations"])
	assert.Equal(t, 4.0, got["thirdparty_license_dependencies{Apache-2.0}"])

	r.Observe(Summary{Licenses: map[string]int{"MIT": 2}})
	got = gauges(t, r)
	assert.NotContains(t, got, "thirdparty_license_dependencies{Apache-2.0}", "stale license series are dropped")
	assert.Equal(t, 2.0, got["thirdparty_license_dependencies{MIT}"])
}

func TestRecorder_WriteTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "textfile", "thirdparty.prom")

	r := NewRecorder()
	r.Observe(Summary{Modules: 2, Licenses: map[string]int{"MIT": 1}, Dependencies: 1})
	require.NoError(t, r.WriteTextfile(fsops.NewRealFS(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "thirdparty_modules_merged 2")
	assert.Contains(t, string(data), `thirdparty_license_dependencies{license="MIT"} 1`)
}

// recordingFS keeps writes in memory.
type recordingFS struct {
	fsops.FS
	dirs  []string
	files map[string][]byte
}

func (f *recordingFS) MkdirAll(path string, _ os.FileMode) error {
	f.dirs = append(f.dirs, path)
	return nil
}

func (f *recordingFS) AtomicWrite(path string, data []byte, _ os.FileMode) error {
	f.files[path] = data
	return nil
}

func TestRecorder_WriteTextfileUsesFS(t *testing.T) {
	fs := &recordingFS{files: make(map[string][]byte)}
	path := filepath.Join("build", "metrics", "thirdparty.prom")

	r := NewRecorder()
	r.Observe(Summary{Modules: 1, Unresolved: 3})
	require.NoError(t, r.WriteTextfile(fs, path))

	assert.Equal(t, []string{filepath.Join("build", "metrics")}, fs.dirs)
	require.Contains(t, fs.files, path)
	assert.Contains(t, string(fs.files[path]), "thirdparty_unresolved_dependencies 3")

	text, err := r.Text()
	require.NoError(t, err)
	assert.Equal(t, text, fs.files[path])

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "nothing reaches the real filesystem")
}
