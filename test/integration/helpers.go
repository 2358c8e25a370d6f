package integration

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/viant/afs"

	"github.com/danieljhkim/thirdparty/internal/clock"
	"github.com/danieljhkim/thirdparty/internal/engine"
	"github.com/danieljhkim/thirdparty/internal/fsops"
	"github.com/danieljhkim/thirdparty/internal/hash"
	"github.com/danieljhkim/thirdparty/internal/identity"
	"github.com/danieljhkim/thirdparty/internal/reactor"
)

// testFS keeps written reports in memory
type testFS struct {
	mu     sync.Mutex
	files  map[string][]byte
	dirs   map[string]bool
	writes int
}

var _ fsops.FS = (*testFS)(nil)

func newTestFS() *testFS {
	return &testFS{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
	}
}

func (fs *testFS) MkdirAll(p string, perm os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.dirs[p] = true
	return nil
}

func (fs *testFS) AtomicWrite(p string, data []byte, perm os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.files[p] = append([]byte(nil), data...)
	fs.dirs[path.Dir(p)] = true
	fs.writes++
	return nil
}

func (fs *testFS) ReadFile(p string) ([]byte, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	data, ok := fs.files[p]
	if !ok {
		return nil, &os.PathError{Op: "open", Path: p, Err: os.ErrNotExist}
	}
	return append([]byte(nil), data...), nil
}

func (fs *testFS) Exists(p string) (bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	_, isFile := fs.files[p]
	return isFile || fs.dirs[p], nil
}

func (fs *testFS) ValidateRelPath(relPath string) error {
	return fsops.NewRealFS().ValidateRelPath(relPath)
}

type testEnv struct {
	engine  *engine.Engine
	storage afs.Service
	fs      *testFS
	logs    *bytes.Buffer
	baseURL string
}

// setupTestEngine wires an engine that reads the build from in-memory object
// storage and writes reports to an in-memory filesystem.
func setupTestEngine(t *testing.T) *testEnv {
	t.Helper()

	storage := afs.New()
	fs := newTestFS()
	logs := &bytes.Buffer{}
	logger := log.New(logs)
	logger.SetLevel(log.DebugLevel)

	eng := engine.New(
		storage,
		reactor.NewFileSource(storage, logger),
		fs,
		hash.NewHighwayHasher(),
		clock.NewFakeClock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)),
		logger,
	)

	name := strings.NewReplacer("/", "-", " ", "-").Replace(t.Name())
	return &testEnv{
		engine:  eng,
		storage: storage,
		fs:      fs,
		logs:    logs,
		baseURL: fmt.Sprintf("mem://localhost/%s-%d", name, time.Now().UnixNano()),
	}
}

// put uploads content to the environment's storage under rel.
func (e *testEnv) put(t *testing.T, rel, content string) string {
	t.Helper()
	location := e.baseURL + "/" + rel
	if err := e.storage.Upload(context.Background(), location, 0644, strings.NewReader(content)); err != nil {
		t.Fatalf("Upload(%s) error = %v", location, err)
	}
	return location
}

func mustID(t *testing.T, s string) identity.ID {
	t.Helper()
	id, err := identity.Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", s, err)
	}
	return id
}
