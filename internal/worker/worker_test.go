package worker

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkomon/pruner/internal/config"
	"github.com/mkomon/pruner/internal/logging"
	"github.com/mkomon/pruner/internal/mailbox"
)

func testConfig(dir string, apply bool) *config.Config {
	cfg := config.Default()
	cfg.Scan.Path = dir
	cfg.Scan.Extension = "gz.gpg"
	cfg.Scan.MinSize = 0
	cfg.Daemon.Apply = apply
	cfg.Policy.Windows = []config.WindowConfig{{Period: "daily", Count: 2}}
	return cfg
}

func seedBackups(t *testing.T, dir string, days ...string) {
	t.Helper()
	for _, d := range days {
		path := filepath.Join(dir, "db-"+d+".gz.gpg")
		require.NoError(t, os.WriteFile(path, []byte("backup payload"), 0o644))
	}
}

func newTestWorker(cfg *config.Config) *Worker {
	w := New(cfg, logging.Nop(), nil, mailbox.New[Job]())
	w.now = func() time.Time {
		return time.Date(2024, time.May, 4, 12, 0, 0, 0, time.UTC)
	}
	return w
}

func TestRun_PlanOnlyWithoutApply(t *testing.T) {
	dir := t.TempDir()
	seedBackups(t, dir, "2024-05-01", "2024-05-02", "2024-05-03", "2024-05-04")

	w := newTestWorker(testConfig(dir, false))
	require.NoError(t, w.Run(context.Background(), Job{Trigger: "manual"}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 4, "apply disabled must never delete")
}

func TestRun_AppliesRetention(t *testing.T) {
	dir := t.TempDir()
	seedBackups(t, dir, "2024-05-01", "2024-05-02", "2024-05-03", "2024-05-04")

	w := newTestWorker(testConfig(dir, true))
	require.NoError(t, w.Run(context.Background(), Job{Trigger: "schedule"}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2, "daily:2 keeps the two newest")

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"db-2024-05-04.gz.gpg", "db-2024-05-03.gz.gpg"}, names)
}

func TestRun_MissingDirFails(t *testing.T) {
	cfg := testConfig(filepath.Join(t.TempDir(), "nope"), false)
	w := newTestWorker(cfg)
	assert.Error(t, w.Run(context.Background(), Job{Trigger: "manual"}))
}

func TestUpdateConfig(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	seedBackups(t, dirB, "2024-05-01", "2024-05-04")

	w := newTestWorker(testConfig(dirA, true))
	w.UpdateConfig(testConfig(dirB, true))

	require.NoError(t, w.Run(context.Background(), Job{Trigger: "manual"}))

	entries, err := os.ReadDir(dirB)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "both within daily:2, nothing deleted")
}

func TestStart_ProcessesJobsAndStopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	seedBackups(t, dir, "2024-05-01", "2024-05-02", "2024-05-03", "2024-05-04")

	w := newTestWorker(testConfig(dir, true))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	w.mb.Put(Job{Trigger: "manual", Timestamp: time.Now()})

	require.Eventually(t, func() bool {
		entries, err := os.ReadDir(dir)
		return err == nil && len(entries) == 2
	}, 5*time.Second, 50*time.Millisecond, "queued job must run a prune pass")

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return after cancel")
	}
}

func TestStartSchedule(t *testing.T) {
	cfg := testConfig(t.TempDir(), false)
	cfg.Daemon.Schedule = "* * * * *"

	mb := mailbox.New[Job]()
	w := New(cfg, logging.Nop(), nil, mb)

	c, err := w.StartSchedule()
	require.NoError(t, err)
	require.NotNil(t, c)
	defer c.Stop()

	cfg2 := testConfig(t.TempDir(), false)
	w2 := New(cfg2, logging.Nop(), nil, mailbox.New[Job]())
	c2, err := w2.StartSchedule()
	require.NoError(t, err)
	assert.Nil(t, c2, "empty schedule starts nothing")
}
