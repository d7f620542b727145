package platform

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRegisterModel_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	blob := []byte(`{"weights":[0.5],"bias":0.1}`)
	id, err := s.RegisterModel(ctx, "diabetes_logistic", blob)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	name, got, err := s.GetModel(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "diabetes_logistic", name)
	assert.Equal(t, blob, got)
}

func TestRegisterModel_DistinctIDs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	a, err := s.RegisterModel(ctx, "m", []byte("a"))
	require.NoError(t, err)
	b, err := s.RegisterModel(ctx, "m", []byte("b"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestGetModel_NotFound(t *testing.T) {
	s := openTestStore(t)
	_, _, err := s.GetModel(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRunLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	run, err := s.StartRun(ctx, "fairness-diabetes")
	require.NoError(t, err)

	done, err := s.RunCompleted(ctx, run.ID)
	require.NoError(t, err)
	assert.False(t, done)

	require.NoError(t, run.Complete(ctx))
	done, err = s.RunCompleted(ctx, run.ID)
	require.NoError(t, err)
	assert.True(t, done)

	// Completing twice is harmless.
	assert.NoError(t, run.Complete(ctx))
}

func TestRunCompleted_UnknownRun(t *testing.T) {
	s := openTestStore(t)
	_, err := s.RunCompleted(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDashboard_UploadDownloadSymmetric(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	run, err := s.StartRun(ctx, "r")
	require.NoError(t, err)

	d := &Dashboard{
		YTrue:            []float64{1, 0, 1},
		SensitiveFeature: []string{"Over 50", "50 or younger", "Over 50"},
		PredictionsByModel: map[string][]float64{
			"model-a": {1, 0, 0},
			"model-b": {1, 1, 1},
		},
	}
	id, err := s.UploadDashboard(ctx, run.ID, d)
	require.NoError(t, err)

	got, err := s.DownloadDashboard(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, d, got)
}

func TestDashboard_NotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.DownloadDashboard(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpen_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "platform.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.RegisterModel(context.Background(), "m", []byte("x"))
	assert.NoError(t, err)
}

func TestRunCompleted_EvenWhenUploadFails(t *testing.T) {
	s := openTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	run, err := s.StartRun(ctx, "fairness-diabetes")
	require.NoError(t, err)

	// The upload fails, as it would on a dead network or cancelled run.
	cancel()
	_, err = s.UploadDashboard(ctx, run.ID, &Dashboard{YTrue: []float64{1}})
	require.Error(t, err)

	// Closing the run record must still work; the workflow defers exactly
	// this call so a failed upload never orphans an in-progress run.
	require.NoError(t, run.Complete(context.WithoutCancel(ctx)))

	done, err := s.RunCompleted(context.Background(), run.ID)
	require.NoError(t, err)
	assert.True(t, done)
}
