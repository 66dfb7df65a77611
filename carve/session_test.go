package carve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	src := New(testConfig(), nil)
	src.CaptureNow(poseAt(1, 0, 0), nil)
	src.CaptureNow(poseAt(2, 0, 0), nil)
	require.NoError(t, src.SaveSession(path))

	dst := New(testConfig(), nil)
	require.NoError(t, dst.LoadSession(path))

	assert.Equal(t, src.History().Len(), dst.History().Len())
	assert.Equal(t, src.History().Stamps(), dst.History().Stamps())
}

func TestSessionLoadPublishesToTargets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	src := New(testConfig(), nil)
	src.CaptureNow(poseAt(1, 0, 0), nil)
	require.NoError(t, src.SaveSession(path))

	global := newFakeBlock()
	dst := New(testConfig(), global)
	tg := newTarget(0, "")
	dst.Step(poseAt(0, 0, 0), []Collidable{tg.col})

	require.NoError(t, dst.LoadSession(path))

	// The loaded history replaced the discovery stamp and was republished.
	assert.InDelta(t, 1, global.floats[PropCount], 1e-6)
	assert.InDelta(t, 1, tg.surf.override.floats[PropCount], 1e-6)
}

func TestSessionLoadTruncatesToCapacity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	big := testConfig()
	big.MaxStamps = 8
	src := New(big, nil)
	for i := 0; i < 6; i++ {
		src.CaptureNow(poseAt(float32(i), 0, 0), nil)
	}
	require.NoError(t, src.SaveSession(path))

	small := testConfig() // capacity 3
	dst := New(small, nil)
	require.NoError(t, dst.LoadSession(path))

	require.Equal(t, 3, dst.History().Len())
	// The newest stamps survive: poses 3, 4, 5.
	for i, wantX := range []float32{-3, -4, -5} {
		assert.InDelta(t, wantX, dst.History().Stamps()[i][3][0], 1e-6, "stamp %d", i)
	}
}

func TestSessionLoadRejectsUnknownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": 99, "stamps": []}`), 0644))

	e := New(testConfig(), nil)
	assert.Error(t, e.LoadSession(path))
}

func TestSessionLoadMissingFile(t *testing.T) {
	e := New(testConfig(), nil)
	assert.Error(t, e.LoadSession(filepath.Join(t.TempDir(), "nope.json")))
}
