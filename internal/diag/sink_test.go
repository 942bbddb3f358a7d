package diag

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(frame uint64) FrameDiagnostics {
	return FrameDiagnostics{
		Frame:            frame,
		PaintFibers:      1050,
		PaintReplayed:    2,
		PrepaintFibers:   50,
		PrepaintReplayed: 48,
		MutatedSegments:  3,
		TotalSegments:    120,
		Hitboxes:         1054,
		HitboxesRebuilt:  0,
		UploadBytes:      40960,
		Quads:            1055,
		MonoSprites:      2890,
		PolySprites:      0,
	}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func TestEmitWritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame_log.csv")
	sink := NewSink(path)

	const n = 7
	for i := uint64(1); i <= n; i++ {
		sink.Emit(sample(i))
	}

	lines := readLines(t, path)
	require.Len(t, lines, n+1)
	assert.Equal(t, strings.Join(Header, ","), lines[0])
	assert.Equal(t, "1,1050,2,50,48,3,120,1054,0,40960,1055,2890,0", lines[1])
	for _, line := range lines[1:] {
		assert.NotEqual(t, lines[0], line)
	}
	assert.Equal(t, uint64(n), sink.Rows())
	assert.Equal(t, uint64(0), sink.Failures())
}

func TestEmitTruncatesExistingLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame_log.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale,data\n1,2\n"), 0o644))

	sink := NewSink(path)
	sink.Emit(sample(1))

	lines := readLines(t, path)
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(Header, ","), lines[0])
}

func TestConcurrentEmitWritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame_log.csv")
	sink := NewSink(path)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(frame uint64) {
			defer wg.Done()
			sink.Emit(sample(frame))
		}(uint64(i))
	}
	wg.Wait()

	lines := readLines(t, path)
	headers := 0
	for _, line := range lines {
		if line == strings.Join(Header, ",") {
			headers++
		}
	}
	assert.Equal(t, 1, headers)
	assert.Equal(t, strings.Join(Header, ","), lines[0])
	assert.Len(t, lines, 17)
}

func TestEmitToUnwritableDestinationIsSilent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "frame_log.csv")
	sink := NewSink(path)

	assert.NotPanics(t, func() {
		sink.Emit(sample(1))
		sink.Emit(sample(2))
	})
	assert.Equal(t, uint64(0), sink.Rows())
	assert.Equal(t, uint64(3), sink.Failures())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestEmitDoesNotRecreateRemovedLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame_log.csv")
	sink := NewSink(path)
	sink.Emit(sample(1))

	require.NoError(t, os.Remove(path))
	sink.Emit(sample(2))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, uint64(1), sink.Rows())
	assert.Equal(t, uint64(1), sink.Failures())
}

func TestDefaultSinkIsShared(t *testing.T) {
	a := Default()
	b := Default()
	assert.Same(t, a, b)
	assert.Equal(t, DefaultPath, a.Path())
}
