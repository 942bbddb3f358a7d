package diag

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderHasThirteenColumns(t *testing.T) {
	assert.Len(t, Header, 13)
	assert.Len(t, FrameDiagnostics{}.Row(), len(Header))
}

func TestRowOrder(t *testing.T) {
	d := FrameDiagnostics{
		Frame: 1, PaintFibers: 2, PaintReplayed: 3, PrepaintFibers: 4, PrepaintReplayed: 5,
		MutatedSegments: 6, TotalSegments: 7, Hitboxes: 8, HitboxesRebuilt: 9,
		UploadBytes: 10, Quads: 11, MonoSprites: 12, PolySprites: 13,
	}
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12", "13"}, d.Row())

	parsed, err := ParseRow(d.Row())
	require.NoError(t, err)
	assert.Equal(t, d, parsed)
}

func TestParseRowErrors(t *testing.T) {
	_, err := ParseRow([]string{"1", "2"})
	assert.ErrorIs(t, err, ErrSchema)

	row := sample(1).Row()
	row[9] = "-5"
	_, err = ParseRow(row)
	assert.ErrorContains(t, err, "upload_bytes")
}

func TestReadLogFromSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame_log.csv")
	sink := NewSink(path)
	for i := uint64(1); i <= 4; i++ {
		sink.Emit(sample(i))
	}

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	frames, err := ReadLog(f)
	require.NoError(t, err)
	require.Len(t, frames, 4)
	assert.Equal(t, sample(3), frames[2])
}

func TestReadLogRejectsForeignSchema(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"short header", "frame,layout_fibers,layout_us,total_us\n1,2,3,4\n"},
		{"reordered", strings.Join(append([]string{Header[1], Header[0]}, Header[2:]...), ",") + "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadLog(bytes.NewBufferString(tt.data))
			assert.ErrorIs(t, err, ErrSchema)
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{0, "0 B"},
		{999, "999 B"},
		{1_000, "1.0 KB"},
		{1_536, "1.5 KB"},
		{999_999, "1000.0 KB"},
		{1_000_000, "1.00 MB"},
		{12_345_678, "12.35 MB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatBytes(tt.in), "FormatBytes(%d)", tt.in)
	}
}
