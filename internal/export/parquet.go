package export

import (
	"fmt"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/rezi-ui/bench/grid-bench/internal/diag"
)

const parquetParallelism = 4

// parquetFrame is one frame log row. Columns match the CSV header.
type parquetFrame struct {
	Frame            int64 `parquet:"name=frame, type=INT64"`
	PaintFibers      int64 `parquet:"name=paint_fibers, type=INT64"`
	PaintReplayed    int64 `parquet:"name=paint_replayed, type=INT64"`
	PrepaintFibers   int64 `parquet:"name=prepaint_fibers, type=INT64"`
	PrepaintReplayed int64 `parquet:"name=prepaint_replayed, type=INT64"`
	MutatedSegments  int64 `parquet:"name=mutated_segments, type=INT64"`
	TotalSegments    int64 `parquet:"name=total_segments, type=INT64"`
	Hitboxes         int64 `parquet:"name=hitboxes, type=INT64"`
	HitboxesRebuilt  int64 `parquet:"name=hitboxes_rebuilt, type=INT64"`
	UploadBytes      int64 `parquet:"name=upload_bytes, type=INT64"`
	Quads            int64 `parquet:"name=quads, type=INT64"`
	MonoSprites      int64 `parquet:"name=mono_sprites, type=INT64"`
	PolySprites      int64 `parquet:"name=poly_sprites, type=INT64"`
}

func toParquet(d diag.FrameDiagnostics) parquetFrame {
	return parquetFrame{
		Frame:            int64(d.Frame),
		PaintFibers:      int64(d.PaintFibers),
		PaintReplayed:    int64(d.PaintReplayed),
		PrepaintFibers:   int64(d.PrepaintFibers),
		PrepaintReplayed: int64(d.PrepaintReplayed),
		MutatedSegments:  int64(d.MutatedSegments),
		TotalSegments:    int64(d.TotalSegments),
		Hitboxes:         int64(d.Hitboxes),
		HitboxesRebuilt:  int64(d.HitboxesRebuilt),
		UploadBytes:      int64(d.UploadBytes),
		Quads:            int64(d.Quads),
		MonoSprites:      int64(d.MonoSprites),
		PolySprites:      int64(d.PolySprites),
	}
}

func (p parquetFrame) diagnostics() diag.FrameDiagnostics {
	return diag.FrameDiagnostics{
		Frame:            uint64(p.Frame),
		PaintFibers:      uint64(p.PaintFibers),
		PaintReplayed:    uint64(p.PaintReplayed),
		PrepaintFibers:   uint64(p.PrepaintFibers),
		PrepaintReplayed: uint64(p.PrepaintReplayed),
		MutatedSegments:  uint64(p.MutatedSegments),
		TotalSegments:    uint64(p.TotalSegments),
		Hitboxes:         uint64(p.Hitboxes),
		HitboxesRebuilt:  uint64(p.HitboxesRebuilt),
		UploadBytes:      uint64(p.UploadBytes),
		Quads:            uint64(p.Quads),
		MonoSprites:      uint64(p.MonoSprites),
		PolySprites:      uint64(p.PolySprites),
	}
}

// WriteParquet stores frames as a parquet table at path.
func WriteParquet(frames []diag.FrameDiagnostics, path string) error {
	file, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}

	pw, err := writer.NewParquetWriter(file, new(parquetFrame), parquetParallelism)
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}

	for _, d := range frames {
		if err := pw.Write(toParquet(d)); err != nil {
			file.Close()
			return fmt.Errorf("failed to write frame %d: %w", d.Frame, err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		file.Close()
		return fmt.Errorf("failed to stop parquet writer: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close parquet file: %w", err)
	}
	return nil
}

// ReadParquet loads a table written by WriteParquet.
func ReadParquet(path string) ([]diag.FrameDiagnostics, error) {
	file, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	pr, err := reader.NewParquetReader(file, new(parquetFrame), parquetParallelism)
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet reader: %w", err)
	}
	defer pr.ReadStop()

	rows := make([]parquetFrame, int(pr.GetNumRows()))
	if err := pr.Read(&rows); err != nil {
		return nil, fmt.Errorf("failed to read parquet rows: %w", err)
	}

	frames := make([]diag.FrameDiagnostics, len(rows))
	for i, row := range rows {
		frames[i] = row.diagnostics()
	}
	return frames, nil
}
