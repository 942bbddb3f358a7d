// Package export moves frame logs out of the working directory: compressed
// archives, parquet tables and object storage.
package export

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"k8s.io/klog/v2"
)

// ArchiveExt is appended to archived frame logs.
const ArchiveExt = ".zst"

// OpenLog opens a frame log for reading, decompressing it when the name
// ends in ArchiveExt.
func OpenLog(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open frame log: %w", err)
	}
	if !strings.HasSuffix(path, ArchiveExt) {
		return f, nil
	}

	dec, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create decoder: %w", err)
	}
	return &archiveReader{Decoder: dec, file: f}, nil
}

type archiveReader struct {
	*zstd.Decoder
	file *os.File
}

func (r *archiveReader) Close() error {
	r.Decoder.Close()
	return r.file.Close()
}

// Archive compresses src into dst and returns the compressed size. An empty
// dst means src with ArchiveExt appended.
func Archive(src, dst string) (int64, error) {
	if dst == "" {
		dst = src + ArchiveExt
	}

	in, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("open frame log: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("create archive: %w", err)
	}

	enc, err := zstd.NewWriter(out, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		out.Close()
		return 0, fmt.Errorf("create encoder: %w", err)
	}
	read, err := io.Copy(enc, in)
	if err != nil {
		enc.Close()
		out.Close()
		return 0, fmt.Errorf("compress frame log: %w", err)
	}
	if err := enc.Close(); err != nil {
		out.Close()
		return 0, fmt.Errorf("flush archive: %w", err)
	}

	info, err := out.Stat()
	if err != nil {
		out.Close()
		return 0, fmt.Errorf("stat archive: %w", err)
	}
	if err := out.Close(); err != nil {
		return 0, fmt.Errorf("close archive: %w", err)
	}

	klog.V(2).InfoS("Archived frame log", "src", src, "dst", dst, "in", read, "out", info.Size())
	return info.Size(), nil
}
