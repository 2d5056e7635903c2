package audio

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/audio-extract/internal/format"
)

// bytesPerMB is the megabyte used for chunk sizes: 1024*1000 bytes,
// consistent with a kilobit of 1000 bits in the bitrate.
const bytesPerMB = 1024 * 1000

// boundaryPrecision is the resolution chunk boundaries are rounded to.
// FFmpeg accepts microsecond offsets, and rounding in the Duration domain
// keeps consecutive ranges contiguous.
const boundaryPrecision = time.Microsecond

// MaxChunks caps the number of parts a single split may produce.
const MaxChunks = 10_000

// Chunk represents a segment of audio extracted from a larger file.
type Chunk struct {
	Path  string        // Path of the chunk file.
	Index int           // Zero-based index for ordering.
	Start time.Duration // Start offset in the source audio.
	End   time.Duration // Requested end offset; may exceed the source duration for the last chunk.
}

// Duration returns the requested length of this chunk.
func (c Chunk) Duration() time.Duration {
	return c.End - c.Start
}

// String returns a human-readable representation for logging.
func (c Chunk) String() string {
	return fmt.Sprintf("chunk %d: %s-%s",
		c.Index,
		format.Duration(c.Start),
		format.Duration(c.End))
}

// Plan describes how a file is divided into size-targeted chunks, assuming a
// constant bitrate. It is not byte-exact for variable bitrate sources.
type Plan struct {
	Duration      time.Duration // Measured duration of the source.
	Size          int64         // Source size in bytes.
	ChunkMB       float64       // Requested chunk size in MB.
	BitrateKbps   float64       // size*8/duration/1000.
	ChunkDuration time.Duration // Duration corresponding to ChunkMB at BitrateKbps.
	Count         int           // Number of chunks, at least 1.
}

// NewPlan computes the split plan for a file of the given duration and size.
//
// The chunk duration T = chunkMB*8*1024/bitrate is evaluated in the equal form
// duration*chunkMB*1024*1000/size, and the count as ceil(size/chunkBytes),
// which stays exact when the inputs divide evenly.
func NewPlan(duration time.Duration, size int64, chunkMB float64) (Plan, error) {
	if duration <= 0 {
		return Plan{}, fmt.Errorf("%w: %v", ErrInvalidDuration, duration)
	}
	if size <= 0 {
		return Plan{}, fmt.Errorf("%w: file size is %d bytes", ErrInvalidDuration, size)
	}
	if chunkMB <= 0 || math.IsNaN(chunkMB) || math.IsInf(chunkMB, 0) {
		return Plan{}, fmt.Errorf("%w: %v", ErrInvalidChunkSize, chunkMB)
	}

	secs := duration.Seconds()
	ratio := float64(size) / (chunkMB * bytesPerMB)

	// Compare in float before converting: a huge ratio would overflow int.
	if ratio > MaxChunks {
		return Plan{}, fmt.Errorf("%w: %v MB would need more than %d chunks", ErrInvalidChunkSize, chunkMB, MaxChunks)
	}
	count := max(int(math.Ceil(ratio)), 1)

	chunkDuration := time.Duration(secs / ratio * float64(time.Second))
	if chunkDuration < boundaryPrecision {
		return Plan{}, fmt.Errorf("%w: %v MB is shorter than %v of audio", ErrInvalidChunkSize, chunkMB, boundaryPrecision)
	}

	return Plan{
		Duration:      duration,
		Size:          size,
		ChunkMB:       chunkMB,
		BitrateKbps:   float64(size) * 8 / secs / 1000,
		ChunkDuration: chunkDuration,
		Count:         count,
	}, nil
}

// boundary returns the start offset of chunk i.
func (p Plan) boundary(i int) time.Duration {
	return (time.Duration(i) * p.ChunkDuration).Round(boundaryPrecision)
}

// Chunks lays out the plan as chunk descriptors next to audioPath, named
// <base>_part<i+1><ext>. Consecutive chunks share their boundary, so the
// requested ranges cover [0, Count*ChunkDuration) with no gap or overlap.
func (p Plan) Chunks(audioPath string) []Chunk {
	dir := filepath.Dir(audioPath)
	ext := filepath.Ext(audioPath)
	base := strings.TrimSuffix(filepath.Base(audioPath), ext)

	chunks := make([]Chunk, 0, p.Count)
	for i := range p.Count {
		chunks = append(chunks, Chunk{
			Path:  filepath.Join(dir, fmt.Sprintf("%s_part%d%s", base, i+1, ext)),
			Index: i,
			Start: p.boundary(i),
			End:   p.boundary(i + 1),
		})
	}
	return chunks
}
