package detect

import (
	"fmt"
	"os"

	"github.com/filesift/filesift/internal/model"
)

// Size thresholds in bytes.
const (
	nearlyEmptyBytes = 100
	largeFileBytes   = 100 << 20
	hugeFileBytes    = 500 << 20
)

// SizeDetector flags empty and unusually large files.
type SizeDetector struct {
	base
}

// NewSizeDetector creates a size detector with the given per-pass
// confidence offset.
func NewSizeDetector(boost float64) *SizeDetector {
	return &SizeDetector{base{boost: boost}}
}

// Name returns the detection method identifier.
func (d *SizeDetector) Name() model.DetectionMethod { return model.MethodSize }

// Score stats the file; stat errors produce no signal so a vanished or
// unreadable file never aborts the batch.
func (d *SizeDetector) Score(path string) *model.Signal {
	info, err := os.Stat(path)
	if err != nil {
		return nil
	}

	size := info.Size()
	switch {
	case size == 0:
		return &model.Signal{
			Label:      "empty_files",
			Confidence: d.adjust(0.95),
			Method:     model.MethodSize,
			Why:        "empty file (0 bytes)",
		}
	case size < nearlyEmptyBytes:
		return &model.Signal{
			Label:      "empty_files",
			Confidence: d.adjust(0.30),
			Method:     model.MethodSize,
			Why:        fmt.Sprintf("nearly empty (%d bytes)", size),
		}
	case size > hugeFileBytes:
		return &model.Signal{
			Label:      "large_files",
			Confidence: d.adjust(0.80),
			Method:     model.MethodSize,
			Why:        fmt.Sprintf("very large file (%.1fMB)", float64(size)/(1<<20)),
		}
	case size > largeFileBytes:
		return &model.Signal{
			Label:      "large_files",
			Confidence: d.adjust(0.60),
			Method:     model.MethodSize,
			Why:        fmt.Sprintf("large file (%.1fMB)", float64(size)/(1<<20)),
		}
	}

	return nil
}
