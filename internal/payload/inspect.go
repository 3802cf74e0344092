package payload

import (
	"github.com/dustin/go-humanize"
)

// Report summarises a payload for display.
type Report struct {
	Size      int
	HumanSize string
	Type      *Signature
	Hex       string
	Truncated bool
}

// Inspect sniffs buf and renders at most previewBytes of it as hex. A
// non-positive previewBytes renders the whole buffer.
func Inspect(buf []byte, previewBytes int) Report {
	report := Report{
		Size:      len(buf),
		HumanSize: humanize.IBytes(uint64(len(buf))),
	}
	if sig, ok := DetectFileType(buf); ok {
		report.Type = &sig
	}
	preview := buf
	if previewBytes > 0 && len(buf) > previewBytes {
		preview = buf[:previewBytes]
		report.Truncated = true
	}
	report.Hex = ToHex(preview)
	return report
}
