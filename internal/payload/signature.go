package payload

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Signature describes a file type recognised by its leading magic bytes.
type Signature struct {
	Extension   string
	MIMEType    string
	DisplayName string
	Magic       []byte
}

// signatures is checked in order and the first prefix match wins. No entry may
// be shadowed by an earlier, shorter one.
var signatures = []Signature{
	{Extension: "png", MIMEType: "image/png", DisplayName: "PNG Image", Magic: []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	{Extension: "jpg", MIMEType: "image/jpeg", DisplayName: "JPEG Image", Magic: []byte{0xFF, 0xD8, 0xFF}},
	{Extension: "pdf", MIMEType: "application/pdf", DisplayName: "PDF Document", Magic: []byte{0x25, 0x50, 0x44, 0x46}},
	{Extension: "zip", MIMEType: "application/zip", DisplayName: "ZIP Archive", Magic: []byte{0x50, 0x4B, 0x03, 0x04}},
	{Extension: "gz", MIMEType: "application/gzip", DisplayName: "GZIP Archive", Magic: []byte{0x1F, 0x8B}},
	{Extension: "bmp", MIMEType: "image/bmp", DisplayName: "BMP Image", Magic: []byte{0x42, 0x4D}},
	{Extension: "gif", MIMEType: "image/gif", DisplayName: "GIF Image", Magic: []byte{0x47, 0x49, 0x46, 0x38}},
}

// Signatures returns a copy of the signature table in priority order.
func Signatures() []Signature {
	out := make([]Signature, len(signatures))
	for i, sig := range signatures {
		sig.Magic = append([]byte(nil), sig.Magic...)
		out[i] = sig
	}
	return out
}

// DetectFileType sniffs buf against the signature table. It is best-effort
// content sniffing, not validation of the whole file.
func DetectFileType(buf []byte) (Signature, bool) {
	if len(buf) < 2 {
		return Signature{}, false
	}
	for _, sig := range signatures {
		if bytes.HasPrefix(buf, sig.Magic) {
			return sig, true
		}
	}
	return Signature{}, false
}

// SuggestFilename returns base with the detected extension, or ".bin" when the
// type is unknown. An existing matching extension is kept.
func SuggestFilename(base string, buf []byte) string {
	base = strings.TrimSpace(base)
	if base == "" {
		base = "payload"
	}
	ext := "bin"
	if sig, ok := DetectFileType(buf); ok {
		ext = sig.Extension
	}
	if strings.EqualFold(strings.TrimPrefix(filepath.Ext(base), "."), ext) {
		return base
	}
	return base + "." + ext
}
