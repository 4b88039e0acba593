/*
Package magic identifies files by their leading signature bytes and
classifies paths into file-type groups by extension.

Nothing here is global: callers build a Table, optionally extend it with
their own signatures, and pass it to Sniff.
*/
package magic

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
)

// Group is a coarse file-type classification.
type Group string

// The known groups.
const (
	GroupUnknown Group = ""
	GroupAudio   Group = "audio"
	GroupConfig  Group = "config"
	GroupImage   Group = "image"
	GroupMisc    Group = "misc"
)

// Part is a run of bytes expected at a fixed offset.
type Part struct {
	Offset int
	Bytes  []byte
}

// Signature describes how to recognize a file format.
type Signature struct {
	Parts     []Part
	Extension string
	Group     Group
}

func (s Signature) length() int {
	var n int
	for _, p := range s.Parts {
		if end := p.Offset + len(p.Bytes); end > n {
			n = end
		}
	}
	return n
}

// Match reports whether header satisfies every part of s.
func (s Signature) Match(header []byte) bool {
	if len(s.Parts) == 0 {
		return false
	}
	for _, p := range s.Parts {
		end := p.Offset + len(p.Bytes)
		if end > len(header) || !bytes.Equal(header[p.Offset:end], p.Bytes) {
			return false
		}
	}
	return true
}

// Table is an ordered list of signatures; the first match wins.
type Table []Signature

// With returns a new table with sigs ahead of the existing entries.
func (t Table) With(sigs ...Signature) Table {
	n := make(Table, 0, len(sigs)+len(t))
	n = append(n, sigs...)
	return append(n, t...)
}

// Sniff returns the first signature in t matching the leading bytes of r.
func (t Table) Sniff(r io.ReaderAt) (Signature, bool) {
	var max int
	for _, s := range t {
		if n := s.length(); n > max {
			max = n
		}
	}
	header := make([]byte, max)
	n, err := r.ReadAt(header, 0)
	if err != nil && err != io.EOF {
		return Signature{}, false
	}
	return t.Match(header[:n])
}

// Match returns the first signature in t matching header.
func (t Table) Match(header []byte) (Signature, bool) {
	for _, s := range t {
		if s.Match(header) {
			return s, true
		}
	}
	return Signature{}, false
}

// Extension returns the extension of the signature matching r, or an empty
// string.
func (t Table) Extension(r io.ReaderAt) string {
	if s, ok := t.Sniff(r); ok {
		return s.Extension
	}
	return ""
}

func sig(ext string, group Group, parts ...Part) Signature {
	return Signature{Parts: parts, Extension: ext, Group: group}
}

func at(offset int, b string) Part {
	return Part{Offset: offset, Bytes: []byte(b)}
}

// The custom asset formats.
var (
	RFX = sig(".rfx", GroupMisc, at(0, "rFX "))
	FNT = sig(".fnt", GroupMisc, at(0, "BMF"))
)

// Builtin returns a table of the common image and audio signatures.
func Builtin() Table {
	return Table{
		sig(".png", GroupImage, at(0, "\x89PNG\r\n\x1a\n")),
		sig(".gif", GroupImage, at(0, "GIF87a")),
		sig(".gif", GroupImage, at(0, "GIF89a")),
		sig(".jpg", GroupImage, at(0, "\xff\xd8\xff")),
		sig(".webp", GroupImage, at(0, "RIFF"), at(8, "WEBP")),
		sig(".tiff", GroupImage, at(0, "II*\x00")),
		sig(".tiff", GroupImage, at(0, "MM\x00*")),
		sig(".bmp", GroupImage, at(0, "BM")),
		sig(".wav", GroupAudio, at(0, "RIFF"), at(8, "WAVE")),
	}
}

// Default returns the builtin table with the custom asset formats
// registered ahead of it, so that "BMF" is tried before "BM".
func Default() Table {
	return Builtin().With(RFX, FNT)
}

// Classifier maps a path to a group.
type Classifier func(path string) Group

var extensionGroups = map[string]Group{
	".json": GroupConfig,
	".xml":  GroupConfig,
	".yaml": GroupConfig,
	".yml":  GroupConfig,
	".wav":  GroupAudio,
	".bmp":  GroupImage,
	".gif":  GroupImage,
	".jpeg": GroupImage,
	".jpg":  GroupImage,
	".png":  GroupImage,
	".tif":  GroupImage,
	".tiff": GroupImage,
	".webp": GroupImage,
	".fnt":  GroupMisc,
	".rfx":  GroupMisc,
}

// Classify returns the group of path based on its extension.
func Classify(path string) Group {
	return extensionGroups[strings.ToLower(filepath.Ext(path))]
}
