package document

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Encoder writes a section tree in some text format.
type Encoder func(io.Writer, *Section) error

// Decoder reads a section tree from some text format.
type Decoder func(io.Reader) (*Section, error)

type codec struct {
	encode Encoder
	decode Decoder
}

var codecs = map[string]codec{
	".json": {EncodeJSON, DecodeJSON},
	".yaml": {EncodeYAML, DecodeYAML},
	".yml":  {EncodeYAML, DecodeYAML},
	".xml":  {EncodeXML, DecodeXML},
}

// Extensions returns the file extensions with a known codec.
func Extensions() []string {
	return []string{".json", ".xml", ".yaml", ".yml"}
}

// Supported reports whether ext (including the leading dot) has a codec.
func Supported(ext string) bool {
	_, ok := codecs[strings.ToLower(ext)]
	return ok
}

func lookup(ext string) (codec, error) {
	c, ok := codecs[strings.ToLower(ext)]
	if !ok {
		return codec{}, fmt.Errorf("document: no codec for extension %q", ext)
	}
	return c, nil
}

// Encode writes s to w using the codec for ext.
func Encode(w io.Writer, s *Section, ext string) error {
	c, err := lookup(ext)
	if err != nil {
		return err
	}
	return c.encode(w, s)
}

// Decode reads a section tree from r using the codec for ext.
func Decode(r io.Reader, ext string) (*Section, error) {
	c, err := lookup(ext)
	if err != nil {
		return nil, err
	}
	return c.decode(r)
}

// Save writes s to the file at path, choosing the codec from the file
// extension.
func Save(s *Section, path string) error {
	c, err := lookup(filepath.Ext(path))
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := c.encode(f, s); err != nil {
		return err
	}
	return f.Close()
}

// Load reads the file at path, choosing the codec from the file extension.
func Load(path string) (*Section, error) {
	c, err := lookup(filepath.Ext(path))
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return c.decode(f)
}
