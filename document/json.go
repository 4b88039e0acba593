package document

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
)

// EncodeJSON writes s to w as an indented JSON object with keys in
// insertion order.
func EncodeJSON(w io.Writer, s *Section) error {
	bw := bufio.NewWriter(w)
	if err := writeJSON(bw, s, 0); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	return bw.Flush()
}

func writeJSON(w *bufio.Writer, s *Section, depth int) error {
	if s.Len() == 0 {
		_, err := w.WriteString("{}")
		return err
	}
	indent := strings.Repeat("  ", depth+1)
	if _, err := w.WriteString("{\n"); err != nil {
		return err
	}
	for i, k := range s.keys {
		key, err := json.Marshal(k)
		if err != nil {
			return err
		}
		if _, err := w.WriteString(indent + string(key) + ": "); err != nil {
			return err
		}
		if err := writeJSONValue(w, s.values[k], depth+1); err != nil {
			return err
		}
		if i < len(s.keys)-1 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}
	_, err := w.WriteString(strings.Repeat("  ", depth) + "}")
	return err
}

func writeJSONValue(w *bufio.Writer, v interface{}, depth int) error {
	switch x := v.(type) {
	case *Section:
		return writeJSON(w, x, depth)
	case string:
		b, err := json.Marshal(x)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	}
	str, err := formatScalar(v)
	if err != nil {
		return err
	}
	_, err = w.WriteString(str)
	return err
}

// DecodeJSON reads a JSON object from r. JSON is a subset of YAML so the
// YAML decoder is used, which keeps the key order intact.
func DecodeJSON(r io.Reader) (*Section, error) {
	return DecodeYAML(r)
}
