package document

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

const xmlRoot = "config"

var errXMLStructure = errors.New("document: unexpected XML structure")

// EncodeXML writes s to w as nested XML elements under a single root
// element. Every key becomes an element name so keys must be valid XML
// names.
func EncodeXML(w io.Writer, s *Section) error {
	e := xml.NewEncoder(w)
	e.Indent("", "  ")
	if err := encodeXMLSection(e, xmlRoot, s); err != nil {
		return err
	}
	if err := e.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func encodeXMLSection(e *xml.Encoder, name string, s *Section) error {
	start := xml.StartElement{Name: xml.Name{Local: name}}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, k := range s.keys {
		switch x := s.values[k].(type) {
		case *Section:
			if err := encodeXMLSection(e, k, x); err != nil {
				return err
			}
		default:
			str, err := formatScalar(x)
			if err != nil {
				return err
			}
			if err := e.EncodeElement(str, xml.StartElement{Name: xml.Name{Local: k}}); err != nil {
				return err
			}
		}
	}
	return e.EncodeToken(start.End())
}

// DecodeXML reads the nested element form written by EncodeXML. Elements
// with child elements become sections, the rest become scalars whose type
// is inferred from their text.
func DecodeXML(r io.Reader) (*Section, error) {
	d := xml.NewDecoder(r)
	for {
		tok, err := d.Token()
		if err != nil {
			if err == io.EOF {
				return New(), nil
			}
			return nil, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			v, err := decodeXMLElement(d, start)
			if err != nil {
				return nil, err
			}
			s, ok := v.(*Section)
			if !ok {
				return New(), nil
			}
			return s, nil
		}
	}
}

func decodeXMLElement(d *xml.Decoder, start xml.StartElement) (interface{}, error) {
	var s *Section
	var text strings.Builder
	for {
		tok, err := d.Token()
		if err != nil {
			if err == io.EOF {
				return nil, errXMLStructure
			}
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if s == nil {
				s = New()
			}
			v, err := decodeXMLElement(d, t)
			if err != nil {
				return nil, err
			}
			s.Set(t.Name.Local, v)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			if s != nil {
				return s, nil
			}
			return parseScalar(strings.TrimSpace(text.String())), nil
		}
	}
}
