package quickbooks

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/turtacn/IPBooks-Bridge/pkg/errors"
)

// MarshalRequest renders one request operation (for example "VendorQueryRq"
// or "BillAddRq") with the given body into a complete QBXML envelope.
func MarshalRequest(op string, body *Record, version, onError string) []byte {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0"?>`)
	fmt.Fprintf(&buf, `<?qbxml version="%s"?>`, version)
	buf.WriteString("<QBXML>")
	fmt.Fprintf(&buf, `<QBXMLMsgsRq onError="%s">`, onError)
	fmt.Fprintf(&buf, `<%s requestID="1">`, op)
	writeRecord(&buf, body)
	fmt.Fprintf(&buf, "</%s>", op)
	buf.WriteString("</QBXMLMsgsRq>")
	buf.WriteString("</QBXML>")
	return buf.Bytes()
}

// writeRecord renders a record's fields in declaration order.  Repeated
// child records under one key become repeated sibling elements.
func writeRecord(buf *bytes.Buffer, r *Record) {
	if r == nil {
		return
	}
	for i := range r.fields {
		f := &r.fields[i]
		if f.isLeaf {
			fmt.Fprintf(buf, "<%s>", f.key)
			_ = xml.EscapeText(buf, []byte(f.text))
			fmt.Fprintf(buf, "</%s>", f.key)
			continue
		}
		for _, child := range f.children {
			fmt.Fprintf(buf, "<%s>", f.key)
			writeRecord(buf, child)
			fmt.Fprintf(buf, "</%s>", f.key)
		}
	}
}

// UnmarshalResponse decodes a QBXML response envelope into the response
// section's entity records.  An empty result set is legal and yields an
// empty slice; a status severity of Error fails with the reported status
// message.
func UnmarshalResponse(data []byte) ([]*Record, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	// Walk into QBXML > QBXMLMsgsRs > <op>Rs.
	section, err := descend(dec, 3)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeBooksResponse, "malformed response envelope")
	}

	var severity, message string
	for _, attr := range section.Attr {
		switch attr.Name.Local {
		case "statusSeverity":
			severity = attr.Value
		case "statusMessage":
			message = attr.Value
		}
	}
	if strings.EqualFold(severity, "Error") {
		return nil, errors.New(errors.CodeBooksStatus, message)
	}

	var records []*Record
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeBooksResponse, "malformed response body")
		}
		switch t := tok.(type) {
		case xml.StartElement:
			text, child, err := decodeElement(dec, t.Name.Local)
			if err != nil {
				return nil, errors.Wrap(err, errors.CodeBooksResponse, "malformed response body")
			}
			if child == nil {
				// A bare scalar at entity level; wrap it so callers
				// see a uniform record shape.
				child = NewRecord().Set(t.Name.Local, text)
			}
			records = append(records, child)
		case xml.EndElement:
			return records, nil
		}
	}
	return records, nil
}

// descend consumes start elements until depth levels deep, returning the
// last one entered.
func descend(dec *xml.Decoder, depth int) (xml.StartElement, error) {
	var last xml.StartElement
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return last, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			last = start
			depth--
		}
	}
	return last, nil
}

// decodeElement reads the content of an already-entered element.  A leaf
// yields its character data; an element with children yields a Record with
// repeated sibling keys collapsed into list entries.
func decodeElement(dec *xml.Decoder, name string) (string, *Record, error) {
	var text strings.Builder
	var rec *Record
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", nil, err
		}
		switch t := tok.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.StartElement:
			childText, childRec, err := decodeElement(dec, t.Name.Local)
			if err != nil {
				return "", nil, err
			}
			if rec == nil {
				rec = NewRecord()
			}
			if childRec != nil {
				rec.AddChild(t.Name.Local, childRec)
			} else {
				rec.AddText(t.Name.Local, childText)
			}
		case xml.EndElement:
			if rec != nil {
				return "", rec, nil
			}
			return text.String(), nil, nil
		}
	}
}
