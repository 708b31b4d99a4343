// Package quickbooks implements the accounting-system boundary: the ordered
// key-value Record tree the rest of the tool works with, the QBXML envelope
// codec, the composite display-name codec, and the HTTP gateway client.
//
// Records are order-preserving because the accounting system's wire format
// rejects requests whose elements arrive out of sequence.  Repeated sibling
// keys (line items) are normalized at this boundary into always-list access
// so no caller ever has to distinguish "one line" from "a list with one
// line".
package quickbooks

// field is a single entry of a Record.  A field is either a text leaf or a
// list of child records; never both.
type field struct {
	key      string
	text     string
	children []*Record
	isLeaf   bool
}

// Record is an ordered key-value tree mirroring one accounting-system
// entity or request payload.
type Record struct {
	fields []field
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{}
}

// find returns the index of the first field with key, or -1.
func (r *Record) find(key string) int {
	for i := range r.fields {
		if r.fields[i].key == key {
			return i
		}
	}
	return -1
}

// Set stores a text leaf under key, replacing the first existing field with
// that key or appending at the end.
func (r *Record) Set(key, text string) *Record {
	if i := r.find(key); i >= 0 {
		r.fields[i] = field{key: key, text: text, isLeaf: true}
		return r
	}
	r.fields = append(r.fields, field{key: key, text: text, isLeaf: true})
	return r
}

// SetChild stores a single nested record under key, replacing the first
// existing field with that key or appending at the end.
func (r *Record) SetChild(key string, child *Record) *Record {
	if i := r.find(key); i >= 0 {
		r.fields[i] = field{key: key, children: []*Record{child}}
		return r
	}
	r.fields = append(r.fields, field{key: key, children: []*Record{child}})
	return r
}

// AddText appends a text leaf under key even when a field with the same key
// already exists, so repeated scalar sibling elements keep every value.
// Set replaces; decoding uses AddText.
func (r *Record) AddText(key, text string) *Record {
	r.fields = append(r.fields, field{key: key, text: text, isLeaf: true})
	return r
}

// AddChild appends a nested record to the list stored under key, creating
// the field at the end if absent.  This is how repeated elements (line
// items) are built.
func (r *Record) AddChild(key string, child *Record) *Record {
	if i := r.find(key); i >= 0 && !r.fields[i].isLeaf {
		r.fields[i].children = append(r.fields[i].children, child)
		return r
	}
	r.fields = append(r.fields, field{key: key, children: []*Record{child}})
	return r
}

// Prepend inserts a text leaf at the front of the record, removing any
// existing field with the same key first.  The engine uses it to merge
// identifier fields onto modify payloads.
func (r *Record) Prepend(key, text string) *Record {
	if i := r.find(key); i >= 0 {
		r.fields = append(r.fields[:i], r.fields[i+1:]...)
	}
	r.fields = append([]field{{key: key, text: text, isLeaf: true}}, r.fields...)
	return r
}

// Text returns the text of the first leaf field with key, or "" when the key
// is absent or holds children.
func (r *Record) Text(key string) string {
	if r == nil {
		return ""
	}
	if i := r.find(key); i >= 0 && r.fields[i].isLeaf {
		return r.fields[i].text
	}
	return ""
}

// Child returns the first nested record under key, or nil.
func (r *Record) Child(key string) *Record {
	if r == nil {
		return nil
	}
	if i := r.find(key); i >= 0 && !r.fields[i].isLeaf && len(r.fields[i].children) > 0 {
		return r.fields[i].children[0]
	}
	return nil
}

// List returns every nested record under key.  A single nested record yields
// a one-element slice; an absent key yields nil.
func (r *Record) List(key string) []*Record {
	if r == nil {
		return nil
	}
	if i := r.find(key); i >= 0 && !r.fields[i].isLeaf {
		return r.fields[i].children
	}
	return nil
}

// Has reports whether any field with key is present.
func (r *Record) Has(key string) bool {
	return r != nil && r.find(key) >= 0
}

// Len returns the number of fields.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.fields)
}

// Keys returns the field keys in order.
func (r *Record) Keys() []string {
	if r == nil {
		return nil
	}
	keys := make([]string, len(r.fields))
	for i := range r.fields {
		keys[i] = r.fields[i].key
	}
	return keys
}

// Equal reports deep structural equality: same keys in the same order with
// equal leaf texts and recursively equal children.
func (r *Record) Equal(o *Record) bool {
	if r == nil || o == nil {
		return r.Len() == 0 && o.Len() == 0
	}
	if len(r.fields) != len(o.fields) {
		return false
	}
	for i := range r.fields {
		a, b := &r.fields[i], &o.fields[i]
		if a.key != b.key || a.isLeaf != b.isLeaf {
			return false
		}
		if a.isLeaf {
			if a.text != b.text {
				return false
			}
			continue
		}
		if len(a.children) != len(b.children) {
			return false
		}
		for j := range a.children {
			if !a.children[j].Equal(b.children[j]) {
				return false
			}
		}
	}
	return true
}
