package source

// StringID is a handle to an interned identifier.
type StringID uint32

// NoStringID is reserved for the empty string.
const NoStringID StringID = 0

// Interner deduplicates identifier text (variable names, labels, operator
// spellings) so the syntax tree can carry small integer handles.
type Interner struct {
	strs  []string
	index map[string]StringID
}

func NewInterner() *Interner {
	return &Interner{
		strs:  []string{""},
		index: map[string]StringID{"": NoStringID},
	}
}

// Intern returns the id of s, allocating one on first sight.
func (in *Interner) Intern(s string) StringID {
	if id, ok := in.index[s]; ok {
		return id
	}
	// own the bytes; s may alias a decoder buffer
	own := string([]byte(s))
	id := StringID(len(in.strs))
	in.strs = append(in.strs, own)
	in.index[own] = id
	return id
}

// Find reports the id of s without interning it.
func (in *Interner) Find(s string) (StringID, bool) {
	id, ok := in.index[s]
	return id, ok
}

func (in *Interner) Lookup(id StringID) (string, bool) {
	if int(id) >= len(in.strs) {
		return "", false
	}
	return in.strs[id], true
}

// MustLookup panics on an id this interner never produced.
func (in *Interner) MustLookup(id StringID) string {
	s, ok := in.Lookup(id)
	if !ok {
		panic("source: invalid string id")
	}
	return s
}

// Len counts NoStringID too, so it is never below 1.
func (in *Interner) Len() int { return len(in.strs) }
