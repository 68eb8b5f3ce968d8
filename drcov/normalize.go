package drcov

import (
	"slices"
	"strings"
)

// Normalized returns the value c becomes after an encode/decode round
// trip. Fields the module table version cannot carry are dropped, fields
// it always writes are filled with the values the encoder emits, and
// paths lose surrounding whitespace. For valid c:
//
//	data, _ := c.Bytes()
//	back, _ := drcov.Parse(data)
//	// reflect.DeepEqual(back, c.Normalized()) holds
func (c *CoverageData) Normalized() *CoverageData {
	out := &CoverageData{
		Header:        c.Header,
		ModuleVersion: c.ModuleVersion,
	}
	if len(c.BasicBlocks) > 0 {
		out.BasicBlocks = slices.Clone(c.BasicBlocks)
	}
	if len(c.Modules) == 0 {
		return out
	}

	windows := c.ModuleVersion.SupportsWindowsFields() && hasWindowsFields(c.Modules)
	out.Modules = make([]ModuleEntry, len(c.Modules))
	for i := range c.Modules {
		m := &c.Modules[i]
		n := ModuleEntry{
			ID:    m.ID,
			Base:  m.Base,
			End:   m.End,
			Entry: m.Entry,
			Path:  strings.TrimSpace(m.Path),
		}
		if c.ModuleVersion.SupportsContainingID() {
			id := int32(-1)
			if m.ContainingID != nil {
				id = *m.ContainingID
			}
			n.ContainingID = Int32(id)
		}
		if c.ModuleVersion.SupportsOffset() {
			n.Offset = Uint64(deref(m.Offset))
		}
		if windows {
			n.Checksum = Uint32(deref(m.Checksum))
			n.Timestamp = Uint32(deref(m.Timestamp))
		}
		out.Modules[i] = n
	}
	return out
}
