package drcov

// FindModule returns the module with the given id, or nil. The returned
// entry aliases c and must not be modified.
func (c *CoverageData) FindModule(id uint16) *ModuleEntry {
	if int(id) >= len(c.Modules) {
		return nil
	}
	m := &c.Modules[id]
	if m.ID != uint32(id) {
		return nil
	}
	return m
}

// FindModuleByAddress returns the first module whose [Base, End) range
// contains addr, or nil.
func (c *CoverageData) FindModuleByAddress(addr uint64) *ModuleEntry {
	for i := range c.Modules {
		if c.Modules[i].Contains(addr) {
			return &c.Modules[i]
		}
	}
	return nil
}

// CoverageStats counts blocks per module id. Modules without blocks are
// absent from the map.
func (c *CoverageData) CoverageStats() map[uint16]int {
	stats := make(map[uint16]int)
	for _, bb := range c.BasicBlocks {
		stats[bb.ModuleID]++
	}
	return stats
}

// CoveredBytes sums block sizes per module id. Overlapping or repeated
// blocks are counted each time they appear.
func (c *CoverageData) CoveredBytes() map[uint16]uint64 {
	covered := make(map[uint16]uint64)
	for _, bb := range c.BasicBlocks {
		covered[bb.ModuleID] += uint64(bb.Size)
	}
	return covered
}

// TotalCoveredBytes sums the sizes of all blocks.
func (c *CoverageData) TotalCoveredBytes() uint64 {
	var total uint64
	for _, bb := range c.BasicBlocks {
		total += uint64(bb.Size)
	}
	return total
}

// BlocksFor returns the blocks of module id in file order.
func (c *CoverageData) BlocksFor(id uint16) []BasicBlock {
	var blocks []BasicBlock
	for _, bb := range c.BasicBlocks {
		if bb.ModuleID == id {
			blocks = append(blocks, bb)
		}
	}
	return blocks
}
