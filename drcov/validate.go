package drcov

import "github.com/wippyai/drcov/errors"

// Validate checks the aggregate invariants: module ids are 0..n-1 in
// order, and every basic block references an existing module. The first
// violation is returned.
func (c *CoverageData) Validate() error {
	if err := c.validateModuleIDs(); err != nil {
		return err
	}
	if err := c.validateBlockRefs(); err != nil {
		return err
	}
	return nil
}

func (c *CoverageData) validateModuleIDs() error {
	for i := range c.Modules {
		if c.Modules[i].ID != uint32(i) {
			return errors.Validation(c.Modules[i].ID,
				"non-sequential module id %d at index %d", c.Modules[i].ID, i)
		}
	}
	return nil
}

func (c *CoverageData) validateBlockRefs() error {
	numModules := len(c.Modules)
	for i, bb := range c.BasicBlocks {
		if int(bb.ModuleID) >= numModules {
			return errors.Validation(bb.ModuleID,
				"basic block %d references invalid module id %d (module count %d)", i, bb.ModuleID, numModules)
		}
	}
	return nil
}
