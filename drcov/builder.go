package drcov

import "slices"

// Builder assembles a CoverageData incrementally. Module ids are assigned
// in insertion order starting at 0. Methods return the builder so calls
// can be chained; Build validates the result.
type Builder struct {
	data CoverageData
}

// NewBuilder returns a builder with the default header, a legacy module
// table and no modules or blocks.
func NewBuilder() *Builder {
	return &Builder{data: CoverageData{
		Header:        DefaultHeader(),
		ModuleVersion: Legacy,
	}}
}

// Flavor sets the header flavor.
func (b *Builder) Flavor(flavor string) *Builder {
	b.data.Header.Flavor = flavor
	return b
}

// ModuleVersion sets the module table schema.
func (b *Builder) ModuleVersion(v ModuleTableVersion) *Builder {
	b.data.ModuleVersion = v
	return b
}

// AddModule appends a module spanning [base, end) with its entry at base.
func (b *Builder) AddModule(path string, base, end uint64) *Builder {
	b.data.Modules = append(b.data.Modules, ModuleEntry{
		ID:    uint32(len(b.data.Modules)),
		Base:  base,
		End:   end,
		Entry: base,
		Path:  path,
	})
	return b
}

// AddFullModule appends m as given, including its id and optional fields.
// A mismatched id is reported by Build.
func (b *Builder) AddFullModule(m ModuleEntry) *Builder {
	b.data.Modules = append(b.data.Modules, m)
	return b
}

// AddCoverage appends a block at offset within module moduleID. The module
// need not exist yet; Build checks the reference.
func (b *Builder) AddCoverage(moduleID uint16, offset uint32, size uint16) *Builder {
	return b.AddBasicBlock(BasicBlock{Start: offset, Size: size, ModuleID: moduleID})
}

// AddBasicBlock appends bb.
func (b *Builder) AddBasicBlock(bb BasicBlock) *Builder {
	b.data.BasicBlocks = append(b.data.BasicBlocks, bb)
	return b
}

// Build validates and returns the accumulated data. The result does not
// share storage with the builder.
func (b *Builder) Build() (*CoverageData, error) {
	if err := b.data.Validate(); err != nil {
		return nil, err
	}
	out := b.data
	out.Modules = slices.Clone(b.data.Modules)
	out.BasicBlocks = slices.Clone(b.data.BasicBlocks)
	return &out, nil
}
