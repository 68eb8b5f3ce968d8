package drcov

import "github.com/wippyai/drcov/errors"

// Targets for errors.Is. Each matches its kind in any phase.
var (
	ErrIO                 = &errors.Error{Kind: errors.KindIO}
	ErrInvalidFormat      = &errors.Error{Kind: errors.KindInvalidFormat}
	ErrUnsupportedVersion = &errors.Error{Kind: errors.KindUnsupportedVersion}
	ErrInvalidModuleTable = &errors.Error{Kind: errors.KindInvalidModuleTable}
	ErrInvalidBBTable     = &errors.Error{Kind: errors.KindInvalidBBTable}
	ErrValidation         = &errors.Error{Kind: errors.KindValidation}
)
