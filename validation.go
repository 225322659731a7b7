package lneto

import "errors"

// Validator accumulates protocol-level validation errors found while parsing
// or constructing a frame. The zero value is ready to use.
type Validator struct {
	checkEvil      bool
	allowMultiErrs bool
	accum          []error
}

// ResetErr clears all accumulated errors, readying the Validator for reuse.
func (v *Validator) ResetErr() {
	v.accum = v.accum[:0]
}

// Err returns the accumulated validation error, or nil if none were recorded.
// Multiple errors are joined with errors.Join.
func (v *Validator) Err() error {
	if len(v.accum) == 1 {
		return v.accum[0]
	} else if len(v.accum) == 0 {
		return nil
	}
	return errors.Join(v.accum...)
}

func (v *Validator) gotErr(err error) {
	if len(v.accum) != 0 && !v.allowMultiErrs {
		return
	}
	v.accum = append(v.accum, err)
}

// AddBitPosErr records a validation error found at a specific field of the
// frame being validated, identified by its bit offset and width. The position
// is not recorded: only err is kept, exactly as a plain error would be, so
// Err's return value does not depend on it.
func (v *Validator) AddBitPosErr(bitOffset, bitWidth int, err error) {
	v.gotErr(err)
}
