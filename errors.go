package lneto

// type ErrorPacketDrop struct {
// 	Message string
// }

// var genericErrPacketDrop = &ErrorPacketDrop{Message: ErrPacketDrop.Error()}

// // ErrGenericPacketDrop returns the generic packet drop error. It performs no allocations.
// func ErrGenericPacketDrop() error {
// 	return genericErrPacketDrop
// }

// func (err *ErrorPacketDrop) Error() string {
// 	return err.Message
// }

type errGeneric uint8

// Generic errors common to internet functioning.
const (
	_                     errGeneric = iota // non-initialized err
	ErrBug                                  // lneto-bug(use build tag "debugheaplog")
	ErrPacketDrop                           // packet dropped
	ErrBadCRC                               // incorrect checksum
	ErrZeroSource                           // zero source(port/addr)
	ErrZeroDestination                      // zero destination(port/addr)
	ErrShortBuffer                          // buffer too small for operation
	ErrInvalidField                         // field holds a value disallowed by the protocol
	ErrInvalidLengthField                   // length field inconsistent with buffer or protocol limits
	ErrInvalidConfig                        // configuration missing a required value
	ErrMismatch                             // two values expected to match did not
)

func (err errGeneric) Error() string {
	return err.String()
}

func (err errGeneric) String() string {
	switch err {
	case ErrBug:
		return "lneto-bug(use build tag \"debugheaplog\")"
	case ErrPacketDrop:
		return "packet dropped"
	case ErrBadCRC:
		return "incorrect checksum"
	case ErrZeroSource:
		return "zero source(port/addr)"
	case ErrZeroDestination:
		return "zero destination(port/addr)"
	case ErrShortBuffer:
		return "buffer too small for operation"
	case ErrInvalidField:
		return "field holds a value disallowed by the protocol"
	case ErrInvalidLengthField:
		return "length field inconsistent with buffer or protocol limits"
	case ErrInvalidConfig:
		return "configuration missing a required value"
	case ErrMismatch:
		return "two values expected to match did not"
	default:
		return "unknown lneto error"
	}
}
