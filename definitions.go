package lneto

// IPProto represents the IP protocol number carried in the IPv4 Protocol
// field or the IPv6 Next Header field.
type IPProto uint8

// IPProtoTCP is the protocol number for Transmission Control [RFC793].
const IPProtoTCP IPProto = 6

const (
	sizeHeaderTCP = 20
)
