package tcp

import "strconv"

// String returns the RFC 9293 state name, e.g. "ESTABLISHED".
func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateListen:
		return "LISTEN"
	case StateSynRcvd:
		return "SYN-RECEIVED"
	case StateSynSent:
		return "SYN-SENT"
	case StateEstablished:
		return "ESTABLISHED"
	case StateFinWait1:
		return "FIN-WAIT-1"
	case StateFinWait2:
		return "FIN-WAIT-2"
	case StateClosing:
		return "CLOSING"
	case StateTimeWait:
		return "TIME-WAIT"
	case StateCloseWait:
		return "CLOSE-WAIT"
	case StateLastAck:
		return "LAST-ACK"
	default:
		return "State(" + strconv.Itoa(int(s)) + ")"
	}
}

// String returns the option's name, with a "(obsolete)" suffix for options
// IsObsolete reports true for.
func (kind OptionKind) String() string {
	switch kind {
	case OptEnd:
		return "end of option list"
	case OptNop:
		return "no-operation"
	case OptMaxSegmentSize:
		return "maximum segment size"
	case OptWindowScale:
		return "window scale"
	case OptSACKPermitted:
		return "SACK permitted"
	case OptSACK:
		return "SACK"
	case OptEcho:
		return "echo(obsolete)"
	case optEchoReply:
		return "echo reply(obsolete)"
	case OptTimestamps:
		return "timestamps"
	case optPOCP:
		return "partial order connection permitted(obsolete)"
	case optPOSP:
		return "partial order service profile(obsolete)"
	case optCC:
		return "CC(obsolete)"
	case optCCnew:
		return "CC.new(obsolete)"
	case optCCecho:
		return "CC.echo(obsolete)"
	case optACR:
		return "alternate checksum request(obsolete)"
	case optACD:
		return "alternate checksum data(obsolete)"
	case optSkeeter:
		return "skeeter"
	case optBubba:
		return "bubba"
	case OptTrailerChecksum:
		return "trailer checksum"
	case optMD5Signature:
		return "MD5 signature(obsolete)"
	case OptSCPSCapabilities:
		return "SCPS capabilities"
	case OptSNA:
		return "selective negative acks"
	case OptRecordBoundaries:
		return "record boundaries"
	case OptCorruptionExperienced:
		return "corruption experienced"
	case OptSNAP:
		return "SNAP"
	case OptUnassigned:
		return "unassigned"
	case OptCompressionFilter:
		return "compression filter"
	case OptQuickStartResponse:
		return "quick-start response"
	case OptUserTimeout:
		return "user timeout or unauthorized use"
	case OptAuthetication:
		return "Authentication TCP-AO"
	case OptMultipath:
		return "multipath TCP"
	case OptFastOpenCookie:
		return "fast open cookie"
	case OptEncryptionNegotiation:
		return "encryption negotiation"
	case OptAccurateECN0:
		return "accurate ECN order 0"
	case OptAccurateECN1:
		return "accurate ECN order 1"
	case OptExperimental:
		return "experimental (RFC 6994)"
	case OptExperimental2:
		return "experimental 2 (RFC 6994)"
	default:
		return "OptionKind(" + strconv.Itoa(int(kind)) + ")"
	}
}
