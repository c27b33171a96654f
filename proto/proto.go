package proto

// Kind identifies the message type carried in kernel.Message.Kind.
type Kind uint16

const (
	MsgLogLine Kind = iota + 1
	MsgKey
	MsgTap
)

func (k Kind) String() string {
	switch k {
	case MsgLogLine:
		return "log_line"
	case MsgKey:
		return "key"
	case MsgTap:
		return "tap"
	default:
		return "unknown"
	}
}
