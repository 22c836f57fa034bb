package proto

import (
	"strconv"
)

// EncodeRequest builds a "*<n>\r\n$<len>\r\n<bytes>\r\n..." request frame
// from argv, the inverse of Frame. It is used by respkv-cli and by tests
// that exercise the wire format end-to-end rather than via ExecuteArgv.
func EncodeRequest(argv Argv) []byte {
	out := make([]byte, 0, 32)
	out = append(out, '*')
	out = strconv.AppendInt(out, int64(len(argv)), 10)
	out = append(out, '\r', '\n')
	for _, field := range argv {
		out = append(out, '$')
		out = strconv.AppendInt(out, int64(len(field)), 10)
		out = append(out, '\r', '\n')
		out = append(out, field...)
		out = append(out, '\r', '\n')
	}
	return out
}

// nilLiteral is the "(nil)" payload EncodeNil wraps into the simple-string
// reply used by GET on a missing key, matching the source formatter
// byte-for-byte.
var nilLiteral = []byte("(nil)")

// EncodeSimpleString builds a "+<bytes>\r\n" reply.
func EncodeSimpleString(b []byte) []byte {
	out := make([]byte, 0, len(b)+3)
	out = append(out, '+')
	out = append(out, b...)
	out = append(out, '\r', '\n')
	return out
}

// EncodeOK builds the canonical "+OK\r\n" reply.
func EncodeOK() []byte {
	return EncodeSimpleString([]byte("OK"))
}

// EncodeNil builds the canonical "+(nil)\r\n" reply, used where a value
// lookup misses but the command still replies with a simple string.
func EncodeNil() []byte {
	return EncodeSimpleString(nilLiteral)
}

// EncodeNull builds the RESP3-style "_\r\n" null reply, used where a value
// lookup misses and the command replies with null rather than "(nil)".
func EncodeNull() []byte {
	return []byte("_\r\n")
}

// EncodeInt builds a ":<n>\r\n" reply.
func EncodeInt(n int64) []byte {
	out := make([]byte, 0, 16)
	out = append(out, ':')
	out = strconv.AppendInt(out, n, 10)
	out = append(out, '\r', '\n')
	return out
}

// EncodeError builds a "-ERR <message> \r\n" reply. The trailing space
// before CRLF is intentional: it is produced by the formatter this system
// was distilled from and preserved here for byte-exact wire compatibility.
func EncodeError(message string) []byte {
	out := make([]byte, 0, len(message)+8)
	out = append(out, '-', 'E', 'R', 'R', ' ')
	out = append(out, message...)
	out = append(out, ' ', '\r', '\n')
	return out
}
