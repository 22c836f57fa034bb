// Command respkv-cli is a minimal line-oriented client for poking a running
// respkv-server: it reads whitespace-separated commands from stdin, frames
// them over the wire, and prints one reply line per command.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/respkv/respkv/internal/proto"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:6379", "server address")
	flag.Parse()

	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dial %s: %v\n", *addr, err)
		os.Exit(1)
	}
	defer conn.Close()

	br := bufio.NewReader(conn)
	sc := bufio.NewScanner(os.Stdin)

	fmt.Fprintf(os.Stderr, "connected to %s\n", *addr)
	for {
		fmt.Fprint(os.Stderr, "> ")
		if !sc.Scan() {
			break
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		argv := splitArgv(line)
		if _, err := conn.Write(proto.EncodeRequest(argv)); err != nil {
			fmt.Fprintf(os.Stderr, "write: %v\n", err)
			return
		}

		reply, err := br.ReadBytes('\n')
		if err != nil {
			fmt.Fprintf(os.Stderr, "read: %v\n", err)
			return
		}
		fmt.Println(formatReply(reply))
	}
}

func splitArgv(line string) proto.Argv {
	fields := strings.Fields(line)
	argv := make(proto.Argv, len(fields))
	for i, f := range fields {
		argv[i] = []byte(f)
	}
	return argv
}

// formatReply renders a raw reply frame for a terminal: strip the trailing
// CRLF, the leading type sigil (+, :, -) and any trailing spaces, which is
// all a human operator needs. A null reply (_) is shown as "(nil)".
func formatReply(reply []byte) string {
	s := strings.TrimRight(string(reply), "\r\n")
	if s == "" {
		return s
	}
	switch s[0] {
	case '+', ':', '-':
		s = s[1:]
	case '_':
		return "(nil)"
	}
	return strings.TrimRight(s, " ")
}
