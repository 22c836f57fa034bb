package server

import (
	"bufio"
	"errors"
	"io"
	"net"

	"github.com/respkv/respkv/internal/kvindex"
	"github.com/respkv/respkv/internal/proto"
	"github.com/respkv/respkv/internal/proto/errchain"
	"go.uber.org/zap"
)

// handleConn runs the per-connection loop: read one complete frame,
// dispatch it through idx, write the reply, repeat until the connection
// errors or the peer closes it. Requests on one connection are always
// processed strictly sequentially.
func handleConn(conn net.Conn, idx *kvindex.Index, log *zap.Logger) {
	defer conn.Close()

	br := bufio.NewReader(conn)
	remote := conn.RemoteAddr().String()

	for {
		raw, err := proto.ReadFrame(br)
		if err != nil {
			if errors.Is(err, io.EOF) {
				log.Debug("connection closed by peer", zap.String("remote", remote))
			} else {
				log.Debug("connection read error", zap.String("remote", remote), zap.Error(err))
				errchain.Print(err)
			}
			return
		}

		reply := idx.ExecuteBytes(raw)

		if _, err := conn.Write(reply); err != nil {
			log.Debug("connection write error", zap.String("remote", remote), zap.Error(err))
			errchain.Print(err)
			return
		}
	}
}
