package server

import (
	"bufio"
	"context"
	"net"
	"testing"
	"time"

	"github.com/respkv/respkv/internal/kvindex"
	"github.com/respkv/respkv/internal/proto"
)

func TestServeRoundTrip(t *testing.T) {
	idx := kvindex.New(nil)
	srv := New(nil, idx, 2)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	conn, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	if _, err := conn.Write(proto.EncodeRequest(proto.Argv{[]byte("SET"), []byte("a"), []byte("v")})); err != nil {
		t.Fatal(err)
	}
	br := bufio.NewReader(conn)
	reply, err := br.ReadBytes('\n')
	if err != nil {
		t.Fatal(err)
	}
	if string(reply) != "+OK\r\n" {
		t.Fatal(string(reply))
	}

	if _, err := conn.Write(proto.EncodeRequest(proto.Argv{[]byte("GET"), []byte("a")})); err != nil {
		t.Fatal(err)
	}
	reply, err = br.ReadBytes('\n')
	if err != nil {
		t.Fatal(err)
	}
	if string(reply) != "+v\r\n" {
		t.Fatal(string(reply))
	}

	if srv.ActiveConnections() != 1 {
		t.Fatal(srv.ActiveConnections())
	}
	if srv.PoolSize() != 2 {
		t.Fatal(srv.PoolSize())
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Serve did not return after context cancellation")
	}
}
