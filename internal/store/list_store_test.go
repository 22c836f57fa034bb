package store

import (
	"testing"

	"github.com/respkv/respkv/internal/proto"
)

func TestListStoreRPushLPushLLen(t *testing.T) {
	s := NewListStore()

	out := buildExec(t, s, proto.Argv{[]byte("RPUSH"), []byte("l"), []byte("a")})
	if string(out.Reply) != ":1\r\n" || out.Impact != Add {
		t.Fatal(string(out.Reply), out.Impact)
	}

	out = buildExec(t, s, proto.Argv{[]byte("RPUSH"), []byte("l"), []byte("b")})
	if string(out.Reply) != ":2\r\n" || out.Impact != None {
		t.Fatal(string(out.Reply), out.Impact)
	}

	out = buildExec(t, s, proto.Argv{[]byte("LPUSH"), []byte("l"), []byte("z")})
	if string(out.Reply) != ":3\r\n" {
		t.Fatal(string(out.Reply))
	}

	out = buildExec(t, s, proto.Argv{[]byte("LLEN"), []byte("l")})
	if string(out.Reply) != ":3\r\n" {
		t.Fatal(string(out.Reply))
	}

	// order is now z, a, b
	out = buildExec(t, s, proto.Argv{[]byte("LINDEX"), []byte("l"), []byte("0")})
	if string(out.Reply) != "+z\r\n" {
		t.Fatal(string(out.Reply))
	}
	out = buildExec(t, s, proto.Argv{[]byte("LINDEX"), []byte("l"), []byte("2")})
	if string(out.Reply) != "+b\r\n" {
		t.Fatal(string(out.Reply))
	}
}

func TestListStoreLIndexOutOfRange(t *testing.T) {
	s := NewListStore()
	buildExec(t, s, proto.Argv{[]byte("RPUSH"), []byte("l"), []byte("a")})

	out := buildExec(t, s, proto.Argv{[]byte("LINDEX"), []byte("l"), []byte("5")})
	if string(out.Reply) != "_\r\n" {
		t.Fatal(string(out.Reply))
	}
}

func TestListStoreLIndexNegativeRejected(t *testing.T) {
	s := NewListStore()
	buildExec(t, s, proto.Argv{[]byte("RPUSH"), []byte("l"), []byte("a")})

	req, err := s.Build(proto.Argv{[]byte("LINDEX"), []byte("l"), []byte("-1")})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Execute(req); err == nil {
		t.Fatal("expected error for negative index")
	}
}

func TestListStorePopToEmptyDeletesKey(t *testing.T) {
	s := NewListStore()
	buildExec(t, s, proto.Argv{[]byte("RPUSH"), []byte("l"), []byte("only")})

	out := buildExec(t, s, proto.Argv{[]byte("RPOP"), []byte("l")})
	if string(out.Reply) != "+only\r\n" {
		t.Fatal(string(out.Reply))
	}
	if out.Impact != Delete {
		t.Fatal(out.Impact)
	}

	out = buildExec(t, s, proto.Argv{[]byte("LPOP"), []byte("l")})
	if string(out.Reply) != "_\r\n" {
		t.Fatal(string(out.Reply))
	}
	if out.Impact != None {
		t.Fatal(out.Impact)
	}
}

func TestListStoreDeleteAndRename(t *testing.T) {
	s := NewListStore()
	buildExec(t, s, proto.Argv{[]byte("RPUSH"), []byte("l"), []byte("a")})
	buildExec(t, s, proto.Argv{[]byte("RPUSH"), []byte("l"), []byte("b")})

	if !s.Rename("l", "m") {
		t.Fatal("expected rename to succeed")
	}
	out := buildExec(t, s, proto.Argv{[]byte("LLEN"), []byte("m")})
	if string(out.Reply) != ":2\r\n" {
		t.Fatal(string(out.Reply))
	}

	if n := s.Delete("m"); n != 1 {
		t.Fatal(n)
	}
}
