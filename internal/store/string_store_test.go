package store

import (
	"testing"

	"github.com/respkv/respkv/internal/proto"
)

func buildExec(t *testing.T, s Store, argv proto.Argv) CommandOutcome {
	t.Helper()
	req, err := s.Build(argv)
	if err != nil {
		t.Fatal(err)
	}
	out, err := s.Execute(req)
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func TestStringStoreSetGet(t *testing.T) {
	s := NewStringStore()

	out := buildExec(t, s, proto.Argv{[]byte("SET"), []byte("a"), []byte("hello")})
	if out.Impact != Add {
		t.Fatal(out.Impact)
	}
	if string(out.Reply) != "+OK\r\n" {
		t.Fatal(string(out.Reply))
	}

	out = buildExec(t, s, proto.Argv{[]byte("GET"), []byte("a")})
	if string(out.Reply) != "+hello\r\n" {
		t.Fatal(string(out.Reply))
	}
	if out.Impact != None {
		t.Fatal(out.Impact)
	}
}

func TestStringStoreGetMissingKey(t *testing.T) {
	s := NewStringStore()
	out := buildExec(t, s, proto.Argv{[]byte("GET"), []byte("missing")})
	if string(out.Reply) != "+(nil)\r\n" {
		t.Fatal(string(out.Reply))
	}
}

func TestStringStoreIncrFromMissing(t *testing.T) {
	s := NewStringStore()
	out := buildExec(t, s, proto.Argv{[]byte("INCR"), []byte("counter")})
	if string(out.Reply) != "+1\r\n" {
		t.Fatal(string(out.Reply))
	}
	if out.Impact != Add {
		t.Fatal(out.Impact)
	}

	out = buildExec(t, s, proto.Argv{[]byte("INCR"), []byte("counter")})
	if string(out.Reply) != "+2\r\n" {
		t.Fatal(string(out.Reply))
	}
	if out.Impact != None {
		t.Fatal(out.Impact)
	}
}

func TestStringStoreIncrByDecrBy(t *testing.T) {
	s := NewStringStore()
	buildExec(t, s, proto.Argv{[]byte("SET"), []byte("n"), []byte("10")})

	out := buildExec(t, s, proto.Argv{[]byte("INCRBY"), []byte("n"), []byte("5")})
	if string(out.Reply) != "+15\r\n" {
		t.Fatal(string(out.Reply))
	}

	out = buildExec(t, s, proto.Argv{[]byte("DECRBY"), []byte("n"), []byte("20")})
	if string(out.Reply) != "+-5\r\n" {
		t.Fatal(string(out.Reply))
	}
}

func TestStringStoreIncrNonInteger(t *testing.T) {
	s := NewStringStore()
	buildExec(t, s, proto.Argv{[]byte("SET"), []byte("a"), []byte("not-a-number")})

	req, err := s.Build(proto.Argv{[]byte("INCR"), []byte("a")})
	if err != nil {
		t.Fatal(err)
	}
	_, err = s.Execute(req)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestStringStoreIncrOverflow(t *testing.T) {
	s := NewStringStore()
	buildExec(t, s, proto.Argv{[]byte("SET"), []byte("n"), []byte("9223372036854775807")})

	req, err := s.Build(proto.Argv{[]byte("INCR"), []byte("n")})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Execute(req); err == nil {
		t.Fatal("expected overflow error")
	}
}

func TestStringStoreBuildArity(t *testing.T) {
	s := NewStringStore()
	if _, err := s.Build(proto.Argv{[]byte("SET"), []byte("a")}); err == nil {
		t.Fatal("expected arity error")
	}
}

func TestStringStoreDeleteAndRename(t *testing.T) {
	s := NewStringStore()
	buildExec(t, s, proto.Argv{[]byte("SET"), []byte("a"), []byte("v")})

	if !s.Rename("a", "b") {
		t.Fatal("expected rename to succeed")
	}
	out := buildExec(t, s, proto.Argv{[]byte("GET"), []byte("b")})
	if string(out.Reply) != "+v\r\n" {
		t.Fatal(string(out.Reply))
	}

	if n := s.Delete("b"); n != 1 {
		t.Fatal(n)
	}
	if n := s.Delete("b"); n != 0 {
		t.Fatal(n)
	}
	if s.Rename("gone", "other") {
		t.Fatal("expected rename of missing key to fail")
	}
}
