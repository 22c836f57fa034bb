package store

import "github.com/respkv/respkv/internal/proto"

func replyOK() []byte                   { return proto.EncodeOK() }
func replyNilSimpleString() []byte      { return proto.EncodeNil() }
func replySimpleString(b []byte) []byte { return proto.EncodeSimpleString(b) }
func replyInt(n int64) []byte           { return proto.EncodeInt(n) }
func replyNull() []byte                 { return proto.EncodeNull() }
