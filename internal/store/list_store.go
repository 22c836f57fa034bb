package store

import (
	"strconv"
	"strings"
	"sync"

	"github.com/respkv/respkv/internal/proto"
)

var listVerbs = map[string]func(*ListStore, CommandRequest) (CommandOutcome, error){
	"LLEN":   (*ListStore).execLLen,
	"LINDEX": (*ListStore).execLIndex,
	"RPUSH":  (*ListStore).execRPush,
	"LPUSH":  (*ListStore).execLPush,
	"RPOP":   (*ListStore).execRPop,
	"LPOP":   (*ListStore).execLPop,
}

// ListStore maintains key -> ordered deque of byte-strings. Lists are
// represented as plain slices: RPUSH/LPUSH/RPOP/LPOP on a single element at
// a time keep the slice operations cheap and the code legible, matching the
// source's scope (multi-value push and LRANGE/LSET/LREM are future work,
// see SPEC_FULL.md).
type ListStore struct {
	mu   sync.RWMutex
	data map[string][][]byte
}

// NewListStore constructs an empty ListStore.
func NewListStore() *ListStore {
	return &ListStore{data: make(map[string][][]byte)}
}

func (s *ListStore) Supports(verb string) bool {
	_, ok := listVerbs[strings.ToUpper(verb)]
	return ok
}

func (s *ListStore) Build(argv proto.Argv) (CommandRequest, error) {
	action := strings.ToUpper(string(argv.Verb()))

	switch action {
	case "LLEN", "RPOP", "LPOP":
		if len(argv) != 2 {
			return CommandRequest{}, badArity(action, 2, len(argv))
		}
		lock := Read
		if action != "LLEN" {
			lock = Write
		}
		return CommandRequest{Action: action, Target: string(argv[1]), KeyType: List, LockHint: lock}, nil

	case "LINDEX":
		if len(argv) != 3 {
			return CommandRequest{}, badArity(action, 3, len(argv))
		}
		return CommandRequest{Action: action, Target: string(argv[1]), Params: [][]byte{argv[2]}, KeyType: List, LockHint: Read}, nil

	case "RPUSH", "LPUSH":
		if len(argv) != 3 {
			return CommandRequest{}, badArity(action, 3, len(argv))
		}
		return CommandRequest{Action: action, Target: string(argv[1]), Params: [][]byte{argv[2]}, KeyType: List, LockHint: Write}, nil

	default:
		return CommandRequest{}, &proto.ParseError{Kind: proto.UnknownCommand, Message: "Unknown Command"}
	}
}

func (s *ListStore) Execute(req CommandRequest) (CommandOutcome, error) {
	fn, ok := listVerbs[req.Action]
	if !ok {
		return CommandOutcome{}, proto.NewExecError("Unknown Command")
	}
	return fn(s, req)
}

func (s *ListStore) execLLen(req CommandRequest) (CommandOutcome, error) {
	s.mu.RLock()
	n := len(s.data[req.Target])
	s.mu.RUnlock()
	return CommandOutcome{KeyName: req.Target, KeyType: List, Impact: None, Reply: replyInt(int64(n))}, nil
}

func (s *ListStore) execLIndex(req CommandRequest) (CommandOutcome, error) {
	idx, err := strconv.Atoi(string(req.Params[0]))
	if err != nil || idx < 0 {
		return CommandOutcome{}, proto.NewExecError("Index is not an integer or out of range")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.data[req.Target]
	if idx >= len(list) {
		return CommandOutcome{KeyName: req.Target, KeyType: List, Impact: None, Reply: replyNull()}, nil
	}
	return CommandOutcome{KeyName: req.Target, KeyType: List, Impact: None, Reply: replySimpleString(list[idx])}, nil
}

func (s *ListStore) execRPush(req CommandRequest) (CommandOutcome, error) {
	val := append([]byte(nil), req.Params[0]...)

	s.mu.Lock()
	_, existed := s.data[req.Target]
	s.data[req.Target] = append(s.data[req.Target], val)
	n := len(s.data[req.Target])
	s.mu.Unlock()

	impact := None
	if !existed {
		impact = Add
	}
	return CommandOutcome{KeyName: req.Target, KeyType: List, Impact: impact, Reply: replyInt(int64(n))}, nil
}

func (s *ListStore) execLPush(req CommandRequest) (CommandOutcome, error) {
	val := append([]byte(nil), req.Params[0]...)

	s.mu.Lock()
	_, existed := s.data[req.Target]
	s.data[req.Target] = append([][]byte{val}, s.data[req.Target]...)
	n := len(s.data[req.Target])
	s.mu.Unlock()

	impact := None
	if !existed {
		impact = Add
	}
	return CommandOutcome{KeyName: req.Target, KeyType: List, Impact: impact, Reply: replyInt(int64(n))}, nil
}

func (s *ListStore) execRPop(req CommandRequest) (CommandOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.data[req.Target]
	if len(list) == 0 {
		return CommandOutcome{KeyName: req.Target, KeyType: List, Impact: None, Reply: replyNull()}, nil
	}

	v := list[len(list)-1]
	list = list[:len(list)-1]

	impact := None
	if len(list) == 0 {
		delete(s.data, req.Target)
		impact = Delete
	} else {
		s.data[req.Target] = list
	}
	return CommandOutcome{KeyName: req.Target, KeyType: List, Impact: impact, Reply: replySimpleString(v)}, nil
}

func (s *ListStore) execLPop(req CommandRequest) (CommandOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.data[req.Target]
	if len(list) == 0 {
		return CommandOutcome{KeyName: req.Target, KeyType: List, Impact: None, Reply: replyNull()}, nil
	}

	v := list[0]
	list = list[1:]

	impact := None
	if len(list) == 0 {
		delete(s.data, req.Target)
		impact = Delete
	} else {
		s.data[req.Target] = list
	}
	return CommandOutcome{KeyName: req.Target, KeyType: List, Impact: impact, Reply: replySimpleString(v)}, nil
}

func (s *ListStore) Delete(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; !ok {
		return 0
	}
	delete(s.data, key)
	return 1
}

func (s *ListStore) Rename(oldKey, newKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[oldKey]
	if !ok {
		return false
	}
	s.data[newKey] = v
	delete(s.data, oldKey)
	return true
}
