package store

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/respkv/respkv/internal/proto"
)

var stringVerbs = map[string]func(*StringStore, CommandRequest) (CommandOutcome, error){
	"GET":    (*StringStore).execGet,
	"SET":    (*StringStore).execSet,
	"INCR":   (*StringStore).execIncr,
	"INCRBY": (*StringStore).execIncrBy,
	"DECR":   (*StringStore).execDecr,
	"DECRBY": (*StringStore).execDecrBy,
}

// StringStore maintains key -> byte-string values, including the decimal
// representation INCR/DECR and friends mutate in place.
//
// Concurrency model: a single RWMutex is enough since a command's only
// work is the in-memory mutation itself (no external I/O to keep out of
// the critical section) — reads take RLock, writes take Lock.
type StringStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewStringStore constructs an empty StringStore.
func NewStringStore() *StringStore {
	return &StringStore{data: make(map[string][]byte)}
}

func (s *StringStore) Supports(verb string) bool {
	_, ok := stringVerbs[strings.ToUpper(verb)]
	return ok
}

func (s *StringStore) Build(argv proto.Argv) (CommandRequest, error) {
	action := strings.ToUpper(string(argv.Verb()))

	switch action {
	case "GET", "INCR", "DECR":
		if len(argv) != 2 {
			return CommandRequest{}, badArity(action, 2, len(argv))
		}
		lock := Read
		if action != "GET" {
			lock = Write
		}
		return CommandRequest{Action: action, Target: string(argv[1]), KeyType: String, LockHint: lock}, nil

	case "SET":
		if len(argv) != 3 {
			return CommandRequest{}, badArity(action, 3, len(argv))
		}
		return CommandRequest{Action: action, Target: string(argv[1]), Params: [][]byte{argv[2]}, KeyType: String, LockHint: Write}, nil

	case "INCRBY", "DECRBY":
		if len(argv) != 3 {
			return CommandRequest{}, badArity(action, 3, len(argv))
		}
		return CommandRequest{Action: action, Target: string(argv[1]), Params: [][]byte{argv[2]}, KeyType: String, LockHint: Write}, nil

	default:
		return CommandRequest{}, &proto.ParseError{Kind: proto.UnknownCommand, Message: "Unknown Command"}
	}
}

func (s *StringStore) Execute(req CommandRequest) (CommandOutcome, error) {
	fn, ok := stringVerbs[req.Action]
	if !ok {
		return CommandOutcome{}, proto.NewExecError("Unknown Command")
	}
	return fn(s, req)
}

func (s *StringStore) execGet(req CommandRequest) (CommandOutcome, error) {
	s.mu.RLock()
	v, ok := s.data[req.Target]
	s.mu.RUnlock()

	if !ok {
		return CommandOutcome{KeyName: req.Target, KeyType: String, Impact: None, Reply: replyNilSimpleString()}, nil
	}
	return CommandOutcome{KeyName: req.Target, KeyType: String, Impact: None, Reply: replySimpleString(v)}, nil
}

func (s *StringStore) execSet(req CommandRequest) (CommandOutcome, error) {
	val := req.Params[0]

	s.mu.Lock()
	_, existed := s.data[req.Target]
	s.data[req.Target] = append([]byte(nil), val...)
	s.mu.Unlock()

	impact := None
	if !existed {
		impact = Add
	}
	return CommandOutcome{KeyName: req.Target, KeyType: String, Impact: impact, Reply: replyOK()}, nil
}

func (s *StringStore) execIncr(req CommandRequest) (CommandOutcome, error) {
	return s.applyDelta(req, 1)
}

func (s *StringStore) execDecr(req CommandRequest) (CommandOutcome, error) {
	return s.applyDelta(req, -1)
}

func (s *StringStore) execIncrBy(req CommandRequest) (CommandOutcome, error) {
	delta, err := parseDelta(req.Params[0])
	if err != nil {
		return CommandOutcome{}, err
	}
	return s.applyDelta(req, delta)
}

func (s *StringStore) execDecrBy(req CommandRequest) (CommandOutcome, error) {
	delta, err := parseDelta(req.Params[0])
	if err != nil {
		return CommandOutcome{}, err
	}
	if delta == math.MinInt64 {
		return CommandOutcome{}, notAnInteger()
	}
	return s.applyDelta(req, -delta)
}

func (s *StringStore) applyDelta(req CommandRequest, delta int64) (CommandOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var current int64
	existed := false
	if raw, ok := s.data[req.Target]; ok {
		existed = true
		parsed, perr := strconv.ParseInt(string(raw), 10, 64)
		if perr != nil {
			return CommandOutcome{}, notAnInteger()
		}
		current = parsed
	}

	next, overflowed := addOverflows(current, delta)
	if overflowed {
		return CommandOutcome{}, notAnInteger()
	}

	s.data[req.Target] = []byte(strconv.FormatInt(next, 10))

	impact := None
	if !existed {
		impact = Add
	}
	return CommandOutcome{KeyName: req.Target, KeyType: String, Impact: impact, Reply: replySimpleString([]byte(strconv.FormatInt(next, 10)))}, nil
}

func (s *StringStore) Delete(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; !ok {
		return 0
	}
	delete(s.data, key)
	return 1
}

func (s *StringStore) Rename(oldKey, newKey string) bool {
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

func parseDelta(raw []byte) (int64, error) {
	n, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, notAnInteger()
	}
	return n, nil
}

func addOverflows(a, b int64) (int64, bool) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, true
	}
	return sum, false
}

func notAnInteger() error {
	return proto.NewExecError("value is not an integer or out of range")
}

func badArity(action string, want, got int) error {
	return &proto.ParseError{Kind: proto.BadArity, Message: fmt.Sprintf("%s expects %d argument(s), got %d", action, want-1, got-1)}
}
