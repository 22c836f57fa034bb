// Package kvindex implements the key index: the authoritative key -> type
// map, the command dispatcher that routes a parsed argv to the store that
// owns it, and the polymorphic administrative commands (EXISTS/DEL/RENAME)
// that act on a key regardless of its current type.
package kvindex

import (
	"strings"
	"sync"

	"github.com/respkv/respkv/internal/proto"
	"github.com/respkv/respkv/internal/store"
	"go.uber.org/zap"
)

// Index owns the key -> type map and serialises every command (typed or
// administrative) through a single mutex, so a command's store mutation and
// its index bookkeeping are jointly atomic. See SPEC_FULL.md §4.5.
type Index struct {
	log *zap.Logger

	mu      sync.Mutex
	typeMap map[string]store.ValueType

	strings *store.StringStore
	lists   *store.ListStore
}

// New constructs an Index wired to a fresh StringStore and ListStore.
func New(log *zap.Logger) *Index {
	if log == nil {
		log = zap.NewNop()
	}
	return &Index{
		log:     log.Named("kvindex"),
		typeMap: make(map[string]store.ValueType),
		strings: store.NewStringStore(),
		lists:   store.NewListStore(),
	}
}

// Stats is a point-in-time snapshot of key counts per type, used by the
// debug/stats HTTP surface. Taking one only reads the type map; it never
// mutates server state.
type Stats struct {
	StringKeys int
	ListKeys   int
}

// TotalKeys returns the total number of live keys across all types.
func (s Stats) TotalKeys() int {
	return s.StringKeys + s.ListKeys
}

// Snapshot returns the current key counts per type under the index's lock.
func (idx *Index) Snapshot() Stats {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	var s Stats
	for _, t := range idx.typeMap {
		switch t {
		case store.String:
			s.StringKeys++
		case store.List:
			s.ListKeys++
		}
	}
	return s
}

// ExecuteBytes frames raw and dispatches it, returning the reply bytes. It
// never returns an error: parse and execution failures are themselves
// encoded as "-ERR ..." replies, matching the "one byte slice in, one byte
// slice out" contract the core is built around.
func (idx *Index) ExecuteBytes(raw []byte) []byte {
	argv, err := proto.Frame(raw)
	if err != nil {
		return proto.EncodeError(err.Error())
	}
	return idx.ExecuteArgv(argv)
}

// ExecuteArgv dispatches an already-framed argv and returns the reply
// bytes.
func (idx *Index) ExecuteArgv(argv proto.Argv) []byte {
	req, err := idx.build(argv)
	if err != nil {
		return proto.EncodeError(err.Error())
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	outcome, err := idx.executeLocked(req)
	if err != nil {
		return proto.EncodeError(err.Error())
	}
	return outcome.Reply
}

// build identifies which collaborator owns argv[0] and builds a validated
// CommandRequest for it, without touching any store state.
func (idx *Index) build(argv proto.Argv) (store.CommandRequest, error) {
	if len(argv) == 0 {
		return store.CommandRequest{}, &proto.ParseError{Kind: proto.EmptyRequest, Message: "Request is empty"}
	}
	verb := string(argv.Verb())

	switch {
	case idx.strings.Supports(verb):
		return idx.strings.Build(argv)
	case idx.lists.Supports(verb):
		return idx.lists.Build(argv)
	case isIndexVerb(verb):
		return idx.buildIndexCommand(argv)
	default:
		return store.CommandRequest{}, proto.NewExecError("Unknown Command")
	}
}

func isIndexVerb(verb string) bool {
	switch strings.ToUpper(verb) {
	case "EXISTS", "DEL", "RENAME":
		return true
	default:
		return false
	}
}

func (idx *Index) buildIndexCommand(argv proto.Argv) (store.CommandRequest, error) {
	action := strings.ToUpper(string(argv.Verb()))
	switch action {
	case "EXISTS", "DEL":
		if len(argv) != 2 {
			return store.CommandRequest{}, &proto.ParseError{Kind: proto.BadArity, Message: action + " expects 1 argument(s)"}
		}
		lock := store.Read
		if action == "DEL" {
			lock = store.Write
		}
		return store.CommandRequest{Action: action, Target: string(argv[1]), KeyType: store.IndexType, LockHint: lock}, nil

	case "RENAME":
		if len(argv) != 3 {
			return store.CommandRequest{}, &proto.ParseError{Kind: proto.BadArity, Message: "RENAME expects 2 argument(s)"}
		}
		return store.CommandRequest{
			Action:   action,
			Target:   string(argv[1]),
			Params:   [][]byte{argv[2]},
			KeyType:  store.IndexType,
			LockHint: store.Write,
		}, nil

	default:
		return store.CommandRequest{}, proto.NewExecError("Unknown Command")
	}
}

// executeLocked performs command/type agreement checking, routes execution,
// and applies the resulting impact to typeMap. Callers must hold idx.mu.
func (idx *Index) executeLocked(req store.CommandRequest) (store.CommandOutcome, error) {
	existing := idx.typeMap[req.Target]

	if req.KeyType != store.IndexType && existing != store.Undefined && existing != req.KeyType {
		return store.CommandOutcome{}, proto.NewExecError("Key already exists with different type")
	}

	var (
		outcome store.CommandOutcome
		err     error
	)

	if req.KeyType == store.IndexType {
		outcome, err = idx.executeIndexCommand(req, existing)
	} else {
		outcome, err = idx.storeFor(req.KeyType).Execute(req)
	}
	if err != nil {
		return store.CommandOutcome{}, err
	}

	idx.applyImpact(outcome)
	return outcome, nil
}

func (idx *Index) storeFor(t store.ValueType) store.Store {
	switch t {
	case store.String:
		return idx.strings
	case store.List:
		return idx.lists
	default:
		return nil
	}
}

func (idx *Index) applyImpact(outcome store.CommandOutcome) {
	switch outcome.Impact {
	case store.None:
		// no change
	case store.Add:
		idx.typeMap[outcome.KeyName] = outcome.KeyType
	case store.Delete:
		delete(idx.typeMap, outcome.KeyName)
	case store.Rename:
		idx.typeMap[outcome.KeyName] = outcome.KeyType
		delete(idx.typeMap, outcome.RenameFrom)
	}
}

// executeIndexCommand implements EXISTS/DEL/RENAME. Callers must hold idx.mu.
func (idx *Index) executeIndexCommand(req store.CommandRequest, existing store.ValueType) (store.CommandOutcome, error) {
	switch req.Action {
	case "EXISTS":
		n := int64(0)
		if existing != store.Undefined {
			n = 1
		}
		return store.CommandOutcome{Impact: store.None, Reply: proto.EncodeInt(n)}, nil

	case "DEL":
		return idx.delLocked(req.Target, existing), nil

	case "RENAME":
		return idx.renameLocked(req.Target, string(req.Params[0]), existing)

	default:
		return store.CommandOutcome{}, proto.NewExecError("Unknown Command")
	}
}

// delLocked removes target from whichever store owns it (if any) and
// reports the outcome. Callers must hold idx.mu; this is also the entry
// point RENAME uses to evict its destination key without re-entering the
// index's public dispatch (and its lock).
func (idx *Index) delLocked(target string, existing store.ValueType) store.CommandOutcome {
	if existing == store.Undefined {
		return store.CommandOutcome{Impact: store.None, Reply: proto.EncodeInt(0)}
	}

	n := idx.storeFor(existing).Delete(target)
	impact := store.None
	if n > 0 {
		impact = store.Delete
	}
	return store.CommandOutcome{KeyName: target, KeyType: existing, Impact: impact, Reply: proto.EncodeInt(int64(n))}
}

func (idx *Index) renameLocked(src, dst string, existing store.ValueType) (store.CommandOutcome, error) {
	if existing == store.Undefined {
		return store.CommandOutcome{}, proto.NewExecError("-no such key")
	}

	// Evict any entry at dst regardless of its type, recursively using the
	// same locked DEL path RENAME's own dispatch goes through.
	dstExisting := idx.typeMap[dst]
	if evicted := idx.delLocked(dst, dstExisting); evicted.Impact == store.Delete {
		idx.applyImpact(evicted)
	}

	if !idx.storeFor(existing).Rename(src, dst) {
		return store.CommandOutcome{}, proto.NewExecError("-no such key")
	}

	return store.CommandOutcome{KeyName: dst, KeyType: existing, Impact: store.Rename, RenameFrom: src, Reply: proto.EncodeOK()}, nil
}
