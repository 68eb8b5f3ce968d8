package wasmcov

import (
	"context"
	"slices"
	"sync"

	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/experimental"
)

// Recorder collects the index of every function entered at least once.
// It is installed with experimental.WithFunctionListenerFactory before the
// module is compiled. Indexes are in the module's function index space,
// imports included, and are kept in first-hit order.
type Recorder struct {
	seen map[uint32]struct{}
	hits []uint32
	mu   sync.Mutex
}

var _ experimental.FunctionListenerFactory = (*Recorder)(nil)

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{seen: make(map[uint32]struct{})}
}

// NewFunctionListener implements experimental.FunctionListenerFactory.
// Imported functions are not instrumented.
func (r *Recorder) NewFunctionListener(def api.FunctionDefinition) experimental.FunctionListener {
	if _, _, isImport := def.Import(); isImport {
		return nil
	}
	return &hitListener{rec: r, index: def.Index()}
}

func (r *Recorder) record(index uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.seen[index]; ok {
		return
	}
	r.seen[index] = struct{}{}
	r.hits = append(r.hits, index)
}

// Hits returns the recorded function indexes in first-hit order.
func (r *Recorder) Hits() []uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.hits)
}

// Reset forgets all recorded hits.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.seen)
	r.hits = nil
}

type hitListener struct {
	rec   *Recorder
	index uint32
}

func (l *hitListener) Before(_ context.Context, _ api.Module, _ api.FunctionDefinition, _ []uint64, _ experimental.StackIterator) {
	l.rec.record(l.index)
}

func (l *hitListener) After(context.Context, api.Module, api.FunctionDefinition, []uint64) {}

func (l *hitListener) Abort(context.Context, api.Module, api.FunctionDefinition, error) {}
