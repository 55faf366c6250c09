// Package stress drives a signal with seeded random mutations performed from
// inside its own slots and checks every emission against a model of the
// connection list.
package stress

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/cespare/xxhash/v2"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/delaneyj/turnsignal/signal"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const maxViolations = 100

// errInjected is returned by slots picking the fail action.
var errInjected = errors.New("injected slot failure")

type action uint8

const (
	actIdle action = iota
	actConnect
	actDisconnect
	actSelf
	actMove
	actEmit
	actFail
	actClose
)

// Report summarizes a run. Runs with the same config produce the same Digest.
type Report struct {
	RunID       uuid.UUID
	Seed        int64
	Rounds      int
	Emits       int
	Invocations int
	Connects    int
	Disconnects int
	Moves       int
	Closes      int
	Failures    int
	MaxDepth    int
	Digest      uint64
	Violations  []string
	Elapsed     time.Duration
}

func (r *Report) OK() bool {
	return len(r.Violations) == 0
}

type Option func(*Runner)

// WithLogger traces every round at debug level.
func WithLogger(log logrus.FieldLogger) Option {
	return func(r *Runner) {
		r.log = log
	}
}

type Runner struct {
	cfg Config
	log logrus.FieldLogger
}

func NewRunner(cfg Config, opts ...Option) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	r := &Runner{cfg: cfg, log: discard}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run executes the configured rounds. It stops early when ctx is done. If any
// invariant was violated the report lists them and the error wraps
// ErrInvariant.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	h := newHarness(r.cfg)
	h.report.RunID = uuid.New()

	log := r.log.WithFields(logrus.Fields{
		"run":  h.report.RunID,
		"seed": r.cfg.Seed,
	})

	for round := 0; round < r.cfg.Rounds; round++ {
		if err := ctx.Err(); err != nil {
			h.finish(start)
			return &h.report, fmt.Errorf("stress run interrupted after %d rounds: %w", round, err)
		}

		h.refill()
		if err := h.emit(round); err != nil && !errors.Is(err, errInjected) {
			h.violate("round %d: unexpected emit error: %v", round, err)
		}
		if d := h.sig.Depth(); d != 0 {
			h.violate("round %d: %d cursors left after emit", round, d)
		}
		h.report.Rounds++

		log.WithFields(logrus.Fields{
			"round":       round,
			"live":        len(h.order),
			"invocations": h.report.Invocations,
		}).Debug("round done")
	}

	h.finish(start)
	if !h.report.OK() {
		return &h.report, fmt.Errorf("%w: %d violations", ErrInvariant, len(h.report.Violations))
	}
	return &h.report, nil
}

// frame mirrors one Emit in flight.
type frame struct {
	seq     int
	start   []int
	index   map[int]int
	visited mapset.Set[int]
	dropped mapset.Set[int]
	last    int
	// ended is set when the emission stopped before reaching the end.
	ended bool
	// closed is set when the signal was closed under this emission.
	closed bool
}

type harness struct {
	cfg    Config
	rnd    *rand.Rand
	sig    signal.Signal[int]
	digest *xxhash.Digest
	report Report

	handles  []*signal.Connection[int]
	owner    map[*signal.Connection[int]]int
	handleOf map[int]*signal.Connection[int]
	// order holds live registration ids in list order.
	order []int

	frames    []*frame
	nextReg   int
	nextFrame int
}

func newHarness(cfg Config) *harness {
	return &harness{
		cfg:      cfg,
		rnd:      rand.New(rand.NewSource(cfg.Seed)),
		digest:   xxhash.New(),
		report:   Report{Seed: cfg.Seed},
		owner:    map[*signal.Connection[int]]int{},
		handleOf: map[int]*signal.Connection[int]{},
	}
}

func (h *harness) finish(start time.Time) {
	h.sig.Close()
	h.dropAll()
	h.report.Digest = h.digest.Sum64()
	h.report.Elapsed = time.Since(start)
}

func (h *harness) violate(format string, args ...any) {
	if len(h.report.Violations) < maxViolations {
		h.report.Violations = append(h.report.Violations, fmt.Sprintf(format, args...))
	}
}

func (h *harness) refill() {
	for len(h.order) < h.cfg.Slots {
		h.connect()
	}
}

func (h *harness) maxHandles() int {
	return 4*h.cfg.Slots + 4
}

func (h *harness) randomHandle() *signal.Connection[int] {
	if len(h.handles) == 0 {
		return nil
	}
	return h.handles[h.rnd.Intn(len(h.handles))]
}

func (h *harness) pick() action {
	w := h.cfg.Weights
	n := h.rnd.Intn(w.total())
	for i, weight := range []int{w.Idle, w.Connect, w.Disconnect, w.Self, w.Move, w.Emit, w.Fail, w.Close} {
		if n < weight {
			return action(i)
		}
		n -= weight
	}
	return actIdle
}

// connect registers a new slot, into a fresh handle or by reusing one.
func (h *harness) connect() {
	id := h.nextReg
	h.nextReg++
	slot := func(v int) error {
		return h.invoke(id, v)
	}

	var c *signal.Connection[int]
	if len(h.handles) < h.maxHandles() {
		c = h.sig.Connect(slot)
		h.handles = append(h.handles, c)
	} else {
		c = h.randomHandle()
		h.drop(c)
		h.sig.ConnectInto(c, slot)
	}

	h.order = append([]int{id}, h.order...)
	h.owner[c] = id
	h.handleOf[id] = c
	h.report.Connects++
}

func (h *harness) disconnect(c *signal.Connection[int]) {
	if c == nil {
		return
	}
	c.Disconnect()
	h.drop(c)
	h.report.Disconnects++
}

func (h *harness) move() {
	dst, src := h.randomHandle(), h.randomHandle()
	if dst == nil || dst == src {
		return
	}
	dst.Take(src)
	h.drop(dst)
	if id, ok := h.owner[src]; ok {
		delete(h.owner, src)
		h.owner[dst] = id
		h.handleOf[id] = dst
	}
	h.report.Moves++
}

func (h *harness) close() {
	h.sig.Close()
	for _, f := range h.frames {
		f.closed = true
		f.ended = true
	}
	h.dropAll()
	h.report.Closes++
}

// drop forgets the registration owned by c in the model.
func (h *harness) drop(c *signal.Connection[int]) {
	id, ok := h.owner[c]
	if !ok {
		return
	}
	delete(h.owner, c)
	delete(h.handleOf, id)
	for i, v := range h.order {
		if v == id {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
	for _, f := range h.frames {
		f.dropped.Add(id)
	}
}

func (h *harness) dropAll() {
	live := append([]int(nil), h.order...)
	for _, id := range live {
		h.drop(h.handleOf[id])
	}
}

func (h *harness) emit(v int) error {
	f := &frame{
		seq:     h.nextFrame,
		start:   append([]int(nil), h.order...),
		index:   make(map[int]int, len(h.order)),
		visited: mapset.NewThreadUnsafeSet[int](),
		dropped: mapset.NewThreadUnsafeSet[int](),
		last:    -1,
	}
	for i, id := range f.start {
		f.index[id] = i
	}
	h.nextFrame++
	h.frames = append(h.frames, f)
	h.report.Emits++
	if len(h.frames) > h.report.MaxDepth {
		h.report.MaxDepth = len(h.frames)
	}

	err := h.sig.Emit(v)

	h.frames = h.frames[:len(h.frames)-1]
	if err != nil {
		f.ended = true
	}
	if !f.ended {
		for _, id := range f.start {
			if !f.visited.Contains(id) && !f.dropped.Contains(id) {
				h.violate("frame %d: registration %d skipped", f.seq, id)
			}
		}
	}
	if got, want := h.sig.Depth(), h.openFrames(); got != want {
		h.violate("frame %d: %d cursors after emit, want %d", f.seq, got, want)
	}
	return err
}

func (h *harness) openFrames() int {
	n := 0
	for _, f := range h.frames {
		if !f.closed {
			n++
		}
	}
	return n
}

func (h *harness) invoke(id, v int) error {
	h.report.Invocations++
	if len(h.frames) == 0 {
		h.violate("registration %d invoked outside of an emission", id)
		return nil
	}
	f := h.frames[len(h.frames)-1]
	h.check(f, id)
	fmt.Fprintf(h.digest, "%d:%d;", f.seq, id)

	switch h.pick() {
	case actConnect:
		h.connect()
	case actDisconnect:
		h.disconnect(h.randomHandle())
	case actSelf:
		h.disconnect(h.handleOf[id])
	case actMove:
		h.move()
	case actEmit:
		if len(h.frames) >= h.cfg.MaxDepth {
			return nil
		}
		err := h.emit(v + 1)
		if err != nil && !errors.Is(err, errInjected) {
			h.violate("frame %d: unexpected nested emit error: %v", f.seq, err)
		}
		if err != nil && h.rnd.Intn(2) == 0 {
			return err
		}
	case actFail:
		h.report.Failures++
		return errInjected
	case actClose:
		h.close()
	}
	return nil
}

func (h *harness) check(f *frame, id int) {
	if f.closed {
		h.violate("frame %d: registration %d invoked after close", f.seq, id)
	}
	if f.visited.Contains(id) {
		h.violate("frame %d: registration %d invoked twice", f.seq, id)
	}
	pos, ok := f.index[id]
	if !ok {
		h.violate("frame %d: registration %d was not connected when the emission started", f.seq, id)
	}
	if _, live := h.handleOf[id]; !live {
		h.violate("frame %d: registration %d invoked after disconnect", f.seq, id)
	}
	if ok && pos <= f.last {
		h.violate("frame %d: registration %d invoked out of order", f.seq, id)
	}
	if ok {
		f.last = pos
	}
	f.visited.Add(id)

	if got, want := h.sig.Depth(), h.openFrames(); got != want {
		h.violate("frame %d: %d cursors in flight, want %d", f.seq, got, want)
	}
}
