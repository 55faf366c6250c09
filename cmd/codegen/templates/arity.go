package templates

import (
	"strconv"

	"github.com/valyala/quicktemplate"
)

// ArityGen renders signal/arity_gen.go with Signal0 and Signal2 through
// Signal<maxArity>.
func ArityGen(maxArity int) string {
	bb := quicktemplate.AcquireByteBuffer()
	defer quicktemplate.ReleaseByteBuffer(bb)

	qw := quicktemplate.AcquireWriter(bb)
	defer quicktemplate.ReleaseWriter(qw)
	w := qw.N()

	w.S(`// Code generated by cmd/codegen. DO NOT EDIT.

package signal

// Signal0 is a Signal whose slots take no arguments.
type Signal0 struct {
	Signal[struct{}]
}

// Connect registers fn.
func (s *Signal0) Connect(fn func() error) *Connection[struct{}] {
	return s.Signal.Connect(func(struct{}) error {
		return fn()
	})
}

// Emit invokes every connected slot.
func (s *Signal0) Emit() error {
	return s.Signal.Emit(struct{}{})
}
`)

	for n := 2; n <= maxArity; n++ {
		writeArity(w, n)
	}

	return string(bb.B)
}

func writeArity(w *quicktemplate.QWriter, n int) {
	typeParams := prefixedStrings("T", n)
	args := "Args" + strconv.Itoa(n) + "[" + typeParams + "]"
	sig := "Signal" + strconv.Itoa(n) + "[" + typeParams + "]"

	w.S("\n// Args")
	w.D(n)
	w.S(" carries the arguments of a Signal")
	w.D(n)
	w.S(" emission.\ntype Args")
	w.D(n)
	w.S("[" + typeParams + " any] struct {\n")
	for i := 0; i < n; i++ {
		w.S("\tA")
		w.D(i)
		w.S(" T")
		w.D(i)
		w.S("\n")
	}
	w.S("}\n")

	w.S("\n// Signal")
	w.D(n)
	w.S(" is a Signal whose slots take ")
	w.D(n)
	w.S(" arguments.\ntype Signal")
	w.D(n)
	w.S("[" + typeParams + " any] struct {\n\tSignal[" + args + "]\n}\n")

	w.S("\n// Connect registers fn.\n")
	w.S("func (s *" + sig + ") Connect(fn func(" + typeParams + ") error) *Connection[" + args + "] {\n")
	w.S("\treturn s.Signal.Connect(func(a " + args + ") error {\n")
	w.S("\t\treturn fn(" + joined(n, func(i int) string { return "a.A" + strconv.Itoa(i) }) + ")\n")
	w.S("\t})\n}\n")

	w.S("\n// Emit invokes every connected slot with " + prefixedStrings("a", n) + ".\n")
	w.S("func (s *" + sig + ") Emit(" + joined(n, func(i int) string { return "a" + strconv.Itoa(i) + " T" + strconv.Itoa(i) }) + ") error {\n")
	w.S("\treturn s.Signal.Emit(" + args + "{" + joined(n, func(i int) string { return "A" + strconv.Itoa(i) + ": a" + strconv.Itoa(i) }) + "})\n")
	w.S("}\n")
}
