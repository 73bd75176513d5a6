// Package engine evaluates .lathe model scripts. A script is zygomys Lisp
// run in a sandbox with solid-modeling builtins backed by a kernel.Kernel;
// the solid it declares is tessellated into the mesh the lathe cuts.
package engine

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/lathser/pkg/kernel"
	"github.com/chazu/lathser/pkg/logging"
	"github.com/chazu/lathser/pkg/mesh"
)

// ErrNoModel is returned when a script runs cleanly but declares no solid.
var ErrNoModel = errors.New("engine: script declares no model")

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Model is the solid a script declares with (model ...), or the solid its
// last expression evaluates to.
type Model struct {
	Solid kernel.Solid
	Name  string
}

// Engine wraps the zygomys interpreter. It is safe for concurrent use;
// each call to Evaluate creates a fresh sandboxed environment.
type Engine struct {
	kernel kernel.Kernel

	mu         sync.Mutex
	generation uint64
}

// NewEngine creates an Engine building solids with k.
func NewEngine(k kernel.Kernel) *Engine {
	return &Engine{kernel: k}
}

// Evaluate runs source and returns the model it declares.
//
// Return semantics:
//   - On success: returns model + nil errors + nil error
//   - On parse/eval failure: returns nil model + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
//
// Empty source is a valid script whose model has no solid.
func (e *Engine) Evaluate(source string) (*Model, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		m, evalErrs, err := e.evaluate(source)
		ch <- evalResult{model: m, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

// Mesh evaluates source and tessellates its model. Tessellation runs
// outside the evaluation timeout.
func (e *Engine) Mesh(source string) (*mesh.Mesh, []EvalError, error) {
	m, evalErrs, err := e.Evaluate(source)
	if err != nil || len(evalErrs) > 0 {
		return nil, evalErrs, err
	}
	if m.Solid == nil {
		return nil, nil, ErrNoModel
	}
	out, err := e.kernel.ToMesh(m.Solid)
	if err != nil {
		return nil, nil, fmt.Errorf("engine: tessellate: %w", err)
	}
	out.Name = m.Name
	return out, nil, nil
}

func (e *Engine) evaluate(source string) (*Model, []EvalError, error) {
	if strings.TrimSpace(source) == "" {
		return &Model{}, nil, nil
	}

	env := zygo.NewZlispSandbox()
	defer env.Stop()

	s := &script{kernel: e.kernel}
	registerBuiltins(env, s)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}

	last, err := env.Run()
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	m := &Model{Solid: s.model, Name: s.name}
	if m.Solid == nil {
		if sol, ok := last.(*sexpSolid); ok {
			m.Solid = sol.solid
		}
	}
	if m.Solid != nil {
		lo, hi := m.Solid.BoundingBox()
		logging.Logger().Debug("script evaluated", "name", m.Name, "min", lo, "max", hi)
	}
	return m, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// zygomys formats parse errors as "Error on line N: <details>\n".
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, p := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := p.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}

	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
