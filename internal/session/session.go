package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgallion1/astview/internal/asttree"
	"github.com/dgallion1/astview/internal/compiler"
	"github.com/dgallion1/astview/internal/dom"
	"github.com/dgallion1/astview/internal/editor"
	"github.com/dgallion1/astview/internal/parser"
	"github.com/dgallion1/astview/internal/render"
	"github.com/dgallion1/astview/internal/samples"
	"github.com/dgallion1/astview/internal/selection"
)

var (
	ErrClosed   = errors.New("session closed")
	ErrNotFound = errors.New("session not found")
	ErrLimit    = errors.New("session limit reached")
)

// Snapshot is a JSON-safe copy of what the playground shows.
type Snapshot struct {
	ID           string           `json:"session_id"`
	View         string           `json:"view"`
	Source       string           `json:"source"`
	TreeHTML     string           `json:"tree_html"`
	Nodes        int              `json:"nodes"`
	Result       string           `json:"result"`
	Selection    editor.Selection `json:"selection"`
	SelectedText string           `json:"selected_text"`
	Interactive  bool             `json:"interactive"`
}

// EventResult describes the state after a UI event was dispatched.
type EventResult struct {
	Handled      int              `json:"handled"`
	Selection    editor.Selection `json:"selection"`
	SelectedText string           `json:"selected_text"`
	Highlighted  []string         `json:"highlighted"`
}

// Session is one playground: an editor buffer, the page document and the
// controller linking them. All of its state is owned by a single goroutine;
// every public method hands a closure to that goroutine and waits for it,
// so commands run one at a time, each to completion.
type Session struct {
	ID string

	log      *slog.Logger
	compiler compiler.Compiler

	buf  *editor.Buffer
	doc  *dom.Document
	ctrl *selection.Controller
	tree *asttree.Node

	cmds      chan func()
	quit      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once

	lastActive atomic.Int64
}

// New starts a session. Close must be called to stop its goroutine.
func New(id string, c compiler.Compiler, unit editor.Unit, log *slog.Logger) *Session {
	s := &Session{
		ID:       id,
		log:      log.With("session_id", id),
		compiler: c,
		buf:      editor.NewBuffer(unit),
		doc:      dom.NewDocument(),
		cmds:     make(chan func()),
		quit:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	s.ctrl = selection.NewController(s.doc, s.buf, s.log)
	s.touch()
	go s.loop()
	return s
}

func (s *Session) loop() {
	defer close(s.stopped)
	for {
		select {
		case <-s.quit:
			s.ctrl.UnbindInteractions()
			return
		case fn := <-s.cmds:
			fn()
		}
	}
}

// exec runs fn on the session goroutine and waits for it to finish.
func (s *Session) exec(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	cmd := func() {
		defer close(done)
		fn()
	}
	select {
	case s.cmds <- cmd:
	case <-s.quit:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	s.touch()
	<-done
	return nil
}

func (s *Session) touch() {
	s.lastActive.Store(time.Now().UnixNano())
}

// LastActive returns the time of the last command.
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

// Parse sends source to the compiler and shows the resulting tree. A
// compiler error report is shown in the text view instead.
func (s *Session) Parse(ctx context.Context, source string) (Snapshot, error) {
	var snap Snapshot
	var opErr error
	err := s.exec(ctx, func() {
		out, err := s.compiler.Parse(ctx, source)
		if err != nil {
			opErr = err
			return
		}

		s.ctrl.UnbindInteractions()
		s.buf.SetText(source)
		s.tree = parser.ParseDump(out)
		if err := s.doc.MountTree(render.Render(s.tree)); err != nil {
			opErr = fmt.Errorf("mount tree: %w", err)
			return
		}
		s.doc.SetResultText(out)
		if s.tree == nil {
			s.log.Info("compiler returned no tree", "source_len", len(source))
			s.doc.SetViewMode(dom.ViewText)
		} else {
			bound := s.ctrl.BindInteractions()
			s.log.Debug("tree mounted", "nodes", asttree.Count(s.tree), "labels", bound)
			s.doc.SetViewMode(dom.ViewTree)
		}
		snap = s.snapshot()
	})
	if err != nil {
		return Snapshot{}, err
	}
	return snap, opErr
}

// Tokenize shows the compiler's token listing as plain text.
func (s *Session) Tokenize(ctx context.Context, source string) (Snapshot, error) {
	return s.showText(ctx, compiler.OpTokenize, source)
}

// Interpret shows the program's output as plain text.
func (s *Session) Interpret(ctx context.Context, source string) (Snapshot, error) {
	return s.showText(ctx, compiler.OpInterpret, source)
}

func (s *Session) showText(ctx context.Context, op compiler.Op, source string) (Snapshot, error) {
	var snap Snapshot
	var opErr error
	err := s.exec(ctx, func() {
		out, err := compiler.Run(ctx, s.compiler, op, source)
		if err != nil {
			opErr = err
			return
		}
		s.dropTree()
		s.buf.SetText(source)
		s.doc.SetResultText(out)
		s.doc.SetViewMode(dom.ViewText)
		snap = s.snapshot()
	})
	if err != nil {
		return Snapshot{}, err
	}
	return snap, opErr
}

// LoadSample replaces the editor text with a built-in sample. The tree of
// the previous text no longer matches and is dropped.
func (s *Session) LoadSample(ctx context.Context, name string) (Snapshot, error) {
	sample, err := samples.Get(name)
	if err != nil {
		return Snapshot{}, err
	}
	var snap Snapshot
	err = s.exec(ctx, func() {
		s.dropTree()
		s.buf.SetText(sample.Source)
		snap = s.snapshot()
	})
	return snap, err
}

// Event dispatches a UI event on the element with the given handle.
func (s *Session) Event(ctx context.Context, kind dom.EventKind, target string) (EventResult, error) {
	var res EventResult
	var opErr error
	err := s.exec(ctx, func() {
		n, err := s.doc.DispatchTo(target, kind)
		if err != nil {
			opErr = err
			return
		}
		res = EventResult{
			Handled:      n,
			Selection:    s.buf.Selection(),
			SelectedText: s.buf.SelectedText(),
			Highlighted:  s.highlighted(),
		}
	})
	if err != nil {
		return EventResult{}, err
	}
	return res, opErr
}

// Snapshot returns the current state.
func (s *Session) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := s.exec(ctx, func() {
		snap = s.snapshot()
	})
	return snap, err
}

// Close unbinds the tree and stops the session goroutine.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.quit)
	})
	<-s.stopped
}

func (s *Session) dropTree() {
	s.ctrl.UnbindInteractions()
	s.doc.ClearTree()
	s.tree = nil
}

func (s *Session) highlighted() []string {
	ids := []string{}
	for _, n := range dom.QueryAllByClass(s.doc.TreePane(), render.ClassHighlight) {
		if id, ok := dom.Attr(n, dom.AttrID); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func (s *Session) snapshot() Snapshot {
	return Snapshot{
		ID:           s.ID,
		View:         s.doc.ViewMode().String(),
		Source:       s.buf.Text(),
		TreeHTML:     s.doc.TreeHTML(),
		Nodes:        asttree.Count(s.tree),
		Result:       s.doc.ResultText(),
		Selection:    s.buf.Selection(),
		SelectedText: s.buf.SelectedText(),
		Interactive:  s.ctrl.Bound(),
	}
}
