package notebook

import (
	"context"
	"errors"
	"fmt"

	"codeberg.org/snonux/nbtranslate/internal"
)

// PreviewLength is the number of characters shown per progress line
const PreviewLength = 10

// State is the lifecycle of a walk
type State int

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateAborted:
		return "aborted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Progress is reported after each translated cell
type Progress struct {
	Index   int // 1-based
	Total   int
	Kind    CellKind
	Preview string
}

func (p Progress) String() string {
	return fmt.Sprintf("%d / %d: %s", p.Index, p.Total, p.Preview)
}

// Walker applies a Dispatcher to every cell of a document in order
type Walker struct {
	dispatcher *Dispatcher
	onProgress func(Progress)
	state      State
}

// NewWalker creates a walker. onProgress may be nil.
func NewWalker(dispatcher *Dispatcher, onProgress func(Progress)) *Walker {
	return &Walker{
		dispatcher: dispatcher,
		onProgress: onProgress,
	}
}

// State returns where the walker is in its lifecycle
func (w *Walker) State() State {
	return w.state
}

// Run translates doc in place, one cell at a time. The first error aborts
// the walk: later cells are not visited and the caller must not write doc
// out. Cells that are neither markdown nor code are skipped without a
// progress report.
func (w *Walker) Run(ctx context.Context, doc *Document) error {
	if doc == nil {
		w.state = StateAborted
		return fmt.Errorf("%w: nil document", ErrSchema)
	}

	w.state = StateRunning
	total := doc.Len()

	for i, cell := range doc.Cells {
		if err := ctx.Err(); err != nil {
			w.state = StateAborted
			return fmt.Errorf("cell %d: %w", i, err)
		}

		res, err := w.dispatcher.Process(ctx, cell)
		if err != nil {
			w.state = StateAborted
			var ce *CellError
			if errors.As(err, &ce) {
				ce.Index = i
				return ce
			}
			return &CellError{Index: i, Err: err}
		}

		if res.Kind == KindOther {
			continue
		}

		cell.SetSource(res.Source)

		if w.onProgress != nil {
			w.onProgress(Progress{
				Index:   i + 1,
				Total:   total,
				Kind:    res.Kind,
				Preview: internal.Preview(res.Text, PreviewLength),
			})
		}
	}

	w.state = StateCompleted
	return nil
}
