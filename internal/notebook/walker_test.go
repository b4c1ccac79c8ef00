package notebook

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"testing"

	"codeberg.org/snonux/nbtranslate/internal/testutil"
)

func TestWalkerRun(t *testing.T) {
	data := testutil.NotebookJSON(
		testutil.MarkdownCell(`"hello"`),
		testutil.RawCell(`"untouched"`),
		testutil.CodeCell(`["def f():\n","    \"\"\"Greets.\"\"\"\n","    pass"]`),
	)

	doc, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	mock := &testutil.MockTranslator{Translations: map[string]string{
		"hello":   "bonjour",
		"Greets.": "Salue.\nDeuxième ligne",
	}}

	var progress []string
	walker := NewWalker(NewDispatcher(mock, nil), func(p Progress) {
		progress = append(progress, p.String())
	})

	if walker.State() != StateIdle {
		t.Errorf("Initial state = %v", walker.State())
	}

	if err := walker.Run(context.Background(), doc); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if walker.State() != StateCompleted {
		t.Errorf("Final state = %v, want completed", walker.State())
	}

	wantProgress := []string{
		"1 / 3: bonjour",
		"3 / 3: def f():  ",
	}
	if !reflect.DeepEqual(progress, wantProgress) {
		t.Errorf("Progress = %q, want %q", progress, wantProgress)
	}

	if src, _ := doc.Cells[0].Source(); string(src) != `"bonjour"` {
		t.Errorf("Markdown source = %s", src)
	}
	if src, _ := doc.Cells[1].Source(); string(src) != `"untouched"` {
		t.Errorf("Raw source = %s", src)
	}
	wantCode := `["def f():\n","    \"\"\"Salue.\n","Deuxième ligne\"\"\"\n","    pass"]`
	if src, _ := doc.Cells[2].Source(); string(src) != wantCode {
		t.Errorf("Code source = %s, want %s", src, wantCode)
	}
}

func TestWalkerRun_AbortsOnMalformedSource(t *testing.T) {
	data := testutil.NotebookJSON(
		testutil.MarkdownCell(`"one"`),
		testutil.MarkdownCell(`"two"`),
		testutil.MarkdownCell(`12`),
		testutil.MarkdownCell(`"four"`),
	)

	doc, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	mock := &testutil.MockTranslator{}
	var seen []int
	walker := NewWalker(NewDispatcher(mock, nil), func(p Progress) {
		seen = append(seen, p.Index)
	})

	err = walker.Run(context.Background(), doc)
	if !errors.Is(err, ErrMalformedSource) {
		t.Fatalf("Expected ErrMalformedSource, got %v", err)
	}

	var ce *CellError
	if !errors.As(err, &ce) || ce.Index != 2 || ce.Field != "source" {
		t.Errorf("Expected cell 2 source error, got %+v", err)
	}

	if walker.State() != StateAborted {
		t.Errorf("State = %v, want aborted", walker.State())
	}
	if !reflect.DeepEqual(mock.Calls, []string{"one", "two"}) {
		t.Errorf("Cells after the failure were processed: %q", mock.Calls)
	}
	if !reflect.DeepEqual(seen, []int{1, 2}) {
		t.Errorf("Progress = %v", seen)
	}
}

func TestWalkerRun_ProviderErrorAborts(t *testing.T) {
	doc, err := Parse(testutil.NotebookJSON(
		testutil.MarkdownCell(`"ok"`),
		testutil.MarkdownCell(`"fail"`),
		testutil.MarkdownCell(`"never"`),
	))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	mock := &testutil.MockTranslator{Errors: map[string]error{"fail": errors.New("401 unauthorized")}}
	walker := NewWalker(NewDispatcher(mock, nil), nil)

	err = walker.Run(context.Background(), doc)
	if !errors.Is(err, ErrProvider) {
		t.Fatalf("Expected ErrProvider, got %v", err)
	}

	var ce *CellError
	if !errors.As(err, &ce) || ce.Index != 1 {
		t.Errorf("Expected error at cell 1, got %v", err)
	}

	// The failing cell is not committed
	if src, _ := doc.Cells[1].Source(); string(src) != `"fail"` {
		t.Errorf("Failed cell was modified: %s", src)
	}
	if mock.CallCount() != 2 {
		t.Errorf("Expected 2 calls, got %d", mock.CallCount())
	}
}

func TestWalkerRun_SchemaErrorCarriesIndex(t *testing.T) {
	doc, err := Parse([]byte(`{"cells":[{"cell_type":"markdown","source":"a"},{"source":"b"}]}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	err = NewWalker(NewDispatcher(&testutil.MockTranslator{}, nil), nil).Run(context.Background(), doc)
	if !errors.Is(err, ErrSchema) {
		t.Fatalf("Expected ErrSchema, got %v", err)
	}
	if err.Error() != "cell 1: cell_type: notebook schema error: missing field" {
		t.Errorf("Unexpected message %q", err.Error())
	}
}

func TestWalkerRun_Cancelled(t *testing.T) {
	doc, err := Parse(testutil.NotebookJSON(testutil.MarkdownCell(`"a"`)))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	walker := NewWalker(NewDispatcher(&testutil.MockTranslator{}, nil), nil)
	if err := walker.Run(ctx, doc); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if walker.State() != StateAborted {
		t.Errorf("State = %v, want aborted", walker.State())
	}
}

func TestWalkerRun_EmptyDocument(t *testing.T) {
	doc, err := Parse([]byte(`{"cells":[]}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	walker := NewWalker(NewDispatcher(&testutil.MockTranslator{}, nil), nil)
	if err := walker.Run(context.Background(), doc); err != nil {
		t.Errorf("Run failed: %v", err)
	}
	if walker.State() != StateCompleted {
		t.Errorf("State = %v", walker.State())
	}
}

func TestProgressString(t *testing.T) {
	p := Progress{Index: 3, Total: 12, Preview: "Bonjour le"}
	if p.String() != "3 / 12: Bonjour le" {
		t.Errorf("String() = %q", p.String())
	}
}

func TestWalkerRun_IdentityKeepsSourceEncoding(t *testing.T) {
	identity := TranslatorFunc(func(ctx context.Context, text string) (string, error) {
		return text, nil
	})

	sources := []string{
		`[""]`,
		`["x = 1","y = 2\n"]`,
		`["x = 1\n","y = 2\n",""]`,
		`["a = 1\nb = 2"]`,
		`["def f():\n","    \"\"\"Doc.\"\"\"\n","    pass\n",""]`,
		`""`,
	}

	for _, src := range sources {
		for _, build := range []func(string) string{testutil.CodeCell, testutil.MarkdownCell} {
			doc, err := Parse(testutil.NotebookJSON(build(src)))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			metadata, _ := doc.Field("metadata")
			cellType, _ := doc.Cells[0].Field("cell_type")

			if err := NewWalker(NewDispatcher(identity, nil), nil).Run(t.Context(), doc); err != nil {
				t.Fatalf("%s %s: Run failed: %v", cellType, src, err)
			}

			if got, _ := doc.Cells[0].Source(); string(got) != src {
				t.Errorf("%s source %s came back as %s", cellType, src, got)
			}
			if after, _ := doc.Field("metadata"); !bytes.Equal(after, metadata) {
				t.Errorf("metadata changed: %s", after)
			}
			if _, ok := doc.Cells[0].Field("outputs"); string(cellType) == `"code"` && !ok {
				t.Error("outputs lost")
			}
		}
	}
}
