package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/dgallion1/docoutline/internal/parser"
)

func TestWorker_OutlineScenarios(t *testing.T) {
	w := NewWorker(WorkerOptions{Logger: discardLogger()})

	tests := []struct {
		name     string
		pairs    [][2]string
		damaged  bool
		topNums  []string
		children int
	}{
		{"nested", [][2]string{{"10", "Intro"}, {"20", "Background"}, {"30", "Detail"}}, false, []string{"1"}, 1},
		{"orphan", [][2]string{{"20", "Orphan"}}, true, []string{"1"}, 0},
		{"leaf under top", [][2]string{{"10", "A"}, {"30", "Leaf"}}, true, []string{"1"}, 1},
		{"unmapped code", [][2]string{{"9", "ignored-code"}, {"10", "Only"}}, false, []string{"1"}, 0},
		{"empty", nil, false, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := w.Outline("doc.docx", docxWithHeadings(t, tt.pairs...))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.PotentiallyDamage != tt.damaged {
				t.Errorf("expected damaged=%v, got %v", tt.damaged, rec.PotentiallyDamage)
			}
			if len(rec.TableOfContent) != len(tt.topNums) {
				t.Fatalf("expected %d top-level entries, got %d", len(tt.topNums), len(rec.TableOfContent))
			}
			if rec.TableOfContent == nil {
				t.Error("expected non-nil table of content")
			}
			for i, num := range tt.topNums {
				if rec.TableOfContent[i].Num != num {
					t.Errorf("top[%d]: expected %q, got %q", i, num, rec.TableOfContent[i].Num)
				}
			}
			if len(tt.topNums) > 0 && len(rec.TableOfContent[0].SubElements) != tt.children {
				t.Errorf("expected %d children, got %d", tt.children, len(rec.TableOfContent[0].SubElements))
			}
		})
	}
}

func TestWorker_ProcessUnsupported(t *testing.T) {
	w := NewWorker(WorkerOptions{Logger: discardLogger()})
	res := w.Process(context.Background(), Document{Name: "notes.txt", Data: []byte("x")})
	if res.Status != ResultSkipped {
		t.Fatalf("expected skipped, got %s", res.Status)
	}
	if !errors.Is(res.Err, parser.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", res.Err)
	}
	if IsRetryable(res.Err) {
		t.Error("expected unsupported format to be non-retryable")
	}
}

func TestWorker_ProcessRecordsStats(t *testing.T) {
	w := NewWorker(WorkerOptions{Logger: discardLogger()})
	res := w.Process(context.Background(), Document{Name: "a.docx", Data: docxWithHeadings(t, [2]string{"20", "Orphan"})})
	if res.Status != ResultProcessed {
		t.Fatalf("expected processed, got %s (%v)", res.Status, res.Err)
	}
	if res.OutputPath != "" {
		t.Errorf("expected no output path without a writer, got %q", res.OutputPath)
	}
	snap := w.Stats().Snapshot()
	if snap.Documents != 1 || snap.Damaged != 1 {
		t.Errorf("expected one damaged sample, got %+v", snap)
	}
}

func TestIsRetryable(t *testing.T) {
	if IsRetryable(nil) {
		t.Error("nil error should not be retryable")
	}
	if IsRetryable(context.Canceled) {
		t.Error("cancellation should not be retryable")
	}
	if !IsRetryable(errors.New("open zip: zip: not a valid zip file")) {
		t.Error("archive errors should be retryable")
	}
}
