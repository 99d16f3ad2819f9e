package formatter

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/legyenez/lgz/internal/api"
)

func sampleMetrics() []api.Metric {
	return []api.Metric{
		{ID: "m1", ScriptID: "s1", HookUsed: "Stop scrolling.", Views: 12400, Likes: 980, Comments: 45, Subs: 31, RetentionPercent: 63.2, SwipeRate: 41.0, CreatedAt: "2026-08-01T09:00:00"},
		{ID: "m2", ScriptID: "s2", HookUsed: "Nobody talks about this.", Views: 3100, Likes: 240, Comments: 12, Subs: 4, RetentionPercent: 48.7, SwipeRate: 55.5, CreatedAt: "2026-08-02T09:00:00"},
	}
}

func TestMetricsToCSV(t *testing.T) {
	data, err := MetricsToCSV(sampleMetrics())
	if err != nil {
		t.Fatalf("failed to generate CSV: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("generated CSV does not parse: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(records))
	}
	if records[0][0] != "ID" || records[0][7] != "Retention%" {
		t.Errorf("unexpected header row: %v", records[0])
	}
	if records[1][3] != "12400" || records[1][7] != "63.2" {
		t.Errorf("unexpected first data row: %v", records[1])
	}
}

func TestMetricsToMarkdown(t *testing.T) {
	data, err := MetricsToMarkdown(sampleMetrics())
	if err != nil {
		t.Fatalf("failed to generate markdown: %v", err)
	}

	md := string(data)
	if !strings.Contains(md, "**Total views**: 15500") {
		t.Errorf("expected aggregate views in summary, got:\n%s", md)
	}
	if !strings.Contains(md, "| s1 | Stop scrolling. | 12400 |") {
		t.Errorf("expected table row for first metric, got:\n%s", md)
	}
}

func TestScriptExports(t *testing.T) {
	script := &api.Script{
		ID:             "s1",
		Topic:          "morning routines",
		Mode:           "viral",
		Script:         "Stop scrolling. Here is the one habit that matters.",
		HookText:       "Stop scrolling.",
		HookType:       "challenge",
		CharacterCount: 51,
	}

	t.Run("Markdown", func(t *testing.T) {
		data, err := ScriptToMarkdown(script)
		if err != nil {
			t.Fatalf("failed to generate markdown: %v", err)
		}

		md := string(data)
		if !strings.HasPrefix(md, "# morning routines") {
			t.Errorf("expected topic heading, got:\n%s", md)
		}
		if !strings.Contains(md, "> Stop scrolling.") {
			t.Errorf("expected hook blockquote, got:\n%s", md)
		}
	})

	t.Run("Write Formats", func(t *testing.T) {
		dir := t.TempDir()

		path, err := WriteScriptExport(script, "txt", filepath.Join(dir, "s1.txt"))
		if err != nil {
			t.Fatalf("failed to write txt export: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read export: %v", err)
		}
		if !strings.Contains(string(data), "Topic: morning routines") {
			t.Errorf("unexpected txt export:\n%s", data)
		}

		path, err = WriteScriptExport(script, "json", filepath.Join(dir, "s1.json"))
		if err != nil {
			t.Fatalf("failed to write json export: %v", err)
		}
		data, err = os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read export: %v", err)
		}
		var got api.Script
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("json export does not parse: %v", err)
		}
		if got.ID != "s1" {
			t.Errorf("expected script s1, got %s", got.ID)
		}
	})

	t.Run("Rejects Unknown Format", func(t *testing.T) {
		if _, err := WriteScriptExport(script, "docx", ""); err == nil {
			t.Error("expected error for unsupported format")
		}
	})
}

func TestVideosToText(t *testing.T) {
	videos := []api.Video{
		{ID: "v1", Status: api.StatusCompleted, Duration: 42.5},
		{ID: "v2", Status: api.StatusFailed, Error: "TTS render failed"},
		{ID: "v3", Status: api.StatusProcessing},
	}

	out := string(VideosToText(videos))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "0:42") {
		t.Errorf("expected formatted duration on completed row, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "TTS render failed") {
		t.Errorf("expected error on failed row, got %q", lines[1])
	}
}

func TestWriteMetricsExport(t *testing.T) {
	dir := t.TempDir()

	res, err := WriteMetricsExport(sampleMetrics(), "csv", filepath.Join(dir, "metrics.csv"))
	if err != nil {
		t.Fatalf("failed to write metrics export: %v", err)
	}

	data, err := os.ReadFile(res.File)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}
	if !strings.HasPrefix(string(data), "ID,Script,Hook") {
		t.Errorf("unexpected CSV content:\n%s", data)
	}
}
