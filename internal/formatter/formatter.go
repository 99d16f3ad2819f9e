// package formatter provides functions to export scripts and performance
// metrics to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/legyenez/lgz/internal/api"
	"github.com/legyenez/lgz/internal/shared"
)

// MetricsToCSV converts recorded metrics to CSV with columns:
// ID, Script, Hook, Views, Likes, Comments, Subs, Retention%, SwipeRate, Recorded
func MetricsToCSV(metrics []api.Metric) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Script", "Hook", "Views", "Likes", "Comments", "Subs", "Retention%", "SwipeRate", "Recorded"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, m := range metrics {
		record := []string{
			m.ID,
			m.ScriptID,
			m.HookUsed,
			strconv.Itoa(m.Views),
			strconv.Itoa(m.Likes),
			strconv.Itoa(m.Comments),
			strconv.Itoa(m.Subs),
			strconv.FormatFloat(m.RetentionPercent, 'f', 1, 64),
			strconv.FormatFloat(m.SwipeRate, 'f', 1, 64),
			m.CreatedAt,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// MetricsToMarkdown converts recorded metrics to a Markdown table with an
// aggregate summary section.
func MetricsToMarkdown(metrics []api.Metric) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Performance Metrics\n\n")
	buf.WriteString(fmt.Sprintf("**Recorded**: %d\n\n", len(metrics)))

	totalViews := 0
	totalRetention := 0.0
	for _, m := range metrics {
		totalViews += m.Views
		totalRetention += m.RetentionPercent
	}
	buf.WriteString(fmt.Sprintf("**Total views**: %d\n", totalViews))
	if len(metrics) > 0 {
		buf.WriteString(fmt.Sprintf("**Avg retention**: %.1f%%\n", totalRetention/float64(len(metrics))))
	}
	buf.WriteString("\n")

	buf.WriteString("| Script | Hook | Views | Likes | Retention | Swipe |\n")
	buf.WriteString("|--------|------|-------|-------|-----------|-------|\n")
	for _, m := range metrics {
		buf.WriteString(fmt.Sprintf("| %s | %s | %d | %d | %.1f%% | %.1f%% |\n",
			m.ScriptID, m.HookUsed, m.Views, m.Likes, m.RetentionPercent, m.SwipeRate))
	}

	return buf.Bytes(), nil
}

// ScriptToMarkdown converts a generated script to a Markdown document.
func ScriptToMarkdown(script *api.Script) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", script.Topic))
	buf.WriteString(fmt.Sprintf("**Mode**: %s\n", script.Mode))
	if script.HookType != "" {
		buf.WriteString(fmt.Sprintf("**Hook type**: %s\n", script.HookType))
	}
	buf.WriteString(fmt.Sprintf("**Characters**: %d\n\n", script.CharacterCount))

	if script.HookText != "" {
		buf.WriteString(fmt.Sprintf("> %s\n\n", script.HookText))
	}

	buf.WriteString("## Script\n\n")
	buf.WriteString(script.Script)
	buf.WriteString("\n")

	return buf.Bytes(), nil
}

// ScriptToText converts a generated script to plain text suitable for
// pasting into a teleprompter.
func ScriptToText(script *api.Script) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Topic: %s\n", script.Topic))
	buf.WriteString(fmt.Sprintf("Mode: %s\n\n", script.Mode))
	buf.WriteString(script.Script)
	buf.WriteString("\n")

	return buf.Bytes()
}

// VideosToText renders a render job listing as aligned plain text rows.
func VideosToText(videos []api.Video) []byte {
	var buf bytes.Buffer

	for _, v := range videos {
		line := fmt.Sprintf("%-38s %-12s", v.ID, v.Status)
		if v.Status == api.StatusCompleted && v.Duration > 0 {
			line += " " + shared.FormatDuration(v.Duration)
		}
		if v.Status == api.StatusFailed && v.Error != "" {
			line += " " + v.Error
		}
		buf.WriteString(line + "\n")
	}

	return buf.Bytes()
}

// MetricsExportResult contains the paths of files created by WriteMetricsExport
type MetricsExportResult struct {
	File string
}

// WriteMetricsExport exports metrics to the requested format.
//
// Supported formats are csv, markdown, and json (the default).
func WriteMetricsExport(metrics []api.Metric, format, path string) (*MetricsExportResult, error) {
	var (
		data []byte
		err  error
	)

	switch format {
	case "csv":
		if path == "" {
			path = "metrics.csv"
		}
		data, err = MetricsToCSV(metrics)
	case "markdown":
		if path == "" {
			path = "metrics.md"
		}
		data, err = MetricsToMarkdown(metrics)
	case "json", "":
		if path == "" {
			path = "metrics.json"
		}
		data, err = shared.MarshalJSON(metrics, true)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", shared.ErrInvalidArgument, format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s export: %w", format, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write export file: %w", err)
	}

	return &MetricsExportResult{File: path}, nil
}

// WriteScriptExport exports a single script to the requested format.
func WriteScriptExport(script *api.Script, format, path string) (string, error) {
	var (
		data []byte
		err  error
	)

	switch format {
	case "markdown":
		if path == "" {
			path = script.ID + ".md"
		}
		data, err = ScriptToMarkdown(script)
	case "txt":
		if path == "" {
			path = script.ID + ".txt"
		}
		data = ScriptToText(script)
	case "json", "":
		if path == "" {
			path = script.ID + ".json"
		}
		data, err = shared.MarshalJSON(script, true)
	default:
		return "", fmt.Errorf("%w: unsupported format %q", shared.ErrInvalidArgument, format)
	}
	if err != nil {
		return "", fmt.Errorf("failed to generate %s export: %w", format, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}

// WriteDownloadManifest writes a JSON summary of a bulk download run.
func WriteDownloadManifest(manifest any, path string) error {
	data, err := shared.MarshalJSON(manifest, true)
	if err != nil {
		return fmt.Errorf("failed to generate manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}
