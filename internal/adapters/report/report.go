// Package report renders task results as Markdown, HTML, or CSV files.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"filerename/internal/adapters/filelock"
	"filerename/internal/application/commands"
)

// Format is an output format for a report file
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatCSV      Format = "csv"
)

// FormatFor picks the report format from a file extension
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return FormatMarkdown, nil
	case ".html", ".htm":
		return FormatHTML, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported report extension %q (use .md, .html or .csv)", filepath.Ext(path))
	}
}

// Write renders results in the format implied by path and writes the file atomically
func Write(path string, results []*commands.TaskResult) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	data, err := Render(format, results)
	if err != nil {
		return err
	}
	return filelock.AtomicWrite(path, data)
}

// Render renders results in format. Nil results (aborted tasks) are skipped.
func Render(format Format, results []*commands.TaskResult) ([]byte, error) {
	switch format {
	case FormatMarkdown:
		return Markdown(results), nil
	case FormatHTML:
		return HTML(results)
	case FormatCSV:
		return CSV(results)
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}

// Markdown renders one section with a job table per task
func Markdown(results []*commands.TaskResult) []byte {
	var b strings.Builder
	b.WriteString("# Rename report\n")

	for _, r := range results {
		if r == nil {
			continue
		}
		fmt.Fprintf(&b, "\n## Task %s\n\n", r.TaskID)
		fmt.Fprintf(&b, "- Root: `%s`\n", r.Root)
		fmt.Fprintf(&b, "- Templates: `%s` -> `%s`\n", r.InputTemplate, r.OutputTemplate)
		fmt.Fprintf(&b, "- Search expression: `%s`\n", r.SearchExpression)
		fmt.Fprintf(&b, "- Status: **%s**", r.Status)
		if r.DryRun {
			b.WriteString(" (dry run)")
		}
		b.WriteString("\n")
		for _, rule := range r.Rules {
			fmt.Fprintf(&b, "- %s\n", rule)
		}
		fmt.Fprintf(&b, "\n%s\n", r.Summary())

		if len(r.Jobs) == 0 {
			continue
		}
		b.WriteString("\n| Source | Target | Status | Attempts | Error |\n")
		b.WriteString("|---|---|---|---|---|\n")
		for _, j := range r.Jobs {
			fmt.Fprintf(&b, "| %s | %s | %s | %d | %s |\n",
				cell(j.Source), cell(j.Target), j.Status, j.Attempts, cell(errText(j.Err)))
		}
	}
	return []byte(b.String())
}

// HTML renders the Markdown report to a standalone HTML page
func HTML(results []*commands.TaskResult) ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))

	var body bytes.Buffer
	if err := md.Convert(Markdown(results), &body); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>Rename report</title></head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}

// CSV renders one row per job
func CSV(results []*commands.TaskResult) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"task_id", "source", "target", "status", "attempts", "unchanged", "dry_run", "error"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, r := range results {
		if r == nil {
			continue
		}
		for _, j := range r.Jobs {
			row := []string{
				r.TaskID,
				j.Source,
				j.Target,
				j.Status.String(),
				strconv.Itoa(j.Attempts),
				strconv.FormatBool(j.Unchanged),
				strconv.FormatBool(j.DryRun),
				errText(j.Err),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	return buf.Bytes(), nil
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// cell escapes text for a Markdown table cell
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
