package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"purity/internal/app"
	"purity/internal/evidence"
	"purity/internal/model"
	"purity/internal/procedure"
	"purity/internal/reports"
)

const (
	progressInterval = 150 * time.Millisecond
	messageInterval  = 1500 * time.Millisecond
	storeTimeout     = 15 * time.Second
)

// MsgResolved carries a generation outcome.
type MsgResolved procedure.Outcome

// MsgProgressTick advances the progress bar of a generation.
type MsgProgressTick uint64

// MsgMessageTick cycles the loading message of a generation.
type MsgMessageTick uint64

// MsgReportSaved reports the end of a submission.
type MsgReportSaved struct {
	Report model.Report
	Err    error
}

// MsgReportsLoaded carries the report list.
type MsgReportsLoaded struct {
	Reports []model.Report
	Err     error
}

// MsgExported reports where a procedure was written.
type MsgExported struct {
	Path string
	Err  error
}

// ResolveCmd runs a pending generation in the background.
func ResolveCmd(r *procedure.Resolver, req procedure.Request) tea.Cmd {
	return func() tea.Msg {
		return MsgResolved(r.Run(context.Background(), req))
	}
}

func progressTickCmd(gen uint64) tea.Cmd {
	return tea.Tick(progressInterval, func(time.Time) tea.Msg { return MsgProgressTick(gen) })
}

func messageTickCmd(gen uint64) tea.Cmd {
	return tea.Tick(messageInterval, func(time.Time) tea.Msg { return MsgMessageTick(gen) })
}

// SubmitReportCmd loads the evidence image, if any, and submits d.
func SubmitReportCmd(a *app.App, d reports.Draft, imagePath string) tea.Cmd {
	return func() tea.Msg {
		if imagePath != "" {
			uri, err := evidence.LoadFile(imagePath)
			if err != nil {
				return MsgReportSaved{Err: fmt.Errorf("photo: %w", err)}
			}
			d.ImageBase64 = uri
		}

		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		r, err := a.SubmitReport(ctx, d)
		return MsgReportSaved{Report: r, Err: err}
	}
}

// LoadReportsCmd fetches the report list.
func LoadReportsCmd(store reports.Store) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		list, err := store.List(ctx)
		return MsgReportsLoaded{Reports: list, Err: err}
	}
}

// ExportCmd writes the printable procedure into dir.
func ExportCmd(dir, foodName, adulterantName string, test model.TestProcedure) tea.Cmd {
	return func() tea.Msg {
		path := filepath.Join(dir, procedure.FileName(foodName))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return MsgExported{Err: err}
		}
		err := os.WriteFile(path, []byte(procedure.Markdown(foodName, adulterantName, test)), 0o644)
		return MsgExported{Path: path, Err: err}
	}
}
