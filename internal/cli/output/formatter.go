package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/WilliamVenner/wry/internal/cli/errors"
	"github.com/WilliamVenner/wry/internal/engine/headless"
)

type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatRaw  OutputFormat = "raw"
)

type Formatter struct {
	format OutputFormat
	color  bool
	out    io.Writer
}

func NewFormatter(format OutputFormat, useColor bool, out io.Writer) *Formatter {
	return &Formatter{
		format: format,
		color:  useColor,
		out:    out,
	}
}

func (f *Formatter) FormatError(err errors.ClassifiedError) string {
	if f.format == FormatJSON {
		data, _ := json.MarshalIndent(err, "", "  ")
		return string(data)
	}

	var msg string
	if f.color {
		msg = color.RedString("Error [%s]: %s", err.Kind, err.Message)
		if err.Hint != "" {
			msg += "\n" + color.YellowString("Hint: %s", err.Hint)
		}
	} else {
		msg = fmt.Sprintf("Error [%s]: %s", err.Kind, err.Message)
		if err.Hint != "" {
			msg += "\nHint: " + err.Hint
		}
	}
	return msg
}

func (f *Formatter) outcome(r Reply) string {
	if !f.color {
		return r.Outcome()
	}
	switch r.Outcome() {
	case "dropped":
		return color.RedString(r.Outcome())
	case "no reply":
		return color.YellowString(r.Outcome())
	}
	return color.GreenString(r.Outcome())
}

// WriteReplies prints one row per inbound message.
func (f *Formatter) WriteReplies(replies []Reply) error {
	switch f.format {
	case FormatJSON:
		data, err := json.MarshalIndent(replies, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(f.out, string(data))
		return err
	case FormatRaw:
		for _, r := range replies {
			for _, s := range r.Scripts {
				if _, err := fmt.Fprintln(f.out, s); err != nil {
					return err
				}
			}
		}
		return nil
	}

	table := tablewriter.NewTable(f.out,
		tablewriter.WithHeader([]string{"Line", "Route", "ID", "Method", "Outcome", "Reply"}),
	)
	for _, r := range replies {
		if err := table.Append([]string{
			strconv.Itoa(r.Line), r.Route, r.ID, r.Method, f.outcome(r), r.Text("\n"),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

// WriteState prints the window state left behind by a headless session.
func (f *Formatter) WriteState(state headless.WindowState) error {
	if f.format == FormatJSON {
		data, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(f.out, string(data))
		return err
	}
	if f.format == FormatRaw {
		return nil
	}

	table := tablewriter.NewTable(f.out,
		tablewriter.WithHeader([]string{"Property", "Value"}),
	)
	rows := [][]string{
		{"Title", state.Title},
		{"Size", fmt.Sprintf("%gx%g", state.Width, state.Height)},
		{"Position", fmt.Sprintf("%g,%g", state.X, state.Y)},
		{"Fullscreen", strconv.FormatBool(state.Fullscreen)},
		{"Maximized", strconv.FormatBool(state.Maximized)},
		{"Drags", strconv.Itoa(len(state.Drags))},
	}
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}
