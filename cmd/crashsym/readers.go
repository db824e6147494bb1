package main

import (
	"context"

	"github.com/olekukonko/tablewriter"

	"github.com/robotsym/crashsym/pkg/symbolizer"
)

func readers(ctx context.Context, s *symbolizer.Symbolizer) error {
	selected, selectErr := s.HealthyReader(ctx)
	if err := ctx.Err(); err != nil {
		return err
	}

	statuses := make([]readerStatus, 0, len(s.Readers()))
	for _, r := range s.Readers() {
		st := readerStatus{
			Reader:   r.Name(),
			Healthy:  r == selected || r.IsHealthy(ctx),
			Selected: r == selected,
		}
		if p, ok := r.(interface{ Path() string }); ok {
			st.Executable = p.Path()
		}
		statuses = append(statuses, st)
	}

	w := output(ctx)
	if cfg.output == outputJSON {
		enc := json.NewEncoder(w)
		for _, st := range statuses {
			if err := enc.Encode(st); err != nil {
				return err
			}
		}
		return selectErr
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Reader", "Executable", "Status", ""})
	table.SetAutoWrapText(false)
	for _, st := range statuses {
		status := red("unavailable")
		if st.Healthy {
			status = green("ok")
		}
		mark := ""
		if st.Selected {
			mark = "in use"
		}
		table.Append([]string{st.Reader, st.Executable, status, mark})
	}
	table.Render()
	return selectErr
}
