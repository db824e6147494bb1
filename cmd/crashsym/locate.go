package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/go-kit/log/level"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/afero"

	"github.com/robotsym/crashsym/pkg/codeobject"
	"github.com/robotsym/crashsym/pkg/symbolizer"
)

const (
	locateFound         = "found"
	locateEmpty         = "empty"
	locateNotApplicable = "not applicable"
	locateError         = "error"
)

func locate(ctx context.Context, fs afero.Fs, s *symbolizer.Symbolizer, params *projectParams) error {
	root, err := params.root()
	if err != nil {
		return err
	}

	results := make([]locatorResult, 0, len(s.Locators()))
	for _, l := range s.Locators() {
		objects, err := l.Locate(ctx, root)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		res := locatorResult{Locator: l.Name()}
		switch {
		case codeobject.IsNotApplicable(err):
			res.Status = locateNotApplicable
		case err != nil:
			res.Status = locateError
			res.Error = err.Error()
		case len(objects) == 0:
			res.Status = locateEmpty
		default:
			res.Status = locateFound
		}
		for _, obj := range objects {
			fi, err := fs.Stat(obj.String())
			if err != nil {
				level.Warn(logger).Log("msg", "failed to stat code object", "code_object", obj, "err", err)
				continue
			}
			res.CodeObjects = append(res.CodeObjects, codeObjectAge{Path: obj, Modified: fi.ModTime()})
		}
		results = append(results, res)
	}

	located, locateErr := s.Locate(ctx, root)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	for i := range results {
		results[i].Selected = locateErr == nil && results[i].Locator == located.Locator
	}

	w := output(ctx)
	if cfg.output == outputJSON {
		enc := json.NewEncoder(w)
		for _, res := range results {
			if err := enc.Encode(res); err != nil {
				return err
			}
		}
		return locateErr
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Locator", "Status", "Code object", "Modified", ""})
	table.SetAutoWrapText(false)
	for _, res := range results {
		status := res.Status
		if res.Error != "" {
			status = fmt.Sprintf("%s: %s", res.Status, res.Error)
		}
		mark := ""
		if res.Selected {
			mark = green("in use")
		}
		if len(res.CodeObjects) == 0 {
			table.Append([]string{res.Locator, status, "", "", ""})
			continue
		}
		for i, obj := range res.CodeObjects {
			if i > 0 {
				mark = ""
			}
			table.Append([]string{res.Locator, status, relative(root, obj.Path), humanize.Time(obj.Modified), mark})
		}
	}
	table.Render()
	return locateErr
}
