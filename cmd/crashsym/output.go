package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"

	"github.com/robotsym/crashsym/pkg/codeobject"
	"github.com/robotsym/crashsym/pkg/debuginfo"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	outputText = "text"
	outputJSON = "json"
)

var (
	faint  = color.New(color.Faint).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

func hexAddr(a uint64) string {
	return fmt.Sprintf("0x%08x", a)
}

type resolution struct {
	Input   string            `json:"input,omitempty"`
	Address string            `json:"address,omitempty"`
	Symbol  *debuginfo.Symbol `json:"symbol,omitempty"`
	Error   string            `json:"error,omitempty"`
}

type locatorResult struct {
	Locator     string          `json:"locator"`
	Status      string          `json:"status"`
	Error       string          `json:"error,omitempty"`
	Selected    bool            `json:"selected"`
	CodeObjects []codeObjectAge `json:"code_objects,omitempty"`
}

type codeObjectAge struct {
	Path     codeobject.CodeObject `json:"path"`
	Modified time.Time             `json:"modified"`
}

type readerStatus struct {
	Reader     string `json:"reader"`
	Executable string `json:"executable,omitempty"`
	Healthy    bool   `json:"healthy"`
	Selected   bool   `json:"selected"`
}

// relative shortens obj for display when it lives under projectRoot.
func relative(projectRoot string, obj codeobject.CodeObject) string {
	rel, err := filepath.Rel(projectRoot, obj.String())
	if err != nil || strings.HasPrefix(rel, "..") {
		return obj.String()
	}
	return rel
}

func printResolution(w io.Writer, format, projectRoot string, r resolution) error {
	if format == outputJSON {
		return json.NewEncoder(w).Encode(r)
	}

	label := r.Address
	if label == "" {
		label = r.Input
	}
	switch {
	case r.Error != "":
		_, err := fmt.Fprintf(w, "%s %s\n", faint(label), red(r.Error))
		return err
	case r.Symbol.HasLocation():
		_, err := fmt.Fprintf(w, "%s %s at %s %s\n", faint(label), bold(r.Symbol.Name), green(r.Symbol.Location.String()), faint("("+relative(projectRoot, r.Symbol.CodeObject)+")"))
		return err
	default:
		_, err := fmt.Fprintf(w, "%s %s %s %s\n", faint(label), bold(r.Symbol.Name), yellow("(no line information)"), faint("("+relative(projectRoot, r.Symbol.CodeObject)+")"))
		return err
	}
}
