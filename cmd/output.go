package cmd

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/PaesslerAG/jsonpath"
	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// stdout is where reports are printed.
var stdout io.Writer = os.Stdout

// output holds the flags shared by the report subcommands.
type output struct {
	html  bool
	query string
}

func (o *output) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&o.html, "html", false, "Render the report as HTML instead of terminal markdown.")
	f.StringVar(&o.query, "q", "", "JSONPath query over the JSON form of the report, e.g. $.portfolio.totals.values.valuation")
}

// print writes the report: its markdown form md, or the result of the
// query over the JSON form of v.
func (o *output) print(w io.Writer, md string, v any) subcommands.ExitStatus {
	switch {
	case o.query != "":
		res, err := query(v, o.query)
		if err != nil {
			return fail(err)
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return fail(err)
		}
	case o.html:
		html, err := toHTML(md)
		if err != nil {
			return fail(err)
		}
		fmt.Fprint(w, html)
	default:
		printMarkdown(w, md)
	}
	return subcommands.ExitSuccess
}

// printMarkdown renders md for the terminal, or prints it as is when it
// cannot.
func printMarkdown(w io.Writer, md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(160))
	if err != nil {
		fmt.Fprint(w, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprint(w, md)
		return
	}
	fmt.Fprint(w, out)
}

// toHTML converts md, with GitHub tables, to HTML.
func toHTML(md string) (string, error) {
	var buf bytes.Buffer
	conv := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := conv.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("could not convert markdown to html: %w", err)
	}
	return buf.String(), nil
}

// query evaluates the JSONPath path over the JSON form of v.
func query(v any, path string) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("could not encode report: %w", err)
	}
	var jobj any
	if err := json.Unmarshal(data, &jobj); err != nil {
		return nil, fmt.Errorf("could not decode report: %w", err)
	}
	res, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("invalid query %q: %w", path, err)
	}
	return res, nil
}
