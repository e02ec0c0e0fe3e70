package cmd

import (
	"flag"

	"github.com/etnz/tally"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion returns the shell completion of tly: its subcommands and their
// flags. Run it with Complete("tly") before parsing the command line.
func Completion() *complete.Command {
	kinds := predict.Set{"payee", "security", "portfolio", "taxbasis", "tag"}
	periods := predict.Set{"day", "week", "month", "quarter", "year"}
	var attrs predict.Set
	for a := tally.AttrIncome; a <= tally.AttrLastActivity; a++ {
		attrs = append(attrs, a.String())
	}

	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flagPredictors(flag.CommandLine, nil),
	}
	root.Flags["ledger-file"] = predict.Files("*.jsonl")
	root.Flags["config"] = predict.Files("*.toml")

	for _, c := range Commands {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		special := map[string]complete.Predictor{
			"k": kinds,
			"p": periods,
			"a": attrs,
		}
		root.Sub[c.Name()] = &complete.Command{Flags: flagPredictors(fs, special)}
	}
	return root
}

// flagPredictors returns a predictor for every flag of fs: nothing for
// boolean flags, the special one if any, something otherwise.
func flagPredictors(fs *flag.FlagSet, special map[string]complete.Predictor) map[string]complete.Predictor {
	preds := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			preds[f.Name] = predict.Nothing
			return
		}
		if p, ok := special[f.Name]; ok {
			preds[f.Name] = p
			return
		}
		preds[f.Name] = predict.Something
	})
	return preds
}
