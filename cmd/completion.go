package cmd

import (
	"maps"

	"github.com/etnz/passbook/date"
	"github.com/etnz/passbook/storage"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion describes the pbk command line for shell completion.
func Completion() *complete.Command {
	kinds := make(predict.Set, 0, len(storage.Kinds))
	for _, k := range storage.Kinds {
		kinds = append(kinds, string(k))
	}

	periods := make(predict.Set, 0, int(date.Yearly)+1)
	for p := date.Daily; p <= date.Yearly; p++ {
		periods = append(periods, p.String())
	}

	filter := map[string]complete.Predictor{
		"day":    predict.Something,
		"month":  predict.Something,
		"year":   predict.Something,
		"period": periods,
		"from":   predict.Something,
		"to":     predict.Something,
		"type":   predict.Set{"deposit", "withdraw"},
	}
	amount := map[string]complete.Predictor{"a": predict.Something}

	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"store":  kinds,
			"ledger": predict.Something,
		},
		Sub: map[string]*complete.Command{
			"balance":  {},
			"deposit":  {Flags: amount},
			"withdraw": {Flags: amount},
			"tx":       {Flags: filter},
			"summary":  {Flags: filter},
			"delete": {Flags: map[string]complete.Predictor{
				"day": predict.Something,
				"all": predict.Nothing,
			}},
			"save":  {Flags: map[string]complete.Predictor{"to": predict.Something}},
			"load":  {Flags: map[string]complete.Predictor{"from": predict.Something}},
			"export": {Flags: exportFlags(filter)},
			"list":   {},
			"import": {
				Flags: map[string]complete.Predictor{"replace": predict.Nothing},
				Args:  predict.Files("*.jsonl"),
			},
			"fmt": {
				Flags: map[string]complete.Predictor{"check": predict.Nothing},
				Args:  predict.Files("*.jsonl"),
			},
			"shell": {},
			"help":  {},
		},
	}
}

// exportFlags adds the output file to the filter flags.
func exportFlags(filter map[string]complete.Predictor) map[string]complete.Predictor {
	flags := maps.Clone(filter)
	flags["o"] = predict.Files("*.jsonl")
	return flags
}
