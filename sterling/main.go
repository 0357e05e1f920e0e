// Command sterling tracks a pounds sterling share portfolio from a JSON trade
// log.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/sterling"
	"github.com/etnz/sterling/cmd"
	"github.com/etnz/sterling/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// Answers shell completion requests, then exits. A no-op otherwise.
	completion().Complete(path.Base(os.Args[0]))

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes the command line for shell completion.
func completion() *complete.Command {
	actions := make(predict.Set, len(sterling.Actions))
	for i, a := range sterling.Actions {
		actions[i] = a.String()
	}
	topics := predict.Set{"readme"}
	if all, err := docs.GetAllTopics(); err == nil {
		topics = append(topics, all...)
	}
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"config":      predict.Files("*.yaml"),
			"ledger-file": predict.Files("*.json"),
		},
		Sub: map[string]*complete.Command{
			"init": {Flags: map[string]complete.Predictor{"name": predict.Something, "f": predict.Nothing}},
			"add": {Flags: map[string]complete.Predictor{
				"id":     predict.Something,
				"date":   predict.Something,
				"action": actions,
				"symbol": predict.Something,
				"qty":    predict.Something,
				"price":  predict.Something,
				"fee":    predict.Something,
				"sdr":    predict.Set{"0", "0.5"},
				"notes":  predict.Something,
			}},
			"delete":  {Args: predict.Something},
			"tx":      {Flags: map[string]complete.Predictor{"symbol": predict.Something, "action": actions, "head": predict.Something, "tail": predict.Something}},
			"check":   {},
			"holding": {Flags: map[string]complete.Predictor{"u": predict.Nothing, "no-cash": predict.Nothing}},
			"summary": {Flags: map[string]complete.Predictor{"u": predict.Nothing}},
			"watch":   {Flags: map[string]complete.Predictor{"holdings": predict.Nothing}},
			"topic":   {Flags: map[string]complete.Predictor{"l": predict.Nothing}, Args: topics},
			"help":    {},
		},
	}
}
