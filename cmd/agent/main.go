// Package main provides the GPU-race planning demo: a rule-based agent buys
// every GPU in the catalog, recovering from page-limit and inventory errors
// along the way.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"shopagent/internal/cli"
)

func main() {
	task := flag.String("task", "Buy ALL GPUs", "Task description for the session")
	category := flag.String("category", "gpu", "Product category the agent should buy out")
	budget := flag.Int("max-steps", 20, "Step budget before the run is aborted")
	race := flag.Bool("race", true, "Simulate a concurrent customer draining stock at first checkout")
	verbose := flag.Bool("verbose", false, "Log each executor step")

	flag.Parse()

	c := cli.NewCLI()
	err := c.Run(context.Background(), cli.RunConfig{
		Task:         *task,
		Category:     *category,
		Budget:       *budget,
		SimulateRace: *race,
		Logger:       newLogger(os.Stderr, *verbose),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
