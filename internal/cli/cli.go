// Package cli provides the command-line presentation for the planning demo:
// it assembles a store, proposer, and executor, runs a task, and renders the
// step log and final state.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"shopagent/internal/memory"
	"shopagent/internal/planner"
	"shopagent/internal/proposer"
	"shopagent/internal/store"
	"shopagent/internal/tool"
)

// CLI renders planning runs to an output stream.
type CLI struct {
	output io.Writer
}

// NewCLI creates a CLI writing to os.Stdout.
func NewCLI() *CLI {
	return &CLI{output: os.Stdout}
}

// NewCLIWithOutput creates a CLI with a custom output stream. Useful for
// testing.
func NewCLIWithOutput(output io.Writer) *CLI {
	return &CLI{output: output}
}

// RunConfig configures one demo run.
type RunConfig struct {
	Task     string
	Category string
	Budget   int

	// SimulateRace drains GPU stock behind the agent's back on the first
	// checkout attempt, forcing basket adjustment and a checkout retry.
	SimulateRace bool

	Logger *slog.Logger
}

// Run executes the demo task against a freshly seeded store and renders the
// whole session. It returns an error only on wiring or proposer failure;
// a budget-exhausted run is rendered, not failed.
func (c *CLI) Run(ctx context.Context, cfg RunConfig) error {
	var opts []store.Option
	if cfg.SimulateRace {
		// Another customer grabs most of the GPUs while ours shops.
		opts = append(opts, store.WithRaceSimulation(map[string]int{
			"gpu-h100": 1,
			"gpu-a100": 3,
		}))
	}
	st, err := store.New(store.DefaultSeed(), opts...)
	if err != nil {
		return fmt.Errorf("seed store: %w", err)
	}

	exec, err := planner.New(planner.Config{
		Proposer: &proposer.Shopper{
			Category: cfg.Category,
			// Start above the page cap so the run demonstrates
			// page-limit recovery.
			InitialLimit: store.MaxPageSize + 2,
		},
		Dispatcher: tool.NewDispatcher(st),
		StepBudget: cfg.Budget,
		Logger:     cfg.Logger,
	})
	if err != nil {
		return fmt.Errorf("build executor: %w", err)
	}

	c.printHeader(cfg)
	c.println("[Initial Product Catalog]")
	c.RenderCatalog(st.Snapshot())

	c.printf("\n[Task] %s\n", cfg.Task)
	c.println(strings.Repeat("=", 72))

	outcome, err := exec.ExecuteTask(ctx, cfg.Task)
	if err != nil {
		return err
	}
	for _, step := range outcome.Steps {
		c.RenderStep(step)
	}
	c.RenderOutcome(outcome)

	c.println("\n[Final Product Inventory]")
	c.RenderCatalog(st.Snapshot())

	c.println("\n[Final Basket State]")
	c.RenderBasket(st.ViewBasket())
	return nil
}

func (c *CLI) printHeader(cfg RunConfig) {
	c.println(strings.Repeat("=", 72))
	c.printf("%s\n", strings.ToUpper(cfg.Task))
	c.println(strings.Repeat("=", 72))
	if cfg.SimulateRace {
		c.println("RACE CONDITION SIMULATION ENABLED")
		c.println("During the first checkout, another customer will purchase some stock,")
		c.println("forcing the agent to adjust its basket and retry.")
	}
	c.println("\nAvailable tools:")
	for _, def := range tool.Definitions() {
		c.printf("  %-20s %s\n", def.Name, def.Description)
	}
	c.println()
}

// RenderStep prints one step in the demo's log format:
//
//	step_1: listing the catalog ...
//	  tool='list_products' limit=5 offset=0
//	  OUTPUT {...}
func (c *CLI) RenderStep(step memory.Step) {
	c.printf("step_%d: %s\n", step.Number, step.Rationale)
	c.printf("  tool='%s' %s\n", step.Action.Name, formatParams(step.Action.Params))
	if step.Observation.Rejected() {
		c.printf("  OUTPUT rejected: %s\n", step.Observation.ProposalError)
		return
	}
	encoded, err := json.Marshal(step.Observation.Result)
	if err != nil {
		c.printf("  OUTPUT <unrenderable: %v>\n", err)
		return
	}
	c.printf("  OUTPUT %s\n", encoded)
}

// RenderOutcome prints the terminal state of a run.
func (c *CLI) RenderOutcome(outcome *planner.Outcome) {
	c.println("\n" + strings.Repeat("=", 72))
	c.println("[Final State]")
	c.printf("Session: %s\n", outcome.SessionID)
	c.printf("Steps executed: %d\n", len(outcome.Steps))
	c.printf("Goal achieved: %v\n", outcome.GoalAchieved)
	if outcome.State == planner.StateAborted {
		c.println("Run aborted: step budget exhausted before the goal was met.")
	}
}

// RenderCatalog prints every catalog entry with its current availability.
func (c *CLI) RenderCatalog(listings []store.Listing) {
	for _, l := range listings {
		c.printf("  %-10s | %-20s | %-12s | Available: %2d | $%.2f\n",
			l.SKU, l.Name, l.Category, l.Available, float64(l.Price)/100)
	}
}

// RenderBasket prints the basket contents, or a note when it is empty.
func (c *CLI) RenderBasket(items []store.BasketItem) {
	if len(items) == 0 {
		c.println("  Basket is empty (checkout completed successfully!)")
		return
	}
	for _, item := range items {
		c.printf("  %s: %dx %s\n", item.SKU, item.Quantity, item.Name)
	}
}

func (c *CLI) printf(format string, args ...any) {
	fmt.Fprintf(c.output, format, args...)
}

func (c *CLI) println(args ...any) {
	fmt.Fprintln(c.output, args...)
}

// formatParams renders action parameters as stable key=value pairs.
func formatParams(params map[string]any) string {
	if len(params) == 0 {
		return ""
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, params[k]))
	}
	return strings.Join(parts, " ")
}
