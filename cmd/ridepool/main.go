// Package main provides the ridepool CLI.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"ridepool/internal/config"
	"ridepool/internal/dispatch"
	"ridepool/internal/navigation"
	"ridepool/internal/scenario"
	"ridepool/internal/server"
)

var rootCmd = &cobra.Command{
	Use:   "ridepool",
	Short: "Shortest paths, driver matching and shared rides over a road graph",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(configFile); err != nil {
			return err
		}
		if mapFile != "" {
			config.Global.Server.MapFile = mapFile
		}
		return nil
	},
	SilenceUsage: true,
}

var pathCmd = &cobra.Command{
	Use:   "path <from> <to>",
	Short: "Print the shortest path between two nodes",
	Args:  cobra.ExactArgs(2),
	RunE:  runPath,
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match every rider of a scenario to its closest driver",
	RunE:  runMatch,
}

var poolCmd = &cobra.Command{
	Use:   "pool",
	Short: "Find the cheapest shared route for the riders of a scenario",
	RunE:  runPool,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and websocket API",
	RunE:  runServe,
}

var (
	configFile   string
	mapFile      string
	scenarioFile string
	jsonFlag     bool
	traceFlag    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "config.json", "Path to the config file")
	rootCmd.PersistentFlags().StringVar(&mapFile, "map", "", "Map file, overrides the config")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Output as JSON")

	pathCmd.Flags().BoolVar(&traceFlag, "trace", false, "Also print the nodes in the order they were settled")
	for _, c := range []*cobra.Command{matchCmd, poolCmd} {
		c.Flags().StringVarP(&scenarioFile, "scenario", "s", "", "YAML scenario with drivers, riders and destination")
		c.MarkFlagRequired("scenario")
	}

	rootCmd.AddCommand(pathCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(poolCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runPath(cmd *cobra.Command, args []string) error {
	engine, err := server.LoadEngine(config.Global)
	if err != nil {
		return err
	}

	res := navigation.ShortestPath(engine.Graph, args[0], args[1])
	if jsonFlag {
		return printJSON(server.NewPathResponse(res))
	}
	if !res.Reachable() {
		fmt.Printf("%s is unreachable from %s (settled %d nodes)\n", args[1], args[0], len(res.Visited))
		return nil
	}
	fmt.Printf("Distance: %.2f\n", res.Distance)
	fmt.Printf("Path (%d nodes): %s\n", len(res.Path), strings.Join(res.Path, " -> "))
	fmt.Printf("Settled: %d nodes\n", len(res.Visited))
	if traceFlag {
		for id := range res.Trace() {
			fmt.Println(id)
		}
	}
	return nil
}

// loadScenario builds the engine and places the scenario on its session.
func loadScenario() (*server.Engine, *scenario.Scenario, error) {
	sc, err := scenario.Load(scenarioFile)
	if err != nil {
		return nil, nil, err
	}
	engine, err := server.LoadEngine(config.Global)
	if err != nil {
		return nil, nil, err
	}
	if err := sc.Apply(engine.Session); err != nil {
		return nil, nil, err
	}
	return engine, sc, nil
}

func runMatch(cmd *cobra.Command, args []string) error {
	engine, _, err := loadScenario()
	if err != nil {
		return err
	}

	drivers := engine.Session.Drivers()
	var matches []dispatch.Match
	for _, r := range engine.Session.Riders() {
		m, err := engine.Matcher.MatchDriver(cmd.Context(), r, drivers)
		if err != nil {
			fmt.Fprintf(os.Stderr, "rider %s: %v\n", r.ID, err)
			continue
		}
		matches = append(matches, m)
	}

	if jsonFlag {
		return printJSON(matches)
	}
	for _, m := range matches {
		note := ""
		if m.Fallback {
			note = " (fallback)"
		}
		fmt.Printf("%s <- %s  distance %.2f  radius %d%s\n", m.Rider.ID, m.Driver.ID, m.Path.Distance, m.Radius, note)
	}
	return nil
}

func runPool(cmd *cobra.Command, args []string) error {
	engine, sc, err := loadScenario()
	if err != nil {
		return err
	}
	if sc.Destination == "" {
		return fmt.Errorf("%s: destination is required for pool", scenarioFile)
	}

	route, err := engine.Matcher.OptimizeRoute(cmd.Context(), engine.Session.Riders(), sc.Destination, engine.Session.Drivers())
	if err != nil {
		return err
	}

	if jsonFlag {
		return printJSON(route)
	}
	pickups := make([]string, len(route.Order))
	for i, r := range route.Order {
		pickups[i] = r.ID
	}
	fmt.Printf("Driver: %s\n", route.Driver.ID)
	fmt.Printf("Pickups: %s\n", strings.Join(pickups, ", "))
	fmt.Printf("Cost: %.2f\n", route.Cost)
	fmt.Printf("Path (%d nodes): %s\n", len(route.Path), strings.Join(route.Path, " -> "))
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.Run(ctx, config.Global)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
