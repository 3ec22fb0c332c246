// cmd/filter_graph/main.go
package main

import (
	"fmt"
	"os"

	"ridepool/internal/graph"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: go run main.go <input_file> <output_file>")
		return
	}

	inputFile := os.Args[1]
	outputFile := os.Args[2]

	g, err := graph.LoadFile(inputFile)
	if err != nil {
		fmt.Printf("Error loading map: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded: %d nodes, %d links\n", g.Len(), g.EdgeCount())

	components := g.Components()
	fmt.Printf("Found %d connected components\n", len(components))
	if len(components) == 0 {
		fmt.Println("Nothing to keep")
		os.Exit(1)
	}
	largest := components[0]
	fmt.Printf("Largest component: %d nodes\n", len(largest))

	filtered := g.Subgraph(largest)
	fmt.Printf("Post Filtering: %d nodes, %d links\n", filtered.Len(), filtered.EdgeCount())

	if err := graph.SaveFile(outputFile, filtered); err != nil {
		fmt.Printf("Error saving the file: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Saved to: %s\n", outputFile)
}
