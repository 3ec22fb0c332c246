package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"ridepool/internal/config"
	"ridepool/internal/sim"
)

var CONFIG_FILE string = "config.json"

func main() {
	riders := flag.Int("riders", 2, "riders per pool request")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "random seed")
	flag.Parse()

	// load constants from config.json
	if err := config.Load(CONFIG_FILE); err != nil {
		log.Fatal(err)
	}
	cfg := config.Global.Simulation

	world, err := sim.NewWorld(config.Global.Server.MapFile, cfg.ServerURL, *seed)
	if err != nil {
		log.Fatal(err)
	}

	if err := world.Client.Reset(); err != nil {
		log.Fatalf("server not ready: %v", err)
	}

	fmt.Printf("Placing %d drivers...\n", cfg.NumDrivers)
	if err := world.SpawnDrivers(cfg.NumDrivers); err != nil {
		log.Fatal(err)
	}

	trips, err := world.Trips(cfg.NumRequests, *riders)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Sending %d pool requests with %d workers...\n", len(trips), cfg.Concurrency)
	stats := world.RunPool(trips, cfg.Concurrency)

	fmt.Printf("Simulation Finished! %s\n", stats)
}
