package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"ridepool/internal/config"
	"ridepool/internal/server"
)

func main() {
	// get constants from config.json
	if err := config.Load("config.json"); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Hello ridepool!, map file is: %s\n", config.Global.Server.MapFile)
	fmt.Printf("The num of cores is: %d\n", runtime.NumCPU())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, config.Global); err != nil {
		log.Fatal(err)
	}
}
