package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"objdetect/internal/app"
)

const version = "1.0.0"

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [--version]\n\n", os.Args[0])
		fmt.Fprintln(flag.CommandLine.Output(), "Object detection HTTP server. Settings are read from the environment and an optional .env file.")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("objdetect server %s\n", version)
		return
	}

	application, err := app.NewApp()
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
