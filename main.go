package main

import (
	"flag"
	"log"
	"os"
	"slices"
	"time"

	inet "InkCalc/internal/net"
	"InkCalc/internal/state"
	"InkCalc/internal/ui"
)

// fallbackEndpoint is the hardcoded last-resort solver, tried only after the
// configured endpoint and any LAN-discovered ones have failed.
const fallbackEndpoint = "https://inkcalc-be.onrender.com/calculate"

const defaultEndpoint = "http://localhost:8900/calculate"

func main() {
	endpoint := flag.String("endpoint", "", "Primary solver endpoint (or set INKCALC_ENDPOINT)")
	subject := flag.String("subject", "", "Initial subject tag (or set INKCALC_SUBJECT)")
	discover := flag.Bool("discover", true, "Browse the LAN for solver endpoints at startup")
	preserve := flag.Bool("preserve-resize", false, "Preserve canvas content across window resizes")
	flag.Parse()

	primary := *endpoint
	if primary == "" {
		primary = os.Getenv("INKCALC_ENDPOINT")
	}
	if primary == "" {
		primary = defaultEndpoint
	}

	subj := *subject
	if subj == "" {
		subj = os.Getenv("INKCALC_SUBJECT")
	}
	if subj == "" || !slices.Contains(state.Subjects, subj) {
		subj = state.DefaultSubject
	}

	endpoints := []string{primary}
	if *discover {
		for _, found := range inet.Discover(2 * time.Second) {
			if !slices.Contains(endpoints, found) {
				endpoints = append(endpoints, found)
			}
		}
	}
	if !slices.Contains(endpoints, fallbackEndpoint) {
		endpoints = append(endpoints, fallbackEndpoint)
	}
	log.Printf("[app] solver endpoints: %v", endpoints)

	ui.RunApp(ui.Config{
		Endpoints:        endpoints,
		Subject:          subj,
		PreserveOnResize: *preserve,
	})
}
