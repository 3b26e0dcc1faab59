// Package net handles LAN discovery of solver endpoints over mDNS.
package net

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hashicorp/mdns"
)

const serviceType = "_inkcalc._tcp"

// Advertise announces a solver on the local network. Used by the dev stub so
// the app can find it without configuration.
func Advertise(port int, info string) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}

	service, err := mdns.NewMDNSService(host, serviceType, "", "", port, nil, []string{info})
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	return server, nil
}

// Discover browses for LAN solvers and returns their /calculate URLs, in
// discovery order. The browse window is short; this runs once at startup.
func Discover(timeout time.Duration) []string {
	entries := make(chan *mdns.ServiceEntry, 8)
	var found []string
	done := make(chan struct{})

	go func() {
		defer close(done)
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			url := fmt.Sprintf("http://%s:%d/calculate", e.AddrV4.String(), e.Port)
			log.Printf("[net] discovered LAN solver %s (%s)", url, e.Name)
			found = append(found, url)
		}
	}()

	params := mdns.DefaultParams(serviceType)
	params.Entries = entries
	params.Timeout = timeout
	if err := mdns.Query(params); err != nil {
		log.Printf("[net] mDNS browse failed: %v", err)
	}
	close(entries)
	<-done
	return found
}
