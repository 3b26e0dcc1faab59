package net

import (
	"log"
	"net"
)

// OutgoingIP finds the preferred local address, used by the stub to log a
// URL other machines on the LAN can reach.
func OutgoingIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		// No internet; fall back to scanning local interfaces.
		return localIPFallback()
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)
	return localAddr.IP.String(), nil
}

func localIPFallback() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", err
	}
	for _, address := range addrs {
		if ipnet, ok := address.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ipnet.IP.To4() != nil {
				return ipnet.IP.String(), nil
			}
		}
	}
	log.Println("[net] no suitable local IP found, falling back to loopback")
	return "127.0.0.1", nil
}
