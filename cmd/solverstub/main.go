// solverstub is a development stand-in for the remote inference service. It
// implements the wire contract only: it validates the submitted image and
// answers the standard envelope with a canned acknowledgment, so the app can
// be exercised end to end without a real model behind it.
package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"strings"

	inet "InkCalc/internal/net"
	"InkCalc/internal/solve"
	"InkCalc/internal/state"
)

type response struct {
	Message string              `json:"message"`
	Data    []state.ResultEntry `json:"data"`
	Status  string              `json:"status"`
}

func main() {
	port := flag.Int("port", 8900, "Port to listen on")
	advertise := flag.Bool("advertise", true, "Advertise this solver over mDNS")
	flag.Parse()

	if *advertise {
		server, err := inet.Advertise(*port, "InkCalc solver stub")
		if err != nil {
			log.Printf("[stub] mDNS advertise failed: %v", err)
		} else {
			defer server.Shutdown()
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /", handleRoot)
	mux.HandleFunc("POST /calculate", handleCalculate)
	mux.HandleFunc("POST /calculate/", handleCalculate)

	if ip, err := inet.OutgoingIP(); err == nil {
		log.Printf("[stub] reachable at http://%s:%d/calculate", ip, *port)
	}
	log.Printf("[stub] listening on :%d", *port)
	if err := http.ListenAndServe(fmt.Sprintf(":%d", *port), mux); err != nil {
		log.Fatalf("[stub] server failed: %v", err)
	}
}

func handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Server is running"})
}

func handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req solve.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusOK, response{
			Message: "Error processing image: " + err.Error(),
			Data:    []state.ResultEntry{},
			Status:  "error",
		})
		return
	}

	if req.Image == "" {
		writeJSON(w, http.StatusOK, response{
			Message: "No image data provided",
			Data:    []state.ResultEntry{},
			Status:  "error",
		})
		return
	}

	img, err := decodeImage(req.Image)
	if err != nil {
		writeJSON(w, http.StatusOK, response{
			Message: "Invalid base64 image data",
			Data:    []state.ResultEntry{},
			Status:  "error",
		})
		return
	}

	subject := req.Subject
	if subject == "" {
		subject = state.DefaultSubject
	}
	log.Printf("[stub] processing %s sketch (%d vars)", subject, len(req.DictOfVars))

	bounds := img.Bounds()
	writeJSON(w, http.StatusOK, response{
		Message: "Image processed successfully",
		Data: []state.ResultEntry{{
			Expr:   fmt.Sprintf("%dx%d %s sketch", bounds.Dx(), bounds.Dy(), subject),
			Result: "received",
		}},
		Status: "success",
	})
}

// decodeImage accepts both data-URI-embedded and plain base64 PNG payloads.
func decodeImage(data string) (image.Image, error) {
	if _, after, found := strings.Cut(data, ","); found {
		data = after
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, err
	}
	return png.Decode(bytes.NewReader(raw))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[stub] write response failed: %v", err)
	}
}
