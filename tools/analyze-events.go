//go:build ignore

package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Standalone analyzer for captured telemetry streams. Feed it a raw SSE
// capture (e.g. `curl -sN http://appliance:8087/api/events > capture.txt`)
// and it reports event counts, malformed payloads, and level statistics.

// liveState matches the appliance's telemetry snapshot shape.
type liveState struct {
	Running      bool     `json:"running"`
	StatusText   string   `json:"status_text"`
	LedRX        bool     `json:"led_rx"`
	LedRec       bool     `json:"led_rec"`
	LevelPct     int      `json:"level_pct"`
	LevelDB      *float64 `json:"level_db"`
	SqlThreshold int      `json:"sql_threshold"`
	UpdatedTS    float64  `json:"updated_ts"`
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: analyze-events <capture-file>")
		fmt.Println("Example: analyze-events capture.txt")
		os.Exit(1)
	}

	f, err := os.Open(os.Args[1])
	if err != nil {
		fmt.Printf("Error opening file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	counts := make(map[string]int)
	var pings, malformed, levelSum, levelMax, rxTicks, snapshots int

	name, data := "", ""
	flush := func() {
		if name == "" && data == "" {
			return
		}
		if name == "" {
			name = "message"
		}
		counts[name]++
		if name == "state" {
			var snap liveState
			if err := json.Unmarshal([]byte(data), &snap); err != nil {
				malformed++
			} else {
				snapshots++
				levelSum += snap.LevelPct
				if snap.LevelPct > levelMax {
					levelMax = snap.LevelPct
				}
				if snap.LedRX {
					rxTicks++
				}
			}
		}
		name, data = "", ""
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, ":"):
			pings++
		case strings.HasPrefix(line, "event:"):
			name = strings.TrimSpace(line[len("event:"):])
		case strings.HasPrefix(line, "data:"):
			if data != "" {
				data += "\n"
			}
			data += strings.TrimSpace(line[len("data:"):])
		}
	}
	flush()
	if err := scanner.Err(); err != nil {
		fmt.Printf("Error reading capture: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("=== Event Summary ===")
	names := make([]string, 0, len(counts))
	for n := range counts {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Printf("  %-10s %d\n", n, counts[n])
	}
	fmt.Printf("  %-10s %d\n", "pings", pings)
	if malformed > 0 {
		fmt.Printf("  %-10s %d\n", "malformed", malformed)
	}

	if snapshots > 0 {
		fmt.Println("\n=== Telemetry ===")
		fmt.Printf("  snapshots:  %d\n", snapshots)
		fmt.Printf("  avg level:  %d%%\n", levelSum/snapshots)
		fmt.Printf("  max level:  %d%%\n", levelMax)
		fmt.Printf("  rx open:    %d (%.1f%%)\n", rxTicks, 100*float64(rxTicks)/float64(snapshots))
	}
}
