package replicate

import (
	"bufio"
	"io"
	"strings"
)

// event is a single parsed SSE frame.
type event struct {
	name string
	data string
}

// readEvents scans an SSE stream and invokes fn for every complete frame.
// Comment lines (": ping" heartbeats) are ignored. Returns when the stream
// ends or errors; the transport error, if any, is returned for the caller's
// reconnect logic.
func readEvents(r io.Reader, fn func(ev event)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var name string
	var data strings.Builder

	flush := func() {
		if data.Len() == 0 && name == "" {
			return
		}
		ev := event{name: name, data: data.String()}
		if ev.name == "" {
			ev.name = "message"
		}
		name = ""
		data.Reset()
		fn(ev)
	}

	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, ":"):
			// comment / heartbeat
		case strings.HasPrefix(line, "event:"):
			name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}
	return scanner.Err()
}
