package sim

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/voxtap/voxtap/internal/appliance"
	"github.com/voxtap/voxtap/internal/configtree"
	"github.com/voxtap/voxtap/internal/discovery"
	"github.com/voxtap/voxtap/internal/logging"
	"github.com/voxtap/voxtap/internal/routes"
)

// pingInterval is how often the SSE handler writes a comment line to keep
// idle connections from being reaped by intermediaries.
const pingInterval = 15 * time.Second

// Options configures a simulator instance.
type Options struct {
	// InstanceName is the mDNS instance name when advertising.
	InstanceName string

	// Devices is the capture-device enumeration the simulator reports.
	// Defaults to a small fixed list.
	Devices []string

	// Seed is the initial configuration. Nil means DefaultConfig.
	Seed configtree.Tree

	// Advertise publishes the simulator over mDNS.
	Advertise bool
}

// Server is the simulated appliance. It serves the full control surface
// and keeps all state in memory.
type Server struct {
	store   *Store
	hub     *Hub
	engine  *Engine
	devices []string
	opts    Options
	router  *mux.Router
}

// NewServer builds a simulator with stopped engine and seeded config.
func NewServer(opts Options) *Server {
	if opts.InstanceName == "" {
		opts.InstanceName = "voxtap-sim"
	}
	if len(opts.Devices) == 0 {
		opts.Devices = []string{
			"default",
			"USB Audio CODEC",
			"Loopback Capture",
		}
	}

	hub := NewHub()
	s := &Server{
		store:   NewStore(opts.Seed),
		hub:     hub,
		engine:  NewEngine(hub),
		devices: opts.Devices,
		opts:    opts,
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc(routes.Config, s.handleGetConfig).Methods(http.MethodGet)
	r.HandleFunc(routes.Config, s.handlePatchConfig).Methods(http.MethodPatch)
	r.HandleFunc(routes.ConfigSave, s.handleSave).Methods(http.MethodPost)
	r.HandleFunc(routes.Devices, s.handleDevices).Methods(http.MethodGet)
	r.HandleFunc(routes.State, s.handleState).Methods(http.MethodGet)
	r.HandleFunc(routes.EngineStart, s.handleEngineStart).Methods(http.MethodPost)
	r.HandleFunc(routes.EngineStop, s.handleEngineStop).Methods(http.MethodPost)
	r.HandleFunc(routes.Events, s.handleEvents).Methods(http.MethodGet)
	r.Use(s.logRequests)
	return r
}

// Handler returns the HTTP handler serving the control surface.
func (s *Server) Handler() http.Handler {
	return s.router
}

// StartEngine starts the simulated capture engine, as if an operator had
// hit the start endpoint.
func (s *Server) StartEngine() {
	s.engine.Start()
}

// Run serves the control surface on addr until ctx is cancelled, then
// shuts down gracefully. When advertising is enabled the simulator also
// registers itself over mDNS for the lifetime of the listener.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	if s.opts.Advertise {
		port := portOf(addr)
		mdns, err := zeroconf.Register(
			s.opts.InstanceName,
			discovery.ServiceType,
			"local.",
			port,
			[]string{"path=/"},
			nil,
		)
		if err != nil {
			logging.Warn("mDNS registration failed", zap.Error(err))
		} else {
			defer mdns.Shutdown()
			logging.Info("advertising over mDNS",
				zap.String("instance", s.opts.InstanceName),
				zap.Int("port", port))
		}
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("simulator listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Get())
}

func (s *Server) handlePatchConfig(w http.ResponseWriter, r *http.Request) {
	var patch configtree.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, fmt.Sprintf("malformed patch: %v", err), http.StatusBadRequest)
		return
	}

	merged := s.store.ApplyPatch(patch)
	s.engine.ApplyConfig(merged)
	s.hub.Emit("config", merged)
	writeJSON(w, http.StatusOK, merged)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	s.store.Save()
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (s *Server) handleDevices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, appliance.DeviceList{
		Devices: s.devices,
		Current: s.currentDevice(),
	})
}

// currentDevice resolves the configured device index back to its name. An
// out-of-range index reads as the first device.
func (s *Server) currentDevice() string {
	v, _ := s.store.Get().Field(configtree.SectionAudio, "input_device")
	idx, ok := asInt(v)
	if !ok || idx < 0 || idx >= len(s.devices) {
		idx = 0
	}
	return s.devices[idx]
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Snapshot())
}

func (s *Server) handleEngineStart(w http.ResponseWriter, r *http.Request) {
	snap := s.engine.Start()
	writeJSON(w, http.StatusOK, map[string]appliance.LiveState{"state": snap})
}

func (s *Server) handleEngineStop(w http.ResponseWriter, r *http.Request) {
	snap := s.engine.Stop()
	writeJSON(w, http.StatusOK, map[string]appliance.LiveState{"state": snap})
}

// handleEvents serves the SSE push channel. Every subscriber first gets a
// full state snapshot, then live events as the hub publishes them, with
// periodic comment pings in between.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := s.hub.Subscribe()
	defer s.hub.Unsubscribe(ch)

	snap, err := json.Marshal(s.engine.Snapshot())
	if err == nil {
		fmt.Fprintf(w, "event: state\ndata: %s\n\n", snap)
		flusher.Flush()
	}

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case frame := <-ch:
			if _, err := fmt.Fprint(w, frame); err != nil {
				return
			}
			flusher.Flush()
		case <-ping.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logging.LogRequest(r.Method, r.URL.Path, rec.status)
	})
}

// statusRecorder captures the response status for the request log. Flush
// is forwarded so the SSE handler still streams through the middleware.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warn("response encode failed", zap.Error(err))
	}
}

// portOf extracts the TCP port from a listen address, defaulting to the
// standard appliance port when the address has none.
func portOf(addr string) int {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return discovery.DefaultPort
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return discovery.DefaultPort
	}
	return port
}
