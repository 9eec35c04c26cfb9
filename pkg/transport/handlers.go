package transport

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"

	"github.com/remotegamepad/remotegamepad-go/pkg/device"
	"github.com/remotegamepad/remotegamepad-go/pkg/input"
	"github.com/remotegamepad/remotegamepad-go/pkg/service"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /connect", s.handleConnect)
	mux.HandleFunc("POST /gamepad_data", s.handleGamepadData)
	mux.HandleFunc("POST /profile", s.handleProfile)
	mux.HandleFunc("POST /disconnect", s.handleDisconnect)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /clients", s.handleClients)
	mux.HandleFunc("GET /devices", s.handleDevices)
	mux.HandleFunc("GET /ws", s.handleDashboardWS)
	mux.HandleFunc("GET /ws/{client_id}", s.handleClientWS)

	if s.config.StaticDir != "" {
		mux.Handle("GET /", http.FileServer(http.Dir(s.config.StaticDir)))
	}

	return withCORS(mux)
}

// withCORS allows the browser client to be served from anywhere.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	var req ConnectRequest
	if err := s.decode(w, r, &req, true); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}
	if req.UserAgent == "" {
		req.UserAgent = r.UserAgent()
	}

	adm, err := s.host.Register(r.Context(), service.Registration{
		Origin:      remoteHost(r),
		UserAgent:   req.UserAgent,
		ProfileName: req.ProfileName,
		Protocol:    req.Protocol,
	})
	if err != nil {
		status, code := classify(err)
		s.logger.Warn("connect refused", "origin", remoteHost(r), "error", err)
		writeJSON(w, status, ErrorResponse{Error: true, Code: code, Message: connectMessage(code, err)})
		return
	}

	writeJSON(w, http.StatusOK, ConnectResponse{
		Success:     true,
		ClientID:    adm.ClientID,
		GamepadID:   int(adm.DeviceID),
		GamepadName: adm.DeviceName,
		Message:     "Connected successfully",
	})
}

func connectMessage(code string, err error) string {
	switch code {
	case "capacity":
		return "Cannot connect - server full"
	case "backend":
		return "Cannot create gamepad"
	default:
		return err.Error()
	}
}

func (s *Server) handleGamepadData(w http.ResponseWriter, r *http.Request) {
	var frame input.Frame
	if err := s.decode(w, r, &frame, false); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}
	if frame.ClientID == "" {
		writeError(w, http.StatusBadRequest, "invalid_input", "client_id required")
		return
	}

	if err := s.host.SubmitFrame(r.Context(), frame.ClientID, frame); err != nil {
		status, code := classify(err)
		if code == "not_found" {
			writeError(w, status, code, "gamepad not found for client")
			return
		}
		writeError(w, status, code, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if err := s.decode(w, r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}
	if req.ClientID == "" {
		writeError(w, http.StatusBadRequest, "invalid_input", "client_id required")
		return
	}
	if err := s.host.UpdateProfile(r.Context(), req.ClientID, req.ProfileName); err != nil {
		status, code := classify(err)
		writeError(w, status, code, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	var req DisconnectRequest
	if err := s.decode(w, r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}
	if req.ClientID == "" {
		writeError(w, http.StatusBadRequest, "invalid_input", "client_id required")
		return
	}
	if err := s.host.Deregister(r.Context(), req.ClientID); err != nil {
		status, code := classify(err)
		writeError(w, status, code, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	st := s.host.Status()

	status := "stopped"
	if st.State == service.StateRunning {
		status = "running"
	}
	writeJSON(w, http.StatusOK, StatusResponse{
		Status:       status,
		Uptime:       int64(st.Uptime.Seconds()),
		ClientsCount: st.Clients.Total,
		Clients:      st.Clients,
		ServerInfo: ServerInfo{
			Address:        s.config.Address,
			MaxClients:     st.MaxClients,
			GamepadsActive: st.Devices,
			MaxGamepads:    st.MaxDevices,
			Protocol:       st.Protocol,
			Gamepad:        gamepadInfo(st.Gamepad),
		},
	})
}

func gamepadInfo(caps device.Capabilities) GamepadInfo {
	info := GamepadInfo{
		VendorID:  caps.VendorID,
		ProductID: caps.ProductID,
		Buttons:   make([]string, 0, len(caps.Buttons)),
		Axes:      make([]string, 0, len(caps.Axes)),
		DPad:      caps.DPad,
	}
	for _, b := range caps.Buttons {
		info.Buttons = append(info.Buttons, b.String())
	}
	for _, a := range caps.Axes {
		info.Axes = append(info.Axes, a.Axis.String())
	}
	return info
}

func (s *Server) handleClients(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.host.Clients())
}

func (s *Server) handleDevices(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.host.Devices())
}

// decode reads a JSON body into v. An empty body is accepted when
// optional is set.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any, optional bool) error {
	body := http.MaxBytesReader(w, r.Body, s.config.MaxMessageSize)
	err := json.NewDecoder(body).Decode(v)
	if errors.Is(err, io.EOF) && optional {
		return nil
	}
	return err
}

// classify maps a host error to an HTTP status and an error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrIncompatibleVersion):
		return http.StatusUpgradeRequired, "incompatible_version"
	case service.IsCapacity(err):
		return http.StatusServiceUnavailable, "capacity"
	case service.IsNotFound(err):
		return http.StatusNotFound, "not_found"
	case service.IsInvalidInput(err):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "not_running"
	case service.IsBackend(err):
		return http.StatusInternalServerError, "backend"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: true, Code: code, Message: message})
}
