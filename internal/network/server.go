package network

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"

	"github.com/leengari/larex/internal/dataset"
	"github.com/leengari/larex/internal/session"
)

// Request is one JSON message from a client. CSV, when set, replaces the
// connection's dataset before the equation runs.
type Request struct {
	CSV      string `json:"csv,omitempty"`
	Equation string `json:"equation,omitempty"`
	Check    bool   `json:"check,omitempty"`
}

// Response mirrors the connection's dataset after the request
type Response struct {
	Output  string                `json:"output,omitempty"`
	Order   []string              `json:"order,omitempty"`
	Columns map[string][]*float64 `json:"columns,omitempty"` // null for NaN and ±Inf
	Missing []string              `json:"missing,omitempty"`
	Error   string                `json:"error,omitempty"`
}

// Start listens on port and serves each connection with its own session
func Start(port int, logger *slog.Logger) error {
	addr := fmt.Sprintf(":%d", port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind to port %d: %w", port, err)
	}
	defer listener.Close()

	logger.Info("Running on port", "port", port)
	Serve(listener, logger)
	return nil
}

// Serve accepts connections until the listener is closed
func Serve(listener net.Listener, logger *slog.Logger) {
	for {
		conn, err := listener.Accept()
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			logger.Info("listener closed", "error", err)
			return
		}
		go handleConnection(conn, logger)
	}
}

func handleConnection(conn net.Conn, logger *slog.Logger) {
	defer conn.Close()

	log := logger.With("remote", conn.RemoteAddr().String())
	sess := session.New(log)

	// Use Decoder instead of Scanner for network streams
	decoder := json.NewDecoder(conn)
	encoder := json.NewEncoder(conn)

	for {
		var req Request
		if err := decoder.Decode(&req); err != nil {
			if err == io.EOF {
				return // Connection closed gracefully
			}
			log.Error("decode error", "error", err)
			_ = encoder.Encode(&Response{Error: fmt.Sprintf("Invalid request format: %v", err)})
			return
		}

		if req.Equation == "exit" || req.Equation == "\\q" {
			return
		}

		if err := encoder.Encode(handle(sess, req)); err != nil {
			log.Error("encode error", "error", err)
			return
		}
	}
}

func handle(sess *session.Session, req Request) *Response {
	if req.CSV != "" {
		if err := sess.LoadCSV(req.CSV); err != nil {
			return &Response{Error: err.Error()}
		}
	}

	resp := &Response{}
	if req.Equation != "" {
		if req.Check {
			resp.Missing = sess.Check(req.Equation)
		} else {
			out, err := sess.Evaluate(req.Equation)
			if err != nil {
				return &Response{Error: err.Error()}
			}
			resp.Output = out
		}
	}

	if ds := sess.Dataset(); ds != nil {
		resp.Order = ds.Names()
		resp.Columns = make(map[string][]*float64, ds.Len())
		for name, col := range ds.Map() {
			resp.Columns[name] = jsonValues(col)
		}
	}
	return resp
}

// jsonValues maps values JSON cannot encode to null
func jsonValues(col []float64) []*float64 {
	out := make([]*float64, len(col))
	for i := range col {
		if dataset.IsFinite(col[i]) {
			v := col[i]
			out[i] = &v
		}
	}
	return out
}
