package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/lox/pushfold/decision"
	"github.com/lox/pushfold/poker"
	"github.com/lox/pushfold/strategy"
)

const (
	decideSchemaURL = "https://pushfold.dev/schemas/decide_request.json"
	maxMessageBytes = 64 << 10
	writeWait       = 10 * time.Second
)

//go:embed schemas/decide_request.json
var schemaFiles embed.FS

func compileDecideSchema() (*jsonschema.Schema, error) {
	data, err := schemaFiles.ReadFile("schemas/decide_request.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read decide schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(decideSchemaURL, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to add decide schema: %w", err)
	}
	schema, err := compiler.Compile(decideSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile decide schema: %w", err)
	}
	return schema, nil
}

// wsRequest is one decide request frame.
type wsRequest struct {
	ID       string  `json:"id"`
	Players  int     `json:"players"`
	Depth    float64 `json:"depth"`
	Seat     string  `json:"seat"`
	Scenario string  `json:"scenario"`
	Villain  string  `json:"villain"`
	Hand     string  `json:"hand"`
}

// wsResponse carries either a decision or an error, echoing the request id.
type wsResponse struct {
	ID string `json:"id,omitempty"`
	*decision.Result
	Error string `json:"error,omitempty"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to upgrade connection")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageBytes)
	logger.Debug().Msg("Websocket client connected")

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn().Err(err).Msg("Websocket read failed")
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		resp := s.decideFrame(data)
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(resp); err != nil {
			logger.Warn().Err(err).Msg("Websocket write failed")
			return
		}
	}
}

func (s *Server) decideFrame(data []byte) wsResponse {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return wsResponse{Error: "invalid JSON payload"}
	}
	var req wsRequest
	if obj, ok := doc.(map[string]any); ok {
		if id, ok := obj["id"].(string); ok {
			req.ID = id
		}
	}
	if err := s.schema.Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return wsResponse{ID: req.ID, Error: "invalid request: " + verr.Error()}
		}
		return wsResponse{ID: req.ID, Error: err.Error()}
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return wsResponse{ID: req.ID, Error: "invalid JSON payload"}
	}

	res, err := s.decide(req)
	if err != nil {
		return wsResponse{ID: req.ID, Error: err.Error()}
	}
	return wsResponse{ID: req.ID, Result: &res}
}

func (s *Server) decide(req wsRequest) (decision.Result, error) {
	seat, err := poker.ParseSeat(req.Seat, req.Players)
	if err != nil {
		return decision.Result{}, err
	}
	var villain poker.Seat
	if req.Villain != "" {
		if villain, err = poker.ParseSeat(req.Villain, req.Players); err != nil {
			return decision.Result{}, err
		}
	}
	resolver, _ := s.resolver()
	return resolver.Resolve(decision.Request{
		Players:  req.Players,
		Depth:    decision.ClampDepth(req.Depth, s.cfg.Depth.Min, s.cfg.Depth.Max),
		Seat:     seat,
		Scenario: strategy.Scenario(req.Scenario),
		Villain:  villain,
		Hand:     req.Hand,
	})
}
