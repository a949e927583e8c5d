package http

import (
	"encoding/json"
	"log"
	"net/http"

	"roit-learning-service/internal/app"
	"roit-learning-service/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

// WSHandler streams a live test session: every clock tick and state change is
// pushed as a "state" message, and the final summary as "result".
type WSHandler struct {
	service  *app.TestService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.TestService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// ServeWS upgrades the request and wires the socket into the session's use cases.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	user := mustUser(r)
	id := chi.URLParam(r, "id")
	session, err := h.service.Session(user, id)
	if err != nil {
		writeError(w, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates, cancel := session.Subscribe()
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// single writer; gorilla connections do not allow concurrent writes
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case view, ok := <-updates:
				if !ok {
					return
				}
				out := []outboundMessage[any]{{Type: "state", Payload: view}}
				if view.State == domain.StateTerminated && view.Result != nil {
					out = append(out, outboundMessage[any]{Type: "result", Payload: resultFromView(view)})
				}
				for _, msg := range out {
					select {
					case send <- msg:
					case <-closeSignals:
						return
					}
				}
				if view.State == domain.StateTerminated {
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if msg, ok := h.handle(r, user, id, inbound); ok {
			select {
			case send <- msg:
			case <-writerDone:
			}
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

// handle applies one client message. State changes reach the client through
// the subscription, so only errors produce a direct reply.
func (h *WSHandler) handle(r *http.Request, user domain.User, id string, inbound inboundMessage) (outboundMessage[any], bool) {
	var err error
	switch inbound.Type {
	case "answer":
		var payload answerRequest
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errorMessage("invalid answer payload"), true
		}
		_, err = h.service.SelectAnswer(user, id, payload.Option)
	case "navigate":
		var payload navigateRequest
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errorMessage("invalid navigate payload"), true
		}
		_, err = h.service.Navigate(user, id, payload.Action, payload.Index)
	case "submit":
		ctx, cancel := saveContext(r)
		_, _, err = h.service.Submit(ctx, user, id)
		cancel()
	default:
		return errorMessage("unsupported message type"), true
	}
	if err != nil {
		return errorMessage(err.Error()), true
	}
	return outboundMessage[any]{}, false
}

func errorMessage(text string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorBody{Error: "error", Message: text}}
}

func resultFromView(view domain.SessionView) submitResponse {
	return submitResponse{Result: view.Result, SaveError: view.SaveError, Session: view}
}
