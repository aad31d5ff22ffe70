package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/fasthttp/websocket"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/backsoul/quizform/pkg/models"
)

const broadcastBacklog = 64

// Hub difunde los resultados guardados a los clientes conectados a /ws/results
type Hub struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	done       chan struct{}
	mutex      sync.RWMutex
	logger     *zap.Logger
	upgrader   websocket.FastHTTPUpgrader
}

type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan []byte, broadcastBacklog),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		logger:     logger,
		upgrader: websocket.FastHTTPUpgrader{
			// mismo origen: el feed lo consume una pantalla del propio servicio
			CheckOrigin: func(ctx *fasthttp.RequestCtx) bool {
				origin := ctx.Request.Header.Peek("Origin")
				return len(origin) == 0 || string(origin) == "http://"+string(ctx.Host()) || string(origin) == "https://"+string(ctx.Host())
			},
		},
	}
}

// Run atiende altas, bajas y difusiones hasta que ctx termina
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for client := range h.clients {
				client.Close()
				delete(h.clients, client)
			}
			h.mutex.Unlock()
			return

		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			h.logger.Debug("cliente WebSocket conectado", zap.Int("total", total))

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Close()
			}
			total := len(h.clients)
			h.mutex.Unlock()
			h.logger.Debug("cliente WebSocket desconectado", zap.Int("total", total))

		case message := <-h.broadcast:
			h.mutex.Lock()
			for client := range h.clients {
				if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
					h.logger.Warn("error enviando mensaje WebSocket", zap.Error(err))
					delete(h.clients, client)
					client.Close()
				}
			}
			h.mutex.Unlock()
		}
	}
}

// ClientCount número de clientes conectados
func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// PublishResult encola el resumen; si la cola está llena se descarta para no frenar el envío
func (h *Hub) PublishResult(summary models.ResultSummary) {
	data, err := encode("resultSaved", summary)
	if err != nil {
		h.logger.Error("error serializando mensaje", zap.Error(err))
		return
	}

	select {
	case h.broadcast <- data:
	default:
		h.logger.Warn("cola del feed llena, resultado no difundido", zap.String("file", summary.File))
	}
}

// send entrega conn al bucle de Run salvo que el hub ya se haya detenido
func (h *Hub) send(ch chan<- *websocket.Conn, conn *websocket.Conn) bool {
	select {
	case ch <- conn:
		return true
	case <-h.done:
		return false
	}
}

func encode(msgType string, data interface{}) ([]byte, error) {
	return json.Marshal(Message{Type: msgType, Data: data})
}

// ServeResults maneja GET /ws/results
func (h *Hub) ServeResults(ctx *fasthttp.RequestCtx) {
	err := h.upgrader.Upgrade(ctx, func(ws *websocket.Conn) {
		hello, _ := encode("connected", map[string]string{"feed": "results"})
		if err := ws.WriteMessage(websocket.TextMessage, hello); err != nil {
			return
		}

		if !h.send(h.register, ws) {
			return
		}
		defer h.send(h.unregister, ws)

		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	})
	if err != nil {
		h.logger.Warn("error upgrading to WebSocket", zap.Error(err))
	}
}
