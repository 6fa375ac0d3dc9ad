package ws

import (
	"sync"

	"github.com/gorilla/websocket"
)

// SafeWriter serializes writes to a websocket connection. gorilla/websocket
// allows one concurrent writer and one concurrent reader.
type SafeWriter struct {
	conn  *websocket.Conn
	mutex sync.Mutex
}

func NewSafeWriter(conn *websocket.Conn) *SafeWriter {
	return &SafeWriter{conn: conn}
}

func (w *SafeWriter) WriteJSON(v any) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.conn.WriteJSON(v)
}

func (w *SafeWriter) WriteMessage(messageType int, data []byte) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.conn.WriteMessage(messageType, data)
}

func (w *SafeWriter) Close() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.conn.Close()
}

// ReadMessage is not guarded; only the connection's read loop may call it.
func (w *SafeWriter) ReadMessage() (int, []byte, error) {
	return w.conn.ReadMessage()
}
