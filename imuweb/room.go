package imuweb

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

type Room struct {
	// forward is a channel that holds incoming messages
	// that should be forwarded to the other clients.
	forward chan []byte
	// join is a channel for clients wishing to join the room.
	join chan *client
	// leave is a channel for clients wishing to leave the room.
	leave chan *client
	// clients holds all current clients in this room.
	clients map[*client]bool
	// done is closed when Run returns.
	done chan struct{}
}

// NewRoom makes a new room that is ready to go.
func NewRoom() *Room {
	return &Room{
		forward: make(chan []byte),
		join:    make(chan *client),
		leave:   make(chan *client),
		clients: make(map[*client]bool),
		done:    make(chan struct{}),
	}
}

// Run serves joins, leaves and broadcasts until ctx is done.
func (r *Room) Run(ctx context.Context) {
	defer close(r.done)
	defer func() {
		for client := range r.clients {
			delete(r.clients, client)
			close(client.send)
		}
	}()
	for {
		select {
		case client := <-r.join:
			r.clients[client] = true
			log.Debugln("IMUWeb: New client joined")
		case client := <-r.leave:
			if r.clients[client] {
				delete(r.clients, client)
				close(client.send)
			}
			log.Debugln("IMUWeb: Client left")
		case msg := <-r.forward:
			// forward message to all clients
			for client := range r.clients {
				select {
				case client.send <- msg:
				default:
					log.Debugln("IMUWeb: client too slow, dropped a message")
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

// Broadcast sends msg to every connected client. It returns false once the
// room has stopped.
func (r *Room) Broadcast(msg []byte) bool {
	select {
	case r.forward <- msg:
		return true
	case <-r.done:
		return false
	}
}

const (
	socketBufferSize  = 1024
	messageBufferSize = 10
)

var upgrader = &websocket.Upgrader{ReadBufferSize: socketBufferSize, WriteBufferSize: socketBufferSize}

func (r *Room) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	socket, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		log.Warnln("IMUWeb: ServeHTTP:", err)
		return
	}
	client := &client{
		socket: socket,
		send:   make(chan []byte, messageBufferSize),
		room:   r,
	}
	select {
	case r.join <- client:
	case <-r.done:
		socket.Close()
		return
	}
	defer func() {
		select {
		case r.leave <- client:
		case <-r.done:
		}
	}()
	go client.write()
	client.read()
}
