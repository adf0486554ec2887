package realtime

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var (
	feedClients = make(map[*websocket.Conn]bool) // Connected solve feed clients
	broadcast   = make(chan SolveUpdate, 64)     // Broadcast channel for solve updates
	mutex       sync.Mutex                       // Mutex to protect feedClients map
)

// SolveUpdate announces a correct submission to feed subscribers. It carries
// only what the public leaderboard already exposes, never the flag.
type SolveUpdate struct {
	ChallengeID    string    `json:"challenge_id"`
	ChallengeTitle string    `json:"challenge_title"`
	UserID         string    `json:"user_id"`
	Username       string    `json:"username"`
	Points         int       `json:"points"`
	SolvedAt       time.Time `json:"solved_at"`
}

// RegisterClient adds a WebSocket client to the solve feed
func RegisterClient(conn *websocket.Conn) {
	mutex.Lock()
	feedClients[conn] = true
	mutex.Unlock()
}

// UnregisterClient removes a WebSocket client from the solve feed
func UnregisterClient(conn *websocket.Conn) {
	mutex.Lock()
	delete(feedClients, conn)
	mutex.Unlock()
}

// BroadcastSolve sends a solve update to all connected feed clients
func BroadcastSolve(update SolveUpdate) {
	select {
	case broadcast <- update:
	default:
		log.Println("Solve feed broadcast channel full, dropping update")
	}
}

func handleBroadcast() {
	for {
		update := <-broadcast
		mutex.Lock()
		for client := range feedClients {
			if err := client.WriteJSON(update); err != nil {
				log.Printf("WebSocket write error: %v", err)
				client.Close()
				delete(feedClients, client)
			}
		}
		mutex.Unlock()
	}
}

func init() {
	go handleBroadcast()
}
