package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	flag "github.com/spf13/pflag"

	"github.com/wfunc/galaxyserver/game"
	"github.com/wfunc/galaxyserver/network"
)

type client struct {
	httpBase string
	playerID string
	secret   string

	mutex sync.Mutex
	drawn *game.TileContent
}

func (c *client) actionURL() string {
	q := url.Values{}
	q.Set(network.QueryPlayerID, c.playerID)
	q.Set(network.QueryPlayerSecret, c.secret)
	return c.httpBase + network.RouteAction + "?" + q.Encode()
}

// submit posts one event and returns the response body.
func (c *client) submit(ev game.Event) ([]byte, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(c.actionURL(), network.ContentTypeJSON, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return body, nil
}

func parseCoordinate(args []string) (game.Coordinate, error) {
	if len(args) != 2 {
		return game.Coordinate{}, fmt.Errorf("expected x and y")
	}
	x, err := strconv.Atoi(args[0])
	if err != nil {
		return game.Coordinate{}, err
	}
	y, err := strconv.Atoi(args[1])
	if err != nil {
		return game.Coordinate{}, err
	}
	return game.Coordinate{X: x, Y: y}, nil
}

func (c *client) handleCommand(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "explore":
		coord, err := parseCoordinate(fields[1:])
		if err != nil {
			return err
		}
		body, err := c.submit(game.PlayerExploreAction{PlayerID: c.playerID, Coordinate: coord})
		if err != nil {
			return err
		}
		var tile game.TileContent
		if err := json.Unmarshal(body, &tile); err != nil {
			return err
		}
		c.mutex.Lock()
		c.drawn = &tile
		c.mutex.Unlock()
		log.Printf("-> drew %s (%s sector)", tile.ID, tile.Sector)
	case "place":
		coord, err := parseCoordinate(fields[1:])
		if err != nil {
			return err
		}
		c.mutex.Lock()
		tile := c.drawn
		c.mutex.Unlock()
		if tile == nil {
			return fmt.Errorf("explore first")
		}
		if _, err := c.submit(game.PlayerPlaceTile{PlayerID: c.playerID, Coordinate: coord, Tile: *tile, Influence: true}); err != nil {
			return err
		}
		c.mutex.Lock()
		c.drawn = nil
		c.mutex.Unlock()
		log.Printf("-> placed %s at %s", tile.ID, coord)
	case "fold":
		c.mutex.Lock()
		tile := c.drawn
		c.drawn = nil
		c.mutex.Unlock()
		if _, err := c.submit(game.PlayerFoldTile{PlayerID: c.playerID, Tile: tile}); err != nil {
			return err
		}
		log.Println("-> folded")
	default:
		return fmt.Errorf("unknown command %q", fields[0])
	}
	return nil
}

type snapshotSummary struct {
	Events             []json.RawMessage `json:"events"`
	CurrentPlayerIndex int               `json:"currentPlayerIndex"`
	Board              struct {
		Players []struct {
			ID string `json:"id"`
		} `json:"players"`
	} `json:"board"`
}

func main() {
	addr := flag.StringP("addr", "a", "localhost:5000", "server host:port")
	playerID := flag.StringP("player", "p", "", "player id (random when empty)")
	secret := flag.StringP("secret", "s", "", "player secret (random when empty)")
	flag.Parse()

	if *playerID == "" {
		*playerID = "player-" + uuid.NewString()[:8]
	}
	if *secret == "" {
		*secret = uuid.NewString()
	}
	c := &client{httpBase: "http://" + *addr, playerID: *playerID, secret: *secret}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	q := url.Values{}
	q.Set(network.QueryPlayerID, c.playerID)
	q.Set(network.QueryPlayerSecret, c.secret)
	u := url.URL{Scheme: "ws", Host: *addr, Path: network.RouteWebSocket, RawQuery: q.Encode()}
	log.Printf("Connecting to %s as %s", u.Host, c.playerID)

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	done := make(chan struct{})

	// Read loop
	go func() {
		defer close(done)
		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			var s snapshotSummary
			if err := json.Unmarshal(message, &s); err != nil {
				log.Printf("Received invalid snapshot: %v", err)
				continue
			}
			current := ""
			if n := len(s.Board.Players); n > 0 {
				current = s.Board.Players[s.CurrentPlayerIndex%n].ID
			}
			log.Printf("<- snapshot: %d events, %s to move", len(s.Events), current)
		}
	}()

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	log.Println("Commands: explore X Y | place X Y | fold")

	for {
		select {
		case <-done:
			return
		case line := <-lines:
			if err := c.handleCommand(line); err != nil {
				log.Println("Error:", err)
			}
		case <-interrupt:
			log.Println("Interrupt received, closing connection.")
			err := conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Println("Write close error:", err)
			}
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		}
	}
}
