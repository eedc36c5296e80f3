// Command client is a line-oriented development client. It speaks the
// JSON websocket protocol and maps short stdin commands onto it:
//
//	m <selection_id> [menu_id]   menu selection
//	k <key>                      keybind press
//	e <value> [id]               editbox reply
//	c <text...>                  chat
//	p                            ping
package main

import (
	"bufio"
	"flag"
	"log"
	"net/url"
	"os"
	"strings"

	"github.com/gorilla/websocket"
)

type clientMessage struct {
	Type        string `json:"type"`
	Username    string `json:"username,omitempty"`
	Password    string `json:"password,omitempty"`
	MenuID      string `json:"menu_id,omitempty"`
	SelectionID string `json:"selection_id,omitempty"`
	Key         string `json:"key,omitempty"`
	ID          string `json:"id,omitempty"`
	Value       string `json:"value,omitempty"`
	Text        string `json:"text,omitempty"`
}

func main() {
	addr := flag.String("addr", "localhost:8000", "server address")
	username := flag.String("user", "", "username")
	password := flag.String("pass", "", "password")
	flag.Parse()

	if *username == "" || *password == "" {
		log.Fatal("both -user and -pass are required")
	}

	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ws"}
	log.Printf("Connecting to %s", u.String())
	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var msg map[string]any
			if err := c.ReadJSON(&msg); err != nil {
				log.Printf("Read error: %v", err)
				return
			}
			log.Printf("<- %v", msg)
		}
	}()

	if err := c.WriteJSON(clientMessage{Type: "authorize", Username: *username, Password: *password}); err != nil {
		log.Fatalf("Authorize failed: %v", err)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		select {
		case <-done:
			return
		default:
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		var msg clientMessage
		switch fields[0] {
		case "m":
			if len(fields) < 2 {
				continue
			}
			msg = clientMessage{Type: "menu", SelectionID: fields[1], MenuID: "server_menu"}
			if len(fields) > 2 {
				msg.MenuID = fields[2]
			}
		case "k":
			if len(fields) < 2 {
				continue
			}
			msg = clientMessage{Type: "keybind", Key: fields[1]}
		case "e":
			if len(fields) < 2 {
				continue
			}
			msg = clientMessage{Type: "editbox", Value: fields[1], ID: "action_input"}
			if len(fields) > 2 {
				msg.ID = fields[2]
			}
		case "c":
			msg = clientMessage{Type: "chat", Text: strings.Join(fields[1:], " ")}
		case "p":
			msg = clientMessage{Type: "ping"}
		default:
			log.Printf("Unknown command %q", fields[0])
			continue
		}

		if err := c.WriteJSON(msg); err != nil {
			log.Printf("Write error: %v", err)
			return
		}
	}
}
