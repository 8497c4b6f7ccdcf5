package main

import (
	"fmt"
	"strings"
)

// GenerateRequest carries the describe-pipeline input. Coordinates arrive as
// strings because upstream exports use a comma decimal separator.
type GenerateRequest struct {
	NamaTempat string `json:"nama_tempat"`
	Kategori   string `json:"kategori"`
	Latitude   string `json:"latitude"`
	Longitude  string `json:"longitude"`
}

func (r *GenerateRequest) Validate() error {
	var missing []string
	if strings.TrimSpace(r.NamaTempat) == "" {
		missing = append(missing, "nama_tempat")
	}
	if strings.TrimSpace(r.Kategori) == "" {
		missing = append(missing, "kategori")
	}
	if strings.TrimSpace(r.Latitude) == "" {
		missing = append(missing, "latitude")
	}
	if strings.TrimSpace(r.Longitude) == "" {
		missing = append(missing, "longitude")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

type ChatRequest struct {
	Message string `json:"message"`
}

func (r *ChatRequest) Validate() error {
	if strings.TrimSpace(r.Message) == "" {
		return fmt.Errorf("message is required")
	}
	return nil
}

// WebSocketsMessage is the streaming envelope: chunk frames carry generated
// text as it arrives, a single result frame closes a successful stream.
type WebSocketsMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}
