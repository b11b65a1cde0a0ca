package stream

import (
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/lixenwraith/dockstrike/event"
)

// Envelope is one event on the wire
type Envelope struct {
	Type    string `json:"type" msgpack:"type"`
	Tick    int64  `json:"tick" msgpack:"tick"`
	Payload any    `json:"payload,omitempty" msgpack:"payload,omitempty"`
}

// Frame is one tick's batch for observers
type Frame struct {
	Session string     `json:"session" msgpack:"session"`
	Tick    int64      `json:"tick" msgpack:"tick"`
	Events  []Envelope `json:"events" msgpack:"events"`
}

// NewFrame converts a drained batch into a wire frame
func NewFrame(session string, tick int64, events []event.GameEvent) Frame {
	f := Frame{
		Session: session,
		Tick:    tick,
		Events:  make([]Envelope, len(events)),
	}
	for i, ev := range events {
		f.Events[i] = Envelope{
			Type:    ev.Type.String(),
			Tick:    ev.Tick,
			Payload: ev.Payload,
		}
	}
	return f
}

// Codec turns frames into websocket messages
type Codec interface {
	Name() string
	MessageType() int
	Encode(Frame) ([]byte, error)
}

type jsonCodec struct{}

func (jsonCodec) Name() string     { return "json" }
func (jsonCodec) MessageType() int { return websocket.TextMessage }

func (jsonCodec) Encode(f Frame) ([]byte, error) {
	return json.Marshal(f)
}

type msgpackCodec struct{}

func (msgpackCodec) Name() string     { return "msgpack" }
func (msgpackCodec) MessageType() int { return websocket.BinaryMessage }

func (msgpackCodec) Encode(f Frame) ([]byte, error) {
	return msgpack.Marshal(f)
}

var codecs = map[string]Codec{
	"":        jsonCodec{},
	"json":    jsonCodec{},
	"msgpack": msgpackCodec{},
}

// CodecByName resolves a ?codec= query value
func CodecByName(name string) (Codec, error) {
	c, ok := codecs[name]
	if !ok {
		return nil, fmt.Errorf("unknown codec %q", name)
	}
	return c, nil
}
