package remote

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/koinonia-app/core/internal/entity"
	"github.com/koinonia-app/core/pkg/errorx"
	"github.com/koinonia-app/core/pkg/xcontext"
)

type subscribeFrame struct {
	Token  string             `json:"token,omitempty"`
	Tables []entity.Table     `json:"tables"`
	Events []entity.EventKind `json:"events"`
}

type eventFrame struct {
	Table entity.Table     `json:"table"`
	Kind  entity.EventKind `json:"kind"`
	Row   Row              `json:"row"`
}

type realtimeSubscription struct {
	conn *websocket.Conn

	once sync.Once
	done chan struct{}
}

// Subscribe opens one multiplexed websocket subscription covering the given
// tables and event kinds. The returned handle must be closed before a new one
// is opened for the same session.
func (c *httpClient) Subscribe(
	ctx context.Context,
	tables []entity.Table,
	kinds []entity.EventKind,
	handler EventHandler,
) (Subscription, error) {
	url := c.cfg.RealtimeEndpoint + "?apikey=" + c.cfg.APIKey
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, errorx.New(errorx.Unavailable, "Cannot open the change feed")
	}

	frame := subscribeFrame{Token: c.token(), Tables: tables, Events: kinds}
	if err := conn.WriteJSON(frame); err != nil {
		conn.Close()
		return nil, errorx.New(errorx.Unavailable, "Cannot open the change feed")
	}

	sub := &realtimeSubscription{conn: conn, done: make(chan struct{})}
	go sub.runReader(ctx, handler)

	return sub, nil
}

func (s *realtimeSubscription) runReader(ctx context.Context, handler EventHandler) {
	defer close(s.done)

	for {
		t, msg, err := s.conn.ReadMessage()
		if err != nil {
			return
		}

		if t == websocket.CloseMessage {
			return
		}

		if t != websocket.TextMessage {
			continue
		}

		var frame eventFrame
		if err := json.Unmarshal(msg, &frame); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot parse change feed frame: %v", err)
			continue
		}

		handler(ctx, Event{Table: frame.Table, Kind: frame.Kind, Row: frame.Row})
	}
}

func (s *realtimeSubscription) Close() error {
	var err error
	s.once.Do(func() {
		deadline := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = s.conn.WriteMessage(websocket.CloseMessage, deadline)
		err = s.conn.Close()
		<-s.done
	})

	return err
}
