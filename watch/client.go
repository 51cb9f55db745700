package watch

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sync"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"

	"github.com/mandelsoft/admin/pkg/utils"
)

type Client struct {
	dialer ws.Dialer
	url    string
}

func NewClient(url string, dialer ...ws.Dialer) *Client {
	return &Client{
		dialer: utils.OptionalDefaulted(ws.DefaultDialer, dialer...),
		url:    url,
	}
}

// BearerDialer provides a dialer sending a bearer token
// with the handshake.
func BearerDialer(token string) ws.Dialer {
	d := ws.DefaultDialer
	d.Header = ws.HandshakeHeaderHTTP(http.Header{"Authorization": {"Bearer " + token}})
	return d
}

// Watch opens a connection and registers the request.
func (c *Client) Watch(ctx context.Context, req Request) (*Watch, error) {
	conn, _, _, err := c.dialer.Dial(ctx, c.url)
	if err != nil {
		return nil, err
	}
	data, _ := json.Marshal(req)
	err = wsutil.WriteClientMessage(conn, ws.OpText, data)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return &Watch{conn: conn}, nil
}

// Register watches and calls the handler for every event
// until the context is done or the connection is closed.
func (c *Client) Register(ctx context.Context, req Request, h EventHandler) (Syncher, error) {
	w, err := c.Watch(ctx, req)
	if err != nil {
		return nil, err
	}

	s := &syncher{
		wait: &sync.WaitGroup{},
	}
	s.wait.Add(1)

	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			w.Close()
		case <-stop:
		}
	}()

	go func() {
		defer s.wait.Done()
		defer close(stop)
		for {
			events, err := w.Receive()
			if err != nil {
				if !IsErrClosed(err) && ctx.Err() == nil {
					s.err = err
				}
				w.Close()
				return
			}
			for _, e := range events {
				h.HandleEvent(e)
			}
		}
	}()
	return s, nil
}

////////////////////////////////////////////////////////////////////////////////

type Syncher interface {
	Wait() error
}

type syncher struct {
	wait *sync.WaitGroup
	err  error
}

func (s *syncher) Wait() error {
	s.wait.Wait()
	return s.err
}

////////////////////////////////////////////////////////////////////////////////

type Watch struct {
	conn net.Conn
}

func (w *Watch) Receive() ([]Event, error) {
	msgs, err := wsutil.ReadServerMessage(w.conn, nil)
	if err != nil {
		return nil, err
	}

	var events []Event
	for _, m := range msgs {
		if m.OpCode != ws.OpText && m.OpCode != ws.OpBinary {
			continue
		}
		var evt Event
		err := json.Unmarshal(m.Payload, &evt)
		if err != nil {
			return nil, err
		}
		events = append(events, evt)
	}
	return events, nil
}

func (w *Watch) Close() error {
	return w.conn.Close()
}
