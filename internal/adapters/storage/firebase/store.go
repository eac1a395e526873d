package firebase

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"automed-dashboard/internal/platform/httpclient"
	"automed-dashboard/internal/platform/logger"
	"automed-dashboard/internal/ports/docstore"
)

const (
	DefaultReconnectDelay = 3 * time.Second
	maxReconnectDelay     = time.Minute
)

var errStreamCanceled = errors.New("firebase: stream canceled by server")

type Config struct {
	DatabaseURL string
	// Auth: database secret o ID token, se envía como ?auth=.
	Auth           string
	Timeout        time.Duration
	ReconnectDelay time.Duration
	Logger         logger.Logger
}

// Store habla con Realtime Database por REST (".json") y se suscribe vía event-stream.
type Store struct {
	client    *httpclient.Client
	auth      string
	reconnect time.Duration
	log       logger.Logger

	mu     sync.Mutex
	subs   map[uint64]context.CancelFunc
	nextID uint64
	closed bool
}

var _ docstore.Store = (*Store)(nil)

func New(cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, errors.New("firebase: database url is required")
	}
	c, err := httpclient.NewWithBaseURL(cfg.DatabaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return NewWithClient(c, cfg), nil
}

// NewWithClient permite inyectar el client (tests).
func NewWithClient(c *httpclient.Client, cfg Config) *Store {
	delay := cfg.ReconnectDelay
	if delay <= 0 {
		delay = DefaultReconnectDelay
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Store{
		client:    c,
		auth:      strings.TrimSpace(cfg.Auth),
		reconnect: delay,
		log:       log.With(map[string]any{"component": "firebase"}),
		subs:      map[uint64]context.CancelFunc{},
	}
}

func (s *Store) url(path string) (string, error) {
	segs := docstore.SplitPath(path)
	if len(segs) == 0 {
		return "", docstore.ErrInvalidPath
	}
	esc := make([]string, len(segs))
	for i, seg := range segs {
		esc[i] = url.PathEscape(seg)
	}

	u := "/" + strings.Join(esc, "/") + ".json"
	if s.auth != "" {
		u += "?auth=" + url.QueryEscape(s.auth)
	}
	return u, nil
}

func (s *Store) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Store) Get(ctx context.Context, path string) (docstore.Snapshot, error) {
	u, err := s.url(path)
	if err != nil {
		return docstore.Snapshot{}, err
	}
	if s.isClosed() {
		return docstore.Snapshot{}, docstore.ErrClosed
	}

	snap := docstore.Snapshot{Path: docstore.JoinPath(path)}
	var raw json.RawMessage
	if err := s.client.DoJSON(ctx, http.MethodGet, u, nil, nil, &raw); err != nil {
		return snap, fmt.Errorf("firebase: get %s: %w", snap.Path, err)
	}
	snap.Value = raw
	return snap, nil
}

func (s *Store) Set(ctx context.Context, path string, value any) error {
	if value == nil {
		return s.Remove(ctx, path)
	}
	return s.do(ctx, http.MethodPut, path, value, nil)
}

func (s *Store) Push(ctx context.Context, path string, value any) (string, error) {
	var out struct {
		Name string `json:"name"`
	}
	if err := s.do(ctx, http.MethodPost, path, value, &out); err != nil {
		return "", err
	}
	if out.Name == "" {
		return "", fmt.Errorf("firebase: push %s: empty key in response", docstore.JoinPath(path))
	}
	return out.Name, nil
}

// Update usa PATCH; las keys pueden ser paths ("a/b"), un valor nil borra el campo.
func (s *Store) Update(ctx context.Context, path string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	body := make(map[string]any, len(fields))
	for k, v := range fields {
		ks := docstore.JoinPath(k)
		if ks == "" {
			return docstore.ErrInvalidPath
		}
		body[ks] = v
	}
	return s.do(ctx, http.MethodPatch, path, body, nil)
}

func (s *Store) Remove(ctx context.Context, path string) error {
	return s.do(ctx, http.MethodDelete, path, nil, nil)
}

func (s *Store) do(ctx context.Context, method, path string, in, out any) error {
	u, err := s.url(path)
	if err != nil {
		return err
	}
	if s.isClosed() {
		return docstore.ErrClosed
	}
	if err := s.client.DoJSON(ctx, method, u, nil, in, out); err != nil {
		return fmt.Errorf("firebase: %s %s: %w", strings.ToLower(method), docstore.JoinPath(path), err)
	}
	return nil
}

// Subscribe lee el valor actual, lo entrega y mantiene un event-stream abierto.
// Cada put/patch vuelve a leer el path completo; si el stream se corta se reconecta.
func (s *Store) Subscribe(ctx context.Context, path string, fn func(docstore.Snapshot)) (func(), error) {
	u, err := s.url(path)
	if err != nil {
		return nil, err
	}
	if fn == nil {
		return nil, docstore.ErrInvalidPath
	}

	initial, err := s.Get(ctx, path)
	if err != nil {
		return nil, err
	}

	subCtx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		cancel()
		return nil, docstore.ErrClosed
	}
	s.nextID++
	id := s.nextID
	s.subs[id] = cancel
	s.mu.Unlock()

	var stopped atomic.Bool
	deliver := func(snap docstore.Snapshot) {
		if stopped.Load() {
			return
		}
		fn(snap)
	}
	deliver(initial)

	done := make(chan struct{})
	go s.follow(subCtx, u, initial.Path, deliver, done)

	var once sync.Once
	return func() {
		once.Do(func() {
			stopped.Store(true)
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			cancel()
			<-done
		})
	}, nil
}

func (s *Store) follow(ctx context.Context, u, path string, deliver func(docstore.Snapshot), done chan<- struct{}) {
	defer close(done)
	log := s.log.With(map[string]any{"path": path})

	delay := s.reconnect
	for {
		started := time.Now()
		err := s.stream(ctx, u, path, deliver)
		if ctx.Err() != nil {
			return
		}
		if errors.Is(err, errStreamCanceled) {
			log.Error("subscription canceled by server", nil)
			return
		}
		// un stream que duró más que el tope resetea el backoff
		if time.Since(started) > maxReconnectDelay {
			delay = s.reconnect
		}
		log.Warn("stream interrupted, reconnecting", map[string]any{"err": err, "delay": delay.String()})

		t := time.NewTimer(delay)
		delay *= 2
		if delay > maxReconnectDelay {
			delay = maxReconnectDelay
		}
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}
	}
}

type streamEvent struct {
	Path string          `json:"path"`
	Data json.RawMessage `json:"data"`
}

func (s *Store) stream(ctx context.Context, u, path string, deliver func(docstore.Snapshot)) error {
	body, err := s.client.OpenStream(ctx, u, nil)
	if err != nil {
		return err
	}
	defer body.Close()

	var handleErr error
	err = readEvents(body, func(event string, data []byte) bool {
		switch event {
		case "put", "patch":
			var ev streamEvent
			if err := json.Unmarshal(data, &ev); err != nil {
				handleErr = fmt.Errorf("firebase: invalid %s event: %w", event, err)
				return false
			}
			// un put en la raíz trae el valor completo; cualquier otro cambio se relee
			if event == "put" && docstore.JoinPath(ev.Path) == "" {
				deliver(docstore.Snapshot{Path: path, Value: ev.Data})
				return true
			}
			snap, err := s.Get(ctx, path)
			if err != nil {
				handleErr = err
				return false
			}
			deliver(snap)
		case "cancel":
			handleErr = errStreamCanceled
			return false
		case "auth_revoked":
			handleErr = errors.New("firebase: auth revoked")
			return false
		}
		return true
	})
	if handleErr != nil {
		return handleErr
	}
	if err != nil {
		return err
	}
	return io.ErrUnexpectedEOF
}

// readEvents parsea text/event-stream; fn devuelve false para cortar la lectura.
func readEvents(r io.Reader, fn func(event string, data []byte) bool) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 8<<20)

	var (
		event string
		data  bytes.Buffer
	)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case line == "":
			if event != "" || data.Len() > 0 {
				if !fn(event, data.Bytes()) {
					return nil
				}
			}
			event = ""
			data.Reset()
		case strings.HasPrefix(line, ":"):
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		}
	}
	return sc.Err()
}

// Close corta todas las suscripciones abiertas.
func (s *Store) Close() error {
	s.mu.Lock()
	s.closed = true
	subs := s.subs
	s.subs = map[uint64]context.CancelFunc{}
	s.mu.Unlock()

	for _, cancel := range subs {
		cancel()
	}
	return nil
}
