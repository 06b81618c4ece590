// client.go - Single-consumer event loop tying the connection, mirror and UI together
package client

import (
	"context"
	"errors"
	"time"

	"card-game-client/game"

	"go.uber.org/zap"
)

const queueSize = 256

// ErrNotConnected is returned when a command is sent before Run has dialed.
var ErrNotConnected = errors.New("not connected")

// Options configures a Client.
type Options struct {
	URL           string
	PlayerUID     string
	DeckID        int
	ChatMaxLength int
	// LobbyRefresh is the game list polling interval; zero disables it.
	LobbyRefresh time.Duration
}

// item is one unit of work for the loop: a network frame, a user input
// line, or a lobby refresh tick.
type item struct {
	frame   []byte
	line    string
	refresh bool
}

// Client owns the match mirror and both negotiations. Network frames and
// user inputs are queued and handled one at a time, strictly in arrival
// order, on the goroutine that calls Run.
type Client struct {
	opts     Options
	logger   *zap.Logger
	sessions SessionStore
	view     View

	mirror     *game.Mirror
	attack     *game.AttackNegotiator
	block      *game.BlockNegotiator
	emitter    *Emitter
	dispatcher *Dispatcher
	routes     map[string]route

	conn    *Connection
	queue   chan item
	stopped chan struct{}
}

func New(opts Options, sessions SessionStore, view View, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if view == nil {
		view = nopView{}
	}
	if sessions == nil {
		sessions = NewMemorySessionStore()
	}

	c := &Client{
		opts:     opts,
		logger:   logger,
		sessions: sessions,
		view:     view,
		queue:    make(chan item, queueSize),
		stopped:  make(chan struct{}),
	}
	c.mirror = game.NewMirror(opts.PlayerUID, logger.Named("mirror"))
	c.emitter = NewEmitter(c, opts.PlayerUID, opts.ChatMaxLength)
	c.attack = game.NewAttackNegotiator(c.mirror, c.emitter, logger.Named("attack"))
	c.block = game.NewBlockNegotiator(c.mirror, c.emitter, logger.Named("block"))
	c.dispatcher = NewDispatcher(c.mirror, c.attack, c.block, c.emitter, sessions, view, logger.Named("dispatch"))
	c.routes = newRouter()
	return c
}

func (c *Client) Mirror() *game.Mirror           { return c.mirror }
func (c *Client) Attack() *game.AttackNegotiator { return c.attack }
func (c *Client) Block() *game.BlockNegotiator   { return c.block }
func (c *Client) Dispatcher() *Dispatcher        { return c.dispatcher }

// Send forwards an encoded command to the live connection.
func (c *Client) Send(msg any) error {
	if c.conn == nil {
		return ErrNotConnected
	}
	return c.conn.Send(msg)
}

// Submit queues one line of user input. Safe from any goroutine; returns
// false once the loop has stopped.
func (c *Client) Submit(line string) bool {
	return c.post(context.Background(), item{line: line})
}

func (c *Client) post(ctx context.Context, it item) bool {
	select {
	case <-c.stopped:
		return false
	default:
	}
	select {
	case c.queue <- it:
		return true
	case <-c.stopped:
		return false
	case <-ctx.Done():
		return false
	}
}

// Run connects and processes the queue until ctx is done or the connection
// drops. It must be called once.
func (c *Client) Run(ctx context.Context) error {
	defer close(c.stopped)

	conn, err := Dial(ctx, c.opts.URL, c.logger.Named("conn"))
	if err != nil {
		return err
	}
	c.conn = conn
	defer conn.Close()
	c.logger.Info("connected", zap.String("url", c.opts.URL), zap.String("playerUid", c.emitter.PlayerUID()))

	readErr := make(chan error, 1)
	go func() {
		readErr <- conn.ReadLoop(func(frame []byte) {
			c.post(ctx, item{frame: frame})
		})
	}()

	refresher, err := NewLobbyRefresher(c.opts.LobbyRefresh, func() {
		c.post(ctx, item{refresh: true})
	}, c.logger.Named("lobby"))
	if err != nil {
		return err
	}
	refresher.Start()
	defer func() {
		if err := refresher.Stop(); err != nil {
			c.logger.Warn("stopping lobby refresher", zap.Error(err))
		}
	}()

	c.onConnect()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-readErr:
			// Frames read before the failure are already queued
			c.drain()
			c.logger.Info("connection closed", zap.Error(err))
			return err
		case it := <-c.queue:
			c.process(it)
		}
	}
}

// onConnect hydrates the catalog and lobby, then tries to rejoin a stored match.
func (c *Client) onConnect() {
	for _, send := range []func() error{c.emitter.GetCards, c.emitter.GetDecks, c.emitter.ListGames} {
		if err := send(); err != nil {
			c.logger.Warn("initial request failed", zap.Error(err))
		}
	}

	session, ok, err := c.sessions.Load()
	if err != nil {
		c.logger.Warn("loading session failed", zap.Error(err))
		return
	}
	if !ok || session.PlayerUID != c.emitter.PlayerUID() {
		return
	}
	c.logger.Info("rejoining stored match", zap.String("gameId", session.MatchID))
	if err := c.emitter.ReconnectGame(session.MatchID); err != nil {
		c.logger.Warn("reconnect request failed", zap.Error(err))
	}
}

func (c *Client) process(it item) {
	switch {
	case it.frame != nil:
		_ = c.dispatcher.HandleMessage(it.frame)
	case it.refresh:
		if phase := c.mirror.Phase(); phase == game.PhaseLobby || phase == game.PhaseOver {
			if err := c.emitter.ListGames(); err != nil {
				c.logger.Debug("lobby refresh failed", zap.Error(err))
			}
		}
	default:
		c.handleInput(it.line)
	}
}

func (c *Client) drain() {
	for {
		select {
		case it := <-c.queue:
			if it.frame != nil {
				c.process(it)
			}
		default:
			return
		}
	}
}
