// router.go - Maps input verbs to handlers
package client

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"card-game-client/game"

	"go.uber.org/zap"
)

var (
	errUsage  = errors.New("usage")
	errNoDeck = errors.New("no deck selected; run `decks` and pass a deck id")
)

type handlerFunc func(c *Client, args []string) error

type route struct {
	usage   string
	help    string
	handler handlerFunc
}

func newRouter() map[string]route {
	return map[string]route{
		"start":     {"start [deckId]", "create a match", (*Client).cmdStart},
		"join":      {"join [deckId]", "join any open match", (*Client).cmdJoin},
		"joingame":  {"joingame <gameId> [deckId]", "join a specific match", (*Client).cmdJoinGame},
		"ai":        {"ai [deckId] [aiDeckId]", "play against the computer", (*Client).cmdAI},
		"games":     {"games", "list open matches", (*Client).cmdGames},
		"decks":     {"decks", "list decks", (*Client).cmdDecks},
		"keep":      {"keep", "keep the opening hand", (*Client).cmdKeep},
		"mulligan":  {"mulligan", "redraw the opening hand", (*Client).cmdMulligan},
		"draw":      {"draw [main|vault]", "draw a card", (*Client).cmdDraw},
		"play":      {"play <cardId>", "play a card from hand", (*Client).cmdPlay},
		"burn":      {"burn <cardId>", "burn a land from hand for mana", (*Client).cmdBurn},
		"tap":       {"tap <instanceId>", "tap a land for mana", (*Client).cmdTap},
		"leader":    {"leader", "play your leader", (*Client).cmdLeader},
		"instant":   {"instant <cardId> [targetInstanceId]", "cast an instant", (*Client).cmdInstant},
		"pass":      {"pass", "pass priority", (*Client).cmdPass},
		"combat":    {"combat", "toggle combat mode", (*Client).cmdCombat},
		"attacker":  {"attacker <instanceId>", "select or deselect an attacker", (*Client).cmdAttacker},
		"target":    {"target <instanceId|player>", "aim the selected attacker", (*Client).cmdTarget},
		"confirm":   {"confirm", "confirm attacks or blocks", (*Client).cmdConfirm},
		"cancel":    {"cancel", "discard pending attacks or blocks", (*Client).cmdCancel},
		"block":     {"block <instanceId>", "select or deselect a blocker", (*Client).cmdBlock},
		"intercept": {"intercept <attackerInstanceId>", "pair the selected blocker with an attacker", (*Client).cmdIntercept},
		"blocks":    {"blocks", "confirm blocks", (*Client).cmdBlocks},
		"noblock":   {"noblock", "declare no blocks", (*Client).cmdNoBlock},
		"unblock":   {"unblock", "clear pending blocks", (*Client).cmdUnblock},
		"end":       {"end", "end your turn", (*Client).cmdEnd},
		"chat":      {"chat <message>", "send a chat message", (*Client).cmdChat},
		"leave":     {"leave", "leave the match", (*Client).cmdLeave},
		"reconnect": {"reconnect [gameId]", "rejoin a match", (*Client).cmdReconnect},
		"board":     {"board", "show the board", (*Client).cmdBoard},
		"help":      {"help", "show commands", (*Client).cmdHelp},
	}
}

// handleInput runs one input line and refreshes the view.
func (c *Client) handleInput(line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}
	verb, args := strings.ToLower(fields[0]), fields[1:]
	if verb == "chat" {
		args = []string{strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))}
	}

	r, ok := c.routes[verb]
	if !ok {
		c.view.Status(fmt.Sprintf("unknown command %q, try help", verb))
		return
	}

	if err := r.handler(c, args); err != nil {
		switch {
		case errors.Is(err, errUsage):
			c.view.Status("usage: " + r.usage)
		case game.IsRejection(err, 0):
			c.view.Status(err.Error())
		default:
			c.logger.Warn("command failed", zap.String("verb", verb), zap.Error(err))
			c.view.Status(err.Error())
		}
	}
	if verb != "help" && verb != "games" && verb != "decks" {
		c.view.Refresh(c.dispatcher.board())
	}
}

func intArg(args []string, i int) (int, error) {
	if i >= len(args) {
		return 0, errUsage
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", errUsage, args[i])
	}
	return n, nil
}

// optionalIntArg returns def when the argument is absent.
func optionalIntArg(args []string, i, def int) (int, error) {
	if i >= len(args) {
		return def, nil
	}
	return intArg(args, i)
}

// deckID picks the explicit deck, the configured one, or the first known.
// Once the deck list has arrived, ids it does not contain are refused.
func (c *Client) deckID(args []string, i int) (int, error) {
	id, err := optionalIntArg(args, i, c.opts.DeckID)
	if err != nil {
		return 0, err
	}
	decks := c.dispatcher.Decks()
	if id != 0 {
		if len(decks) > 0 {
			if _, ok := game.FindDeck(decks, id); !ok {
				return 0, fmt.Errorf("unknown deck %d; run `decks` to list them", id)
			}
		}
		return id, nil
	}
	if len(decks) > 0 {
		return decks[0].ID, nil
	}
	return 0, errNoDeck
}

func (c *Client) cmdStart(args []string) error {
	deck, err := c.deckID(args, 0)
	if err != nil {
		return err
	}
	return c.emitter.StartGame(deck)
}

func (c *Client) cmdJoin(args []string) error {
	deck, err := c.deckID(args, 0)
	if err != nil {
		return err
	}
	return c.emitter.JoinGame(deck)
}

func (c *Client) cmdJoinGame(args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	for _, g := range c.dispatcher.Games() {
		if g.GameID == args[0] && !g.Joinable() {
			return fmt.Errorf("game %s is not open (%s)", g.GameID, g.StatusText())
		}
	}
	deck, err := c.deckID(args, 1)
	if err != nil {
		return err
	}
	return c.emitter.JoinSpecificGame(args[0], deck)
}

func (c *Client) cmdAI(args []string) error {
	deck, err := c.deckID(args, 0)
	if err != nil {
		return err
	}
	aiDeck, err := optionalIntArg(args, 1, deck)
	if err != nil {
		return err
	}
	return c.emitter.StartAIGame(deck, aiDeck)
}

func (c *Client) cmdGames([]string) error { return c.emitter.ListGames() }

func (c *Client) cmdDecks([]string) error {
	c.view.Decks(c.dispatcher.Decks())
	return nil
}

func (c *Client) cmdKeep([]string) error     { return c.emitter.KeepHand() }
func (c *Client) cmdMulligan([]string) error { return c.emitter.Mulligan() }

func (c *Client) cmdDraw(args []string) error {
	source := game.DrawSourceMain
	if len(args) > 0 {
		source = strings.ToLower(args[0])
	}
	if source != game.DrawSourceMain && source != game.DrawSourceVault {
		return errUsage
	}
	return c.emitter.DrawCard(source)
}

func (c *Client) cmdPlay(args []string) error {
	id, err := intArg(args, 0)
	if err != nil {
		return err
	}
	if err := c.mirror.CheckAffordable(id); err != nil {
		return err
	}
	return c.emitter.PlayCard(id)
}

func (c *Client) cmdBurn(args []string) error {
	id, err := intArg(args, 0)
	if err != nil {
		return err
	}
	return c.emitter.BurnCard(id)
}

func (c *Client) cmdTap(args []string) error {
	id, err := intArg(args, 0)
	if err != nil {
		return err
	}
	return c.emitter.TapCard(id)
}

func (c *Client) cmdLeader([]string) error { return c.emitter.PlayLeader() }

func (c *Client) cmdInstant(args []string) error {
	id, err := intArg(args, 0)
	if err != nil {
		return err
	}
	target, err := optionalIntArg(args, 1, 0)
	if err != nil {
		return err
	}
	if err := c.mirror.CheckAffordable(id); err != nil {
		return err
	}
	return c.emitter.PlayInstant(id, target)
}

func (c *Client) cmdPass([]string) error { return c.emitter.PassPriority() }

func (c *Client) cmdCombat([]string) error {
	on, err := c.attack.Toggle()
	if err != nil {
		return err
	}
	if on {
		c.view.Status("Combat mode: select attackers")
	} else {
		c.view.Status("Combat mode off")
	}
	return nil
}

func (c *Client) cmdAttacker(args []string) error {
	id, err := intArg(args, 0)
	if err != nil {
		return err
	}
	return c.attack.SelectAttacker(id)
}

func (c *Client) cmdTarget(args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	if strings.EqualFold(args[0], "player") {
		return c.attack.TargetPlayer()
	}
	id, err := intArg(args, 0)
	if err != nil {
		return err
	}
	return c.attack.TargetCreature(id)
}

// cmdConfirm confirms whichever negotiation is open, blocks first.
func (c *Client) cmdConfirm([]string) error {
	if c.block.Active() {
		return c.block.Confirm()
	}
	return c.attack.Confirm()
}

func (c *Client) cmdCancel([]string) error {
	if c.block.Active() {
		c.block.Cancel()
		return nil
	}
	c.attack.Cancel()
	return nil
}

func (c *Client) cmdBlock(args []string) error {
	id, err := intArg(args, 0)
	if err != nil {
		return err
	}
	return c.block.SelectBlocker(id)
}

func (c *Client) cmdIntercept(args []string) error {
	id, err := intArg(args, 0)
	if err != nil {
		return err
	}
	return c.block.SelectAttacker(id)
}

func (c *Client) cmdBlocks([]string) error  { return c.block.Confirm() }
func (c *Client) cmdNoBlock([]string) error { return c.block.Skip() }

func (c *Client) cmdUnblock([]string) error {
	c.block.Cancel()
	return nil
}

func (c *Client) cmdEnd([]string) error { return c.emitter.EndTurn() }

func (c *Client) cmdChat(args []string) error {
	if len(args) == 0 || args[0] == "" {
		return errUsage
	}
	return c.emitter.Chat(args[0])
}

// cmdLeave returns to the lobby immediately; the server sends no reply.
func (c *Client) cmdLeave([]string) error {
	if err := c.emitter.LeaveGame(); err != nil {
		return err
	}
	if err := c.sessions.Clear(); err != nil {
		c.logger.Warn("clearing session failed", zap.Error(err))
	}
	c.attack.Reset()
	c.block.Reset()
	c.mirror.Reset()
	c.view.Status("Left the game")
	return nil
}

func (c *Client) cmdReconnect(args []string) error {
	if len(args) > 0 {
		return c.emitter.ReconnectGame(args[0])
	}
	session, ok, err := c.sessions.Load()
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("no stored game to rejoin")
	}
	return c.emitter.ReconnectGame(session.MatchID)
}

func (c *Client) cmdBoard([]string) error { return nil }

func (c *Client) cmdHelp([]string) error {
	verbs := make([]string, 0, len(c.routes))
	for verb := range c.routes {
		verbs = append(verbs, verb)
	}
	sort.Strings(verbs)
	for _, verb := range verbs {
		r := c.routes[verb]
		c.view.Log(fmt.Sprintf("%-40s %s", r.usage, r.help))
	}
	return nil
}
