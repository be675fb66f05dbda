package bot

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/fadedpez/dealerbot/internal/discord"
	"github.com/fadedpez/dealerbot/internal/sessions"
	"github.com/fadedpez/dealerbot/internal/types"
	"github.com/fadedpez/dealerbot/pkg/blackjack"
	"github.com/fadedpez/dealerbot/pkg/repositories/game"
)

// buttonActions maps component custom IDs to engine actions
var buttonActions = map[string]blackjack.Action{
	"blackjack_hit":          blackjack.ActionHit,
	"blackjack_stand":        blackjack.ActionStand,
	"blackjack_double":       blackjack.ActionDoubleDown,
	"blackjack_split":        blackjack.ActionSplit,
	"blackjack_insurance":    blackjack.ActionInsurance,
	"blackjack_no_insurance": blackjack.ActionNoInsurance,
	"blackjack_cancel":       blackjack.ActionCancel,
}

// handleSlashCommand handles all slash commands
func (b *Bot) handleSlashCommand(i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "blackjack":
		b.handleBlackjackStart(i)
	case "bjstats":
		b.handleStats(i)
	default:
		b.logger.Warn("unknown command", "name", i.ApplicationCommandData().Name)
	}
}

// handleMessageComponent handles button clicks
func (b *Bot) handleMessageComponent(i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID

	switch {
	case strings.HasPrefix(customID, "blackjack_"):
		b.handleBlackjackButton(i)
	default:
		b.logger.Warn("unknown component interaction", "custom_id", customID)
	}
}

// handleBlackjackStart deals a new session and spawns its game loop
func (b *Bot) handleBlackjackStart(i *discordgo.InteractionCreate) {
	user := interactionUser(i)
	if user == nil {
		discord.SendErrorResponse(b.session, i, types.NewGameError(types.ErrInvalidArgument, "could not identify you"))
		return
	}

	opts := blackjack.Options{
		DoubleDown: b.config.EnableDoubleDown,
		Insurance:  b.config.EnableInsurance,
		Split:      b.config.EnableSplit,
		Bet:        betOption(i),
		Timeout:    b.config.ActionTimeout,
		Logger:     b.logger,
	}

	session, err := blackjack.New(user.ID, opts)
	if err != nil {
		if errors.Is(err, blackjack.ErrInvalidConfig) {
			discord.SendErrorResponse(b.session, i, types.WrapError(types.ErrInvalidConfiguration, "bad game options", err))
			return
		}
		discord.SendErrorResponse(b.session, i, types.WrapError(types.ErrInternalError, "could not start the game", err))
		return
	}

	entry := &sessions.Entry{
		Session:   session,
		Collector: blackjack.NewInputCollector(b.config.ActionTimeout, b.clock, b.logger),
		ChannelID: i.ChannelID,
	}
	if err := b.registry.Acquire(user.ID, entry); err != nil {
		discord.SendErrorResponse(b.session, i, err)
		return
	}

	if err := discord.SendResponse(b.session, i, discord.NewEphemeralResponse("🎲 Dealing...")); err != nil {
		b.logger.Error("failed to acknowledge command", "error", err)
		b.registry.Release(user.ID)
		return
	}

	snap := session.Snapshot()
	resp := renderSnapshot(snap, b.display)
	msg, err := b.session.ChannelMessageSendComplex(i.ChannelID, &discordgo.MessageSend{
		Content:    resp.Content,
		Embeds:     resp.Embeds,
		Components: resp.Components,
	})
	if err != nil {
		b.logger.Error("failed to post game message", "error", err)
		b.registry.Release(user.ID)
		return
	}
	if err := b.registry.Bind(user.ID, msg.ID); err != nil {
		b.logger.Error("failed to bind game message", "error", err)
		return
	}

	// Naturals settle during the deal and never collect an action
	if session.Settled() {
		b.finishSession(entry, snap)
		return
	}

	b.wg.Add(1)
	go b.runSession(entry)
}

// handleBlackjackButton feeds a button press into the owning session's
// collector. Presses from non-owners and actions outside the legal set are
// filtered there, never here.
func (b *Bot) handleBlackjackButton(i *discordgo.InteractionCreate) {
	user := interactionUser(i)
	if user == nil || i.Message == nil {
		return
	}

	action, ok := buttonActions[i.MessageComponentData().CustomID]
	if !ok {
		b.logger.Warn("unknown blackjack button", "custom_id", i.MessageComponentData().CustomID)
		return
	}

	entry, err := b.registry.FindByMessage(i.Message.ID)
	if err != nil {
		discord.SendErrorResponse(b.session, i, types.NewGameError(types.ErrSessionNotFound, "that game is already over"))
		return
	}

	entry.Collector.Submit(user.ID, action)
	if err := discord.AckUpdate(b.session, i); err != nil {
		b.logger.Error("failed to ack button press", "error", err)
	}
}

// runSession drives one session from deal to settlement, re-rendering the
// game message after every accepted action.
func (b *Bot) runSession(entry *sessions.Entry) {
	defer b.wg.Done()

	session := entry.Session
	for !session.Settled() {
		action, err := entry.Collector.AwaitAction(b.ctx, session.PlayerID, session.LegalActions())
		if err != nil {
			b.logger.Error("action collection failed", "session_id", session.ID, "error", err)
			action = blackjack.ActionCancel
		}

		snap, err := session.Advance(action)
		if err != nil {
			if errors.Is(err, blackjack.ErrIllegalAction) {
				continue
			}
			b.logger.Error("failed to advance session", "session_id", session.ID, "error", err)
			snap, _ = session.Advance(blackjack.ActionCancel)
			if snap == nil {
				break
			}
		}

		if err := discord.EditMessage(b.session, entry.ChannelID, entry.MessageID, renderSnapshot(snap, b.display)); err != nil {
			b.logger.Error("failed to update game message", "session_id", session.ID, "error", err)
		}
	}

	b.finishSession(entry, session.Snapshot())
}

// finishSession records the settled game and frees the player's slot.
// Cancelled and timed out sessions are not recorded.
func (b *Bot) finishSession(entry *sessions.Entry, snap *blackjack.Snapshot) {
	outcome := snap.Outcome
	if outcome != blackjack.OutcomeCancel && outcome != blackjack.OutcomeTimeout {
		record := game.RecordFromSnapshot(snap, time.Now().UTC())
		if err := b.repo.SaveRecord(context.Background(), record); err != nil {
			b.logger.Error("failed to save game record", "session_id", snap.ID, "error", err)
		}
	}
	b.registry.Release(snap.PlayerID)
}

// handleStats responds with the caller's aggregated statistics
func (b *Bot) handleStats(i *discordgo.InteractionCreate) {
	user := interactionUser(i)
	if user == nil {
		discord.SendErrorResponse(b.session, i, types.NewGameError(types.ErrInvalidArgument, "could not identify you"))
		return
	}

	stats, err := b.stats.PlayerStats(context.Background(), user.ID)
	if err != nil {
		discord.SendErrorResponse(b.session, i, types.WrapError(types.ErrDatabaseError, "could not load your statistics", err))
		return
	}

	resp := statsResponse(user.Username, stats)
	if err := discord.SendResponse(b.session, i, resp); err != nil {
		b.logger.Error("failed to send stats", "error", err)
	}
}

// interactionUser resolves the acting user for guild and DM interactions
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// betOption reads the optional bet amount from the command options
func betOption(i *discordgo.InteractionCreate) int64 {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "bet" {
			return opt.IntValue()
		}
	}
	return 0
}
