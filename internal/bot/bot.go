package bot

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/fadedpez/dealerbot/internal/config"
	"github.com/fadedpez/dealerbot/internal/discord"
	"github.com/fadedpez/dealerbot/internal/sessions"
	"github.com/fadedpez/dealerbot/pkg/repositories/game"
	"github.com/fadedpez/dealerbot/pkg/services/statistics"
)

// Bot represents the Discord bot and its dependencies
type Bot struct {
	config   *config.Config
	session  discord.SessionHandler
	logger   *log.Logger
	clock    quartz.Clock
	registry *sessions.Registry
	repo     game.Repository
	stats    *statistics.Service
	display  displayFlags
	commands []*discordgo.ApplicationCommand

	// ctx is cancelled on shutdown so in-flight games settle as CANCEL
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new instance of Bot
func New(cfg *config.Config, session discord.SessionHandler, repo game.Repository, logger *log.Logger) *Bot {
	ctx, cancel := context.WithCancel(context.Background())

	bot := &Bot{
		config:   cfg,
		session:  session,
		logger:   logger.WithPrefix("bot"),
		clock:    quartz.NewReal(),
		registry: sessions.NewRegistry(),
		repo:     repo,
		stats:    statistics.NewService(repo),
		display:  displayFlags{resultEmbed: cfg.ResultEmbed, normalEmbed: cfg.NormalEmbed},
		commands: make([]*discordgo.ApplicationCommand, 0),
		ctx:      ctx,
		cancel:   cancel,
	}

	session.AddHandler(bot.handleInteractionCreate)

	return bot
}

// Start opens the Discord connection and registers slash commands
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	if err := b.registerCommands(); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	b.logger.Info("bot started", "active_sessions", b.registry.Active())
	return nil
}

// Shutdown gracefully shuts down the bot. In-flight games are cancelled
// and their loops drained before the session closes.
func (b *Bot) Shutdown() {
	b.cancel()
	b.wg.Wait()

	if b.config.IsDevelopment() {
		b.cleanupCommands()
	}

	if err := b.session.Close(); err != nil {
		b.logger.Error("error closing Discord session", "error", err)
	}
}

// handleInteractionCreate handles Discord interaction events
func (b *Bot) handleInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.handleSlashCommand(i)
	case discordgo.InteractionMessageComponent:
		b.handleMessageComponent(i)
	}
}
