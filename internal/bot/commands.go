package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Commands defines all slash commands for the bot
var Commands = []*discordgo.ApplicationCommand{
	{
		Name:        "blackjack",
		Description: "Start a game of blackjack",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "bet",
				Description: "Symbolic bet amount",
				MinValue:    &betMinimum,
				Required:    false,
			},
		},
	},
	{
		Name:        "bjstats",
		Description: "Show your blackjack statistics",
	},
}

var betMinimum = float64(0)

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	for _, cmd := range Commands {
		created, err := b.session.ApplicationCommandCreate(b.config.AppID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("failed to create command %s: %w", cmd.Name, err)
		}
		b.commands = append(b.commands, created)
		b.logger.Debug("registered command", "name", cmd.Name)
	}
	return nil
}

// cleanupCommands removes registered commands, used in development so
// guild commands do not accumulate across restarts.
func (b *Bot) cleanupCommands() {
	for _, cmd := range b.commands {
		if err := b.session.ApplicationCommandDelete(b.config.AppID, b.config.GuildID, cmd.ID); err != nil {
			b.logger.Error("failed to delete command", "name", cmd.Name, "error", err)
		}
	}
}
