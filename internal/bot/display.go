package bot

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/fadedpez/dealerbot/internal/discord"
	"github.com/fadedpez/dealerbot/pkg/blackjack"
	"github.com/fadedpez/dealerbot/pkg/entities"
	"github.com/fadedpez/dealerbot/pkg/services/statistics"
)

// Embed colors per game state
const (
	colorPlaying = 0x2B6CB0 // blue
	colorWin     = 0x38A169 // green
	colorLose    = 0xE53E3E // red
	colorPush    = 0x718096 // gray
	colorGold    = 0xD69E2E // blackjack
)

var suitEmoji = map[entities.Suit]string{
	entities.Hearts:   "♥️",
	entities.Diamonds: "♦️",
	entities.Clubs:    "♣️",
	entities.Spades:   "♠️",
}

func formatCard(card *entities.Card) string {
	return fmt.Sprintf("%s%s", card.Rank, suitEmoji[card.Suit])
}

func formatCards(cards []*entities.Card) string {
	parts := make([]string, 0, len(cards))
	for _, card := range cards {
		parts = append(parts, formatCard(card))
	}
	return strings.Join(parts, " ")
}

func formatValue(v blackjack.Value) string {
	if v.IsBust {
		return fmt.Sprintf("%d (bust)", v.Total)
	}
	if v.IsSoft {
		return fmt.Sprintf("soft %d", v.Total)
	}
	return fmt.Sprintf("%d", v.Total)
}

// displayFlags selects embed or plain text rendering for game messages.
// resultEmbed covers the settle message, normalEmbed everything before it.
type displayFlags struct {
	resultEmbed bool
	normalEmbed bool
}

// renderSnapshot maps a session snapshot to the game message. The engine
// already withholds the dealer hole card before settlement, so a hidden
// card marker is appended while play continues. Snapshots whose embed is
// suppressed render as plain text with the same button row.
func renderSnapshot(snap *blackjack.Snapshot, flags displayFlags) *discord.Response {
	settled := snap.Phase == blackjack.PhaseSettled
	if (settled && !flags.resultEmbed) || (!settled && !flags.normalEmbed) {
		return &discord.Response{
			Content:    renderText(snap),
			Components: buttonsFor(snap.LegalActions),
		}
	}

	embed := &discordgo.MessageEmbed{
		Title:  "Blackjack",
		Color:  embedColor(snap),
		Fields: []*discordgo.MessageEmbedField{},
	}

	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  "Dealer",
		Value: dealerLine(snap),
	})
	for slot, hand := range snap.Hands {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  handName(snap, slot),
			Value: handLine(hand),
		})
	}

	embed.Description = statusLine(snap)

	if snap.Bet > 0 {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Bet: %d", snap.Bet),
		}
	}

	return discord.NewResponse(embed, buttonsFor(snap.LegalActions))
}

// renderText is the plain text rendering used when the embed is suppressed
func renderText(snap *blackjack.Snapshot) string {
	lines := []string{"**Blackjack**", "Dealer: " + dealerLine(snap)}
	for slot, hand := range snap.Hands {
		lines = append(lines, fmt.Sprintf("%s: %s", handName(snap, slot), handLine(hand)))
	}
	if status := statusLine(snap); status != "" {
		lines = append(lines, status)
	}
	if snap.Bet > 0 {
		lines = append(lines, fmt.Sprintf("Bet: %d", snap.Bet))
	}
	return strings.Join(lines, "\n")
}

func dealerLine(snap *blackjack.Snapshot) string {
	line := formatCards(snap.DealerCards)
	if snap.Phase == blackjack.PhaseSettled || snap.Phase == blackjack.PhaseDealerTurn {
		line += fmt.Sprintf("  -  %s", formatValue(snap.DealerValue))
	} else {
		line += " 🂠"
	}
	return line
}

func handName(snap *blackjack.Snapshot, slot int) string {
	if len(snap.Hands) != 2 {
		return "Your hand"
	}
	name := fmt.Sprintf("Hand %d", slot+1)
	if snap.Hands[slot].Active {
		name += " ◀"
	}
	return name
}

func handLine(hand blackjack.HandView) string {
	line := fmt.Sprintf("%s  -  %s", formatCards(hand.Cards), formatValue(hand.Value))
	if hand.Doubled {
		line += " (doubled)"
	}
	return line
}

func statusLine(snap *blackjack.Snapshot) string {
	switch snap.Phase {
	case blackjack.PhaseInsuranceOffer:
		return "Dealer shows an ace. Take insurance?"
	case blackjack.PhaseSettled:
		return outcomeLine(snap.Outcome)
	}
	return ""
}

// buttonsFor builds the component row for the legal action set. Settled
// sessions get no components at all.
func buttonsFor(legal []blackjack.Action) []discordgo.MessageComponent {
	if len(legal) == 0 {
		return nil
	}

	buttons := []discordgo.MessageComponent{}
	add := func(action blackjack.Action, label, customID string, style discordgo.ButtonStyle) {
		if action.In(legal) {
			buttons = append(buttons, discordgo.Button{
				Label:    label,
				Style:    style,
				CustomID: customID,
			})
		}
	}

	add(blackjack.ActionHit, "Hit", "blackjack_hit", discordgo.PrimaryButton)
	add(blackjack.ActionStand, "Stand", "blackjack_stand", discordgo.SecondaryButton)
	add(blackjack.ActionDoubleDown, "Double Down", "blackjack_double", discordgo.SuccessButton)
	add(blackjack.ActionSplit, "Split", "blackjack_split", discordgo.SuccessButton)
	add(blackjack.ActionInsurance, "Insurance", "blackjack_insurance", discordgo.PrimaryButton)
	add(blackjack.ActionNoInsurance, "No Insurance", "blackjack_no_insurance", discordgo.SecondaryButton)

	// Cancel is always available while the game is live
	buttons = append(buttons, discordgo.Button{
		Label:    "Cancel",
		Style:    discordgo.DangerButton,
		CustomID: "blackjack_cancel",
	})

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: buttons},
	}
}

func embedColor(snap *blackjack.Snapshot) int {
	if snap.Phase != blackjack.PhaseSettled {
		return colorPlaying
	}
	switch {
	case snap.Outcome == blackjack.OutcomeBlackjack:
		return colorGold
	case strings.Contains(string(snap.Outcome), "WIN"):
		return colorWin
	case strings.Contains(string(snap.Outcome), "LOSE"):
		return colorLose
	default:
		return colorPush
	}
}

// outcomeLine converts an outcome code into the settle message
func outcomeLine(outcome blackjack.Outcome) string {
	switch outcome {
	case blackjack.OutcomeBlackjack:
		return "🎉 Blackjack!"
	case blackjack.OutcomeWin:
		return "You win!"
	case blackjack.OutcomeLose:
		return "Dealer wins."
	case blackjack.OutcomeTie:
		return "Push."
	case blackjack.OutcomeCancel:
		return "Game cancelled."
	case blackjack.OutcomeTimeout:
		return "⏰ Game timed out."
	case blackjack.OutcomeInsurancePayout:
		return "Dealer has blackjack. Insurance pays 2:1."
	default:
		return fmt.Sprintf("Result: %s", outcome)
	}
}

// statsResponse renders a player's aggregated statistics as an ephemeral embed
func statsResponse(username string, stats *statistics.PlayerStats) *discord.Response {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Blackjack stats for %s", username),
		Color: colorPlaying,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Games", Value: fmt.Sprintf("%d", stats.Games), Inline: true},
			{Name: "Wins", Value: fmt.Sprintf("%d", stats.Wins), Inline: true},
			{Name: "Losses", Value: fmt.Sprintf("%d", stats.Losses), Inline: true},
			{Name: "Pushes", Value: fmt.Sprintf("%d", stats.Pushes), Inline: true},
			{Name: "Blackjacks", Value: fmt.Sprintf("%d", stats.Blackjacks), Inline: true},
			{Name: "Busts", Value: fmt.Sprintf("%d", stats.Busts), Inline: true},
			{Name: "Splits", Value: fmt.Sprintf("%d", stats.Splits), Inline: true},
			{Name: "Double downs", Value: fmt.Sprintf("%d", stats.DoubleDowns), Inline: true},
			{Name: "Insurances", Value: fmt.Sprintf("%d", stats.Insurances), Inline: true},
			{Name: "Win rate", Value: fmt.Sprintf("%.0f%%", stats.WinRate()*100), Inline: true},
		},
	}

	return &discord.Response{
		Embeds:    []*discordgo.MessageEmbed{embed},
		Ephemeral: true,
	}
}
