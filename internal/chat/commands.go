package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"injective-token-lab/internal/domain"
	"injective-token-lab/internal/observability"
	"injective-token-lab/internal/storage"
	"injective-token-lab/internal/walletscan"
)

// Talents is the talent moderation surface the bot drives.
type Talents interface {
	Get(ctx context.Context, wallet string) (*domain.Talent, error)
	Transition(ctx context.Context, wallet string, status domain.TalentStatus) (*domain.Talent, error)
}

// SupplyReporter produces the current supply report.
type SupplyReporter interface {
	Analyze(ctx context.Context) (*domain.SupplyReport, error)
}

// RiskScanner produces a wallet risk report.
type RiskScanner interface {
	Analyze(ctx context.Context, address string, opts walletscan.ScanOptions) (*domain.WalletReport, error)
}

var transitions = map[string]domain.TalentStatus{
	"!approve": domain.TalentApproved,
	"!reject":  domain.TalentRejected,
	"!changes": domain.TalentChangesRequested,
	"!hold":    domain.TalentOnHold,
	"!pending": domain.TalentPending,
}

const helpText = "Commands:\n" +
	"`!approve|!reject|!changes|!hold|!pending <wallet>` set a talent status\n" +
	"`!talent <wallet>` show a talent row\n" +
	"`!supply` tracked token supply\n" +
	"`!risk <address>` wallet risk summary"

// Bot answers operator commands in a single channel.
type Bot struct {
	channelID string
	poster    Poster
	talents   Talents
	supply    SupplyReporter
	risk      RiskScanner
	riskScan  int
}

// NewBot creates a bot. supply and risk may be nil, which disables their commands.
func NewBot(channelID string, poster Poster, talents Talents, supply SupplyReporter, risk RiskScanner) *Bot {
	return &Bot{
		channelID: channelID,
		poster:    poster,
		talents:   talents,
		supply:    supply,
		risk:      risk,
		riskScan:  walletscan.DefaultMaxTransactions,
	}
}

// Handle is the gateway message handler.
func (b *Bot) Handle(ctx context.Context, m Message) {
	if m.Author.Bot || m.ChannelID != b.channelID {
		return
	}
	if !strings.HasPrefix(strings.TrimSpace(m.Content), "!") {
		return
	}

	reply, ok := b.Execute(ctx, m.Content)
	if !ok {
		return
	}
	if err := b.poster.PostMessage(ctx, b.channelID, reply); err != nil {
		log.Error().Str("component", "chat").Err(err).Msg("failed to post reply")
	}
}

// Execute runs one command line and returns the reply. ok is false when the
// line is not a known command.
func (b *Bot) Execute(ctx context.Context, line string) (reply string, ok bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", false
	}
	cmd := strings.ToLower(fields[0])
	args := fields[1:]

	status := "ok"
	defer func() {
		if ok {
			observability.RecordChatCommand(strings.TrimPrefix(cmd, "!"), status)
		}
	}()

	if target, found := transitions[cmd]; found {
		ok = true
		if len(args) != 1 {
			status = "usage"
			return fmt.Sprintf("Usage: `%s <wallet>`", cmd), true
		}
		reply, status = b.transition(ctx, args[0], target)
		return reply, true
	}

	switch cmd {
	case "!help":
		return helpText, true
	case "!talent":
		if len(args) != 1 {
			status = "usage"
			return "Usage: `!talent <wallet>`", true
		}
		reply, status = b.talent(ctx, args[0])
		return reply, true
	case "!supply":
		if b.supply == nil {
			status = "disabled"
			return "Supply reporting is not available.", true
		}
		reply, status = b.supplyReport(ctx)
		return reply, true
	case "!risk":
		if b.risk == nil {
			status = "disabled"
			return "Risk scanning is not available.", true
		}
		if len(args) != 1 {
			status = "usage"
			return "Usage: `!risk <address>`", true
		}
		reply, status = b.riskReport(ctx, args[0])
		return reply, true
	}
	return "", false
}

func (b *Bot) transition(ctx context.Context, wallet string, target domain.TalentStatus) (string, string) {
	t, err := b.talents.Transition(ctx, wallet, target)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return fmt.Sprintf("No talent found for wallet `%s`.", wallet), "not_found"
	case t == nil && err != nil:
		log.Error().Str("component", "chat").Str("wallet", wallet).Err(err).Msg("status change failed")
		return fmt.Sprintf("Failed to update `%s`: %v", wallet, err), "error"
	case errors.Is(err, storage.ErrPersistence):
		return fmt.Sprintf("%s is now **%s**, but saving failed: %v. The change is held in memory until the next successful write.",
			t.Name, t.Status, err), "persistence_failure"
	}
	return fmt.Sprintf("%s (`%s`) is now **%s**.", t.Name, t.WalletAddress, t.Status), "ok"
}

func (b *Bot) talent(ctx context.Context, wallet string) (string, string) {
	t, err := b.talents.Get(ctx, wallet)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Sprintf("No talent found for wallet `%s`.", wallet), "not_found"
	}
	if err != nil {
		return fmt.Sprintf("Lookup failed: %v", err), "error"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s** (%s)\n", t.Name, t.Status)
	for _, kv := range [][2]string{
		{"Role", t.Role}, {"Experience", t.Experience}, {"Skills", t.Skills},
		{"Discord", t.Discord}, {"Wallet", t.WalletAddress}, {"Submitted", t.SubmissionDate},
	} {
		if kv[1] != "" {
			fmt.Fprintf(&sb, "%s: %s\n", kv[0], kv[1])
		}
	}
	return strings.TrimRight(sb.String(), "\n"), "ok"
}

func (b *Bot) supplyReport(ctx context.Context) (string, string) {
	report, err := b.supply.Analyze(ctx)
	if err != nil {
		return fmt.Sprintf("Supply analysis failed: %v", err), "error"
	}
	var sb strings.Builder
	for _, r := range report.Tokens {
		fmt.Fprintf(&sb, "**%s** total %s, burned %s, circulating %s",
			r.Name, r.TotalSupply.StringFixed(2), r.BurnSupply.StringFixed(2), r.CirculatingSupply.StringFixed(2))
		if r.PriceUSD != nil {
			fmt.Fprintf(&sb, ", price $%s", r.PriceUSD.String())
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "Total value: $%s", report.TotalValueUSD.StringFixed(2))
	return sb.String(), "ok"
}

func (b *Bot) riskReport(ctx context.Context, address string) (string, string) {
	if !domain.ValidAddress(address) {
		return fmt.Sprintf("`%s` is not a valid address.", address), "usage"
	}
	r, err := b.risk.Analyze(ctx, address, walletscan.ScanOptions{MaxTransactions: b.riskScan})
	if err != nil {
		return fmt.Sprintf("Scan failed: %v", err), "error"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s** risk score %d/10\n", r.Address, r.RiskScore)
	fmt.Fprintf(&sb, "Transactions: %d", r.TransactionCount)
	if r.Truncated {
		sb.WriteString(" (truncated)")
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Flagged: %d, scam interactions: %d", len(r.FlaggedTxs), len(r.ScamInteractions))
	if len(r.TopDapps) > 0 {
		names := make([]string, 0, 3)
		for i, d := range r.TopDapps {
			if i == 3 {
				break
			}
			names = append(names, d.Name)
		}
		fmt.Fprintf(&sb, "\nTop dapps: %s", strings.Join(names, ", "))
	}
	return sb.String(), "ok"
}
