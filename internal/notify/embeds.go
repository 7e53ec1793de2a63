package notify

import (
	"github.com/shopspring/decimal"

	"injective-token-lab/internal/domain"
)

// Embed colors.
const (
	ColorBurn     = 0xE67E22
	ColorScam     = 0xE74C3C
	ColorPending  = 0xF1C40F
	ColorApproved = 0x2ECC71
	ColorRejected = 0xE74C3C
	ColorChanges  = 0x3498DB
	ColorOnHold   = 0x95A5A6
	ColorUnknown  = 0x7F8C8D
)

// StatusColor maps a talent status to its embed color.
func StatusColor(s domain.TalentStatus) int {
	switch s {
	case domain.TalentPending:
		return ColorPending
	case domain.TalentApproved:
		return ColorApproved
	case domain.TalentRejected:
		return ColorRejected
	case domain.TalentChangesRequested:
		return ColorChanges
	case domain.TalentOnHold:
		return ColorOnHold
	default:
		return ColorUnknown
	}
}

// BurnEmbed describes an increase of the burn address balance.
func BurnEmbed(token, denom string, burned, totalBurned decimal.Decimal) Embed {
	return Embed{
		Title:       token + " burned",
		Description: burned.String() + " " + token + " sent to the burn address",
		Color:       ColorBurn,
		Fields: []Field{
			{Name: "Amount", Value: burned.String(), Inline: true},
			{Name: "Total burned", Value: totalBurned.String(), Inline: true},
			{Name: "Denom", Value: denom},
		},
	}
}

// ScamReportEmbed describes a user-submitted scam report.
func ScamReportEmbed(r *domain.ScamReport) Embed {
	return Embed{
		Title:       "Scam report",
		Description: r.Address,
		Color:       ColorScam,
		Fields: []Field{
			{Name: "Project", Value: orDash(r.Project), Inline: true},
			{Name: "Reported by", Value: orDash(r.Discord), Inline: true},
			{Name: "Info", Value: orDash(r.Info)},
		},
	}
}

// TalentEmbed describes a talent row, colored by its status.
func TalentEmbed(title string, t *domain.Talent) Embed {
	return Embed{
		Title:       title,
		Description: t.Name,
		Color:       StatusColor(t.Status),
		Fields: []Field{
			{Name: "Status", Value: string(t.Status), Inline: true},
			{Name: "Role", Value: orDash(t.Role), Inline: true},
			{Name: "Discord", Value: orDash(t.Discord), Inline: true},
			{Name: "Wallet", Value: t.WalletAddress},
			{Name: "Skills", Value: orDash(t.Skills)},
			{Name: "Submitted", Value: orDash(t.SubmissionDate)},
		},
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
