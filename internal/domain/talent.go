package domain

import (
	"fmt"
	"strings"
)

// TalentStatus is the moderation state of a talent submission.
type TalentStatus string

// Moderation states.
const (
	TalentPending          TalentStatus = "Pending"
	TalentApproved         TalentStatus = "Approved"
	TalentRejected         TalentStatus = "Rejected"
	TalentChangesRequested TalentStatus = "Changes Requested"
	TalentOnHold           TalentStatus = "On Hold"
)

// ParseTalentStatus accepts a status name case-insensitively.
func ParseTalentStatus(s string) (TalentStatus, error) {
	for _, st := range []TalentStatus{TalentPending, TalentApproved, TalentRejected, TalentChangesRequested, TalentOnHold} {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown talent status %q", s)
}

// TalentColumns is the fixed column order of the talent table.
var TalentColumns = []string{
	"Name", "Role", "Injective Role", "Experience", "Education", "Location",
	"Availability", "Monthly Rate", "Skills", "Languages", "Discord", "Email",
	"Phone", "Telegram", "X", "Github", "Wallet Address", "Wallet Type",
	"NFT Holdings", "Token Holdings", "Portfolio", "CV", "Image URL", "Bio",
	"Submission Date", "Status",
}

// Talent is one talent directory row.
type Talent struct {
	Name           string       `json:"Name"`
	Role           string       `json:"Role"`
	InjectiveRole  string       `json:"Injective Role"`
	Experience     string       `json:"Experience"`
	Education      string       `json:"Education"`
	Location       string       `json:"Location"`
	Availability   string       `json:"Availability"`
	MonthlyRate    string       `json:"Monthly Rate"`
	Skills         string       `json:"Skills"`
	Languages      string       `json:"Languages"`
	Discord        string       `json:"Discord"`
	Email          string       `json:"Email"`
	Phone          string       `json:"Phone"`
	Telegram       string       `json:"Telegram"`
	X              string       `json:"X"`
	Github         string       `json:"Github"`
	WalletAddress  string       `json:"Wallet Address"`
	WalletType     string       `json:"Wallet Type"`
	NFTHoldings    string       `json:"NFT Holdings"`
	TokenHoldings  string       `json:"Token Holdings"`
	Portfolio      string       `json:"Portfolio"`
	CV             string       `json:"CV"`
	ImageURL       string       `json:"Image URL"`
	Bio            string       `json:"Bio"`
	SubmissionDate string       `json:"Submission Date"`
	Status         TalentStatus `json:"Status"`
}

// WalletKey is the primary key of a talent row.
func WalletKey(wallet string) string {
	return strings.ToLower(strings.TrimSpace(wallet))
}

// Key returns the talent primary key.
func (t *Talent) Key() string { return WalletKey(t.WalletAddress) }

// Row renders the talent in TalentColumns order.
func (t *Talent) Row() []string {
	return []string{
		t.Name, t.Role, t.InjectiveRole, t.Experience, t.Education, t.Location,
		t.Availability, t.MonthlyRate, t.Skills, t.Languages, t.Discord, t.Email,
		t.Phone, t.Telegram, t.X, t.Github, t.WalletAddress, t.WalletType,
		t.NFTHoldings, t.TokenHoldings, t.Portfolio, t.CV, t.ImageURL, t.Bio,
		t.SubmissionDate, string(t.Status),
	}
}

// TalentFromRow is the inverse of Row. The row must have len(TalentColumns) cells.
func TalentFromRow(row []string) (*Talent, error) {
	if len(row) != len(TalentColumns) {
		return nil, fmt.Errorf("talent row has %d cells, want %d", len(row), len(TalentColumns))
	}
	return &Talent{
		Name: row[0], Role: row[1], InjectiveRole: row[2], Experience: row[3],
		Education: row[4], Location: row[5], Availability: row[6], MonthlyRate: row[7],
		Skills: row[8], Languages: row[9], Discord: row[10], Email: row[11],
		Phone: row[12], Telegram: row[13], X: row[14], Github: row[15],
		WalletAddress: row[16], WalletType: row[17], NFTHoldings: row[18],
		TokenHoldings: row[19], Portfolio: row[20], CV: row[21], ImageURL: row[22],
		Bio: row[23], SubmissionDate: row[24], Status: TalentStatus(row[25]),
	}, nil
}
