package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"injective-token-lab/internal/domain"
	"injective-token-lab/internal/injective"
	"injective-token-lab/internal/walletscan"
)

// History query limits.
const (
	defaultHistoryLimit = 24
	maxHistoryLimit     = 1000
)

// abort maps err to a status and writes {"error": msg}.
func abort(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, injective.ErrMalformedInput) {
		status = http.StatusBadRequest
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func malformed(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, injective.ErrMalformedInput)...)
}

func requireAddress(c *gin.Context) (string, bool) {
	address := strings.TrimSpace(c.Param("address"))
	if !domain.ValidAddress(address) {
		abort(c, malformed("address %q", address))
		return "", false
	}
	return address, true
}

// optionalParam treats "-" and "none" as absent.
func optionalParam(v string) string {
	v = strings.TrimSpace(v)
	if v == "-" || strings.EqualFold(v, "none") {
		return ""
	}
	return v
}

func (h *handlers) walletInfo(c *gin.Context) {
	address, ok := requireAddress(c)
	if !ok {
		return
	}
	info, err := h.Portfolio.WalletInfo(c.Request.Context(), address)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *handlers) cw20(c *gin.Context) {
	address, ok := requireAddress(c)
	if !ok {
		return
	}
	balances, err := h.Portfolio.ContractBalances(c.Request.Context(), address)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, balances)
}

func (h *handlers) checkWallet(c *gin.Context) {
	address, ok := requireAddress(c)
	if !ok {
		return
	}
	result, err := h.Portfolio.Eligibility(c.Request.Context(), address)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *handlers) checker(c *gin.Context) {
	address := strings.TrimSpace(c.Param("address"))
	result, err := h.Portfolio.Allowlist(address)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *handlers) walletReport(c *gin.Context) {
	if h.Wallets == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	address, ok := requireAddress(c)
	if !ok {
		return
	}
	report, err := h.Wallets.Analyze(c.Request.Context(), address, walletscan.ScanOptions{MaxTransactions: h.MaxScanTransactions})
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *handlers) tokenInfo(c *gin.Context) {
	report, err := h.Supply.Analyze(c.Request.Context())
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *handlers) tokenHistory(c *gin.Context) {
	denom := strings.TrimSpace(c.Query("denom"))
	if !domain.ValidDenom(denom) && !domain.ValidAddress(denom) {
		abort(c, malformed("denom %q", denom))
		return
	}

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			abort(c, malformed("limit %q", raw))
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	records, err := h.Snapshots.History(c.Request.Context(), denom, limit)
	if err != nil {
		abort(c, err)
		return
	}
	if records == nil {
		records = []domain.SupplyRecord{}
	}
	c.JSON(http.StatusOK, records)
}

func (h *handlers) tokenHolders(c *gin.Context) {
	native := optionalParam(c.Param("native"))
	contract := optionalParam(c.Param("contract"))
	if native == "" && contract == "" {
		abort(c, malformed("need a native denom or a contract"))
		return
	}
	if native != "" && !domain.ValidDenom(native) {
		abort(c, malformed("denom %q", native))
		return
	}
	if contract != "" && !domain.ValidAddress(contract) {
		abort(c, malformed("contract %q", contract))
		return
	}

	table, err := h.Holders.Holders(c.Request.Context(), native, contract)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, table)
}

func (h *handlers) nativeHolders(c *gin.Context) {
	denom := strings.TrimPrefix(c.Param("denom"), "/")
	if !domain.ValidDenom(denom) {
		abort(c, malformed("denom %q", denom))
		return
	}
	table, err := h.Holders.Holders(c.Request.Context(), denom, "")
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, table)
}

func (h *handlers) nftHolders(c *gin.Context) {
	contract := strings.TrimSpace(c.Param("contract"))
	if !domain.ValidAddress(contract) {
		abort(c, malformed("contract %q", contract))
		return
	}
	table, err := h.Holders.NFTHolders(c.Request.Context(), contract)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, table)
}

func (h *handlers) talented(c *gin.Context) {
	status := domain.TalentApproved
	switch q := c.Query("status"); {
	case strings.EqualFold(q, "all"):
		status = ""
	case q != "":
		parsed, err := domain.ParseTalentStatus(q)
		if err != nil {
			abort(c, fmt.Errorf("%v: %w", err, injective.ErrMalformedInput))
			return
		}
		status = parsed
	}

	rows, err := h.Talents.List(c.Request.Context(), status)
	if err != nil {
		abort(c, err)
		return
	}
	if rows == nil {
		rows = []*domain.Talent{}
	}
	c.JSON(http.StatusOK, rows)
}

func (h *handlers) talentCheck(c *gin.Context) {
	var in domain.Talent
	if err := c.ShouldBindJSON(&in); err != nil {
		abort(c, malformed("talent body: %v", err))
		return
	}

	row, err := h.Talents.Submit(c.Request.Context(), in)
	if row == nil {
		abort(c, err)
		return
	}
	// accepted even when the file write failed; the row stays in memory
	if err != nil {
		l := logger(c)
		l.Warn().Err(err).Str("wallet", row.WalletAddress).Msg("talent submission not persisted")
	}
	c.JSON(http.StatusOK, gin.H{"status": "received", "talent": row, "persisted": err == nil})
}

type scamReportRequest struct {
	Address string `json:"Address" form:"Address"`
	Project string `json:"Project" form:"Project"`
	Info    string `json:"Info" form:"Info"`
	Discord string `json:"Discord" form:"Discord"`
}

func (h *handlers) scam(c *gin.Context) {
	overview, err := h.Scams.Overview(c.Request.Context())
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (h *handlers) scamCheck(c *gin.Context) {
	var in scamReportRequest
	if err := c.ShouldBind(&in); err != nil {
		abort(c, malformed("scam report body: %v", err))
		return
	}
	report, err := h.Scams.Submit(c.Request.Context(), in.Address, in.Project, in.Info, in.Discord)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "received", "report": report})
}
