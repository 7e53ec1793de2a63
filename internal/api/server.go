// Package api exposes the aggregation services over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"injective-token-lab/internal/domain"
	"injective-token-lab/internal/observability"
	"injective-token-lab/internal/storage"
	"injective-token-lab/internal/walletscan"
)

// Portfolio answers per-address balance questions.
type Portfolio interface {
	WalletInfo(ctx context.Context, address string) (*domain.WalletInfo, error)
	ContractBalances(ctx context.Context, address string) (*domain.ContractBalances, error)
	Eligibility(ctx context.Context, address string) (*domain.Eligibility, error)
	Allowlist(address string) (*domain.AllowlistStatus, error)
}

// Holders builds holder tables.
type Holders interface {
	Holders(ctx context.Context, nativeDenom, contract string) (*domain.HolderTable, error)
	NFTHolders(ctx context.Context, contract string) (*domain.NFTHolderTable, error)
}

// SupplyReporter produces the supply report of the tracked token set.
type SupplyReporter interface {
	Analyze(ctx context.Context) (*domain.SupplyReport, error)
}

// WalletScanner produces a wallet risk report.
type WalletScanner interface {
	Analyze(ctx context.Context, address string, opts walletscan.ScanOptions) (*domain.WalletReport, error)
}

// Talents is the talent directory.
type Talents interface {
	Submit(ctx context.Context, t domain.Talent) (*domain.Talent, error)
	List(ctx context.Context, status domain.TalentStatus) ([]*domain.Talent, error)
}

// ScamReports accepts and lists scam reports.
type ScamReports interface {
	Submit(ctx context.Context, address, project, info, discord string) (*domain.ScamReport, error)
	Overview(ctx context.Context) (*domain.ScamOverview, error)
}

// Services are the handlers' dependencies. Wallets may be nil.
type Services struct {
	Portfolio Portfolio
	Holders   Holders
	Supply    SupplyReporter
	Snapshots storage.SupplySnapshotStore
	Wallets   WalletScanner
	Talents   Talents
	Scams     ScamReports

	// MaxScanTransactions caps wallet report scans.
	MaxScanTransactions int
}

type handlers struct {
	Services
}

// NewRouter builds the HTTP router.
func NewRouter(s Services) *gin.Engine {
	h := &handlers{Services: s}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.UseRawPath = true
	r.UnescapePathValues = true

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "X-Requested-With", "Content-Length", "Content-Type", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}

	r.Use(cors.New(corsConfig))
	r.Use(gin.Recovery())
	r.Use(requestLogger())
	r.Use(requestMetrics())

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	{
		r.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
		r.GET("/metrics", gin.WrapH(observability.Handler()))
	}

	{
		r.GET("/wallet_info/:address", h.walletInfo)
		r.GET("/cw20/:address", h.cw20)
		r.GET("/check_wallet/:address", h.checkWallet)
		r.GET("/checker/:address", h.checker)
		r.GET("/wallet_report/:address", h.walletReport)
	}

	{
		r.GET("/token_info", h.tokenInfo)
		r.GET("/token_info/history", h.tokenHistory)
		r.GET("/token_holders/:native/:contract", h.tokenHolders)
		r.GET("/native_holders/*denom", h.nativeHolders)
		r.GET("/nft_holders/:contract", h.nftHolders)
	}

	{
		r.GET("/talented", h.talented)
		r.POST("/talent_check", h.talentCheck)
		r.GET("/scam", h.scam)
		r.POST("/scam_check", h.scamCheck)
	}

	return r
}

// Server runs the router until its context ends.
type Server struct {
	srv *http.Server
}

// NewServer creates a server listening on addr.
func NewServer(addr string, handler http.Handler) *Server {
	return &Server{srv: &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	log.Info().Str("worker", "http").Str("addr", s.srv.Addr).Msg("HTTP server - started")
	defer log.Info().Str("worker", "http").Msg("HTTP server - stopped")

	errCh := make(chan error, 1)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}
