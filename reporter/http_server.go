// This is a http type of reporter.
// It serves stateless coin selection and, when a vault is attached,
// the vault's balance and lock operations.

package reporter

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"

	"github.com/TEENet-io/cardano-utxo/binding"
	"github.com/TEENet-io/cardano-utxo/common"
	"github.com/TEENet-io/cardano-utxo/utxo"
	"github.com/TEENet-io/cardano-utxo/vault"
)

const (
	ROUTE_HELLO         = "/hello"
	ROUTE_SELECT        = "/select"
	ROUTE_VAULT_BALANCE = "/vault/balance"
	ROUTE_VAULT_UTXOS   = "/vault/utxos"
	ROUTE_VAULT_LOCK    = "/vault/lock"
	ROUTE_VAULT_RELEASE = "/vault/release"
	ROUTE_VAULT_SPENT   = "/vault/spent"

	HEADER_REQUEST_ID = "X-Request-Id"

	MSG_INSUFFICIENT = "insufficient"
)

type HttpReporter struct {
	serverIP   string // listen ip
	serverPort string // listen port

	// optional, vault routes are not served without it
	vault *vault.Vault
}

func NewHttpReporter(serverIP string, serverPort string, v *vault.Vault) *HttpReporter {
	return &HttpReporter{
		serverIP:   serverIP,
		serverPort: serverPort,
		vault:      v,
	}
}

// Hook up routes & handlers
func (h *HttpReporter) SetupRouter() *gin.Engine {
	router := gin.Default()
	router.Use(RequestID())

	router.GET(ROUTE_HELLO, Hello)
	router.POST(ROUTE_SELECT, Select)

	if h.vault != nil {
		router.GET(ROUTE_VAULT_BALANCE, h.Balance)
		router.GET(ROUTE_VAULT_UTXOS, h.ListUtxos)
		router.POST(ROUTE_VAULT_UTXOS, h.AddUtxo)
		router.POST(ROUTE_VAULT_LOCK, h.Lock)
		router.POST(ROUTE_VAULT_RELEASE, h.Release)
		router.POST(ROUTE_VAULT_SPENT, h.Spent)
	}

	return router
}

// Run serves on ip:port until ctx is done.
func (h *HttpReporter) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              h.serverIP + ":" + h.serverPort,
		Handler:           h.SetupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("http reporter listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}

// RequestID tags every request with an id, reusing the caller's if any.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HEADER_REQUEST_ID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(HEADER_REQUEST_ID, id)
		c.Header(HEADER_REQUEST_ID, id)

		c.Next()

		logger.WithFields(logger.Fields{
			"request_id": id,
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"status":     c.Writer.Status(),
		}).Debug("request served")
	}
}

func requestLogger(c *gin.Context) *logger.Entry {
	return logger.WithField("request_id", c.GetString(HEADER_REQUEST_ID))
}

// Example route.
func Hello(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "world",
	})
}

// Select runs coin selection over the inputs carried by the request.
func Select(c *gin.Context) {
	var req binding.SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, ok, err := binding.Select(&req)
	if err != nil {
		requestLogger(c).Warnf("select failed: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": MSG_INSUFFICIENT})
		return
	}
	c.JSON(http.StatusOK, res)
}

type BalanceResponse struct {
	Address  string          `json:"address"`
	Lovelace uint64          `json:"lovelace"`
	Ada      string          `json:"ada"`
	Assets   []binding.Asset `json:"assets"`
}

func (h *HttpReporter) Balance(c *gin.Context) {
	bal, err := h.vault.Balance(c.Request.Context())
	if err != nil {
		h.internalError(c, err)
		return
	}
	out := binding.FromRecord(bal)
	c.JSON(http.StatusOK, BalanceResponse{
		Address:  h.vault.Address,
		Lovelace: out.Lovelace,
		Ada:      common.FormatAda(out.Lovelace),
		Assets:   out.Assets,
	})
}

// ListUtxos lists usable records.
// Either policy_id (+ asset_name) or pure=true narrows the list.
func (h *HttpReporter) ListUtxos(c *gin.Context) {
	usable, err := h.vault.Usable(c.Request.Context())
	if err != nil {
		h.internalError(c, err)
		return
	}

	policyID := c.Query("policy_id")
	switch {
	case policyID != "":
		id := utxo.AssetID{PolicyID: policyID, AssetName: c.Query("asset_name")}
		usable = utxo.Filter(usable, utxo.HasAsset(id))
	case c.Query("pure") == "true":
		usable = utxo.Filter(usable, utxo.PureLovelace)
	}

	c.JSON(http.StatusOK, gin.H{"data": binding.FromRecords(usable)})
}

type AddUtxoRequest struct {
	Output      binding.Output `json:"output"`
	BlockNumber int64          `json:"blockNumber"`
}

func (h *HttpReporter) AddUtxo(c *gin.Context) {
	var req AddUtxoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, err := binding.ToRecord(req.Output)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = h.vault.AddRecord(c.Request.Context(), rec, req.BlockNumber)
	switch {
	case errors.Is(err, vault.ErrMissingID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, vault.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case err != nil:
		h.internalError(c, err)
	default:
		c.JSON(http.StatusCreated, gin.H{"data": req.Output})
	}
}

type LockRequest struct {
	Outputs   []binding.Output `json:"outputs"`
	Threshold *binding.Output  `json:"threshold,omitempty"`
}

type LockResponse struct {
	LockID   string           `json:"lockId"`
	Expiry   int64            `json:"expiry"`
	Selected []binding.Output `json:"selected"`
	Excess   binding.Output   `json:"excess"`
}

// Lock chooses usable records for the outputs and locks them.
func (h *HttpReporter) Lock(c *gin.Context) {
	var req LockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	target, threshold, err := binding.Requirement(req.Outputs, req.Threshold)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lock, ok, err := h.vault.ChooseAndLock(c.Request.Context(), target, threshold)
	if errors.Is(err, utxo.ErrOverflow) || errors.Is(err, vault.ErrNothingToLock) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.internalError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": MSG_INSUFFICIENT})
		return
	}

	c.JSON(http.StatusOK, LockResponse{
		LockID:   lock.ID.Hex(),
		Expiry:   lock.Expiry.Unix(),
		Selected: binding.FromRecords(lock.Selection.Selected),
		Excess:   binding.FromRecord(lock.Selection.Excess),
	})
}

// ReleaseRequest names either a whole lock or a single outpoint.
type ReleaseRequest struct {
	LockID string                 `json:"lockId,omitempty"`
	ID     *binding.TransactionID `json:"id,omitempty"`
}

func (h *HttpReporter) Release(c *gin.Context) {
	var req ReleaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	var (
		n   int
		err error
	)
	switch {
	case req.LockID != "" && common.IsHash(req.LockID):
		n, err = h.vault.ReleaseLock(ctx, common.HexStrToHash(req.LockID))
	case req.LockID == "" && req.ID != nil:
		n, err = h.vault.ReleaseByCommand(ctx, utxo.TransactionID{Hash: req.ID.Hash, Index: req.ID.Index})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Either a 32-byte hex lockId or id must be provided"})
		return
	}
	if h.notFoundOrError(c, err) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"released": n})
}

func (h *HttpReporter) Spent(c *gin.Context) {
	var req ReleaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !common.IsHash(req.LockID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a 32-byte hex lockId must be provided"})
		return
	}

	n, err := h.vault.MarkSpent(c.Request.Context(), common.HexStrToHash(req.LockID))
	if h.notFoundOrError(c, err) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"spent": n})
}

// notFoundOrError writes the response for err, returns false if err is nil.
func (h *HttpReporter) notFoundOrError(c *gin.Context, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, vault.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.internalError(c, err)
	}
	return true
}

func (h *HttpReporter) internalError(c *gin.Context, err error) {
	requestLogger(c).Errorf("vault %s: %v", h.vault.Address, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
