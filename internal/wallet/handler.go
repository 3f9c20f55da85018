package wallet

import (
	"net/http"
	"strconv"

	"github.com/Huzaifa-Afraz/swiftride-server/internal/api"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetWallet godoc
// @Summary      My wallet
// @Description  Balances plus the most recent ledger entries.
// @Tags         wallet
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  wallet.WalletResponse
// @Failure      401  {object}  api.ErrorResponse
// @Router       /wallet [get]
func (h *Handler) GetWallet(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	ctx := c.Request.Context()
	w, err := h.service.GetWallet(ctx, userID)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	txs, err := h.service.ListTransactions(ctx, userID, 10, 0)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, WalletResponse{Wallet: w, Transactions: txs})
}

// ListTransactions godoc
// @Summary      Wallet transactions
// @Tags         wallet
// @Security     BearerAuth
// @Produce      json
// @Param        limit   query  int  false  "Page size (max 50)"
// @Param        offset  query  int  false  "Offset"
// @Success      200  {array}   wallet.Transaction
// @Failure      401  {object}  api.ErrorResponse
// @Router       /wallet/transactions [get]
func (h *Handler) ListTransactions(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	txs, err := h.service.ListTransactions(c.Request.Context(), userID, limit, offset)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, txs)
}

// VerifyLedger godoc
// @Summary      Verify my ledger
// @Description  Replays all ledger entries from zero and compares with stored balances.
// @Tags         wallet
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  wallet.LedgerReport
// @Router       /wallet/ledger [get]
func (h *Handler) VerifyLedger(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	report, err := h.service.VerifyLedger(c.Request.Context(), userID)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// RequestWithdrawal godoc
// @Summary      Request a withdrawal
// @Description  Holds the amount from the available balance until an admin resolves the request.
// @Tags         wallet
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      wallet.WithdrawRequest  true  "Withdrawal payload"
// @Success      201  {object}  wallet.WithdrawalRequest
// @Failure      400  {object}  api.ErrorResponse
// @Failure      409  {object}  api.ErrorResponse
// @Router       /wallet/withdrawals [post]
func (h *Handler) RequestWithdrawal(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	var req WithdrawRequest
	if !api.BindJSON(c, &req) {
		return
	}

	w, err := h.service.RequestWithdrawal(c.Request.Context(), userID, req)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, w)
}

// ListMyWithdrawals godoc
// @Summary      My withdrawal requests
// @Tags         wallet
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  wallet.WithdrawalRequest
// @Router       /wallet/withdrawals [get]
func (h *Handler) ListMyWithdrawals(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	out, err := h.service.ListMyWithdrawals(c.Request.Context(), userID)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

// ListWithdrawals godoc
// @Summary      List withdrawal requests
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        status  query  string  false  "pending, approved or rejected"
// @Param        limit   query  int     false  "Page size (max 50)"
// @Param        offset  query  int     false  "Offset"
// @Success      200  {array}  wallet.WithdrawalRequest
// @Router       /admin/withdrawals [get]
func (h *Handler) ListWithdrawals(c *gin.Context) {
	status := c.Query("status")
	switch status {
	case "", WithdrawalPending, WithdrawalApproved, WithdrawalRejected:
	default:
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid status"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	out, err := h.service.ListWithdrawals(c.Request.Context(), status, limit, offset)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

// ApproveWithdrawal godoc
// @Summary      Approve a withdrawal
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        requestID  path  int                              true  "Withdrawal request ID"
// @Param        request    body  wallet.ApproveWithdrawalRequest  true  "Proof of payment"
// @Success      200  {object}  wallet.WithdrawalRequest
// @Failure      404  {object}  api.ErrorResponse
// @Failure      409  {object}  api.ErrorResponse
// @Router       /admin/withdrawals/{requestID}/approve [post]
func (h *Handler) ApproveWithdrawal(c *gin.Context) {
	requestID, ok := requestIDParam(c)
	if !ok {
		return
	}

	var req ApproveWithdrawalRequest
	if !api.BindJSON(c, &req) {
		return
	}

	w, err := h.service.ApproveWithdrawal(c.Request.Context(), requestID, req)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, w)
}

// RejectWithdrawal godoc
// @Summary      Reject a withdrawal
// @Description  Refunds the held amount to the available balance.
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        requestID  path  int                             true  "Withdrawal request ID"
// @Param        request    body  wallet.RejectWithdrawalRequest  true  "Reason"
// @Success      200  {object}  wallet.WithdrawalRequest
// @Failure      404  {object}  api.ErrorResponse
// @Failure      409  {object}  api.ErrorResponse
// @Router       /admin/withdrawals/{requestID}/reject [post]
func (h *Handler) RejectWithdrawal(c *gin.Context) {
	requestID, ok := requestIDParam(c)
	if !ok {
		return
	}

	var req RejectWithdrawalRequest
	if !api.BindJSON(c, &req) {
		return
	}

	w, err := h.service.RejectWithdrawal(c.Request.Context(), requestID, req)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, w)
}

// PendingEarnings godoc
// @Summary      Pending earnings of a user
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        userID  path  int  true  "User ID"
// @Success      200  {array}  wallet.Transaction
// @Router       /admin/users/{userID}/pending-earnings [get]
func (h *Handler) PendingEarnings(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("userID"))
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid user id"})
		return
	}

	txs, err := h.service.PendingEarnings(c.Request.Context(), userID)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, txs)
}

func requestIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("requestID"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request id"})
		return 0, false
	}
	return id, true
}
