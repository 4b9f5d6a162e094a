package http

import (
	"net/http"
	"strconv"

	"github.com/basketnetwork/basket-engine/internal/config"
	"github.com/basketnetwork/basket-engine/internal/db"
	"github.com/gin-gonic/gin"
)

func (hs *HTTPServer) handleReserves(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"reserves": hs.state.GetReserves(),
		"total":    hs.state.TotalReserves(),
	})
}

func (hs *HTTPServer) handleReserve(c *gin.Context) {
	asset := c.Param("asset")
	if !hs.state.IsSupported(asset) {
		c.JSON(http.StatusNotFound, gin.H{"error": db.ErrUnsupportedAsset.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"asset": asset, "balance": hs.state.GetReserve(asset)})
}

func (hs *HTTPServer) handleSupply(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"symbol":       config.AppConfig.SyntheticSymbol,
		"total_supply": hs.state.SyntheticSupply(),
	})
}

func (hs *HTTPServer) handleQueueDepth(c *gin.Context) {
	asset := c.Param("asset")
	if !hs.state.IsSupported(asset) {
		c.JSON(http.StatusNotFound, gin.H{"error": db.ErrUnsupportedAsset.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"asset": asset, "depth": hs.state.Depth(asset)})
}

func (hs *HTTPServer) handlePosition(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid position id"})
		return
	}
	position, err := hs.state.GetPosition(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	response := gin.H{"position": position}
	if amountAhead, lineNumber, err := hs.state.PositionInfo(uint(id)); err == nil {
		response["amount_ahead"] = amountAhead
		response["line_number"] = lineNumber
	}
	c.JSON(http.StatusOK, response)
}

func (hs *HTTPServer) handleOwnerPositions(c *gin.Context) {
	positions, err := hs.state.GetPositionsByOwner(c.Param("owner"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"positions": positions})
}

func (hs *HTTPServer) handleStakeAccount(c *gin.Context) {
	owner := c.Param("owner")
	account, _ := hs.state.GetStakeAccount(owner)
	c.JSON(http.StatusOK, gin.H{
		"account":            account,
		"power":              hs.state.StakePower(owner),
		"daily_fee_free_cap": hs.state.DailyFeeFreeCap(owner),
	})
}

func (hs *HTTPServer) handleEmission(c *gin.Context) {
	c.JSON(http.StatusOK, hs.state.EmissionCounters())
}

func (hs *HTTPServer) handleDeposit(c *gin.Context) {
	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	receiptId, minted, err := hs.engine.Deposit(req.Owner, req.Asset, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"receipt_id": receiptId, "minted": minted})
}

func (hs *HTTPServer) handleWithdraw(c *gin.Context) {
	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	receiptId, received, err := hs.engine.Withdraw(req.Owner, req.Asset, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"receipt_id": receiptId, "received": received})
}

func (hs *HTTPServer) handleSwap(c *gin.Context) {
	var req SwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := hs.engine.Swap(req.Owner, req.FromAsset, req.ToAsset, req.Amount, req.QueueIfUnavailable)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (hs *HTTPServer) handleSwapFromSynthetic(c *gin.Context) {
	var req SwapFromSyntheticRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := hs.engine.SwapFromSynthetic(req.Owner, req.ToAsset, req.Amount, req.QueueIfUnavailable)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (hs *HTTPServer) handleJoinQueue(c *gin.Context) {
	var req JoinQueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	receiptId, positionId, err := hs.engine.JoinQueue(req.Owner, req.Asset, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"receipt_id": receiptId, "position_id": positionId})
}

func (hs *HTTPServer) handleCancelQueue(c *gin.Context) {
	var req CancelQueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	receiptId, refund, err := hs.engine.CancelQueue(req.Caller, req.PositionId)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"receipt_id": receiptId, "refund": refund})
}

func (hs *HTTPServer) handleStake(c *gin.Context) {
	var req StakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	receiptId, staked, err := hs.engine.Stake(req.Owner, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"receipt_id": receiptId, "staked": staked})
}

func (hs *HTTPServer) handleUnstake(c *gin.Context) {
	var req UnstakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	receiptId, amount, err := hs.engine.Unstake(req.Owner)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"receipt_id": receiptId, "amount": amount})
}

func (hs *HTTPServer) handleCompleteUnstake(c *gin.Context) {
	var req UnstakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	receiptId, amount, err := hs.engine.CompleteUnstake(req.Owner)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"receipt_id": receiptId, "amount": amount})
}

func (hs *HTTPServer) handleCancelUnstake(c *gin.Context) {
	var req UnstakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	receiptId, amount, err := hs.engine.CancelUnstake(req.Owner)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"receipt_id": receiptId, "amount": amount})
}

func respondError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch err {
	case db.ErrPositionNotFound, db.ErrUnsupportedAsset:
		status = http.StatusNotFound
	case db.ErrNotOwner:
		status = http.StatusForbidden
	case db.ErrInsufficientReserves, db.ErrInsufficientBalance, db.ErrInsufficientAllowance,
		db.ErrCooldownNotComplete, db.ErrAlreadyUnstaking, db.ErrNotUnstaking, db.ErrNotStaked:
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
