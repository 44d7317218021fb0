package transport

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ganot/gigledger/internal/domain/event"
	"github.com/ganot/gigledger/internal/domain/ledger"
	"github.com/ganot/gigledger/internal/repository"
)

func (h *Handler) createProject(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	var req createProjectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	proj, err := h.ledger.CreateProject(c.Request.Context(), caller, ledger.CreateProjectRequest{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Budget:      req.Budget,
		Deadline:    req.Deadline,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": proj})
}

func (h *Handler) getProject(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	proj, err := h.ledger.GetProject(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": proj})
}

func (h *Handler) getProjectBids(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	bids, err := h.ledger.GetProjectBids(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "bids": bids})
}

func (h *Handler) submitBid(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := projectID(c)
	if !ok {
		return
	}

	if err := h.ledger.SubmitBid(c.Request.Context(), caller, id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true})
}

func (h *Handler) assignFreelancer(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := projectID(c)
	if !ok {
		return
	}

	var req assignReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	proj, err := h.ledger.AssignFreelancer(c.Request.Context(), caller, id, strings.TrimSpace(req.Freelancer))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": proj})
}

func (h *Handler) submitWork(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := projectID(c)
	if !ok {
		return
	}

	proj, err := h.ledger.SubmitWork(c.Request.Context(), caller, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": proj})
}

func (h *Handler) completeProject(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := projectID(c)
	if !ok {
		return
	}

	settlement, err := h.ledger.CompleteProject(c.Request.Context(), caller, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "settlement": settlement})
}

func (h *Handler) cancelProject(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := projectID(c)
	if !ok {
		return
	}

	if err := h.ledger.CancelProject(c.Request.Context(), caller, id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) updatePlatformFee(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	var req platformFeeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	if err := h.ledger.UpdatePlatformFee(c.Request.Context(), caller, req.Pct); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) clientProjects(c *gin.Context) {
	ids, err := h.ledger.GetClientProjects(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project_ids": ids})
}

func (h *Handler) freelancerProjects(c *gin.Context) {
	ids, err := h.ledger.GetFreelancerProjects(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project_ids": ids})
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.ledger.GetStats(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "stats": stats})
}

func (h *Handler) listEvents(c *gin.Context) {
	var opts event.ListOptions

	if idStr := c.Query("project_id"); idStr != "" {
		id, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid project_id"})
			return
		}
		opts.ProjectID = &id
	}
	if typStr := c.Query("type"); typStr != "" {
		typ := event.Type(typStr)
		opts.Type = &typ
	}
	opts.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))
	opts.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	events, err := h.events.Recent(c.Request.Context(), opts)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "events": events})
}

func (h *Handler) topUpAccount(c *gin.Context) {
	var req topUpReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	if err := h.custody.Credit(c.Request.Context(), c.Param("id"), req.Amount); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) accountBalance(c *gin.Context) {
	balance, err := h.custody.Balance(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "balance": balance})
}

// caller extracts the authenticated caller identity or rejects the request.
func (h *Handler) caller(c *gin.Context) (string, bool) {
	caller := strings.TrimSpace(c.GetHeader(callerHeader))
	if caller == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing caller identity"})
		return "", false
	}
	return caller, true
}

func projectID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid project id"})
		return 0, false
	}
	return id, true
}

// fail maps domain errors to HTTP status codes.
func (h *Handler) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, ledger.ErrProjectNotFound), errors.Is(err, repository.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ledger.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, ledger.ErrInvalidState), errors.Is(err, repository.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, ledger.ErrValidation), errors.Is(err, repository.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, repository.ErrInsufficientFunds):
		status = http.StatusPaymentRequired
	case errors.Is(err, ledger.ErrCustody):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"ok": false, "error": err.Error()})
}
