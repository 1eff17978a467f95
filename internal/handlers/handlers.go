package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fcbox-relay/internal/api"
	"fcbox-relay/internal/config"
	"fcbox-relay/internal/crypto"
	"fcbox-relay/internal/interfaces"
	"fcbox-relay/internal/models"
	"fcbox-relay/internal/orders"
)

var emptyObject = json.RawMessage(`{}`)

type RelayHandler struct {
	vendor interfaces.LockerVendor
	signer *crypto.CryptoService
	config *config.Config
	logger *slog.Logger
}

func NewRelayHandler(
	vendor interfaces.LockerVendor,
	signer *crypto.CryptoService,
	cfg *config.Config,
	logger *slog.Logger,
) *RelayHandler {
	return &RelayHandler{
		vendor: vendor,
		signer: signer,
		config: cfg,
		logger: logger,
	}
}

// POST /send_verification_code - challenge fetch, sign, send code
func (h *RelayHandler) SendVerificationCode(c *gin.Context) {
	var req api.VerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.APIError{
			Error: "Invalid request format",
			Code:  api.ErrorCodeInvalidRequest,
		})
		return
	}

	challenge, err := h.vendor.FetchChallenge(req.PhoneNumber)
	if err != nil {
		h.logger.Error("challenge fetch failed", slog.String("error", err.Error()))
		c.JSON(http.StatusOK, api.SendCodeFailure{Success: false, Error: err.Error()})
		return
	}

	key, err := crypto.ResolvePublicKey(challenge.PublicKey)
	if err != nil {
		h.logger.Error("key resolution failed", slog.String("error", err.Error()))
		c.JSON(http.StatusOK, api.SendCodeFailure{
			Success: false,
			Error:   "encryption failed: " + err.Error(),
			Data:    challenge.Raw,
		})
		return
	}

	sc := crypto.SigningContext{
		PhoneNumber:   req.PhoneNumber,
		SliderTicket:  req.SliderTicket,
		SliderRandstr: req.SliderRandstr,
		Timestamp:     challenge.Timestamp,
		ClientIP:      challenge.ClientIP,
		RequestCode:   challenge.RequestCode,
	}
	sign, err := h.signer.SignSendCode(sc, challenge.NeedSlider, key)
	if err != nil {
		h.logger.Error("send-code signing failed", slog.String("error", err.Error()))
		c.JSON(http.StatusOK, api.SendCodeFailure{
			Success: false,
			Error:   "encryption failed: " + err.Error(),
			Data:    challenge.Raw,
		})
		return
	}

	data, err := h.vendor.SendCode(req.PhoneNumber, req.SliderTicket, req.SliderRandstr, sign)
	if err != nil {
		h.logger.Error("send-code call failed", slog.String("error", err.Error()))
		c.JSON(http.StatusOK, api.SendCodeFailure{Success: false, Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, api.SendCodeResponse{
		Success: true,
		Data:    data,
		Params: api.SignParams{
			RSAPublicKey: challenge.PublicKey,
			ClientIP:     challenge.ClientIP,
			RequestCode:  challenge.RequestCode,
			Timestamp:    challenge.Timestamp,
		},
	})
}

// POST /login - sign phone+code and exchange for a session token
func (h *RelayHandler) Login(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.APIError{
			Error: "Invalid request format",
			Code:  api.ErrorCodeInvalidRequest,
		})
		return
	}

	key, err := crypto.ResolvePublicKey(req.RSAPublicKey)
	if err != nil {
		h.logger.Error("login key resolution failed", slog.String("error", err.Error()))
		c.JSON(http.StatusOK, api.LoginFailure{Success: false, Error: "login encryption failed: " + err.Error()})
		return
	}

	sc := crypto.SigningContext{
		PhoneNumber:      req.PhoneNumber,
		VerificationCode: req.VerificationCode,
		Timestamp:        req.Timestamp.String(),
		ClientIP:         req.ClientIP,
		RequestCode:      req.RequestCode,
	}
	sign, err := h.signer.SignLogin(sc, key)
	if err != nil {
		h.logger.Error("login signing failed", slog.String("error", err.Error()))
		c.JSON(http.StatusOK, api.LoginFailure{Success: false, Error: "login encryption failed: " + err.Error()})
		return
	}

	res, err := h.vendor.Login(req.PhoneNumber, req.VerificationCode, sign)
	if err != nil {
		h.logger.Error("login call failed", slog.String("error", err.Error()))
		c.JSON(http.StatusOK, api.LoginFailure{Success: false, Error: err.Error()})
		return
	}

	data := res.Body
	if len(data) == 0 {
		data = emptyObject
	}
	// An empty token is a valid-but-degraded outcome; callers check token
	// presence separately from call success.
	c.JSON(http.StatusOK, api.LoginResponse{
		Success:       true,
		Data:          data,
		Authorization: res.Authorization,
	})
}

// GET /completed_orders - vendor-paginated picked-up orders, normalized
func (h *RelayHandler) CompletedOrders(c *gin.Context) {
	authorization, ok := h.requireAuth(c)
	if !ok {
		return
	}
	page := intQuery(c, "page", 1)
	limit := intQuery(c, "limit", 10)

	res, err := h.vendor.QueryCompleted(authorization, page, limit)
	if err != nil {
		h.logger.Error("completed orders query failed", slog.String("error", err.Error()))
		c.JSON(http.StatusOK, api.OrderListResponse{
			Success:  false,
			Data:     []models.NormalizedOrder{},
			Message:  err.Error(),
			Page:     page,
			PageSize: limit,
		})
		return
	}

	items := []models.NormalizedOrder{}
	total := 0
	// The vendor reports a total even on success:false envelopes; relay it.
	if res.Data != nil {
		total = res.Data.Total
	}
	if res.Success && res.Data != nil {
		items = orders.NormalizeCompleted(*res.Data)
	}
	if total == 0 {
		total = len(items)
	}
	c.JSON(http.StatusOK, api.OrderListResponse{
		Success:  true,
		Data:     items,
		Page:     page,
		PageSize: limit,
		Total:    &total,
	})
}

// GET /pending_orders - waiting-pickup tree, flattened and paginated locally
func (h *RelayHandler) PendingOrders(c *gin.Context) {
	authorization, ok := h.requireAuth(c)
	if !ok {
		return
	}
	page := intQuery(c, "page", 1)
	limit := intQuery(c, "limit", 10)

	res, err := h.vendor.QueryPending(authorization)
	if err != nil {
		h.logger.Error("pending orders query failed", slog.String("error", err.Error()))
		c.JSON(http.StatusOK, api.OrderListResponse{
			Success:  false,
			Data:     []models.NormalizedOrder{},
			Message:  err.Error(),
			Page:     page,
			PageSize: limit,
		})
		return
	}

	items := []models.NormalizedOrder{}
	if res.Success && res.Data != nil {
		items = orders.FlattenPending(res.Data.Cabinets)
	}
	paged := orders.Paginate(items, models.NewPageWindow(page, limit))

	c.JSON(http.StatusOK, api.OrderListResponse{
		Success:  true,
		Data:     paged,
		Page:     page,
		PageSize: limit,
	})
}

// POST /cabinet_location - cabinet visual layout lookup
func (h *RelayHandler) CabinetLocation(c *gin.Context) {
	authorization, ok := h.requireAuth(c)
	if !ok {
		return
	}
	var req api.CabinetLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.APIError{
			Error: "Invalid request format",
			Code:  api.ErrorCodeInvalidRequest,
		})
		return
	}

	res, err := h.vendor.CabinetInfo(authorization, req.CabinetCode)
	h.writeActionResponse(c, res, err)
}

// POST /openBox - open the box holding a package
func (h *RelayHandler) OpenBox(c *gin.Context) {
	authorization, ok := h.requireAuth(c)
	if !ok {
		return
	}
	var req api.OpenBoxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.APIError{
			Error: "Invalid request format",
			Code:  api.ErrorCodeInvalidRequest,
		})
		return
	}

	res, err := h.vendor.OpenBox(authorization, req)
	h.writeActionResponse(c, res, err)
}

// GET /health - health check
func (h *RelayHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "healthy",
		"service":         "fcbox-relay",
		"standalone_mode": h.config.Vendor.StandaloneMode,
	})
}

// writeActionResponse applies the shared relay rules for the cabinet-lookup
// and open-box endpoints: gateway errors and vendor-side rejections both
// degrade to a structured success:false body with HTTP 200.
func (h *RelayHandler) writeActionResponse(c *gin.Context, res *models.ActionResult, err error) {
	if err != nil {
		h.logger.Error("vendor action failed", slog.String("error", err.Error()))
		c.JSON(http.StatusOK, api.ActionResponse{Success: false, Data: emptyObject, Message: err.Error()})
		return
	}
	if !res.Success {
		message := res.Message
		if message == "" {
			message = "unknown vendor error"
		}
		c.JSON(http.StatusOK, api.ActionResponse{
			Success: false,
			Data:    emptyObject,
			Message: "vendor rejected request: " + message,
		})
		return
	}
	data := res.Data
	if len(data) == 0 || string(data) == "null" {
		data = emptyObject
	}
	c.JSON(http.StatusOK, api.ActionResponse{Success: true, Data: data})
}

// requireAuth enforces presence of the bearer token before any vendor call
// is attempted. "Not logged in" is distinguishable from "vendor is unhappy":
// the former is an HTTP 401, the latter a success:false body.
func (h *RelayHandler) requireAuth(c *gin.Context) (string, bool) {
	authorization := c.GetHeader("Authorization")
	if authorization == "" {
		c.JSON(http.StatusUnauthorized, api.APIError{
			Error: "Authorization header is required",
			Code:  api.ErrorCodeAuthRequired,
		})
		return "", false
	}
	return authorization, true
}

func intQuery(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.DefaultQuery(name, strconv.Itoa(def)))
	if err != nil {
		return def
	}
	return v
}
