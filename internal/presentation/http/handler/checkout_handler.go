package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/superpos/terminal-api/internal/application/service"
	"github.com/superpos/terminal-api/internal/domain/entity"
	"github.com/superpos/terminal-api/internal/domain/enum"
	"github.com/superpos/terminal-api/internal/presentation/http/dto/request"
	"github.com/superpos/terminal-api/internal/presentation/http/dto/response"
)

// CheckoutHandler exposes the checkout state machine over HTTP. Every mutation
// returns the full machine snapshot so the terminal UI renders from one source.
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// Get handles reading the current checkout state
func (h *CheckoutHandler) Get(c *gin.Context) {
	snapshot, ok := h.checkoutService.Snapshot()
	if !ok {
		response.OK(c, "No checkout in progress", nil)
		return
	}
	response.OK(c, "Checkout state retrieved", snapshot)
}

// Initiate handles starting a checkout from the current cart
func (h *CheckoutHandler) Initiate(c *gin.Context) {
	snapshot, err := h.checkoutService.Initiate(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Checkout initiated", snapshot)
}

// SelectMethod handles picking the payment method
func (h *CheckoutHandler) SelectMethod(c *gin.Context) {
	var req request.SelectMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	method, err := enum.ParsePaymentMethod(req.Method)
	if err != nil {
		response.BadRequest(c, "Unknown payment method")
		return
	}

	snapshot, err := h.checkoutService.SelectMethod(c.Request.Context(), method)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment method selected", snapshot)
}

// ConfirmAmount handles confirming the pending payment amount
func (h *CheckoutHandler) ConfirmAmount(c *gin.Context) {
	var req request.ConfirmAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	snapshot, err := h.checkoutService.ConfirmAmount(c.Request.Context(), req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Amount confirmed", snapshot)
}

// Back handles stepping out of the current sub-flow screen
func (h *CheckoutHandler) Back(c *gin.Context) {
	snapshot, err := h.checkoutService.Back(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Stepped back", snapshot)
}

// SelectCardType handles picking the card modality
func (h *CheckoutHandler) SelectCardType(c *gin.Context) {
	var req request.SelectCardTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	cardType, err := enum.ParseCardType(req.CardType)
	if err != nil {
		response.BadRequest(c, "Unknown card type")
		return
	}

	snapshot, err := h.checkoutService.SelectCardType(c.Request.Context(), cardType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Card type selected", snapshot)
}

// SelectTerminal handles routing the authorization to a card machine
func (h *CheckoutHandler) SelectTerminal(c *gin.Context) {
	var req request.SelectTerminalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	snapshot, err := h.checkoutService.SelectTerminal(c.Request.Context(), req.TerminalID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Card authorization started", snapshot)
}

// EnterOffline handles switching to manual card entry
func (h *CheckoutHandler) EnterOffline(c *gin.Context) {
	snapshot, err := h.checkoutService.EnterOfflineTerminal(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Offline terminal entry opened", snapshot)
}

// ConfirmOffline handles recording a manually-entered card payment
func (h *CheckoutHandler) ConfirmOffline(c *gin.Context) {
	snapshot, err := h.checkoutService.ConfirmOfflineTerminal(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Offline card payment recorded", snapshot)
}

// CancelPix handles backing out of the Pix QR wait
func (h *CheckoutHandler) CancelPix(c *gin.Context) {
	snapshot, err := h.checkoutService.CancelPix(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Pix payment cancelled", snapshot)
}

// Abandon handles cancelling the sale behind the manager passcode gate
func (h *CheckoutHandler) Abandon(c *gin.Context) {
	var req request.AbandonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	snapshot, err := h.checkoutService.Abandon(c.Request.Context(), req.Passcode)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Sale abandoned", snapshot)
}

// Reset handles discarding the finished session immediately
func (h *CheckoutHandler) Reset(c *gin.Context) {
	if err := h.checkoutService.Reset(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Checkout reset", nil)
}

// EnterFiscal handles opening the fiscal-note sub-flow
func (h *CheckoutHandler) EnterFiscal(c *gin.Context) {
	snapshot, err := h.checkoutService.EnterFiscalNote(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Fiscal note flow opened", snapshot)
}

// SelectFiscalClient handles prefilling the fiscal recipient from the directory
func (h *CheckoutHandler) SelectFiscalClient(c *gin.Context) {
	var req request.FiscalClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	snapshot, err := h.checkoutService.SelectFiscalClient(c.Request.Context(), req.ClientID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Fiscal recipient selected", snapshot)
}

// QuickAddFiscalClient handles registering a client mid-flow as the recipient
func (h *CheckoutHandler) QuickAddFiscalClient(c *gin.Context) {
	var req request.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	snapshot, err := h.checkoutService.QuickAddFiscalClient(c.Request.Context(), entity.Client{
		Name:     req.Name,
		Document: req.Document,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Client registered and selected", snapshot)
}

// TransmitFiscal handles starting the fiscal note transmission
func (h *CheckoutHandler) TransmitFiscal(c *gin.Context) {
	var req request.FiscalTransmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	snapshot, err := h.checkoutService.TransmitFiscalNote(c.Request.Context(), req.Document, req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Fiscal note transmission started", snapshot)
}

// CloseFiscal handles returning from the fiscal-note screen
func (h *CheckoutHandler) CloseFiscal(c *gin.Context) {
	snapshot, err := h.checkoutService.CloseFiscalNote(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Fiscal note flow closed", snapshot)
}

// StartContact handles opening the receipt delivery sub-flow
func (h *CheckoutHandler) StartContact(c *gin.Context) {
	var req request.StartContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	contactType, err := enum.ParseContactType(req.ContactType)
	if err != nil {
		response.BadRequest(c, "Unknown contact type")
		return
	}

	snapshot, err := h.checkoutService.StartContact(c.Request.Context(), contactType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Contact flow opened", snapshot)
}

// SendContact handles dispatching the receipt to the destination
func (h *CheckoutHandler) SendContact(c *gin.Context) {
	var req request.SendContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	snapshot, err := h.checkoutService.SendContact(c.Request.Context(), req.Value)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt dispatched", snapshot)
}

// CancelContact handles abandoning the contact sub-flow
func (h *CheckoutHandler) CancelContact(c *gin.Context) {
	snapshot, err := h.checkoutService.CancelContact(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Contact flow cancelled", snapshot)
}

// Terminals handles listing the card machines available to this till
func (h *CheckoutHandler) Terminals(c *gin.Context) {
	response.OK(c, "Card terminals retrieved successfully", h.checkoutService.Terminals())
}
