package service

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/superpos/terminal-api/internal/config"
	"github.com/superpos/terminal-api/internal/domain/entity"
	"github.com/superpos/terminal-api/internal/domain/enum"
	"github.com/superpos/terminal-api/internal/domain/repository"
	"github.com/superpos/terminal-api/pkg/apperror"
	"github.com/superpos/terminal-api/pkg/printer"
)

// Synthetic NF-e access key shown after a simulated fiscal transmission.
const fiscalAccessKey = "3523 0401 2345 6789 0100 5500 1000 1234 5612 3456 7890"

// pendingPayment is the sub-flow selection state: it exists only between
// method selection and the payment being recorded, and carries only the fields
// the active method can use. Clearing it on re-route is what makes invalid
// combinations (card terminal chosen while paying cash) unrepresentable.
type pendingPayment struct {
	Method      enum.PaymentMethod
	AmountCents int64
	CardType    *enum.CardType
	Terminal    *entity.CardTerminal
	Status      enum.ProcessingStatus
}

type fiscalState struct {
	Recipient  entity.FiscalRecipient
	Generating bool
	Finished   bool
	AccessKey  string
}

// session is everything that lives and dies with one checkout: the payment
// ledger, the current step, the pending sub-flow and its scheduled callbacks,
// the post-sale countdown and the abandonment prompt state.
type session struct {
	ledger *entity.CheckoutSession
	step   enum.CheckoutStep

	pending *pendingPayment

	// flowTimer is the single outstanding delayed callback of the active
	// sub-flow. It is stopped, not just ignored, whenever the user navigates
	// away from the step that scheduled it.
	flowTimer *time.Timer
	flowGen   uint64

	countdown       int
	countdownPaused bool
	countdownTimer  *time.Timer

	abandonError bool
	abandonTimer *time.Timer

	fiscal  fiscalState
	contact *enum.ContactType

	sale *entity.SaleRecord
}

// CheckoutService is the checkout payment state machine. It owns the single
// active session, routes operator actions to the per-method sub-flows, updates
// the payment ledger on sub-flow success and commits the sale once the balance
// reaches zero. Every operation validates the current step first; an operation
// arriving in the wrong step is rejected and never mutates state.
type CheckoutService struct {
	cart        *CartService
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
	clientRepo  repository.ClientRepository
	terminals   []entity.CardTerminal
	printer     printer.Printer
	log         *zap.Logger
	cfg         config.CheckoutConfig

	passcodeHash []byte

	mu   sync.Mutex
	sess *session
}

// NewCheckoutService creates the state machine with no checkout in progress.
func NewCheckoutService(
	cart *CartService,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	clientRepo repository.ClientRepository,
	terminals []entity.CardTerminal,
	prn printer.Printer,
	log *zap.Logger,
	cfg config.CheckoutConfig,
) *CheckoutService {
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.ManagerPasscode), bcrypt.DefaultCost)
	if err != nil {
		// Only reachable with a passcode longer than 72 bytes.
		panic(fmt.Sprintf("checkout: hashing manager passcode: %v", err))
	}
	if cfg.CountdownTick <= 0 {
		cfg.CountdownTick = time.Second
	}
	return &CheckoutService{
		cart:         cart,
		productRepo:  productRepo,
		saleRepo:     saleRepo,
		clientRepo:   clientRepo,
		terminals:    terminals,
		printer:      prn,
		log:          log,
		cfg:          cfg,
		passcodeHash: hash,
	}
}

// Terminals returns the card machines available to this till.
func (s *CheckoutService) Terminals() []entity.CardTerminal {
	out := make([]entity.CardTerminal, len(s.terminals))
	copy(out, s.terminals)
	return out
}

// Close stops every outstanding timer. The machine must not fire callbacks
// after teardown.
func (s *CheckoutService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess != nil {
		s.stopTimersLocked()
		s.sess = nil
	}
}

// Initiate snapshots the cart subtotal into a new payment ledger and opens the
// method-selection step. The cart is frozen until the session ends.
func (s *CheckoutService) Initiate(ctx context.Context) (*CheckoutSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sess != nil {
		return nil, apperror.NewConflictError("Checkout already in progress")
	}
	total := s.cart.SubtotalCents()
	if total <= 0 {
		return nil, apperror.NewUnprocessableError("Cannot start checkout on an empty cart")
	}

	s.cart.Freeze()
	s.sess = &session{
		ledger: entity.NewCheckoutSession(total),
		step:   enum.StepSelectMethod,
	}
	s.log.Info("checkout initiated", zap.Int64("total_cents", total))
	return s.snapshotLocked(), nil
}

// SelectMethod records the chosen payment method and proposes the full
// remaining balance as the amount.
func (s *CheckoutService) SelectMethod(ctx context.Context, method enum.PaymentMethod) (*CheckoutSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStepLocked(enum.StepSelectMethod); err != nil {
		return nil, err
	}
	s.sess.pending = &pendingPayment{
		Method:      method,
		AmountCents: s.sess.ledger.RemainingCents,
	}
	s.sess.step = enum.StepSetAmount
	return s.snapshotLocked(), nil
}

// ConfirmAmount validates the proposed amount and routes to the method's
// sub-flow: cash records immediately, card proceeds to modality selection and
// Pix starts the QR wait. Invalid amounts are rejected without a transition.
func (s *CheckoutService) ConfirmAmount(ctx context.Context, amount float64) (*CheckoutSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStepLocked(enum.StepSetAmount); err != nil {
		return nil, err
	}

	cents, err := parseAmountCents(amount, s.sess.ledger.RemainingCents)
	if err != nil {
		return nil, err
	}
	pending := s.sess.pending
	pending.AmountCents = cents

	switch pending.Method {
	case enum.MethodCash:
		s.recordPaymentLocked(ctx, entity.PaymentEntry{
			Method:      enum.MethodCash,
			AmountCents: cents,
		})
	case enum.MethodCard:
		s.sess.step = enum.StepCardType
	case enum.MethodPix:
		s.sess.step = enum.StepPixQR
		pending.Status = enum.ProcessingLoading
		s.scheduleFlowLocked(s.cfg.PixConfirmDelay, s.onPixConfirmed)
	}
	return s.snapshotLocked(), nil
}

// Back steps out of the current sub-flow screen. Backing out of a step cancels
// any callback that step scheduled.
func (s *CheckoutService) Back(ctx context.Context) (*CheckoutSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sess == nil {
		return nil, apperror.ErrNoCheckout
	}
	switch s.sess.step {
	case enum.StepSetAmount:
		s.cancelFlowLocked()
		s.sess.pending = nil
		s.sess.step = enum.StepSelectMethod
	case enum.StepCardType:
		s.sess.pending.CardType = nil
		s.sess.step = enum.StepSetAmount
	case enum.StepCardMachine:
		s.sess.step = enum.StepCardType
	case enum.StepOfflineTerminal:
		s.sess.step = enum.StepCardMachine
	default:
		return nil, apperror.ErrInvalidStep
	}
	return s.snapshotLocked(), nil
}

// SelectCardType records the card modality and proceeds to terminal selection.
func (s *CheckoutService) SelectCardType(ctx context.Context, cardType enum.CardType) (*CheckoutSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStepLocked(enum.StepCardType); err != nil {
		return nil, err
	}
	s.sess.pending.CardType = &cardType
	s.sess.step = enum.StepCardMachine
	return s.snapshotLocked(), nil
}

// SelectTerminal routes the authorization to a card machine and starts the
// simulated acquirer round trip.
func (s *CheckoutService) SelectTerminal(ctx context.Context, terminalID string) (*CheckoutSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStepLocked(enum.StepCardMachine); err != nil {
		return nil, err
	}
	var terminal *entity.CardTerminal
	for i := range s.terminals {
		if s.terminals[i].ID == terminalID {
			terminal = &s.terminals[i]
			break
		}
	}
	if terminal == nil {
		return nil, apperror.NewNotFoundError("Card terminal")
	}

	s.sess.pending.Terminal = terminal
	s.sess.pending.Status = enum.ProcessingLoading
	s.sess.step = enum.StepProcessing
	s.scheduleFlowLocked(s.cfg.CardAuthDelay, s.onCardAuthorized)
	return s.snapshotLocked(), nil
}

// EnterOfflineTerminal switches to the manual (offline) card entry screen.
func (s *CheckoutService) EnterOfflineTerminal(ctx context.Context) (*CheckoutSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStepLocked(enum.StepCardMachine); err != nil {
		return nil, err
	}
	s.sess.step = enum.StepOfflineTerminal
	return s.snapshotLocked(), nil
}

// ConfirmOfflineTerminal records a manually-entered card payment without an
// acquirer round trip.
func (s *CheckoutService) ConfirmOfflineTerminal(ctx context.Context) (*CheckoutSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStepLocked(enum.StepOfflineTerminal); err != nil {
		return nil, err
	}
	pending := s.sess.pending
	s.recordPaymentLocked(ctx, entity.PaymentEntry{
		Method:      enum.MethodCard,
		AmountCents: pending.AmountCents,
		CardType:    pending.CardType,
	})
	return s.snapshotLocked(), nil
}

// CancelPix backs out of the QR wait before the transfer is confirmed. The
// scheduled confirmation callback is cancelled so it can never fire against a
// superseded flow.
func (s *CheckoutService) CancelPix(ctx context.Context) (*CheckoutSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStepLocked(enum.StepPixQR); err != nil {
		return nil, err
	}
	if s.sess.pending.Status == enum.ProcessingSuccess {
		return nil, apperror.NewConflictError("Pix payment already confirmed")
	}
	s.cancelFlowLocked()
	s.sess.pending.Status = enum.ProcessingNone
	s.sess.step = enum.StepSetAmount
	return s.snapshotLocked(), nil
}

// Abandon cancels the whole sale behind the manager passcode gate. Reachable
// only from method selection. A wrong passcode raises a transient error flag
// and leaves the machine where it is.
func (s *CheckoutService) Abandon(ctx context.Context, passcode string) (*CheckoutSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStepLocked(enum.StepSelectMethod); err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword(s.passcodeHash, []byte(passcode)) != nil {
		s.raiseAbandonErrorLocked()
		return nil, apperror.ErrManagerPasscode
	}

	s.cancelFlowLocked()
	s.sess.pending = nil
	s.sess.abandonError = false
	s.sess.step = enum.StepSaleCancelled
	s.armCountdownLocked()
	s.log.Info("sale abandoned by manager authorization")
	return s.snapshotLocked(), nil
}

// Reset discards the session immediately ("new sale"). Allowed from the
// terminal states and from a completed fiscal-note screen.
func (s *CheckoutService) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sess == nil {
		return apperror.ErrNoCheckout
	}
	step := s.sess.step
	fiscalDone := step == enum.StepFiscalNote && s.sess.fiscal.Finished && !s.sess.fiscal.Generating
	if !step.IsTerminal() && !fiscalDone {
		return apperror.ErrInvalidStep
	}
	s.resetLocked()
	return nil
}

// Snapshot returns the current machine state, or false when no checkout is in
// progress.
func (s *CheckoutService) Snapshot() (*CheckoutSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess == nil {
		return nil, false
	}
	return s.snapshotLocked(), true
}

// --- internals ---

func (s *CheckoutService) requireStepLocked(step enum.CheckoutStep) error {
	if s.sess == nil {
		return apperror.ErrNoCheckout
	}
	if s.sess.step != step {
		return apperror.ErrInvalidStep
	}
	return nil
}

// parseAmountCents converts a decimal amount to cents, rejecting non-positive,
// non-finite and overpaying values. The tolerance is one cent.
func parseAmountCents(amount float64, remainingCents int64) (int64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return 0, apperror.NewValidationError([]apperror.FieldError{
			{Field: "amount", Message: "must be a positive number"},
		})
	}
	cents := int64(math.Round(amount * 100))
	if cents <= 0 {
		return 0, apperror.NewValidationError([]apperror.FieldError{
			{Field: "amount", Message: "must be at least one cent"},
		})
	}
	if cents > remainingCents+1 {
		return 0, apperror.NewValidationError([]apperror.FieldError{
			{Field: "amount", Message: "exceeds the remaining balance"},
		})
	}
	return cents, nil
}

// recordPaymentLocked appends a completed payment to the ledger and re-routes:
// commit and SALE_COMPLETE when settled, otherwise back to method selection
// with the per-method state cleared.
func (s *CheckoutService) recordPaymentLocked(ctx context.Context, entry entity.PaymentEntry) {
	settled := s.sess.ledger.Record(entry)
	s.log.Info("payment recorded",
		zap.String("method", entry.Method.String()),
		zap.Int64("amount_cents", entry.AmountCents),
		zap.Int64("remaining_cents", s.sess.ledger.RemainingCents),
	)

	if settled {
		s.commitSaleLocked(ctx, entry)
		return
	}
	s.sess.pending = nil
	s.sess.step = enum.StepSelectMethod
}

// commitSaleLocked builds the immutable SaleRecord, appends it to the sales
// log, decrements stock, clears the cart, prints the receipt and arms the
// auto-reset countdown.
func (s *CheckoutService) commitSaleLocked(ctx context.Context, lastEntry entity.PaymentEntry) {
	items := s.cart.Lines()

	sale := &entity.SaleRecord{
		ID:            uuid.New().String(),
		Timestamp:     time.Now(),
		Items:         items,
		TotalCents:    s.sess.ledger.TotalDueCents,
		Payments:      s.sess.ledger.Payments,
		PrimaryMethod: lastEntry.Label(),
	}
	if err := s.saleRepo.Append(ctx, sale); err != nil {
		s.log.Error("appending sale record", zap.Error(err))
	}

	decrements := make(map[string]int, len(items))
	for _, line := range items {
		decrements[line.Product.ID] = line.Quantity
	}
	if err := s.productRepo.DecrementStockBatch(ctx, decrements); err != nil {
		s.log.Error("decrementing stock", zap.Error(err))
	}

	s.cart.Clear()
	s.sess.pending = nil
	s.sess.sale = sale
	s.sess.step = enum.StepSaleComplete
	s.armCountdownLocked()

	go s.printReceipt(*sale)

	s.log.Info("sale committed",
		zap.String("sale_id", sale.ID),
		zap.Int64("total_cents", sale.TotalCents),
		zap.Int("payments", len(sale.Payments)),
	)
}

func (s *CheckoutService) raiseAbandonErrorLocked() {
	sess := s.sess
	sess.abandonError = true
	if sess.abandonTimer != nil {
		sess.abandonTimer.Stop()
	}
	sess.abandonTimer = time.AfterFunc(s.cfg.AbandonErrorClear, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.sess == sess {
			sess.abandonError = false
		}
	})
}

// resetLocked tears the session down completely: timers stopped, cart cleared,
// ledger discarded.
func (s *CheckoutService) resetLocked() {
	s.stopTimersLocked()
	s.cart.Clear()
	s.sess = nil
	s.log.Info("checkout reset")
}

func (s *CheckoutService) stopTimersLocked() {
	sess := s.sess
	if sess.flowTimer != nil {
		sess.flowTimer.Stop()
		sess.flowTimer = nil
	}
	if sess.countdownTimer != nil {
		sess.countdownTimer.Stop()
		sess.countdownTimer = nil
	}
	if sess.abandonTimer != nil {
		sess.abandonTimer.Stop()
		sess.abandonTimer = nil
	}
}
