package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/superpos/terminal-api/internal/domain/entity"
	"github.com/superpos/terminal-api/internal/domain/enum"
	"github.com/superpos/terminal-api/pkg/apperror"
	"github.com/superpos/terminal-api/pkg/printer"
)

// scheduleFlowLocked arms the sub-flow's single delayed callback. Any previous
// callback is cancelled first, and the callback itself re-checks that the flow
// that scheduled it is still the active one: a timer that lost the race with a
// navigation or a reset must never mutate the session.
func (s *CheckoutService) scheduleFlowLocked(delay time.Duration, fn func(context.Context)) {
	sess := s.sess
	s.cancelFlowLocked()
	sess.flowGen++
	gen := sess.flowGen
	sess.flowTimer = time.AfterFunc(delay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.sess != sess || sess.flowGen != gen {
			return
		}
		sess.flowTimer = nil
		fn(context.Background())
	})
}

// cancelFlowLocked stops the pending sub-flow callback, if any, and bumps the
// generation so an already-fired goroutine waiting on the lock backs off.
func (s *CheckoutService) cancelFlowLocked() {
	if s.sess.flowTimer != nil {
		s.sess.flowTimer.Stop()
		s.sess.flowTimer = nil
	}
	s.sess.flowGen++
}

// onPixConfirmed marks the QR as read and schedules the finalization.
func (s *CheckoutService) onPixConfirmed(ctx context.Context) {
	if s.sess.step != enum.StepPixQR {
		return
	}
	s.sess.pending.Status = enum.ProcessingSuccess
	s.scheduleFlowLocked(s.cfg.PixFinalizeDelay, s.onPixFinalized)
}

func (s *CheckoutService) onPixFinalized(ctx context.Context) {
	if s.sess.step != enum.StepPixQR {
		return
	}
	s.recordPaymentLocked(ctx, entity.PaymentEntry{
		Method:      enum.MethodPix,
		AmountCents: s.sess.pending.AmountCents,
	})
}

// onCardAuthorized flips the processing screen to success and schedules the
// finalization.
func (s *CheckoutService) onCardAuthorized(ctx context.Context) {
	if s.sess.step != enum.StepProcessing {
		return
	}
	s.sess.pending.Status = enum.ProcessingSuccess
	s.scheduleFlowLocked(s.cfg.CardFinalizeDelay, s.onCardFinalized)
}

func (s *CheckoutService) onCardFinalized(ctx context.Context) {
	if s.sess.step != enum.StepProcessing {
		return
	}
	pending := s.sess.pending
	entry := entity.PaymentEntry{
		Method:      enum.MethodCard,
		AmountCents: pending.AmountCents,
		CardType:    pending.CardType,
	}
	if pending.Terminal != nil {
		entry.TerminalID = pending.Terminal.ID
		entry.TerminalName = pending.Terminal.Name
	}
	s.recordPaymentLocked(ctx, entry)
}

// --- countdown ---

// armCountdownLocked starts the auto-reset countdown at its full value. Called
// on entering SALE_COMPLETE or SALE_CANCELLED.
func (s *CheckoutService) armCountdownLocked() {
	s.sess.countdown = s.cfg.CountdownTicks
	s.sess.countdownPaused = false
	s.rescheduleCountdownLocked()
}

// rescheduleCountdownLocked cancels and re-arms the per-tick timer based on
// the current step and pause flag, so there is never more than one tick
// scheduled.
func (s *CheckoutService) rescheduleCountdownLocked() {
	sess := s.sess
	if sess.countdownTimer != nil {
		sess.countdownTimer.Stop()
		sess.countdownTimer = nil
	}
	if !sess.step.IsTerminal() || sess.countdownPaused || sess.countdown <= 0 {
		return
	}
	sess.countdownTimer = time.AfterFunc(s.cfg.CountdownTick, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.sess != sess {
			return
		}
		sess.countdownTimer = nil
		if !sess.step.IsTerminal() || sess.countdownPaused {
			return
		}
		sess.countdown--
		if sess.countdown <= 0 {
			s.resetLocked()
			return
		}
		s.rescheduleCountdownLocked()
	})
}

func (s *CheckoutService) pauseCountdownLocked() {
	s.sess.countdownPaused = true
	s.rescheduleCountdownLocked()
}

func (s *CheckoutService) resumeCountdownLocked() {
	s.sess.countdownPaused = false
	s.rescheduleCountdownLocked()
}

// --- post-sale flows ---

// EnterFiscalNote opens the fiscal-note sub-flow and pauses the countdown.
func (s *CheckoutService) EnterFiscalNote(ctx context.Context) (*CheckoutSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStepLocked(enum.StepSaleComplete); err != nil {
		return nil, err
	}
	s.sess.step = enum.StepFiscalNote
	s.pauseCountdownLocked()
	return s.snapshotLocked(), nil
}

// SelectFiscalClient prefills the fiscal recipient from the client directory.
func (s *CheckoutService) SelectFiscalClient(ctx context.Context, clientID string) (*CheckoutSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireFiscalEditableLocked(); err != nil {
		return nil, err
	}
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	s.sess.fiscal.Recipient = entity.FiscalRecipient{
		ClientID: client.ID,
		Name:     client.Name,
		Document: client.Document,
		Email:    client.Email,
		Phone:    client.Phone,
	}
	return s.snapshotLocked(), nil
}

// QuickAddFiscalClient creates a directory record mid-flow and makes it the
// selected fiscal recipient.
func (s *CheckoutService) QuickAddFiscalClient(ctx context.Context, client entity.Client) (*CheckoutSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireFiscalEditableLocked(); err != nil {
		return nil, err
	}
	var fieldErrs []apperror.FieldError
	if strings.TrimSpace(client.Name) == "" {
		fieldErrs = append(fieldErrs, apperror.FieldError{Field: "name", Message: "is required"})
	}
	if strings.TrimSpace(client.Document) == "" {
		fieldErrs = append(fieldErrs, apperror.FieldError{Field: "document", Message: "is required"})
	}
	if len(fieldErrs) > 0 {
		return nil, apperror.NewValidationError(fieldErrs)
	}

	if err := s.clientRepo.Create(ctx, &client); err != nil {
		return nil, err
	}
	s.sess.fiscal.Recipient = entity.FiscalRecipient{
		ClientID: client.ID,
		Name:     client.Name,
		Document: client.Document,
		Email:    client.Email,
		Phone:    client.Phone,
	}
	return s.snapshotLocked(), nil
}

// TransmitFiscalNote validates the recipient and starts the simulated
// transmission. Missing document or name blocks the transmission: no delay is
// scheduled and the inputs stay on screen for correction.
func (s *CheckoutService) TransmitFiscalNote(ctx context.Context, document, name string) (*CheckoutSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireFiscalEditableLocked(); err != nil {
		return nil, err
	}

	if document != "" {
		s.sess.fiscal.Recipient.Document = document
	}
	if name != "" {
		s.sess.fiscal.Recipient.Name = name
	}

	var fieldErrs []apperror.FieldError
	if strings.TrimSpace(s.sess.fiscal.Recipient.Document) == "" {
		fieldErrs = append(fieldErrs, apperror.FieldError{Field: "document", Message: "is required"})
	}
	if strings.TrimSpace(s.sess.fiscal.Recipient.Name) == "" {
		fieldErrs = append(fieldErrs, apperror.FieldError{Field: "name", Message: "is required"})
	}
	if len(fieldErrs) > 0 {
		return nil, apperror.NewValidationError(fieldErrs)
	}

	s.sess.fiscal.Generating = true
	s.scheduleFlowLocked(s.cfg.FiscalDelay, s.onFiscalTransmitted)
	return s.snapshotLocked(), nil
}

func (s *CheckoutService) onFiscalTransmitted(ctx context.Context) {
	if s.sess.step != enum.StepFiscalNote || !s.sess.fiscal.Generating {
		return
	}
	s.sess.fiscal.Generating = false
	s.sess.fiscal.Finished = true
	s.sess.fiscal.AccessKey = fiscalAccessKey
	s.log.Info("fiscal note authorized", zap.String("recipient", s.sess.fiscal.Recipient.Name))
}

// CloseFiscalNote returns to the completion screen and resumes the countdown.
func (s *CheckoutService) CloseFiscalNote(ctx context.Context) (*CheckoutSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStepLocked(enum.StepFiscalNote); err != nil {
		return nil, err
	}
	if s.sess.fiscal.Generating {
		return nil, apperror.NewConflictError("Fiscal note transmission in progress")
	}
	s.sess.step = enum.StepSaleComplete
	s.resumeCountdownLocked()
	return s.snapshotLocked(), nil
}

// StartContact opens the contact-delivery sub-flow for the chosen channel and
// pauses the countdown. Reachable from the completion screen and from an
// authorized fiscal note.
func (s *CheckoutService) StartContact(ctx context.Context, contactType enum.ContactType) (*CheckoutSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sess == nil {
		return nil, apperror.ErrNoCheckout
	}
	fromFiscal := s.sess.step == enum.StepFiscalNote && s.sess.fiscal.Finished && !s.sess.fiscal.Generating
	if s.sess.step != enum.StepSaleComplete && !fromFiscal {
		return nil, apperror.ErrInvalidStep
	}
	s.sess.contact = &contactType
	s.sess.step = enum.StepContactInput
	s.pauseCountdownLocked()
	return s.snapshotLocked(), nil
}

// SendContact dispatches the receipt to the destination. Delivery is simulated;
// the flow returns to the completion screen and the countdown resumes.
func (s *CheckoutService) SendContact(ctx context.Context, value string) (*CheckoutSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStepLocked(enum.StepContactInput); err != nil {
		return nil, err
	}
	if strings.TrimSpace(value) == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "value", Message: "destination is required"},
		})
	}
	s.log.Info("receipt dispatched",
		zap.String("channel", s.sess.contact.String()),
		zap.String("destination", value),
	)
	s.sess.contact = nil
	s.sess.step = enum.StepSaleComplete
	s.resumeCountdownLocked()
	return s.snapshotLocked(), nil
}

// CancelContact abandons the contact sub-flow and resumes the countdown.
func (s *CheckoutService) CancelContact(ctx context.Context) (*CheckoutSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStepLocked(enum.StepContactInput); err != nil {
		return nil, err
	}
	s.sess.contact = nil
	s.sess.step = enum.StepSaleComplete
	s.resumeCountdownLocked()
	return s.snapshotLocked(), nil
}

func (s *CheckoutService) requireFiscalEditableLocked() error {
	if err := s.requireStepLocked(enum.StepFiscalNote); err != nil {
		return err
	}
	if s.sess.fiscal.Generating {
		return apperror.NewConflictError("Fiscal note transmission in progress")
	}
	if s.sess.fiscal.Finished {
		return apperror.NewConflictError("Fiscal note already authorized")
	}
	return nil
}

// printReceipt renders and prints the sale receipt. Best effort: a printer
// failure is logged, never surfaced to the checkout flow.
func (s *CheckoutService) printReceipt(sale entity.SaleRecord) {
	doc := printer.NewDocument(32)
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		Text("SuperPOS Pro").
		SetBold(false).
		Text(sale.Timestamp.Format("02/01/2006 15:04")).
		TextF("Venda %s", shortID(sale.ID)).
		SetAlign(printer.AlignLeft).
		Separator('-')
	for _, line := range sale.Items {
		doc.ItemLine(line.Quantity, line.Product.Name, formatBRL(line.TotalCents()))
	}
	doc.Separator('-').
		KeyValue("TOTAL", formatBRL(sale.TotalCents)).
		LineFeed()
	for _, p := range sale.Payments {
		doc.KeyValue(p.Label(), formatBRL(p.AmountCents))
	}
	doc.FeedLines(3).Cut()

	if err := s.printer.Print(doc.Bytes()); err != nil {
		s.log.Warn("printing receipt", zap.Error(err))
	}
}

func formatBRL(cents int64) string {
	return fmt.Sprintf("R$ %.2f", float64(cents)/100)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
