package service

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/superpos/terminal-api/internal/config"
	"github.com/superpos/terminal-api/internal/domain/entity"
	"github.com/superpos/terminal-api/internal/domain/enum"
	"github.com/superpos/terminal-api/internal/domain/repository"
	"github.com/superpos/terminal-api/internal/infrastructure/memory"
	"github.com/superpos/terminal-api/pkg/apperror"
	"github.com/superpos/terminal-api/pkg/printer"
)

// Delays are shrunk to milliseconds so flow tests complete quickly.
func testCheckoutConfig() config.CheckoutConfig {
	return config.CheckoutConfig{
		ManagerPasscode:   "1234",
		CountdownTicks:    3,
		CountdownTick:     20 * time.Millisecond,
		PixConfirmDelay:   15 * time.Millisecond,
		PixFinalizeDelay:  10 * time.Millisecond,
		CardAuthDelay:     15 * time.Millisecond,
		CardFinalizeDelay: 10 * time.Millisecond,
		FiscalDelay:       15 * time.Millisecond,
		AbandonErrorClear: 25 * time.Millisecond,
	}
}

type checkoutFixture struct {
	cart     *CartService
	products repository.ProductRepository
	sales    repository.SaleRepository
	clients  repository.ClientRepository
	checkout *CheckoutService
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	products := memory.NewProductRepository(memory.SeedProducts())
	sales := memory.NewSaleRepository()
	clients := memory.NewClientRepository(memory.SeedClients())
	cart := NewCartService(products)

	checkout := NewCheckoutService(
		cart,
		products,
		sales,
		clients,
		memory.CardTerminals(),
		printer.NewNullPrinter(),
		zap.NewNop(),
		testCheckoutConfig(),
	)
	t.Cleanup(checkout.Close)

	return &checkoutFixture{
		cart:     cart,
		products: products,
		sales:    sales,
		clients:  clients,
		checkout: checkout,
	}
}

// fill puts two units of Arroz (750 cents each) in the cart: total R$ 15.00.
func (f *checkoutFixture) fill(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := f.cart.AddProduct(ctx, "1"); err != nil {
			t.Fatalf("adding product: %v", err)
		}
	}
}

func (f *checkoutFixture) start(t *testing.T) *CheckoutSnapshot {
	t.Helper()
	snap, err := f.checkout.Initiate(context.Background())
	if err != nil {
		t.Fatalf("initiating checkout: %v", err)
	}
	return snap
}

func (f *checkoutFixture) waitStep(t *testing.T, step enum.CheckoutStep) *CheckoutSnapshot {
	t.Helper()
	var snap *CheckoutSnapshot
	require.Eventually(t, func() bool {
		s, ok := f.checkout.Snapshot()
		if !ok {
			return false
		}
		snap = s
		return s.Step == step
	}, time.Second, 2*time.Millisecond, "waiting for step %s", step)
	return snap
}

func TestCheckoutInitiate(t *testing.T) {
	ctx := context.Background()

	t.Run("empty cart rejected", func(t *testing.T) {
		f := newCheckoutFixture(t)
		_, err := f.checkout.Initiate(ctx)
		require.Error(t, err)
		require.Equal(t, 422, apperror.GetAppError(err).Code)
	})

	t.Run("snapshots cart total and freezes cart", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.fill(t)

		snap := f.start(t)
		require.Equal(t, enum.StepSelectMethod, snap.Step)
		require.Equal(t, 15.0, snap.Total)
		require.Equal(t, 15.0, snap.Remaining)
		require.Empty(t, snap.Payments)

		_, err := f.cart.AddProduct(ctx, "2")
		require.Error(t, err, "cart must be locked during checkout")
	})

	t.Run("second checkout rejected", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.fill(t)
		f.start(t)
		_, err := f.checkout.Initiate(ctx)
		require.Error(t, err)
	})
}

func TestCheckoutCashExactPayment(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	f.fill(t)
	f.start(t)

	_, err := f.checkout.SelectMethod(ctx, enum.MethodCash)
	require.NoError(t, err)

	snap, err := f.checkout.ConfirmAmount(ctx, 15.00)
	require.NoError(t, err)
	require.Equal(t, enum.StepSaleComplete, snap.Step)
	require.Equal(t, 0.0, snap.Remaining)
	require.Len(t, snap.Payments, 1)
	require.NotNil(t, snap.Sale)

	// Sale appended to the history
	sales, err := f.sales.All(ctx)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	require.Equal(t, int64(1500), sales[0].TotalCents)
	require.Equal(t, "Dinheiro", sales[0].PrimaryMethod)

	// Stock decremented, cart cleared and unlocked
	p, err := f.products.GetByID(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, 48, p.Stock)
	require.Empty(t, f.cart.Lines())

	_, err = f.cart.AddProduct(ctx, "2")
	require.NoError(t, err)
}

func TestCheckoutSplitPayment(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	f.fill(t)
	f.start(t)

	// Partial cash leg returns to method selection with the balance reduced
	_, err := f.checkout.SelectMethod(ctx, enum.MethodCash)
	require.NoError(t, err)
	snap, err := f.checkout.ConfirmAmount(ctx, 5.00)
	require.NoError(t, err)
	require.Equal(t, enum.StepSelectMethod, snap.Step)
	require.Equal(t, 10.0, snap.Remaining)
	require.Len(t, snap.Payments, 1)
	require.Nil(t, snap.Pending)

	// Pix leg proposes the full remaining balance
	snap, err = f.checkout.SelectMethod(ctx, enum.MethodPix)
	require.NoError(t, err)
	require.Equal(t, 10.0, snap.Pending.Amount)

	snap, err = f.checkout.ConfirmAmount(ctx, 10.00)
	require.NoError(t, err)
	require.Equal(t, enum.StepPixQR, snap.Step)
	require.Equal(t, enum.ProcessingLoading, snap.Pending.Status)

	snap = f.waitStep(t, enum.StepSaleComplete)
	require.Len(t, snap.Payments, 2)
	require.Equal(t, 0.0, snap.Remaining)
	require.Equal(t, "Pix", snap.Payments[1].Label())
}

func TestCheckoutCardFlow(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	f.fill(t)
	f.start(t)

	_, err := f.checkout.SelectMethod(ctx, enum.MethodCard)
	require.NoError(t, err)
	snap, err := f.checkout.ConfirmAmount(ctx, 15.00)
	require.NoError(t, err)
	require.Equal(t, enum.StepCardType, snap.Step)

	snap, err = f.checkout.SelectCardType(ctx, enum.CardCredit)
	require.NoError(t, err)
	require.Equal(t, enum.StepCardMachine, snap.Step)

	snap, err = f.checkout.SelectTerminal(ctx, "m2")
	require.NoError(t, err)
	require.Equal(t, enum.StepProcessing, snap.Step)
	require.Equal(t, enum.ProcessingLoading, snap.Pending.Status)

	snap = f.waitStep(t, enum.StepSaleComplete)
	require.Len(t, snap.Payments, 1)
	require.Equal(t, "Cartão (credit) - Moderninha Pro 2 - Balcão", snap.Payments[0].Label())
}

func TestCheckoutOfflineCard(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	f.fill(t)
	f.start(t)

	_, err := f.checkout.SelectMethod(ctx, enum.MethodCard)
	require.NoError(t, err)
	_, err = f.checkout.ConfirmAmount(ctx, 15.00)
	require.NoError(t, err)
	_, err = f.checkout.SelectCardType(ctx, enum.CardDebit)
	require.NoError(t, err)

	snap, err := f.checkout.EnterOfflineTerminal(ctx)
	require.NoError(t, err)
	require.Equal(t, enum.StepOfflineTerminal, snap.Step)

	snap, err = f.checkout.ConfirmOfflineTerminal(ctx)
	require.NoError(t, err)
	require.Equal(t, enum.StepSaleComplete, snap.Step)
	require.Equal(t, "Cartão (debit) - Offline", snap.Payments[0].Label())
}

func TestCheckoutPixCancelStopsCallback(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	f.fill(t)
	f.start(t)

	_, err := f.checkout.SelectMethod(ctx, enum.MethodPix)
	require.NoError(t, err)
	_, err = f.checkout.ConfirmAmount(ctx, 15.00)
	require.NoError(t, err)

	snap, err := f.checkout.CancelPix(ctx)
	require.NoError(t, err)
	require.Equal(t, enum.StepSetAmount, snap.Step)

	// The confirmation scheduled by the first attempt must never land
	time.Sleep(60 * time.Millisecond)
	snap, ok := f.checkout.Snapshot()
	require.True(t, ok)
	require.Equal(t, enum.StepSetAmount, snap.Step)
	require.Empty(t, snap.Payments)
	require.Equal(t, 15.0, snap.Remaining)
}

func TestCheckoutAmountValidation(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	f.fill(t)
	f.start(t)

	_, err := f.checkout.SelectMethod(ctx, enum.MethodCash)
	require.NoError(t, err)

	for name, amount := range map[string]float64{
		"zero":           0,
		"negative":       -5,
		"over remaining": 15.02,
		"not a number":   math.NaN(),
		"infinite":       math.Inf(1),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := f.checkout.ConfirmAmount(ctx, amount)
			require.Error(t, err)
			require.Equal(t, 422, apperror.GetAppError(err).Code)
		})
	}

	// Rejections must not advance the machine
	snap, ok := f.checkout.Snapshot()
	require.True(t, ok)
	require.Equal(t, enum.StepSetAmount, snap.Step)

	// One cent of rounding slack is accepted and the balance floors at zero
	snap, err = f.checkout.ConfirmAmount(ctx, 15.01)
	require.NoError(t, err)
	require.Equal(t, enum.StepSaleComplete, snap.Step)
	require.Equal(t, 0.0, snap.Remaining)
}

func TestCheckoutBackNavigation(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	f.fill(t)
	f.start(t)

	_, err := f.checkout.SelectMethod(ctx, enum.MethodCard)
	require.NoError(t, err)
	_, err = f.checkout.ConfirmAmount(ctx, 15.00)
	require.NoError(t, err)
	_, err = f.checkout.SelectCardType(ctx, enum.CardCredit)
	require.NoError(t, err)

	snap, err := f.checkout.Back(ctx)
	require.NoError(t, err)
	require.Equal(t, enum.StepCardType, snap.Step)

	snap, err = f.checkout.Back(ctx)
	require.NoError(t, err)
	require.Equal(t, enum.StepSetAmount, snap.Step)

	snap, err = f.checkout.Back(ctx)
	require.NoError(t, err)
	require.Equal(t, enum.StepSelectMethod, snap.Step)
	require.Nil(t, snap.Pending)

	_, err = f.checkout.Back(ctx)
	require.ErrorIs(t, err, apperror.ErrInvalidStep)
}

func TestCheckoutWrongStepRejected(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	f.fill(t)
	f.start(t)

	_, err := f.checkout.ConfirmAmount(ctx, 15.00)
	require.ErrorIs(t, err, apperror.ErrInvalidStep)

	_, err = f.checkout.SelectCardType(ctx, enum.CardCredit)
	require.ErrorIs(t, err, apperror.ErrInvalidStep)

	_, err = f.checkout.CancelPix(ctx)
	require.ErrorIs(t, err, apperror.ErrInvalidStep)
}

func TestCheckoutAbandon(t *testing.T) {
	ctx := context.Background()

	t.Run("wrong passcode raises transient error", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.fill(t)
		f.start(t)

		_, err := f.checkout.Abandon(ctx, "0000")
		require.ErrorIs(t, err, apperror.ErrManagerPasscode)

		snap, ok := f.checkout.Snapshot()
		require.True(t, ok)
		require.Equal(t, enum.StepSelectMethod, snap.Step)
		require.True(t, snap.AbandonError)

		// The flag clears on its own
		require.Eventually(t, func() bool {
			s, ok := f.checkout.Snapshot()
			return ok && !s.AbandonError
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("correct passcode cancels the sale", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.fill(t)
		f.start(t)

		snap, err := f.checkout.Abandon(ctx, "1234")
		require.NoError(t, err)
		require.Equal(t, enum.StepSaleCancelled, snap.Step)

		// Nothing reaches the sales log
		sales, err := f.sales.All(ctx)
		require.NoError(t, err)
		require.Empty(t, sales)
	})

	t.Run("only allowed from method selection", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.fill(t)
		f.start(t)
		_, err := f.checkout.SelectMethod(ctx, enum.MethodCash)
		require.NoError(t, err)

		_, err = f.checkout.Abandon(ctx, "1234")
		require.ErrorIs(t, err, apperror.ErrInvalidStep)
	})
}

func TestCheckoutCountdown(t *testing.T) {
	ctx := context.Background()

	t.Run("expiry resets the session", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.fill(t)
		f.start(t)
		_, err := f.checkout.SelectMethod(ctx, enum.MethodCash)
		require.NoError(t, err)
		_, err = f.checkout.ConfirmAmount(ctx, 15.00)
		require.NoError(t, err)

		require.Eventually(t, func() bool {
			_, ok := f.checkout.Snapshot()
			return !ok
		}, time.Second, 5*time.Millisecond, "countdown expiry should discard the session")

		// Sale survives the reset, cart is ready for the next customer
		sales, err := f.sales.All(ctx)
		require.NoError(t, err)
		require.Len(t, sales, 1)
		_, err = f.cart.AddProduct(ctx, "2")
		require.NoError(t, err)
	})

	t.Run("manual reset from completion", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.fill(t)
		f.start(t)
		_, err := f.checkout.SelectMethod(ctx, enum.MethodCash)
		require.NoError(t, err)
		_, err = f.checkout.ConfirmAmount(ctx, 15.00)
		require.NoError(t, err)

		require.NoError(t, f.checkout.Reset(ctx))
		_, ok := f.checkout.Snapshot()
		require.False(t, ok)
	})

	t.Run("abandonment arms the full countdown and expires to reset", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.fill(t)
		f.start(t)

		snap, err := f.checkout.Abandon(ctx, "1234")
		require.NoError(t, err)
		require.Equal(t, enum.StepSaleCancelled, snap.Step)
		require.Equal(t, testCheckoutConfig().CountdownTicks, snap.Countdown)

		require.Eventually(t, func() bool {
			_, ok := f.checkout.Snapshot()
			return !ok
		}, time.Second, 5*time.Millisecond, "countdown expiry should discard the cancelled session")

		// A cancelled sale leaves no trace in the history, cart is usable again
		sales, err := f.sales.All(ctx)
		require.NoError(t, err)
		require.Empty(t, sales)
		_, err = f.cart.AddProduct(ctx, "2")
		require.NoError(t, err)
	})

	t.Run("reset rejected mid-flow", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.fill(t)
		f.start(t)
		require.ErrorIs(t, f.checkout.Reset(ctx), apperror.ErrInvalidStep)
	})
}

func TestCheckoutFiscalNote(t *testing.T) {
	ctx := context.Background()

	complete := func(t *testing.T) *checkoutFixture {
		f := newCheckoutFixture(t)
		f.fill(t)
		f.start(t)
		_, err := f.checkout.SelectMethod(ctx, enum.MethodCash)
		require.NoError(t, err)
		_, err = f.checkout.ConfirmAmount(ctx, 15.00)
		require.NoError(t, err)
		return f
	}

	t.Run("pauses countdown and transmits", func(t *testing.T) {
		f := complete(t)

		snap, err := f.checkout.EnterFiscalNote(ctx)
		require.NoError(t, err)
		require.Equal(t, enum.StepFiscalNote, snap.Step)
		require.True(t, snap.CountdownPaused)

		// The paused countdown must not expire the session
		time.Sleep(100 * time.Millisecond)
		_, ok := f.checkout.Snapshot()
		require.True(t, ok)

		snap, err = f.checkout.TransmitFiscalNote(ctx, "123.456.789-00", "Mariana Oliveira")
		require.NoError(t, err)
		require.True(t, snap.Fiscal.Generating)

		require.Eventually(t, func() bool {
			s, ok := f.checkout.Snapshot()
			return ok && s.Fiscal != nil && s.Fiscal.Finished
		}, time.Second, 5*time.Millisecond)

		snap, _ = f.checkout.Snapshot()
		require.NotEmpty(t, snap.Fiscal.AccessKey)

		snap, err = f.checkout.CloseFiscalNote(ctx)
		require.NoError(t, err)
		require.Equal(t, enum.StepSaleComplete, snap.Step)
		require.False(t, snap.CountdownPaused)
	})

	t.Run("pause preserves the remaining countdown", func(t *testing.T) {
		f := complete(t)

		// Let one tick elapse so a resume that re-armed at full would show
		var before int
		require.Eventually(t, func() bool {
			s, ok := f.checkout.Snapshot()
			if !ok {
				return false
			}
			before = s.Countdown
			return s.Countdown == testCheckoutConfig().CountdownTicks-1
		}, time.Second, 2*time.Millisecond)

		_, err := f.checkout.EnterFiscalNote(ctx)
		require.NoError(t, err)

		time.Sleep(4 * testCheckoutConfig().CountdownTick)

		snap, err := f.checkout.CloseFiscalNote(ctx)
		require.NoError(t, err)
		require.Equal(t, before, snap.Countdown, "resume must continue from the paused value")
	})

	t.Run("missing recipient blocks transmission", func(t *testing.T) {
		f := complete(t)
		_, err := f.checkout.EnterFiscalNote(ctx)
		require.NoError(t, err)

		_, err = f.checkout.TransmitFiscalNote(ctx, "", "")
		require.Error(t, err)
		require.Equal(t, 422, apperror.GetAppError(err).Code)

		snap, ok := f.checkout.Snapshot()
		require.True(t, ok)
		require.False(t, snap.Fiscal.Generating, "rejected transmission must not schedule the delay")
	})

	t.Run("prefill from directory", func(t *testing.T) {
		f := complete(t)
		_, err := f.checkout.EnterFiscalNote(ctx)
		require.NoError(t, err)

		snap, err := f.checkout.SelectFiscalClient(ctx, "c1")
		require.NoError(t, err)
		require.Equal(t, "Mariana Oliveira", snap.Fiscal.Recipient.Name)
		require.Equal(t, "123.456.789-00", snap.Fiscal.Recipient.Document)
	})

	t.Run("quick add registers and selects", func(t *testing.T) {
		f := complete(t)
		_, err := f.checkout.EnterFiscalNote(ctx)
		require.NoError(t, err)

		snap, err := f.checkout.QuickAddFiscalClient(ctx, entity.Client{
			Name:     "Novo Cliente",
			Document: "987.654.321-00",
		})
		require.NoError(t, err)
		require.Equal(t, "Novo Cliente", snap.Fiscal.Recipient.Name)

		clients, err := f.clients.List(ctx)
		require.NoError(t, err)
		require.Len(t, clients, 3)
	})
}

func TestCheckoutContactFlow(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	f.fill(t)
	f.start(t)
	_, err := f.checkout.SelectMethod(ctx, enum.MethodCash)
	require.NoError(t, err)
	_, err = f.checkout.ConfirmAmount(ctx, 15.00)
	require.NoError(t, err)

	snap, err := f.checkout.StartContact(ctx, enum.ContactWhatsApp)
	require.NoError(t, err)
	require.Equal(t, enum.StepContactInput, snap.Step)
	require.True(t, snap.CountdownPaused)

	_, err = f.checkout.SendContact(ctx, "")
	require.Error(t, err, "empty destination rejected")

	snap, err = f.checkout.SendContact(ctx, "11999998888")
	require.NoError(t, err)
	require.Equal(t, enum.StepSaleComplete, snap.Step)
	require.False(t, snap.CountdownPaused)
}
