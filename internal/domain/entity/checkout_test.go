package entity

import (
	"testing"

	"github.com/superpos/terminal-api/internal/domain/enum"
)

func TestCheckoutSessionRecord(t *testing.T) {
	t.Run("partial payments reduce the balance", func(t *testing.T) {
		s := NewCheckoutSession(1500)
		settled := s.Record(PaymentEntry{Method: enum.MethodCash, AmountCents: 500})
		if settled {
			t.Fatal("partial payment must not settle the session")
		}
		if s.RemainingCents != 1000 {
			t.Fatalf("expected remaining 1000, got %d", s.RemainingCents)
		}
		if s.PaidCents() != 500 {
			t.Fatalf("expected paid 500, got %d", s.PaidCents())
		}
	})

	t.Run("exact payment settles", func(t *testing.T) {
		s := NewCheckoutSession(1500)
		if !s.Record(PaymentEntry{Method: enum.MethodPix, AmountCents: 1500}) {
			t.Fatal("exact payment must settle the session")
		}
		if s.RemainingCents != 0 {
			t.Fatalf("expected remaining 0, got %d", s.RemainingCents)
		}
	})

	t.Run("overpayment floors at zero", func(t *testing.T) {
		s := NewCheckoutSession(1500)
		if !s.Record(PaymentEntry{Method: enum.MethodCash, AmountCents: 1501}) {
			t.Fatal("overpayment must settle the session")
		}
		if s.RemainingCents != 0 {
			t.Fatalf("expected remaining floored at 0, got %d", s.RemainingCents)
		}
	})

	t.Run("entries are append-only", func(t *testing.T) {
		s := NewCheckoutSession(1500)
		s.Record(PaymentEntry{Method: enum.MethodCash, AmountCents: 500})
		s.Record(PaymentEntry{Method: enum.MethodPix, AmountCents: 1000})
		if len(s.Payments) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(s.Payments))
		}
		if s.Payments[0].Method != enum.MethodCash || s.Payments[1].Method != enum.MethodPix {
			t.Fatalf("entries out of order: %+v", s.Payments)
		}
	})
}

func TestPaymentEntryLabel(t *testing.T) {
	credit := enum.CardCredit

	cases := []struct {
		name  string
		entry PaymentEntry
		want  string
	}{
		{"cash", PaymentEntry{Method: enum.MethodCash, AmountCents: 100}, "Dinheiro"},
		{"pix", PaymentEntry{Method: enum.MethodPix, AmountCents: 100}, "Pix"},
		{
			"card with terminal",
			PaymentEntry{Method: enum.MethodCard, AmountCents: 100, CardType: &credit, TerminalName: "Cielo LIO - Principal"},
			"Cartão (credit) - Cielo LIO - Principal",
		},
		{
			"card offline",
			PaymentEntry{Method: enum.MethodCard, AmountCents: 100, CardType: &credit},
			"Cartão (credit) - Offline",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.entry.Label(); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
