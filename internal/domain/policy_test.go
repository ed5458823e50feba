package domain_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/dleiva04/arq-big-data2/internal/domain"
)

func newPolicy(t *testing.T, cancelProbability float64) *domain.Policy {
	t.Helper()

	cfg := domain.DefaultPolicyConfig()
	cfg.CancelProbability = cancelProbability
	policy, err := domain.NewPolicy(cfg, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("new policy failed: %v", err)
	}
	return policy
}

func TestPolicyConfigValidate(t *testing.T) {
	cases := []struct {
		name string
		mut  func(cfg *domain.PolicyConfig)
		want error
	}{
		{
			name: "probability below zero",
			mut: func(cfg *domain.PolicyConfig) {
				cfg.CancelProbability = -0.1
			},
			want: domain.ErrProbabilityInvalid,
		},
		{
			name: "probability above one",
			mut: func(cfg *domain.PolicyConfig) {
				cfg.CancelProbability = 1.1
			},
			want: domain.ErrProbabilityInvalid,
		},
		{
			name: "inverted dwell range",
			mut: func(cfg *domain.PolicyConfig) {
				cfg.DwellRanges[domain.OrderStatusPending] = domain.DwellRange{
					Min: 30 * time.Second,
					Max: 10 * time.Second,
				}
			},
			want: domain.ErrDwellRangeInvalid,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := domain.DefaultPolicyConfig()
			tc.mut(&cfg)
			if err := cfg.Validate(); err != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestPolicyDecide_HoldBeforeDue(t *testing.T) {
	policy := newPolicy(t, 1.0)
	order := makeOrder()

	// До истечения интервала даже стопроцентная вероятность отмены не срабатывает.
	decision, err := policy.Decide(&order, order.LastStatusChange.Add(time.Second))
	if err != nil {
		t.Fatalf("decide failed: %v", err)
	}
	if decision.Kind != domain.DecisionHold {
		t.Fatalf("expected hold, got %v", decision.Kind)
	}
}

func TestPolicyDecide_AdvanceWhenNeverCancelling(t *testing.T) {
	policy := newPolicy(t, 0)
	order := makeOrder()
	now := order.LastStatusChange.Add(order.NextDueIn)

	decision, err := policy.Decide(&order, now)
	if err != nil {
		t.Fatalf("decide failed: %v", err)
	}
	if decision.Kind != domain.DecisionAdvance {
		t.Fatalf("expected advance, got %v", decision.Kind)
	}
	if decision.NextStatus != domain.OrderStatusConfirmed {
		t.Fatalf("expected confirmed, got %s", decision.NextStatus)
	}
	if decision.NextDueIn <= 0 {
		t.Fatal("advance into a non-terminal status must schedule a new dwell")
	}

	policy.Apply(&order, decision, now)
	if order.Status != domain.OrderStatusConfirmed {
		t.Fatalf("apply did not move status, got %s", order.Status)
	}
	if !order.LastStatusChange.Equal(now) {
		t.Fatal("apply must stamp the transition time")
	}
}

func TestPolicyDecide_AdvanceIntoShippedSchedulesNoDwell(t *testing.T) {
	policy := newPolicy(t, 0)
	order := makeOrder()
	order.Status = domain.OrderStatusProcessing

	decision, err := policy.Decide(&order, order.LastStatusChange.Add(order.NextDueIn))
	if err != nil {
		t.Fatalf("decide failed: %v", err)
	}
	if decision.NextStatus != domain.OrderStatusShipped {
		t.Fatalf("expected shipped, got %s", decision.NextStatus)
	}
	if decision.NextDueIn != 0 {
		t.Fatal("shipped is terminal, no dwell may be scheduled")
	}
}

func TestPolicyDecide_CancelUsesCurrentStateReasons(t *testing.T) {
	cfg := domain.DefaultPolicyConfig()

	for status, reasons := range cfg.CancellationReasons {
		policy := newPolicy(t, 1.0)
		order := makeOrder()
		order.Status = status

		decision, err := policy.Decide(&order, order.LastStatusChange.Add(order.NextDueIn))
		if err != nil {
			t.Fatalf("decide failed for %s: %v", status, err)
		}
		if decision.Kind != domain.DecisionCancel {
			t.Fatalf("expected cancel for %s, got %v", status, decision.Kind)
		}

		found := false
		for _, reason := range reasons {
			if reason == decision.Reason {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("reason %q does not belong to the %s reason set", decision.Reason, status)
		}

		now := order.LastStatusChange.Add(order.NextDueIn)
		policy.Apply(&order, decision, now)
		if order.Status != domain.OrderStatusCancelled {
			t.Fatalf("apply did not cancel, got %s", order.Status)
		}
		if order.CancellationReason != decision.Reason {
			t.Fatal("apply must carry the decision reason onto the order")
		}
		if errs := order.ValidateInvariants(); len(errs) != 0 {
			t.Fatalf("cancelled order violates invariants: %v", errs)
		}
	}
}

func TestPolicyDecide_TerminalRejected(t *testing.T) {
	policy := newPolicy(t, 0.08)
	order := makeOrder()
	order.Status = domain.OrderStatusShipped

	if _, err := policy.Decide(&order, time.Now()); !domain.IsTerminalTransition(err) {
		t.Fatalf("expected terminal transition error, got %v", err)
	}
}

func TestPolicyDwell_WithinRange(t *testing.T) {
	cfg := domain.DefaultPolicyConfig()
	policy := newPolicy(t, 0.08)

	for status, r := range cfg.DwellRanges {
		for i := 0; i < 100; i++ {
			dwell := policy.Dwell(status)
			if dwell < r.Min || dwell > r.Max {
				t.Fatalf("dwell %v for %s outside [%v, %v]", dwell, status, r.Min, r.Max)
			}
		}
	}

	// У терминальных статусов диапазона нет.
	if policy.Dwell(domain.OrderStatusShipped) != 0 {
		t.Fatal("terminal status must have zero dwell")
	}
}
