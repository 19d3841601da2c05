// Package payment holds the simulated payment step of checkout. No money
// moves: the simulator waits for a fixed delay and then approves.
package payment

import (
	"context"
	"time"
)

// Result describes an approved simulated payment.
type Result struct {
	Method     string
	Amount     int64
	ApprovedAt time.Time
}

type Simulator struct {
	Delay time.Duration
}

func NewSimulator(delay time.Duration) *Simulator {
	return &Simulator{Delay: delay}
}

// Pay blocks for the configured delay and approves unconditionally. If ctx
// ends first, Pay returns ctx.Err() and no result.
func (s *Simulator) Pay(ctx context.Context, method string, amount int64) (*Result, error) {
	timer := time.NewTimer(s.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case t := <-timer.C:
		return &Result{Method: method, Amount: amount, ApprovedAt: t}, nil
	}
}
