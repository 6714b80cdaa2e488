package usecase

import (
	"context"
	"fmt"
	"log"
)

// Saga runs steps in order. When a step fails, the compensations of the steps that already
// succeeded run in reverse order.
type Saga struct {
	steps []sagaStep
}

type sagaStep struct {
	name       string
	run        func(context.Context) error
	compensate func(context.Context) error
}

func NewSaga() *Saga {
	return &Saga{}
}

// Step registers an operation. compensate may be nil for steps with nothing to undo.
func (s *Saga) Step(name string, run, compensate func(context.Context) error) *Saga {
	s.steps = append(s.steps, sagaStep{name: name, run: run, compensate: compensate})
	return s
}

func (s *Saga) Execute(ctx context.Context) error {
	for i, step := range s.steps {
		if err := step.run(ctx); err != nil {
			s.rollback(ctx, i)
			return fmt.Errorf("step '%s' failed: %w (rolled back %d steps)", step.name, err, i)
		}
	}
	return nil
}

func (s *Saga) rollback(ctx context.Context, failedAt int) {
	for i := failedAt - 1; i >= 0; i-- {
		step := s.steps[i]
		if step.compensate == nil {
			continue
		}
		if err := step.compensate(ctx); err != nil {
			log.Printf("⚠️ [SAGA] compensação '%s' falhou: %v (risco de inconsistência)", step.name, err)
		}
	}
}
