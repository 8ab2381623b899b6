package nudge

import (
	"context"

	"github.com/brk3/habitcal/pkg/habit"
)

type mockClient struct {
	habits []habit.Summary
	err    error
	calls  int
}

func (f *mockClient) ListHabits(ctx context.Context) ([]habit.Summary, error) {
	f.calls++
	return f.habits, f.err
}
