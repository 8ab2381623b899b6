package nudge

import "context"

type mockNotifier struct {
	called bool
	nudge  Nudge
	err    error
}

func (m *mockNotifier) SendNudge(ctx context.Context, n Nudge) error {
	m.called = true
	m.nudge = n
	return m.err
}
