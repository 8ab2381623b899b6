package resend

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/brk3/habitcal/internal/nudge"
	"github.com/resend/resend-go/v2"
)

type ResendNotifier struct {
	From   string
	Email  string
	client *resend.Client
}

func NewNotifier(apiKey, from, email string) *ResendNotifier {
	return &ResendNotifier{
		From:   from,
		Email:  email,
		client: resend.NewClient(apiKey),
	}
}

var emailTemplate = template.Must(template.New("email").Parse(`
<p>{{.Body}}</p>
<p>These streaks end in about {{.HoursLeft}} hours unless you check in:</p>
<ul>
{{range .Habits}}
  <li>{{.Icon}} {{.Name}} ({{.CurrentStreak}} days)</li>
{{end}}
</ul>
`))

func render(n nudge.Nudge) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *ResendNotifier) SendNudge(ctx context.Context, n nudge.Nudge) error {
	html, err := render(n)
	if err != nil {
		return fmt.Errorf("render nudge: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    r.From,
		To:      []string{r.Email},
		Subject: n.Title,
		Html:    html,
	}
	_, err = r.client.Emails.SendWithContext(ctx, params)
	return err
}

var _ nudge.Notifier = (*ResendNotifier)(nil)
