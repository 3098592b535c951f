package notify

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// Notification is the payload delivered to every device of a user.
type Notification struct {
	Title string
	Body  string
}

// SendResult is the delivery outcome for a single token.
type SendResult struct {
	Token string
	Err   error
}

// Result aggregates per-token outcomes of one Send call.
type Result struct {
	Success int
	Failure int
	Results []SendResult
}

// Dispatcher sends one notification to a set of device tokens. Individual
// token failures are reported in the Result, never as the error return; the
// error is reserved for failures that prevent the send attempt entirely.
// An empty token set is a no-op.
type Dispatcher interface {
	Send(ctx context.Context, tokens []string, n Notification) (Result, error)
}

// BareToken strips the platform prefix ("fcm:", "telegram:") from a stored
// token value. Values without a prefix pass through unchanged.
func BareToken(token string) string {
	if _, rest, ok := strings.Cut(token, ":"); ok && rest != "" {
		return rest
	}
	return token
}

// LogDispatcher records sends without delivering anything. Used when no
// transport is configured, so the scheduled jobs still advance their guard
// flags in development setups.
type LogDispatcher struct {
	Log zerolog.Logger
}

func (d LogDispatcher) Send(_ context.Context, tokens []string, n Notification) (Result, error) {
	if len(tokens) == 0 {
		return Result{}, nil
	}
	d.Log.Info().Int("tokens", len(tokens)).Str("title", n.Title).Msg("dropping notification, no transport configured")
	res := Result{Success: len(tokens)}
	for _, t := range tokens {
		res.Results = append(res.Results, SendResult{Token: t})
	}
	return res, nil
}
