package notify

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

// FCMDispatcher delivers notifications through Firebase Cloud Messaging.
type FCMDispatcher struct {
	client *messaging.Client
	log    zerolog.Logger
}

// NewFCM builds a dispatcher from a service-account credentials file.
func NewFCM(ctx context.Context, credentialsFile string, log zerolog.Logger) (*FCMDispatcher, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("init messaging client: %w", err)
	}
	return &FCMDispatcher{client: client, log: log}, nil
}

func (d *FCMDispatcher) Send(ctx context.Context, tokens []string, n Notification) (Result, error) {
	if len(tokens) == 0 {
		return Result{}, nil
	}

	bare := make([]string, len(tokens))
	for i, t := range tokens {
		bare[i] = BareToken(t)
	}

	msg := &messaging.MulticastMessage{
		Tokens: bare,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Body,
		},
	}

	batch, err := d.client.SendEachForMulticast(ctx, msg)
	if err != nil {
		return Result{}, fmt.Errorf("fcm multicast: %w", err)
	}

	res := Result{Success: batch.SuccessCount, Failure: batch.FailureCount}
	for i, resp := range batch.Responses {
		sr := SendResult{Token: tokens[i]}
		if !resp.Success {
			sr.Err = resp.Error
			d.log.Warn().Err(resp.Error).Str("token", tokens[i]).Msg("fcm send failed")
		}
		res.Results = append(res.Results, sr)
	}
	return res, nil
}
