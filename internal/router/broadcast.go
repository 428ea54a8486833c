package router

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrNoRecipients reports a broadcast that matched no consenting user
// at the requested pincode. Callers must be able to tell this apart
// from a transport failure.
var ErrNoRecipients = errors.New("no consenting users at pincode")

// Broadcast pushes one localized alert to every consenting user at the
// given pincode and returns the number of users matched. Not
// idempotent: a repeated call re-sends to the same audience.
func (r *Router) Broadcast(ctx context.Context, pincode, disease string) (int, error) {
	users, err := r.storage.ListConsentedByPincode(ctx, pincode)
	if err != nil {
		return 0, fmt.Errorf("failed to list broadcast recipients: %w", err)
	}
	if len(users) == 0 {
		return 0, ErrNoRecipients
	}

	for _, u := range users {
		lang := u.Lang()

		reply := genericAlertReply(u.WaUserID, lang)
		if disease == "dengue" {
			seed, err := r.seeds.Lookup("dengue_prevention", lang)
			if err != nil {
				return 0, fmt.Errorf("failed to load alert content: %w", err)
			}
			reply = broadcastAlertReply(u.WaUserID, lang, seed)
		}

		// A single failed send must not abort the fan-out.
		if err := r.dispatch(ctx, reply); err != nil {
			r.logger.Error("failed to deliver alert",
				zap.Error(err),
				zap.String("user_id", u.WaUserID),
				zap.String("pincode", pincode))
		}
	}

	r.logger.Info("broadcast dispatched",
		zap.String("pincode", pincode),
		zap.String("disease", disease),
		zap.Int("recipients", len(users)))
	return len(users), nil
}
