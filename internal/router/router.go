// Package router is the conversation core: it classifies each inbound
// event, advances the sender's profile through the onboarding flow and
// emits reply directives through the outbox/delivery path.
package router

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/swasthyasaathi/bot/internal/content"
	"github.com/swasthyasaathi/bot/internal/delivery"
	"github.com/swasthyasaathi/bot/internal/intent"
	"github.com/swasthyasaathi/bot/internal/models"
	"github.com/swasthyasaathi/bot/internal/schedule"
	"github.com/swasthyasaathi/bot/internal/storage"
)

type Router struct {
	storage storage.Storage
	seeds   *content.Library
	sender  delivery.Sender
	logger  *zap.Logger
	locks   keyedMutex
}

func New(storage storage.Storage, seeds *content.Library, sender delivery.Sender, logger *zap.Logger) *Router {
	return &Router{
		storage: storage,
		seeds:   seeds,
		sender:  sender,
		logger:  logger,
	}
}

// Handle runs one inbound event end to end: load or create the user,
// classify, apply the state transition, persist, then deliver the
// reply. Runs for the same sender are serialized; profile state is
// committed before the send, so a delivery failure never rolls back a
// transition the user may later be told about.
func (r *Router) Handle(ctx context.Context, senderID, text string) error {
	unlock := r.locks.lock(senderID)
	defer unlock()

	user, err := r.getOrCreateUser(ctx, senderID)
	if err != nil {
		return err
	}

	phase := models.PhaseOf(user)
	in := intent.Classify(text, phase)
	r.logger.Debug("classified inbound event",
		zap.String("user_id", senderID),
		zap.Stringer("phase", phase),
		zap.Stringer("intent", in.Kind))

	switch in.Kind {
	case intent.Greeting:
		return r.dispatch(ctx, consentPrompt(senderID))

	case intent.ConsentAffirm:
		user.Consent = true
		if err := r.storage.UpdateUser(ctx, user); err != nil {
			return fmt.Errorf("failed to record consent: %w", err)
		}
		return r.dispatch(ctx, languagePrompt(senderID))

	case intent.ConsentDecline:
		return r.dispatch(ctx, optOutAck(senderID))

	case intent.SetLanguage:
		user.Language = in.Language
		if err := r.storage.UpdateUser(ctx, user); err != nil {
			return fmt.Errorf("failed to set language: %w", err)
		}
		return r.dispatch(ctx, languageSetReply(senderID, in.Language))

	case intent.CapturePincode:
		user.Pincode = in.Pincode
		if err := r.storage.UpdateUser(ctx, user); err != nil {
			return fmt.Errorf("failed to set pincode: %w", err)
		}
		return r.dispatch(ctx, mainMenu(senderID, user.Lang()))

	case intent.MenuRequest:
		return r.dispatch(ctx, mainMenu(senderID, user.Lang()))

	case intent.VaccinationMenuRequest:
		return r.dispatch(ctx, dobPrompt(senderID, user.Lang()))

	case intent.CaptureChildDOB:
		if err := r.storage.UpsertChild(ctx, user.ID, in.DOB); err != nil {
			return fmt.Errorf("failed to record child dob: %w", err)
		}
		windows := schedule.Windows(in.DOB)[:2]
		return r.dispatch(ctx, windowsReply(senderID, user.Lang(), windows))

	case intent.TopicRequest:
		seed, err := r.seeds.Lookup(in.Topic, user.Lang())
		if err != nil {
			return fmt.Errorf("failed to load topic content: %w", err)
		}
		return r.dispatch(ctx, topicReply(senderID, user.Lang(), seed))

	case intent.AlertsRequest:
		return r.dispatch(ctx, alertsDemoReply(senderID, user.Lang()))

	case intent.SafetyRedirect:
		return r.dispatch(ctx, safetyRedirectReply(senderID, user.Lang()))

	default:
		return r.dispatch(ctx, mainMenu(senderID, user.Lang()))
	}
}

func (r *Router) getOrCreateUser(ctx context.Context, senderID string) (*models.User, error) {
	user, err := r.storage.GetUserByWaID(ctx, senderID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	user = &models.User{WaUserID: senderID, Consent: false}
	if err := r.storage.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	r.logger.Info("registered new user", zap.String("user_id", senderID))
	return user, nil
}

// dispatch records the reply in the outbox, delivers it, then marks
// the record delivered. A failed send leaves the outbox row pending
// and is reported to the caller.
func (r *Router) dispatch(ctx context.Context, reply models.Reply) error {
	msg := &models.OutboundMessage{
		ID:       uuid.New().String(),
		WaUserID: reply.To,
		Body:     reply.Body,
		Buttons:  reply.Buttons,
	}
	if err := r.storage.AppendOutbox(ctx, msg); err != nil {
		return fmt.Errorf("failed to record outbound message: %w", err)
	}

	var err error
	if len(reply.Buttons) > 0 {
		err = r.sender.SendButtons(ctx, reply.To, reply.Body, reply.Buttons)
	} else {
		err = r.sender.SendText(ctx, reply.To, reply.Body)
	}
	if err != nil {
		r.logger.Error("failed to deliver message",
			zap.Error(err),
			zap.String("user_id", reply.To),
			zap.String("message_id", msg.ID))
		return fmt.Errorf("delivery failed: %w", err)
	}

	if err := r.storage.MarkDelivered(ctx, msg.ID); err != nil {
		r.logger.Error("failed to mark message delivered",
			zap.Error(err),
			zap.String("message_id", msg.ID))
	}
	return nil
}
