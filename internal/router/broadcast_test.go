package router

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swasthyasaathi/bot/internal/models"
)

func seedUser(t *testing.T, spy *outboxSpy, waID string, lang models.Language, consent bool, pincode string) {
	t.Helper()
	user := &models.User{
		WaUserID: waID,
		Language: lang,
		Consent:  consent,
		Pincode:  pincode,
	}
	require.NoError(t, spy.CreateUser(context.Background(), user))
}

func TestBroadcast_ZeroRecipients(t *testing.T) {
	rt, sender, _ := newTestRouter(t)

	sent, err := rt.Broadcast(context.Background(), "110001", "dengue")
	assert.ErrorIs(t, err, ErrNoRecipients)
	assert.Zero(t, sent)
	assert.Empty(t, sender.sends)
}

func TestBroadcast_FiltersConsentAndPincode(t *testing.T) {
	rt, sender, spy := newTestRouter(t)

	seedUser(t, spy, "wa-1", models.English, true, "560001")
	seedUser(t, spy, "wa-2", models.Hindi, true, "560001")
	seedUser(t, spy, "wa-3", models.English, false, "560001") // no consent
	seedUser(t, spy, "wa-4", models.English, true, "110001")  // other pincode

	sent, err := rt.Broadcast(context.Background(), "560001", "dengue")
	require.NoError(t, err)
	assert.Equal(t, 2, sent)

	recipients := make(map[string]string)
	for _, s := range sender.sends {
		recipients[s.To] = s.Body
	}
	require.Len(t, recipients, 2)
	assert.Contains(t, recipients["wa-1"], "Recent dengue uptick in your area")
	assert.Contains(t, recipients["wa-1"], "Source: State health bulletin (demo).")
	assert.Contains(t, recipients["wa-2"], "आपके क्षेत्र में डेंगू मामलों में वृद्धि")
}

func TestBroadcast_TruncatesToThreeBullets(t *testing.T) {
	rt, sender, spy := newTestRouter(t)

	seedUser(t, spy, "wa-5", models.English, true, "560001")

	_, err := rt.Broadcast(context.Background(), "560001", "dengue")
	require.NoError(t, err)

	body := sender.last(t).Body
	assert.Equal(t, 3, strings.Count(body, "• "))
}

func TestBroadcast_UnknownDiseaseSendsGenericAlert(t *testing.T) {
	rt, sender, spy := newTestRouter(t)

	seedUser(t, spy, "wa-6", models.English, true, "560001")

	sent, err := rt.Broadcast(context.Background(), "560001", "malaria")
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Contains(t, sender.last(t).Body, "Alert (demo).")
}

func TestBroadcast_NotIdempotent(t *testing.T) {
	rt, sender, spy := newTestRouter(t)

	seedUser(t, spy, "wa-7", models.English, true, "560001")

	for i := 0; i < 2; i++ {
		sent, err := rt.Broadcast(context.Background(), "560001", "dengue")
		require.NoError(t, err)
		assert.Equal(t, 1, sent)
	}
	assert.Len(t, sender.sends, 2, "repeat broadcast re-sends to the same audience")
}
