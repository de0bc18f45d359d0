package inboxservice

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const confirmationBody = `Thank you for booking with us!

Breakfast Hill Golf Club
Monday, November 3, 2025
11:09 am
4 Player(s)

Please arrive 15 minutes before your tee time.
`

func TestParser_Parse(t *testing.T) {
	p := NewParser()
	ref := time.Date(2025, 10, 28, 9, 0, 0, 0, time.UTC)

	t.Run("full confirmation", func(t *testing.T) {
		candidate, err := p.Parse(Message{
			ID:      "msg-1",
			Subject: "Tee Time CONFIRMED - Breakfast Hill Golf Club",
			Body:    confirmationBody,
		}, ref)
		require.NoError(t, err)

		assert.Equal(t, "Breakfast Hill Golf Club", candidate.Course)
		assert.Equal(t, time.Date(2025, 11, 3, 11, 9, 0, 0, time.UTC), candidate.Date)
		assert.Equal(t, 4, candidate.Golfers)
	})

	t.Run("subject without CONFIRMED rejected", func(t *testing.T) {
		_, err := p.Parse(Message{
			ID:      "msg-2",
			Subject: "Your receipt from Breakfast Hill",
			Body:    confirmationBody,
		}, ref)
		assert.ErrorIs(t, err, ErrNotConfirmation)
	})

	t.Run("missing course", func(t *testing.T) {
		_, err := p.Parse(Message{
			ID:      "msg-3",
			Subject: "CONFIRMED",
			Body:    "Monday, November 3, 2025\n11:09 am\n2 Player(s)",
		}, ref)
		assert.ErrorIs(t, err, ErrUnparsable)
	})

	t.Run("missing date", func(t *testing.T) {
		_, err := p.Parse(Message{
			ID:      "msg-4",
			Subject: "CONFIRMED",
			Body:    "Breakfast Hill Golf Club\n11:09 am\n2 Player(s)",
		}, ref)
		assert.ErrorIs(t, err, ErrUnparsable)
	})

	t.Run("missing tee time", func(t *testing.T) {
		_, err := p.Parse(Message{
			ID:      "msg-5",
			Subject: "CONFIRMED",
			Body:    "Breakfast Hill Golf Club\nMonday, November 3, 2025\n2 Player(s)",
		}, ref)
		assert.ErrorIs(t, err, ErrUnparsable)
	})

	t.Run("player count defaults to zero", func(t *testing.T) {
		candidate, err := p.Parse(Message{
			ID:      "msg-6",
			Subject: "CONFIRMED",
			Body:    "Breakfast Hill Golf Club\nMonday, November 3, 2025\n11:09 am",
		}, ref)
		require.NoError(t, err)
		assert.Equal(t, 0, candidate.Golfers)
	})

	t.Run("afternoon tee time", func(t *testing.T) {
		candidate, err := p.Parse(Message{
			ID:      "msg-7",
			Subject: "CONFIRMED",
			Body:    "Willow Bend Golf Club\nSaturday, June 13, 2026\n1:30 PM\n2 Player(s)",
		}, ref)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 6, 13, 13, 30, 0, 0, time.UTC), candidate.Date)
	})
}

func TestIsConfirmation(t *testing.T) {
	tests := []struct {
		subject string
		want    bool
	}{
		{"Tee Time Confirmation - Breakfast Hill", true},
		{"RE: tee time confirmation", true},
		{"Weekly newsletter", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsConfirmation(tt.subject); got != tt.want {
			t.Errorf("IsConfirmation(%q) = %v, want %v", tt.subject, got, tt.want)
		}
	}
}

func TestParseTeeTime_BadValue(t *testing.T) {
	_, err := parseTeeTime("see you at 25:99 pm")
	if !errors.Is(err, ErrUnparsable) {
		t.Errorf("parseTeeTime() error = %v, want ErrUnparsable", err)
	}
}
