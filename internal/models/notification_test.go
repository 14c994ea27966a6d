// internal/models/notification_test.go
package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAudienceMatches(t *testing.T) {
	userA := uuid.New()
	userB := uuid.New()

	cases := []struct {
		name     string
		audience Audience
		viewer   ViewerContext
		want     bool
	}{
		{
			name:     "broadcast matches same role",
			audience: BroadcastTo(RoleMerchant),
			viewer:   NewViewerContext(RoleMerchant, userA, "a"),
			want:     true,
		},
		{
			name:     "broadcast matches anonymous visitor",
			audience: BroadcastTo(RoleVisitor),
			viewer:   AnonymousViewer(),
			want:     true,
		},
		{
			name:     "broadcast rejects other role",
			audience: BroadcastTo(RoleAdmin),
			viewer:   NewViewerContext(RoleMerchant, userA, "a"),
			want:     false,
		},
		{
			name:     "targeted matches the addressed user",
			audience: TargetedAt(RoleMerchant, userA),
			viewer:   NewViewerContext(RoleMerchant, userA, "a"),
			want:     true,
		},
		{
			name:     "targeted rejects another user of the same role",
			audience: TargetedAt(RoleMerchant, userA),
			viewer:   NewViewerContext(RoleMerchant, userB, "b"),
			want:     false,
		},
		{
			name:     "targeted rejects anonymous viewer",
			audience: TargetedAt(RoleVisitor, userA),
			viewer:   AnonymousViewer(),
			want:     false,
		},
		{
			name:     "targeted rejects matching user under wrong role",
			audience: TargetedAt(RoleMerchant, userA),
			viewer:   NewViewerContext(RoleAdmin, userA, "a"),
			want:     false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.audience.Matches(tc.viewer))
		})
	}
}

func TestCanAdvance(t *testing.T) {
	cases := []struct {
		name string
		from NotificationType
		to   NotificationType
		want bool
	}{
		{"fresh cycle to submitted", "", NotificationTypeProductSubmitted, true},
		{"fresh cycle to edited", "", NotificationTypeProductEdited, true},
		{"approval with no open step", "", NotificationTypeProductApproved, true},
		{"submitted to approved", NotificationTypeProductSubmitted, NotificationTypeProductApproved, true},
		{"edited to approved", NotificationTypeProductEdited, NotificationTypeProductApproved, true},
		{"approved to edited", NotificationTypeProductApproved, NotificationTypeProductEdited, true},
		{"submitted to edited", NotificationTypeProductSubmitted, NotificationTypeProductEdited, false},
		{"approved to submitted", NotificationTypeProductApproved, NotificationTypeProductSubmitted, false},
		{"unknown type", "product_exploded", NotificationTypeProductApproved, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanAdvance(tc.from, tc.to))
		})
	}
}

func TestParseNotificationType(t *testing.T) {
	parsed, err := ParseNotificationType("product_submitted")
	assert.NoError(t, err)
	assert.Equal(t, NotificationTypeProductSubmitted, parsed)

	_, err = ParseNotificationType("product_exploded")
	assert.Error(t, err)
}

func TestNotificationAudienceRoundTrip(t *testing.T) {
	userA := uuid.New()
	targeted := Notification{Role: RoleMerchant, UserID: &userA}
	broadcast := Notification{Role: RoleAdmin}

	assert.True(t, targeted.Audience().Targeted())
	assert.True(t, targeted.Audience().Matches(NewViewerContext(RoleMerchant, userA, "a")))
	assert.False(t, broadcast.Audience().Targeted())
	assert.True(t, broadcast.Audience().Matches(NewViewerContext(RoleAdmin, uuid.New(), "root")))
}
