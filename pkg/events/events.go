// Package events defines the outbound event contract of the booking engine.
// Events are fire-and-forget signals for the real-time fan-out layer; their
// delivery is not part of the engine's consistency guarantees.
package events

import (
	"context"
	"fmt"
)

const (
	// RKCalendarChanged is published after any booking create/cancel. The
	// payload carries no data; consumers recompute their calendar view.
	RKCalendarChanged = "calendar.changed"
)

// RKMatchScore returns the per-match topic for score updates.
func RKMatchScore(matchID uint) string {
	return fmt.Sprintf("match.%d.score", matchID)
}

// RKMemberNotification returns the per-member notification topic.
func RKMemberNotification(memberID uint) string {
	return fmt.Sprintf("notification.member.%d", memberID)
}

// MatchScoreUpdated is the payload on RKMatchScore topics.
type MatchScoreUpdated struct {
	MatchID uint `json:"match_id"`
	Score1  int  `json:"score1"`
	Score2  int  `json:"score2"`
}

// MemberNotification is the payload on RKMemberNotification topics.
type MemberNotification struct {
	MemberID uint   `json:"member_id"`
	Message  string `json:"message"`
}

// Publisher pushes events to the fan-out layer. Implementations must be safe
// for concurrent use. Errors are the publisher's problem: callers fire and
// forget.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any)
	Close() error
}

// Nop discards every event. Used in tests and when no broker is configured.
type Nop struct{}

func (Nop) Publish(ctx context.Context, routingKey string, payload any) {}
func (Nop) Close() error                                                { return nil }
