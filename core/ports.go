package core

import (
	"time"

	"github.com/google/uuid"
)

// IDProvider hands out identifiers for records the engines create.
// Implementations must be safe for concurrent use.
type IDProvider interface {
	NewID() string
}

type Clock interface {
	Now() time.Time
}

// UUIDProvider issues random v4 UUIDs.
type UUIDProvider struct{}

func (UUIDProvider) NewID() string { return uuid.NewString() }

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// IDProviderFunc adapts a plain function to IDProvider.
type IDProviderFunc func() string

func (f IDProviderFunc) NewID() string { return f() }

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }
