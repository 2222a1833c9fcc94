package core

import (
	"context"
	"errors"
	"fmt"

	"spoyt/pkg/musiclink"
)

// Kind is the closed set of failure categories a resolution leg can end in.
type Kind string

const (
	KindNotFound            Kind = "NotFound"
	KindProviderUnreachable Kind = "ProviderUnreachable"
	KindForbidden           Kind = "Forbidden"
	KindMalformedURL        Kind = "MalformedUrl"
	KindUnrecognizedInput   Kind = "UnrecognizedInput"
)

var (
	// ErrNotFound means the provider answered but had no matching entity.
	ErrNotFound = errors.New("not found")
	// ErrProviderUnreachable means the call failed in transport or returned nothing usable.
	ErrProviderUnreachable = errors.New("provider unreachable")
	// ErrForbidden means the provider denied the request (quota, revoked credentials).
	ErrForbidden = errors.New("forbidden")
	// ErrMalformedURL means the id could not be extracted from a recognized URL.
	ErrMalformedURL = musiclink.ErrMalformedURL
	// ErrUnrecognizedInput means the input matched no supported platform or shape.
	ErrUnrecognizedInput = musiclink.ErrUnrecognizedInput

	// ErrEmptyPayload is the cause of a ProviderUnreachable raised for a successful but empty response.
	ErrEmptyPayload = errors.New("empty payload")
)

var kindSentinels = map[Kind]error{
	KindNotFound:            ErrNotFound,
	KindProviderUnreachable: ErrProviderUnreachable,
	KindForbidden:           ErrForbidden,
	KindMalformedURL:        ErrMalformedURL,
	KindUnrecognizedInput:   ErrUnrecognizedInput,
}

// Kinds lists every error kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindNotFound, KindProviderUnreachable, KindForbidden, KindMalformedURL, KindUnrecognizedInput}
}

// Leg names one step of a resolution pipeline.
type Leg string

const (
	LegExtract     Leg = "extract"
	LegTrackLookup Leg = "track-lookup"
	LegPlaylist    Leg = "playlist-lookup"
	LegOwnerLookup Leg = "owner-lookup"
	LegTrackMatch  Leg = "track-match"
	LegVideoSearch Leg = "video-search"
	LegMusicSearch Leg = "music-search"
	LegMusicLookup Leg = "music-lookup"
)

// legOrder fixes the reporting order of leg errors.
var legOrder = map[Leg]int{
	LegExtract:     0,
	LegTrackLookup: 1,
	LegPlaylist:    2,
	LegOwnerLookup: 3,
	LegMusicLookup: 4,
	LegVideoSearch: 5,
	LegMusicSearch: 6,
	LegTrackMatch:  7,
}

// Error is a classified failure of one provider call or pipeline leg.
type Error struct {
	Kind     Kind
	Platform musiclink.Platform
	Leg      Leg
	ID       string // Entity id or query the call was about, if any.
	Err      error
}

// NewError creates a classified error.
func NewError(kind Kind, platform musiclink.Platform, id string, err error) *Error {
	return &Error{Kind: kind, Platform: platform, ID: id, Err: err}
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Platform != "" {
		msg = fmt.Sprintf("%s %s", e.Platform, msg)
	}
	if e.Leg != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Leg)
	}
	if e.ID != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.ID)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's kind, so errors.Is(err, ErrNotFound) works.
func (e *Error) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

// KindOf maps any error to its Kind. Unclassified errors count as ProviderUnreachable.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	for _, kind := range Kinds() {
		if errors.Is(err, kindSentinels[kind]) {
			return kind
		}
	}
	return KindProviderUnreachable
}

// IsTimeout reports whether err stems from a deadline or cancellation.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

// atLeg returns err as an *Error tagged with leg, keeping an existing classification.
func atLeg(err error, platform musiclink.Platform, leg Leg) *Error {
	var e *Error
	if errors.As(err, &e) {
		tagged := *e
		tagged.Leg = leg
		if tagged.Platform == "" {
			tagged.Platform = platform
		}
		return &tagged
	}
	return &Error{Kind: KindOf(err), Platform: platform, Leg: leg, Err: err}
}
