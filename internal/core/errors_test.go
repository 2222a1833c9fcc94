package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"spoyt/pkg/musiclink"
)

func TestError_Is(t *testing.T) {
	err := fmt.Errorf("lookup: %w", NewError(KindForbidden, musiclink.PlatformYouTube, "q", errors.New("quota")))

	if !errors.Is(err, ErrForbidden) {
		t.Error("errors.Is(err, ErrForbidden) = false")
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrProviderUnreachable) {
		t.Error("Forbidden error matched another kind")
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Kind
	}{
		{"Classified", NewError(KindNotFound, musiclink.PlatformSpotify, "x", nil), KindNotFound},
		{"Malformed from extractor", fmt.Errorf("%w: no v", musiclink.ErrMalformedURL), KindMalformedURL},
		{"Unrecognized from extractor", musiclink.ErrUnrecognizedInput, KindUnrecognizedInput},
		{"Bare sentinel", ErrForbidden, KindForbidden},
		{"Deadline", context.DeadlineExceeded, KindProviderUnreachable},
		{"Unknown", errors.New("boom"), KindProviderUnreachable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := KindOf(tt.err); result != tt.expected {
				t.Errorf("KindOf() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestAtLeg_KeepsClassification(t *testing.T) {
	base := NewError(KindForbidden, musiclink.PlatformYouTube, "id", context.DeadlineExceeded)

	tagged := atLeg(base, musiclink.PlatformSpotify, LegVideoSearch)
	if tagged.Kind != KindForbidden || tagged.Platform != musiclink.PlatformYouTube || tagged.Leg != LegVideoSearch {
		t.Errorf("atLeg() = %+v", tagged)
	}
	if base.Leg != "" {
		t.Error("atLeg() modified its input")
	}
	if !IsTimeout(tagged) {
		t.Error("IsTimeout() lost the wrapped cause")
	}
}
