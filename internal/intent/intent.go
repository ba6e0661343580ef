// Package intent routes inbound text by keyword matching.
package intent

import "strings"

// Intent is the routing label for an inbound text message.
type Intent int

const (
	PlainChat Intent = iota
	IdentityQuestion
	StickerRequest
	FunReaction
	ImageRequest
)

func (i Intent) String() string {
	switch i {
	case IdentityQuestion:
		return "identity"
	case StickerRequest:
		return "sticker"
	case FunReaction:
		return "fun"
	case ImageRequest:
		return "image"
	default:
		return "chat"
	}
}

var (
	identityTriggers = []string{"kim yaratgan", "qachon yaratilgan"}
	stickerTriggers  = []string{"stiker"}
	funTriggers      = []string{"haha", "😂", "kul", "qiziq"}
	imageTriggers    = []string{"rasm chiz", "rasm yarat", "chizib ber", "rasm qil"}
)

// Classify assigns exactly one label to the text. Matching is
// case-insensitive substring matching, first match wins:
// identity > sticker > fun > image > plain chat. Identity and sticker come
// first so those paths skip the completion round trip entirely.
func Classify(text string) Intent {
	lower := strings.ToLower(text)

	switch {
	case containsAny(lower, identityTriggers):
		return IdentityQuestion
	case containsAny(lower, stickerTriggers):
		return StickerRequest
	case containsAny(lower, funTriggers):
		return FunReaction
	case containsAny(lower, imageTriggers):
		return ImageRequest
	default:
		return PlainChat
	}
}

func containsAny(lower string, triggers []string) bool {
	for _, t := range triggers {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}
