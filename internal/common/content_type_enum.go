package common

import "strings"

// MessageType is the kind of a chat message
type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeImage MessageType = "image"
)

func (mt MessageType) String() string {
	return string(mt)
}

func (mt MessageType) IsValid() bool {
	return mt == MessageTypeText || mt == MessageTypeImage
}

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/heic": true,
}

// IsAllowedImage reports whether a MIME type can be sent as an image message.
func IsAllowedImage(mimeType string) bool {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	if mt == "image/jpg" {
		return true
	}
	return allowedImageTypes[mt]
}
