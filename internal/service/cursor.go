package service

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// CursorSeparator is the delimiter used to separate resource and offset in the cursor
const CursorSeparator = ":"

// DecodeCursor decodes a base64-encoded cursor string into resource and offset components.
// The cursor format is: base64(resource:offset)
func DecodeCursor(cursor string) (resource string, offset int, err error) {
	decoded, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return "", 0, fmt.Errorf("%w: failed to decode cursor: %v", ErrInvalidQuery, err)
	}

	parts := strings.SplitN(string(decoded), CursorSeparator, 2)
	if len(parts) != 2 {
		return "", 0, fmt.Errorf("%w: invalid cursor format: expected resource:offset", ErrInvalidQuery)
	}

	offset, err = strconv.Atoi(parts[1])
	if err != nil || offset < 0 {
		return "", 0, fmt.Errorf("%w: invalid cursor offset", ErrInvalidQuery)
	}

	return parts[0], offset, nil
}

// EncodeCursor encodes a resource and offset into a base64 cursor string
func EncodeCursor(resource string, offset int) string {
	cursorValue := resource + CursorSeparator + strconv.Itoa(offset)
	return base64.RawURLEncoding.EncodeToString([]byte(cursorValue))
}
