package payload

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// DecodeError reports base64 input that could not be decoded. It is returned
// to the caller only; inspection views present it next to the payload.
type DecodeError struct {
	Offset int64
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("decode base64 payload: illegal data at input byte %d", e.Offset)
	}
	return fmt.Sprintf("decode base64 payload: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// DecodeBase64 decodes standard, padded base64. Leading and trailing
// whitespace is ignored; anything else outside the alphabet is rejected,
// including line breaks inside the text, which encoding/base64 would skip.
func DecodeBase64(text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		corrupt := base64.CorruptInputError(i)
		return nil, &DecodeError{Offset: int64(i), Err: corrupt}
	}
	data, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		var corrupt base64.CorruptInputError
		if errors.As(err, &corrupt) {
			return nil, &DecodeError{Offset: int64(corrupt), Err: err}
		}
		return nil, &DecodeError{Offset: -1, Err: err}
	}
	return data, nil
}

// EncodeBase64 is the inverse of DecodeBase64.
func EncodeBase64(buf []byte) string {
	return base64.StdEncoding.EncodeToString(buf)
}

// ToHex renders each byte as two upper-case hex digits separated by spaces.
func ToHex(buf []byte) string {
	return fmt.Sprintf("% X", buf)
}
