package domain

import (
	"net/url"
	"strings"

	"github.com/go-faster/errors"
)

var ErrInvalidLineID = errors.New("invalid line id")

const lineIDSep = "|"

// LineID identifies a cart line: one variant of one product.
type LineID struct {
	ProductID string
	Color     string
	Size      string
}

func ResolveLineID(productID, color, size string) LineID {
	return LineID{ProductID: productID, Color: color, Size: size}
}

// String joins the escaped components with "|". Query escaping always
// encodes "|", so the separator never appears inside a component.
func (id LineID) String() string {
	return url.QueryEscape(id.ProductID) + lineIDSep +
		url.QueryEscape(id.Color) + lineIDSep +
		url.QueryEscape(id.Size)
}

func ParseLineID(s string) (LineID, error) {
	parts := strings.Split(s, lineIDSep)
	if len(parts) != 3 {
		return LineID{}, errors.Wrapf(ErrInvalidLineID, "%q", s)
	}

	var out [3]string
	for i, p := range parts {
		v, err := url.QueryUnescape(p)
		if err != nil {
			return LineID{}, errors.Wrapf(ErrInvalidLineID, "%q: %v", s, err)
		}
		out[i] = v
	}
	return LineID{ProductID: out[0], Color: out[1], Size: out[2]}, nil
}

func (id LineID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *LineID) UnmarshalText(b []byte) error {
	parsed, err := ParseLineID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
