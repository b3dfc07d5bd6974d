package editor

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/plotgrid/pkg/errors"
)

// Field names an editable item field.
type Field string

// Editable fields.
const (
	FieldX       Field = "x"
	FieldY       Field = "y"
	FieldWidth   Field = "width"
	FieldHeight  Field = "height"
	FieldType    Field = "type"
	FieldChannel Field = "channel"
)

// Fields lists the editable fields in form order.
var Fields = []Field{FieldX, FieldY, FieldWidth, FieldHeight, FieldType, FieldChannel}

var fieldAliases = map[string]Field{
	"x":             FieldX,
	"y":             FieldY,
	"w":             FieldWidth,
	"width":         FieldWidth,
	"h":             FieldHeight,
	"height":        FieldHeight,
	"type":          FieldType,
	"channel":       FieldChannel,
	"channelnumber": FieldChannel,
}

// ParseField resolves a field name. Matching is case-insensitive and
// accepts the short forms w and h and the stored name channelNumber.
func ParseField(s string) (Field, error) {
	if f, ok := fieldAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidField,
		"unknown field %q (must be x, y, width, height, type or channel)", s)
}

// Numeric reports whether the field holds geometry.
func (f Field) Numeric() bool {
	switch f {
	case FieldX, FieldY, FieldWidth, FieldHeight:
		return true
	}
	return false
}

var leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// parseLeadingFloat reads the number at the start of s, ignoring leading
// whitespace and any trailing text, so "0.3abc" is 0.3. Text without a
// leading number, and numbers that overflow, are 0.
func parseLeadingFloat(s string) float64 {
	m := leadingFloat.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0
	}
	return v
}
