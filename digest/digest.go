// Package digest defines the hashing and field encoding primitives that every
// block and transaction identifier in the chain is derived from. All digests
// are SHA-256 applied twice and rendered as lowercase hexadecimal.
package digest

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	sha256 "github.com/minio/sha256-simd"
)

// Sep is the separator used when encoding header fields.
const Sep = '`'

// escape is used to escape separators (and itself) inside field values.
const escape = '\\'

// Size of a Hash in hexadecimal characters.
const Size = 2 * sha256.Size

// Hash is the lowercase hex encoding of a double SHA-256 digest. Parent hashes
// also use this type, so the sentinel "genesis" is a valid (non-digest) Hash.
type Hash string

// String implements the `fmt.Stringer` interface for the Hash type.
func (hash Hash) String() string {
	return string(hash)
}

// Short returns a prefix of the Hash that is suitable for logging.
func (hash Hash) Short() string {
	if len(hash) <= 8 {
		return string(hash)
	}
	return string(hash[:8])
}

// DoubleHash returns the double SHA-256 digest of the text.
func DoubleHash(text string) Hash {
	return DoubleHashBytes([]byte(text))
}

// DoubleHashBytes returns the double SHA-256 digest of the data.
func DoubleHashBytes(data []byte) Hash {
	first := sha256.Sum256(data)
	second := sha256.Sum256(first[:])
	return Hash(hex.EncodeToString(second[:]))
}

// EncodeFields joins the canonical string form of every field using the
// separator. Backslashes and separators inside a field are escaped with a
// backslash, so distinct field tuples always produce distinct encodings. A
// field that contains neither is written verbatim.
func EncodeFields(sep byte, fields ...interface{}) string {
	builder := strings.Builder{}
	for i, field := range fields {
		if i > 0 {
			builder.WriteByte(sep)
		}
		writeEscaped(&builder, sep, Format(field))
	}
	return builder.String()
}

// AppendFields appends fields to a prefix that has already been encoded with
// the separator. The prefix is written verbatim, and only the new fields are
// escaped.
func AppendFields(prefix string, sep byte, fields ...interface{}) string {
	builder := strings.Builder{}
	builder.WriteString(prefix)
	for _, field := range fields {
		builder.WriteByte(sep)
		writeEscaped(&builder, sep, Format(field))
	}
	return builder.String()
}

// Format returns the canonical string form of a header field.
func Format(field interface{}) string {
	switch v := field.(type) {
	case nil:
		return ""
	case string:
		return v
	case Hash:
		return string(v)
	case bool:
		if v {
			return "True"
		}
		return "False"
	case int:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case *big.Int:
		if v == nil {
			return "0"
		}
		return v.String()
	case []byte:
		return hex.EncodeToString(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func writeEscaped(builder *strings.Builder, sep byte, value string) {
	if strings.IndexByte(value, sep) < 0 && strings.IndexByte(value, escape) < 0 {
		builder.WriteString(value)
		return
	}
	for i := 0; i < len(value); i++ {
		if value[i] == sep || value[i] == escape {
			builder.WriteByte(escape)
		}
		builder.WriteByte(value[i])
	}
}
