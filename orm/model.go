package orm

import (
	"regexp"

	"github.com/gogo/protobuf/proto"
)

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	proto.Message

	// Validate returns an error if the model state is not valid and
	// must not be persisted.
	Validate() error
}

var isBucketName = regexp.MustCompile(`^[a-z_]{3,16}$`).MatchString

// dbKey returns the database key of an entity stored in given bucket.
func dbKey(bucket string, key []byte) []byte {
	prefix := bucket + ":"
	res := make([]byte, 0, len(prefix)+len(key))
	res = append(res, prefix...)
	return append(res, key...)
}

// prefixRange returns the [start, end) range covering all keys with given
// prefix.
func prefixRange(prefix []byte) ([]byte, []byte) {
	start := append([]byte{}, prefix...)
	end := append([]byte{}, prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xFF {
			end[i]++
			return start, end[:i+1]
		}
	}
	// Prefix consists of 0xFF bytes only, there is no upper bound.
	return start, nil
}
