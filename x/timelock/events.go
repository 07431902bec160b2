package timelock

import (
	"strings"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
	"github.com/tendermint/tendermint/libs/common"
)

// tagPrefix is used by the keys of all tags created from events.
const tagPrefix = "timelock/"

var _ orm.Model = (*Event)(nil)

// Validate ensures the event kind is known.
func (m *Event) Validate() error {
	if _, ok := EventKind_name[int32(m.Kind)]; !ok || m.Kind == EventInvalid {
		return errors.Wrapf(errors.ErrState, "invalid event kind %d", m.Kind)
	}
	if err := m.Time.Validate(); err != nil {
		return errors.Wrap(err, "time")
	}
	return nil
}

// EventBucket is the audit log. Events are stored in the order they were
// emitted and are never modified.
type EventBucket struct {
	orm.ModelBucket
	seq orm.Sequence
}

// NewEventBucket returns a bucket for managing the audit log.
func NewEventBucket() EventBucket {
	seq := orm.NewSequence("events", "id")
	return EventBucket{
		ModelBucket: orm.NewModelBucket("events", &Event{}, orm.WithIDSequence(seq)),
		seq:         seq,
	}
}

// Emit appends given event to the audit log.
func (b EventBucket) Emit(db vault.KVStore, ev *Event) error {
	if _, err := b.Put(db, nil, ev); err != nil {
		return errors.Wrapf(err, "cannot emit %s event", ev.Kind)
	}
	return nil
}

// Mark returns the position of the last event in the audit log. Use it
// together with Since to find events emitted by an operation.
func (b EventBucket) Mark(db vault.ReadOnlyKVStore) (uint64, error) {
	return b.seq.Latest(db)
}

// Since returns all events emitted after given mark, in the order they
// were emitted.
func (b EventBucket) Since(db vault.ReadOnlyKVStore, mark uint64) ([]*Event, error) {
	it, err := b.IterRange(db, orm.EncodeSequence(mark+1), nil)
	if err != nil {
		return nil, errors.Wrap(err, "iterator")
	}
	return loadEvents(it)
}

// Events returns the full audit log.
func (b EventBucket) Events(db vault.ReadOnlyKVStore) ([]*Event, error) {
	it, err := b.IterAll(db)
	if err != nil {
		return nil, errors.Wrap(err, "iterator")
	}
	return loadEvents(it)
}

func loadEvents(it orm.ModelIterator) ([]*Event, error) {
	defer it.Release()
	var res []*Event
	for {
		var ev Event
		switch _, err := it.LoadNext(&ev); {
		case err == nil:
			res = append(res, &ev)
		case errors.ErrIteratorDone.Is(err):
			return res, nil
		default:
			return nil, errors.Wrap(err, "load next")
		}
	}
}

// EventTags returns the tag representation of given events. The key of
// each tag is the event kind, the value is the serialized event.
func EventTags(events []*Event) ([]common.KVPair, error) {
	tags := make([]common.KVPair, 0, len(events))
	for _, ev := range events {
		raw, err := proto.Marshal(ev)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrModel, "cannot marshal event: %s", err)
		}
		tags = append(tags, common.KVPair{
			Key:   []byte(tagPrefix + strings.ToLower(ev.Kind.String())),
			Value: raw,
		})
	}
	return tags, nil
}

// EventsFromTags returns all events represented by given tags. Tags that
// were not created by EventTags are ignored.
func EventsFromTags(tags []common.KVPair) ([]*Event, error) {
	var res []*Event
	for _, t := range tags {
		if !strings.HasPrefix(string(t.Key), tagPrefix) {
			continue
		}
		var ev Event
		if err := proto.Unmarshal(t.Value, &ev); err != nil {
			return nil, errors.Wrapf(errors.ErrModel, "cannot unmarshal %s tag: %s", t.Key, err)
		}
		res = append(res, &ev)
	}
	return res, nil
}
