package lang

import (
	"strings"
	"sync"
)

// A ListID is an opaque handle for an interned language list.
type ListID uint32

// EmptyListID refers to the empty language list.
const EmptyListID ListID = 0

// listCache interns parsed language lists process-wide. Styles and
// collections only ever carry ListIDs, so repeated layout calls with the
// same language preferences never re-parse.
var listCache = struct {
	sync.Mutex
	ids   map[string]ListID
	lists [][]Tag
}{
	ids:   map[string]ListID{"": EmptyListID},
	lists: [][]Tag{nil}, // index 0 = empty list
}

// MakeList parses a comma-separated list of BCP-47 tags ("en-US,zh-Hans")
// and returns its interned id. The same input always yields the same id.
// Malformed entries are dropped; an input with no usable entry maps to
// EmptyListID.
func MakeList(spec string) ListID {
	listCache.Lock()
	defer listCache.Unlock()
	if id, ok := listCache.ids[spec]; ok {
		return id
	}
	var tags []Tag
	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		t, err := Parse(entry)
		if err != nil {
			tracer().Infof("ignoring malformed language tag %q: %v", entry, err)
			continue
		}
		tags = append(tags, t)
	}
	if len(tags) == 0 {
		listCache.ids[spec] = EmptyListID
		return EmptyListID
	}
	id := ListID(len(listCache.lists))
	listCache.lists = append(listCache.lists, tags)
	listCache.ids[spec] = id
	return id
}

// ListByID resolves an interned id back to its language list. Unknown ids
// resolve to the empty list.
func ListByID(id ListID) []Tag {
	listCache.Lock()
	defer listCache.Unlock()
	if int(id) >= len(listCache.lists) {
		return nil
	}
	return listCache.lists[id]
}
