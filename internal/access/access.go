// Package access holds the pure authorization rules for channels and
// messages. Nothing here performs I/O or returns errors; callers resolve
// entities first and ask yes/no questions.
package access

import (
	"github.com/alfredjeanlab/relay/internal/model"
)

// CanRead reports whether who may read ch: every identity on a public
// channel; members and the creator on a private one. The creator is
// implicitly authorized even when absent from the member set.
func CanRead(ch *model.Channel, who model.Identity) bool {
	if !ch.IsPrivate() {
		return true
	}
	if who.ID == "" {
		return false
	}
	return ch.HasMember(who.ID) || ch.Creator.ID == who.ID
}

// CanWrite reports whether who may post into ch. Posting requires the same
// visibility/membership relation as reading.
func CanWrite(ch *model.Channel, who model.Identity) bool {
	return CanRead(ch, who)
}

// IsCreator reports whether who created the entity owned by creator.
// It gates channel rename/describe, membership changes, channel delete,
// and message edit/delete.
func IsCreator(creator model.Identity, who model.Identity) bool {
	return creator.ID != "" && creator.ID == who.ID
}
