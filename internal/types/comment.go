package types

import (
	"fmt"
	"strings"
	"time"
)

// CommentType classifies a comment container.
type CommentType string

const (
	CommentInitial CommentType = "initial"
	CommentReply   CommentType = "reply"
	CommentUnknown CommentType = "unknown"
)

// ParseCommentType converts a string into a CommentType.
func ParseCommentType(s string) (CommentType, error) {
	switch CommentType(s) {
	case CommentInitial, CommentReply, CommentUnknown:
		return CommentType(s), nil
	default:
		return "", fmt.Errorf("unknown comment type %q", s)
	}
}

// MissingIDPrefix prefixes the placeholder id given to comments whose
// identifier could not be recovered.
const MissingIDPrefix = "missing_id_"

// UnknownTimestamp is the timestamp text used when no timestamp link is found.
const UnknownTimestamp = "Unknown Timestamp"

// CommentRecord is one extracted comment or reply.
type CommentRecord struct {
	ID            string      `json:"id"`
	ParentID      *string     `json:"parent_id"`
	Text          string      `json:"text"`
	TimestampText string      `json:"timestamp_text"`
	ReactionCount int         `json:"reaction_count"`
	CommentType   CommentType `json:"comment_type"`
}

// MissingID returns the placeholder id for the container at index.
func MissingID(index int) string {
	return fmt.Sprintf("%s%d", MissingIDPrefix, index)
}

// HasPlaceholderID reports whether the record id was synthesized.
func (r *CommentRecord) HasPlaceholderID() bool {
	return strings.HasPrefix(r.ID, MissingIDPrefix)
}

// Parent returns the parent id, or "" for records without one.
func (r *CommentRecord) Parent() string {
	if r.ParentID == nil {
		return ""
	}
	return *r.ParentID
}

// Pass is the output of one extraction pass over one snapshot.
type Pass struct {
	// ID uniquely identifies the pass (run id in database sinks).
	ID string

	// Source names the snapshot the pass ran over (file path, tab URL, "api").
	Source string

	// ExtractedAt is when the pass finished.
	ExtractedAt time.Time

	// Found is the number of candidate comment containers.
	Found int

	// Records are the emitted comment records, in document order.
	Records []CommentRecord
}
