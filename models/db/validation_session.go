package dbmodels

// ValidationSession is an ordered append log (conversation transcript between
// the founder and the validation crew). Version advances by exactly one per
// committed message; writers serialize through a conditional update on it.
type ValidationSession struct {
	BaseSpaceModel
	ProjectID string `gorm:"type:varchar(36);index"`
	Version   int64  `gorm:"not null;default:0"`
}

type SessionMessage struct {
	BaseModel
	SessionID string `gorm:"type:varchar(36);uniqueIndex:idx_session_message,priority:1"`
	MessageID string `gorm:"type:varchar(64);uniqueIndex:idx_session_message,priority:2"`
	// Version the message was committed at; replayed requests answer from here.
	Version int64 `gorm:"not null"`
	Payload JSONB `gorm:"type:jsonb"`
}
