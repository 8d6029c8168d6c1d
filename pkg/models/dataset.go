package models

// Dataset is the entire persisted application state, stored as one JSON
// document under a single storage key. The activity log is deliberately
// absent: it never survives a restart except where it is already embedded
// in saved StandupReport snapshots.
//
// There is no schema version field. Fields added or removed across
// versions simply load as zero values or are dropped.
type Dataset struct {
	Ideas          []*Idea          `json:"ideas"`
	Requirements   []*Requirement   `json:"requirements"`
	Tickets        []*Ticket        `json:"tickets"`
	Sprints        []*Sprint        `json:"sprints"`
	Users          []*User          `json:"users"`
	Organizations  []*Organization  `json:"organizations"`
	StandupHistory []*StandupReport `json:"standup_history"`
	Notifications  []*Notification  `json:"notifications"`
}
