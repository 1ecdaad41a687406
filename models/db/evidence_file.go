package dbmodels

type EvidenceFile struct {
	BaseSpaceModel
	ApprovalID  string `gorm:"type:varchar(36);index"`
	Name        string
	ContentType string `gorm:"type:varchar(100)"`
	Size        int64
}
