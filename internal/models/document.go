package models

import "time"

type DocumentType string

const (
	DocumentTypeContract DocumentType = "contract"
	DocumentTypeProposal DocumentType = "proposal"
	DocumentTypeBrief    DocumentType = "brief"
	DocumentTypeOther    DocumentType = "other"
)

type ProcessingStatus string

const (
	ProcessingPending    ProcessingStatus = "pending"
	ProcessingInProgress ProcessingStatus = "processing"
	ProcessingCompleted  ProcessingStatus = "completed"
	ProcessingError      ProcessingStatus = "error"
)

// ProjectDocument is an uploaded artifact (contract, proposal) together
// with its extraction status and result payload. Confidence is only
// meaningful when Status is completed.
type ProjectDocument struct {
	ID        uint64       `gorm:"primarykey" json:"id"`
	ProjectID uint64       `gorm:"not null;index" json:"project_id"`
	Type      DocumentType `gorm:"type:varchar(50);not null" json:"type"`
	FileName  string       `gorm:"type:varchar(200)" json:"file_name"`
	FileURL   string       `gorm:"type:text" json:"file_url"`

	DriveFileID     string           `gorm:"type:varchar(200)" json:"drive_file_id"`
	ExtractedText   string           `gorm:"type:text" json:"extracted_text"`
	ExtractedData   *ExtractedData   `gorm:"type:text" json:"extracted_data"`
	Status          ProcessingStatus `gorm:"column:ai_processing_status;type:varchar(50);not null;default:'pending'" json:"ai_processing_status"`
	ConfidenceScore int              `gorm:"column:ai_confidence_score" json:"ai_confidence_score"`

	UploadedAt  time.Time  `gorm:"autoCreateTime" json:"uploaded_at"`
	ProcessedAt *time.Time `json:"processed_at"`

	Project Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
}
