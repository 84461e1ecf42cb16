package entity

import "time"

// Attachment file metadata bound to a claim. File content lives in the
// blob store; FilePath is the object key there.
type Attachment struct {
	ID      string `json:"id" gorm:"primaryKey;size:32"`
	ClaimID string `json:"claim_id" gorm:"size:32;not null;index"`

	Kind        string `json:"kind" gorm:"size:32;not null;default:document"`
	FileName    string `json:"file_name" gorm:"size:256;not null"`
	FilePath    string `json:"file_path" gorm:"size:512;not null"`
	FileSize    int64  `json:"file_size"`
	ContentType string `json:"content_type" gorm:"size:100"`

	UploadedBy string    `json:"uploaded_by" gorm:"size:32"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Attachment) TableName() string {
	return "warranty_claim_attachments"
}

// Attachment kinds. Supplementary documentation is the only kind accepted
// after a claim has been sealed.
const (
	AttachmentKindDocument      = "document"
	AttachmentKindPhoto         = "photo"
	AttachmentKindInvoice       = "invoice"
	AttachmentKindSupplementary = "supplementary"
)
