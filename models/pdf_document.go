package models

import (
	"time"
)

// PdfDocument ist ein hochgeladenes Referenz-PDF im S3-Bucket.
// PMID ist optional; Dokumente ohne PMID können über den
// delete-by-pmid-Endpunkt nicht gelöscht werden.
type PdfDocument struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UploadedAt time.Time `json:"uploaded_at" gorm:"autoCreateTime;index"`

	PMID *string `json:"pmid" gorm:"column:pmid;uniqueIndex"`

	FileName string `json:"file_name"`
	// Menschlich lesbare Größe, z. B. "1.2 MB" (so liefert es das Dashboard aus)
	FileSize string `json:"file_size"`
	// Exakte Größe in Bytes für interne Zwecke
	SizeBytes int64 `json:"-"`

	// Best-effort über PubMed ESummary angereichert
	Title string `json:"title,omitempty" gorm:"type:text"`

	S3Key  string `json:"-" gorm:"not null"`
	S3Link string `json:"s3_link,omitempty"`
}
